package model

// Reply is one outbound chat message: plain text, or a photo/document
// attachment with a caption. Attachments are produced by reporting only.
type Reply struct {
	Text string

	PhotoPNG     []byte
	PhotoCaption string

	Document        []byte
	DocumentName    string
	DocumentCaption string
}

// TextReply builds a plain text reply.
func TextReply(text string) Reply {
	return Reply{Text: text}
}
