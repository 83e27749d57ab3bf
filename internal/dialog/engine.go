// Package dialog drives the bot's conversations: the multi-step marathon
// setup and the balance-entry flow, plus the one-shot report commands.
// Conversation state lives in per-chat sessions; nothing is persisted
// until a flow reaches its terminal step.
package dialog

import (
	"log"
	"strings"
	"sync"
	"time"

	"MarathonTracker/internal/ledger"
	"MarathonTracker/internal/model"
	"MarathonTracker/internal/notifier"
	"MarathonTracker/internal/report"

	"github.com/shopspring/decimal"
)

type state int

const (
	stateIdle state = iota
	stateSetupBalance
	stateSetupDate
	stateSetupPercent
	stateSetupDuration
	stateEntryBalance
)

// sessionTTL bounds how long an unfinished dialog survives; a message
// arriving later than this restarts from the idle state.
const sessionTTL = 30 * time.Minute

// session holds one chat's transient conversation state.
type session struct {
	state      state
	lastActive time.Time

	// collected setup fields
	startBalance decimal.Decimal
	startDate    time.Time
	dailyPercent decimal.Decimal

	// pinned entry-flow context, read from the live params on entry
	entryDay  int
	entryDate time.Time
	planStart decimal.Decimal
	planPct   decimal.Decimal
}

func (s *session) reset() {
	*s = session{lastActive: s.lastActive}
}

// Rescheduler installs the periodic reminders for a chat. Implemented by
// the scheduler; the engine only ever asks for a (re-)registration.
type Rescheduler interface {
	Reschedule(chatID int64) error
}

// Engine is the conversation controller.
type Engine struct {
	Store ledger.Store
	Sched Rescheduler      // optional, nil disables reminder registration
	Now   func() time.Time // injectable clock, defaults to time.Now

	mu       sync.Mutex
	sessions map[int64]*session
	userName string
	currency string
}

// NewEngine creates an Engine over the given ledger store.
func NewEngine(store ledger.Store, userName, currency string) *Engine {
	return &Engine{
		Store:    store,
		Now:      time.Now,
		sessions: make(map[int64]*session),
		userName: userName,
		currency: currency,
	}
}

// HandleMessage processes one inbound chat message and returns the
// replies to deliver.
func (e *Engine) HandleMessage(chatID int64, text string) []model.Reply {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.session(chatID)
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		// A command always cancels whatever dialog was in flight.
		sess.reset()
		return e.handleCommand(sess, chatID, text)
	}

	switch sess.state {
	case stateSetupBalance:
		return e.setupBalance(sess, text)
	case stateSetupDate:
		return e.setupDate(sess, text)
	case stateSetupPercent:
		return e.setupPercent(sess, text)
	case stateSetupDuration:
		return e.setupDuration(sess, chatID, text)
	case stateEntryBalance:
		return e.entryBalance(sess, text)
	default:
		return reply("I don't have an open question for you.\n" + notifier.CommandList)
	}
}

// HandleReminder is the scheduler's entry point into the balance flow.
func (e *Engine) HandleReminder(chatID int64, trigger model.Trigger) []model.Reply {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.session(chatID)
	sess.reset()
	return e.beginEntry(sess, trigger)
}

func (e *Engine) handleCommand(sess *session, chatID int64, text string) []model.Reply {
	// Strip a "@botname" suffix from group-style commands.
	cmd := text
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/start":
		return e.startSetup(sess)
	case "/add":
		return e.beginEntry(sess, model.TriggerCommand)
	case "/stats":
		return e.weeklyStats()
	case "/report", "/export":
		return e.fullReport()
	case "/reset":
		return e.resetAll()
	default:
		return reply("Unknown command. Here's what I can do:\n" + notifier.CommandList)
	}
}

func (e *Engine) weeklyStats() []model.Reply {
	entries, err := e.Store.ListEntries()
	if err != nil {
		return e.storageFailure("list entries", err)
	}
	if len(entries) == 0 {
		return reply("No data yet. Add a balance with /add")
	}
	return reply(report.Weekly(entries, e.currency))
}

func (e *Engine) fullReport() []model.Reply {
	entries, err := e.Store.ListEntries()
	if err != nil {
		return e.storageFailure("list entries", err)
	}
	if len(entries) == 0 {
		return reply("No data for a report yet 📄")
	}

	var replies []model.Reply
	png, err := report.Chart(entries, e.currency)
	switch {
	case err == report.ErrNotEnoughData:
		replies = append(replies, model.TextReply("Report two days of balances and I'll draw the chart 📈"))
	case err != nil:
		log.Printf("[ERROR] render chart: %v", err)
		replies = append(replies, model.TextReply("⚠️ Couldn't draw the chart this time."))
	default:
		replies = append(replies, model.Reply{PhotoPNG: png, PhotoCaption: "📈 Your marathon chart"})
	}

	xlsx, err := report.Excel(entries)
	if err != nil {
		log.Printf("[ERROR] export excel: %v", err)
		replies = append(replies, model.TextReply("⚠️ Couldn't build the Excel report."))
		return replies
	}
	replies = append(replies, model.Reply{
		Document:        xlsx,
		DocumentName:    report.ExcelFileName,
		DocumentCaption: "📄 Excel report ready!",
	})
	return replies
}

func (e *Engine) resetAll() []model.Reply {
	if err := e.Store.ClearAll(); err != nil {
		return e.storageFailure("clear all", err)
	}
	return reply("🔁 All data wiped. To start over, send /start")
}

// session returns the chat's session, discarding a stale in-flight dialog.
func (e *Engine) session(chatID int64) *session {
	now := e.Now()
	sess, ok := e.sessions[chatID]
	if !ok {
		sess = &session{}
		e.sessions[chatID] = sess
	} else if sess.state != stateIdle && now.Sub(sess.lastActive) > sessionTTL {
		sess.reset()
	}
	sess.lastActive = now
	return sess
}

func (e *Engine) storageFailure(op string, err error) []model.Reply {
	log.Printf("[ERROR] ledger %s: %v", op, err)
	return reply("⚠️ Something went wrong while accessing your data. Please try again.")
}

func reply(text string) []model.Reply {
	return []model.Reply{model.TextReply(text)}
}
