package dialog

import (
	"github.com/shopspring/decimal"

	"MarathonTracker/internal/calculator"
	"MarathonTracker/internal/model"
	"MarathonTracker/internal/notifier"
)

// beginEntry opens the balance-entry flow for today. Without configured
// params the flow aborts immediately with guidance.
func (e *Engine) beginEntry(sess *session, trigger model.Trigger) []model.Reply {
	params, err := e.Store.Params()
	if err != nil {
		return e.storageFailure("read params", err)
	}

	var replies []model.Reply
	if greeting := notifier.FormatReminderGreeting(trigger, e.userName); greeting != "" {
		replies = append(replies, model.TextReply(greeting))
	}
	if params == nil {
		return append(replies, model.TextReply("Start the marathon first with /start"))
	}

	today := e.Now()
	sess.entryDay = calculator.DayNumber(params.StartDate, today)
	// Entries carry calendar dates, never timestamps; the weekly window
	// arithmetic relies on that.
	sess.entryDate = calculator.Civil(today)
	sess.planStart = params.StartBalance
	sess.planPct = params.DailyPercent
	sess.state = stateEntryBalance

	prompt := notifier.FormatEntryPrompt(&model.BalanceEntry{Day: sess.entryDay, Date: today})
	return append(replies, model.TextReply(prompt))
}

func (e *Engine) entryBalance(sess *session, text string) []model.Reply {
	actual, err := decimal.NewFromString(text)
	if err != nil {
		return reply("Enter a number, e.g. 342.5")
	}

	planned, err := calculator.Planned(sess.planStart, sess.planPct, sess.entryDay)
	if err != nil {
		sess.reset()
		return e.storageFailure("compute plan", err)
	}

	entry := &model.BalanceEntry{
		Day:     sess.entryDay,
		Date:    sess.entryDate,
		Actual:  actual,
		Planned: planned,
		Diff:    actual.Sub(planned),
	}
	if err := e.Store.UpsertEntry(entry); err != nil {
		sess.reset()
		return e.storageFailure("upsert entry", err)
	}
	sess.reset()

	return reply(notifier.FormatDayResult(entry, e.currency) + "\n\n" + motivationTag(entry.Diff))
}

var minusOne = decimal.NewFromInt(-1)

// motivationTag picks the tag for a day's deviation from plan. Zero
// counts as "near plan", and so does exactly -1.
func motivationTag(diff decimal.Decimal) string {
	switch {
	case diff.Sign() > 0:
		return "🔥 Great result! Keep it up!"
	case diff.GreaterThanOrEqual(minusOne):
		return "⚡ Almost on plan, keep going!"
	default:
		return "💪 Consistency is what counts. Tomorrow will be better!"
	}
}
