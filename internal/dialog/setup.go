package dialog

import (
	"log"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"MarathonTracker/internal/model"
	"MarathonTracker/internal/notifier"
)

// startSetup begins the setup flow, or short-circuits with a status
// message when a marathon is already configured.
func (e *Engine) startSetup(sess *session) []model.Reply {
	params, err := e.Store.Params()
	if err != nil {
		return e.storageFailure("read params", err)
	}
	if params != nil {
		return reply(notifier.FormatStatus(e.userName))
	}
	sess.state = stateSetupBalance
	return reply(notifier.FormatWelcome(e.userName, e.currency))
}

func (e *Engine) setupBalance(sess *session, text string) []model.Reply {
	balance, err := decimal.NewFromString(text)
	if err != nil || balance.Sign() <= 0 {
		return reply("Enter a positive number, e.g. 300")
	}
	sess.startBalance = balance
	sess.state = stateSetupDate
	return reply("Enter the marathon start date (YYYY-MM-DD):")
}

func (e *Engine) setupDate(sess *session, text string) []model.Reply {
	date, err := time.Parse("2006-01-02", text)
	if err != nil {
		return reply("Wrong format, try like this: 2025-10-29")
	}
	sess.startDate = date
	sess.state = stateSetupPercent
	return reply("Enter the target daily percent (%):")
}

func (e *Engine) setupPercent(sess *session, text string) []model.Reply {
	percent, err := decimal.NewFromString(text)
	if err != nil {
		return reply("Enter a number, e.g. 2")
	}
	sess.dailyPercent = percent
	sess.state = stateSetupDuration
	return reply("How many days will the marathon run?")
}

func (e *Engine) setupDuration(sess *session, chatID int64, text string) []model.Reply {
	duration, err := strconv.Atoi(text)
	if err != nil || duration <= 0 {
		return reply("Enter a whole number, e.g. 90")
	}

	params := &model.MarathonParams{
		StartBalance: sess.startBalance,
		StartDate:    sess.startDate,
		DailyPercent: sess.dailyPercent,
		DurationDays: duration,
	}
	if err := e.Store.ReplaceParams(params); err != nil {
		sess.reset()
		return e.storageFailure("replace params", err)
	}
	sess.reset()

	if e.Sched != nil {
		if err := e.Sched.Reschedule(chatID); err != nil {
			log.Printf("[ERROR] reschedule reminders for chat %d: %v", chatID, err)
		}
	}
	return reply(notifier.FormatSetupSummary(params, e.userName, e.currency))
}
