package notifier

import (
	"fmt"
	"strings"

	"MarathonTracker/internal/model"
)

// CommandList is appended to help and status replies.
const CommandList = "/add – report a balance\n" +
	"/stats – weekly statistics\n" +
	"/report – chart and report\n" +
	"/export – spreadsheet export\n" +
	"/reset – wipe all data"

// FormatStatus formats the /start reply when a marathon is already running.
func FormatStatus(userName string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Hi, %s! 👋\n", userName))
	b.WriteString("Your financial marathon is already running.\n")
	b.WriteString("Available commands:\n")
	b.WriteString(CommandList)
	return b.String()
}

// FormatWelcome formats the first setup prompt.
func FormatWelcome(userName, currency string) string {
	return fmt.Sprintf("Hi, %s! 👋\nLet's start your financial marathon 💰\n\nEnter your starting balance (%s):", userName, currency)
}

// FormatSetupSummary formats the confirmation shown when setup completes.
func FormatSetupSummary(p *model.MarathonParams, userName, currency string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("✅ Great, %s!\n", userName))
	b.WriteString(fmt.Sprintf("Balance: %s%s\n", p.StartBalance.StringFixed(2), currency))
	b.WriteString(fmt.Sprintf("Start date: %s\n", p.StartDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Daily target: %s%%\n", p.DailyPercent.String()))
	b.WriteString(fmt.Sprintf("Duration: %d days\n\n", p.DurationDays))
	b.WriteString("I'll remind you every morning and evening to report your balance.\n")
	b.WriteString("You can also use /add or /stats any time.")
	return b.String()
}

// FormatEntryPrompt formats the balance request for the given marathon day.
func FormatEntryPrompt(e *model.BalanceEntry) string {
	return fmt.Sprintf("📅 Day %d of the marathon (%s)\nEnter your current balance 💵", e.Day, e.Date.Format("2006-01-02"))
}

// FormatDayResult formats the plan-vs-actual comparison for a saved entry.
func FormatDayResult(e *model.BalanceEntry, currency string) string {
	var b strings.Builder
	if e.Diff.Sign() >= 0 {
		b.WriteString(fmt.Sprintf("✅ <b>Day %d done!</b>\n", e.Day))
		b.WriteString(fmt.Sprintf("Plan: %s%s\n", e.Planned.StringFixed(2), currency))
		b.WriteString(fmt.Sprintf("Actual: %s%s\n", e.Actual.StringFixed(2), currency))
		b.WriteString(fmt.Sprintf("Ahead by: +%s%s", e.Diff.StringFixed(2), currency))
	} else {
		b.WriteString(fmt.Sprintf("⚠️ <b>Day %d: behind plan</b>\n", e.Day))
		b.WriteString(fmt.Sprintf("Plan: %s%s\n", e.Planned.StringFixed(2), currency))
		b.WriteString(fmt.Sprintf("Actual: %s%s\n", e.Actual.StringFixed(2), currency))
		b.WriteString(fmt.Sprintf("Deviation: %s%s", e.Diff.StringFixed(2), currency))
	}
	return b.String()
}

// FormatReminderGreeting formats the reminder lead-in for the trigger.
func FormatReminderGreeting(trigger model.Trigger, userName string) string {
	switch trigger {
	case model.TriggerMorning:
		return fmt.Sprintf("Good morning, %s ☀️\nWhat's your balance this morning?", userName)
	case model.TriggerEvening:
		return fmt.Sprintf("Good evening, %s 🌙\nWhat's your final balance for today?", userName)
	default:
		return ""
	}
}
