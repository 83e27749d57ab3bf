package model

// Trigger indicates what started a balance-entry flow.
type Trigger string

const (
	TriggerCommand Trigger = "COMMAND"
	TriggerMorning Trigger = "MORNING"
	TriggerEvening Trigger = "EVENING"
)
