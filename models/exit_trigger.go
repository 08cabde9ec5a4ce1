package models

// ExitTrigger tells why a signal left the active state
type ExitTrigger string

const (
	ExitTriggerTakeProfit ExitTrigger = "Take Profit"
	ExitTriggerStopLoss   ExitTrigger = "Stop Loss"
	ExitTriggerManual     ExitTrigger = "Manual"
	ExitTriggerNone       ExitTrigger = ""
)
