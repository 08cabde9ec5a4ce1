package services

import (
	"strings"
	"time"

	"gitlab.com/aoterocom/AOForexSignals/models"
)

const demoIDPrefix = "demo-"

// IsDemoSignal reports whether a signal belongs to the demo batch
func IsDemoSignal(signal models.Signal) bool {
	return strings.HasPrefix(signal.ID, demoIDPrefix)
}

// DemoSignals is the fixed batch shown when no market data produced a signal
func DemoSignals(now time.Time) []models.Signal {
	eurTP2, gbpTP2 := 1.1025, 1.2450
	return []models.Signal{
		{
			ID:          demoIDPrefix + "1",
			Pair:        "EUR/USD",
			Direction:   models.SideTypeBuy,
			EntryPrice:  1.0825,
			StopLoss:    1.0725,
			TakeProfit1: 1.0925,
			TakeProfit2: &eurTP2,
			Probability: 85,
			GeneratedAt: now,
			Status:      models.SignalStatusActive,
			Analysis:    "Demo signal. Strong upward momentum with support at 1.0725",
		},
		{
			ID:          demoIDPrefix + "2",
			Pair:        "GBP/USD",
			Direction:   models.SideTypeSell,
			EntryPrice:  1.2650,
			StopLoss:    1.2750,
			TakeProfit1: 1.2550,
			TakeProfit2: &gbpTP2,
			Probability: 78,
			GeneratedAt: now,
			Status:      models.SignalStatusActive,
			Analysis:    "Demo signal. Bearish divergence below resistance at 1.2750",
		},
	}
}
