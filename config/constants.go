package config

import (
	"time"

	"gitlab.com/aoterocom/AOForexSignals/helpers"
)

const (
	AppName    = "Trading ProAnalytics"
	AppVersion = "1.0.0"

	// PredictionThreshold is the minimum confidence for a signal to be emitted
	PredictionThreshold = 0.6
	HistoryDays         = 30
	AverageWindow       = 5

	SubscriptionPrice      = 6.99
	SubscriptionDays       = 7
	SubscriptionMarketDays = 5
	ProductID              = "com.tradingproanalytics.premium.weekly"

	MaxNotifications = 50

	// PerformanceDays is the window covered by performance statistics
	PerformanceDays         = 30
	PerformanceHistoryLimit = 500

	DataRefreshInterval   = 30 * time.Second
	SignalRefreshInterval = time.Minute
	TickInterval          = 10 * time.Minute
)

var PremiumPairs = []string{
	"XAU/USD",
	"US30",
	"EUR/JPY",
	"GBP/JPY",
	"AUD/JPY",
	"NZD/JPY",
	"EUR/GBP",
	"GBP/CHF",
	"EUR/CHF",
	"USD/SGD",
}

var StandardPairs = []string{"EUR/USD", "GBP/USD", "USD/JPY", "AUD/USD", "USD/CAD", "NZD/USD"}

// AllPairs returns standard pairs followed by premium ones
func AllPairs() []string {
	pairs := make([]string, 0, len(StandardPairs)+len(PremiumPairs))
	pairs = append(pairs, StandardPairs...)
	return append(pairs, PremiumPairs...)
}

func IsPremiumPair(pair string) bool {
	return helpers.Contains(PremiumPairs, pair)
}
