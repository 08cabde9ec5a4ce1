package services

import (
	"time"

	"gitlab.com/aoterocom/AOForexSignals/models"
)

// MarketClock derives forex market status from wall-clock time, always evaluated in UTC
type MarketClock struct{}

func NewMarketClock() *MarketClock {
	return &MarketClock{}
}

// Status: closed from Friday 21:00 to Sunday 22:00 UTC. Session rules are applied in
// order Asian, London [7,16), New York [13,21) and the last match wins, so the
// London/New York overlap reports New York.
func (mc *MarketClock) Status(now time.Time) models.MarketStatus {
	utc := now.UTC()
	day, hour := utc.Weekday(), utc.Hour()

	if day == time.Saturday || (day == time.Friday && hour >= 21) || (day == time.Sunday && hour < 22) {
		return models.MarketStatus{IsOpen: false}
	}

	session := models.SessionAsian
	if hour >= 7 && hour < 16 {
		session = models.SessionLondon
	}
	if hour >= 13 && hour < 21 {
		session = models.SessionNewYork
	}
	return models.MarketStatus{IsOpen: true, Session: &session}
}

func (mc *MarketClock) IsOpen(now time.Time) bool {
	return mc.Status(now).IsOpen
}

// TradingDay is the UTC calendar date used to count subscription market days
func (mc *MarketClock) TradingDay(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}
