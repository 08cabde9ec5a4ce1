package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

// 2024-01-05 is a Friday
func utc(day, hour, minute int) time.Time {
	return time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
}

func TestMarketClosedAllSaturday(t *testing.T) {
	clock := NewMarketClock()
	for hour := 0; hour < 24; hour++ {
		status := clock.Status(utc(6, hour, 30))
		assert.False(t, status.IsOpen, "saturday %02d:30", hour)
		assert.Nil(t, status.Session)
	}
}

func TestMarketFridayClose(t *testing.T) {
	clock := NewMarketClock()
	assert.True(t, clock.IsOpen(utc(5, 20, 59)))
	assert.False(t, clock.IsOpen(utc(5, 21, 0)))
	assert.False(t, clock.IsOpen(utc(5, 22, 0)))
}

func TestMarketSundayOpen(t *testing.T) {
	clock := NewMarketClock()
	assert.False(t, clock.IsOpen(utc(7, 21, 59)))
	status := clock.Status(utc(7, 22, 0))
	assert.True(t, status.IsOpen)
	assert.Equal(t, models.SessionAsian, *status.Session)
}

func TestMarketSessions(t *testing.T) {
	clock := NewMarketClock()
	cases := []struct {
		hour    int
		session models.Session
	}{
		{0, models.SessionAsian},
		{6, models.SessionAsian},
		{7, models.SessionLondon},
		{12, models.SessionLondon},
		{13, models.SessionNewYork},
		{15, models.SessionNewYork},
		{16, models.SessionNewYork},
		{20, models.SessionNewYork},
		{21, models.SessionAsian},
		{23, models.SessionAsian},
	}
	for _, c := range cases {
		status := clock.Status(utc(3, c.hour, 0))
		assert.True(t, status.IsOpen)
		assert.Equal(t, string(c.session), status.SessionName(), "hour %d", c.hour)
	}
}

func TestMarketClockUsesUTC(t *testing.T) {
	clock := NewMarketClock()
	tokyo := time.FixedZone("JST", 9*3600)
	// Saturday 06:00 JST is Friday 21:00 UTC
	assert.False(t, clock.IsOpen(time.Date(2024, 1, 6, 6, 0, 0, 0, tokyo)))
	assert.Equal(t, "2024-01-05", clock.TradingDay(time.Date(2024, 1, 6, 6, 0, 0, 0, tokyo)))
}
