package synthetic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 3, 10, 15, 0, 0, time.UTC)
}

func TestSyntheticHistoryIsDeterministic(t *testing.T) {
	service := NewSyntheticServiceAt(fixedNow)
	first, err := service.GetHistory(context.Background(), "EUR/USD", 30)
	require.NoError(t, err)
	second, err := NewSyntheticServiceAt(fixedNow).GetHistory(context.Background(), "EUR/USD", 30)
	require.NoError(t, err)

	require.Len(t, first, 30)
	assert.Equal(t, first, second)
	assert.True(t, first[0].Date.Before(first[29].Date))
	assert.Equal(t, "2024-01-03", first[29].Date.Format("2006-01-02"))
	for _, point := range first {
		assert.InDelta(t, 1.08, point.Price, 1.08*0.01+1e-9)
		assert.Greater(t, point.Volume, 0.0)
	}
}

func TestSyntheticQuote(t *testing.T) {
	service := NewSyntheticServiceAt(fixedNow)
	quote, err := service.GetQuote(context.Background(), "USD/JPY")
	require.NoError(t, err)
	assert.True(t, quote.Synthetic)
	assert.InDelta(t, 150.0, quote.Price, 150*0.013)

	other, err := service.GetQuote(context.Background(), "NZD/USD")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, other.Price, 0.013)
}

func TestSyntheticInvalidDays(t *testing.T) {
	_, err := NewSyntheticService().GetHistory(context.Background(), "EUR/USD", 0)
	assert.Error(t, err)
}

func TestBasePrice(t *testing.T) {
	assert.Equal(t, 35000.0, BasePrice("US30"))
	assert.Equal(t, 1.0, BasePrice("EUR/CHF"))
}
