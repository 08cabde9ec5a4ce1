package synthetic

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"gitlab.com/aoterocom/AOForexSignals/models"
)

var basePrices = map[string]float64{
	"EUR/USD": 1.08,
	"GBP/USD": 1.26,
	"USD/JPY": 150.0,
	"XAU/USD": 2000.0,
	"US30":    35000.0,
}

// SyntheticService produces reproducible prices around a per-symbol anchor. The same
// symbol and date always yield the same value.
type SyntheticService struct {
	now func() time.Time
}

func NewSyntheticService() *SyntheticService {
	return &SyntheticService{now: time.Now}
}

// NewSyntheticServiceAt pins the service clock, mostly for tests
func NewSyntheticServiceAt(now func() time.Time) *SyntheticService {
	return &SyntheticService{now: now}
}

func BasePrice(symbol string) float64 {
	if price, ok := basePrices[symbol]; ok {
		return price
	}
	return 1.0
}

func (ss *SyntheticService) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	if err := ctx.Err(); err != nil {
		return models.Quote{}, err
	}
	today := ss.now().UTC()
	lastClose := ss.closeAt(symbol, today)
	return models.Quote{
		Symbol:    symbol,
		Price:     lastClose * (1 + 0.002*noise(symbol, today.Format("2006-01-02T15"), "quote")),
		Volume:    volumeAt(symbol, today),
		Synthetic: true,
	}, nil
}

// GetHistory returns one point per calendar day ending today
func (ss *SyntheticService) GetHistory(ctx context.Context, symbol string, days int) ([]models.HistoryPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, fmt.Errorf("invalid history length %d", days)
	}
	today := truncateDay(ss.now().UTC())
	history := make([]models.HistoryPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		history = append(history, models.HistoryPoint{
			Date:   date,
			Price:  ss.closeAt(symbol, date),
			Volume: volumeAt(symbol, date),
		})
	}
	return history, nil
}

func (ss *SyntheticService) closeAt(symbol string, date time.Time) float64 {
	return BasePrice(symbol) * (1 + 0.01*noise(symbol, date.Format("2006-01-02"), "close"))
}

func volumeAt(symbol string, date time.Time) float64 {
	return 1000000 * (1.5 + noise(symbol, date.Format("2006-01-02"), "volume"))
}

// noise maps its parts to a value in [-1, 1)
func noise(parts ...string) float64 {
	hash := fnv.New64a()
	for _, part := range parts {
		_, _ = hash.Write([]byte(part))
		_, _ = hash.Write([]byte{0})
	}
	return float64(hash.Sum64()%1000000)/500000 - 1
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
