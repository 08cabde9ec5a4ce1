package mocks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/aoterocom/AOForexSignals/models"
)

// GatewayMock serves canned quotes and histories; symbols without data return an error
type GatewayMock struct {
	mu        sync.Mutex
	Quotes    map[string]models.Quote
	Histories map[string][]models.HistoryPoint
	Errors    map[string]error
	calls     int32
}

func NewGatewayMock() *GatewayMock {
	return &GatewayMock{
		Quotes:    make(map[string]models.Quote),
		Histories: make(map[string][]models.HistoryPoint),
		Errors:    make(map[string]error),
	}
}

// WithSeries registers a quote at price and a history built from closes (oldest first)
func (gm *GatewayMock) WithSeries(symbol string, price float64, closes ...float64) *GatewayMock {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.Quotes[symbol] = models.Quote{Symbol: symbol, Price: price, Volume: 1000}
	gm.Histories[symbol] = HistoryFromCloses(closes...)
	return gm
}

func (gm *GatewayMock) WithError(symbol string, err error) *GatewayMock {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.Errors[symbol] = err
	return gm
}

func (gm *GatewayMock) Calls() int {
	return int(atomic.LoadInt32(&gm.calls))
}

func (gm *GatewayMock) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	atomic.AddInt32(&gm.calls, 1)
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if err := gm.Errors[symbol]; err != nil {
		return models.Quote{}, err
	}
	quote, ok := gm.Quotes[symbol]
	if !ok {
		return models.Quote{}, fmt.Errorf("no quote for %s", symbol)
	}
	return quote, nil
}

func (gm *GatewayMock) GetHistory(ctx context.Context, symbol string, days int) ([]models.HistoryPoint, error) {
	atomic.AddInt32(&gm.calls, 1)
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if err := gm.Errors[symbol]; err != nil {
		return nil, err
	}
	history := gm.Histories[symbol]
	if len(history) > days {
		history = history[len(history)-days:]
	}
	return append([]models.HistoryPoint(nil), history...), nil
}

func HistoryFromCloses(closes ...float64) []models.HistoryPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	history := make([]models.HistoryPoint, len(closes))
	for i, price := range closes {
		history[i] = models.HistoryPoint{Date: start.AddDate(0, 0, i), Price: price, Volume: 1000}
	}
	return history
}
