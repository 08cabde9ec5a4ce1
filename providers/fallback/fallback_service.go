package fallback

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/metrics"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

// FallbackService bounds every primary call with a timeout and answers from the
// secondary gateway when the primary fails or returns nothing
type FallbackService struct {
	primary   interfaces.MarketDataGateway
	secondary interfaces.MarketDataGateway
	timeout   time.Duration
	degraded  int64
}

func NewFallbackService(primary interfaces.MarketDataGateway, secondary interfaces.MarketDataGateway, timeout time.Duration) *FallbackService {
	return &FallbackService{primary: primary, secondary: secondary, timeout: timeout}
}

// Degraded counts calls answered by the secondary gateway since start
func (fs *FallbackService) Degraded() int64 {
	return atomic.LoadInt64(&fs.degraded)
}

func (fs *FallbackService) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	callCtx, cancel := fs.bound(ctx)
	quote, err := fs.primary.GetQuote(callCtx, symbol)
	cancel()
	if err == nil && quote.Price > 0 {
		return quote, nil
	}
	if err == nil {
		err = fmt.Errorf("non positive price %f", quote.Price)
	}
	if ctx.Err() != nil {
		return models.Quote{}, ctx.Err()
	}

	fs.degrade("quote", symbol, err)
	quote, err = fs.secondary.GetQuote(ctx, symbol)
	if err != nil {
		return models.Quote{}, err
	}
	quote.Synthetic = true
	return quote, nil
}

func (fs *FallbackService) GetHistory(ctx context.Context, symbol string, days int) ([]models.HistoryPoint, error) {
	callCtx, cancel := fs.bound(ctx)
	history, err := fs.primary.GetHistory(callCtx, symbol, days)
	cancel()
	if err == nil && len(history) > 0 {
		return history, nil
	}
	if err == nil {
		err = errors.New("empty history")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fs.degrade("history", symbol, err)
	return fs.secondary.GetHistory(ctx, symbol, days)
}

func (fs *FallbackService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if fs.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, fs.timeout)
}

func (fs *FallbackService) degrade(call string, symbol string, err error) {
	atomic.AddInt64(&fs.degraded, 1)
	metrics.DegradedCalls.WithLabelValues(call).Inc()
	helpers.Logger.Warnln(fmt.Sprintf("Using synthetic %s for %s: %s", call, symbol, err.Error()))
}
