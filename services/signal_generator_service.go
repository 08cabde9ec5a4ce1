package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gitlab.com/aoterocom/AOForexSignals/config"
	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/metrics"
	"gitlab.com/aoterocom/AOForexSignals/models"
	"gitlab.com/aoterocom/AOForexSignals/strategies/indicators"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMarketClosed = errors.New("market is closed")
	ErrNoData       = errors.New("no signal could be generated from market data")
)

type SignalGeneratorService struct {
	clock     *MarketClock
	gateway   interfaces.MarketDataGateway
	scorer    interfaces.Scorer
	threshold float64
	days      int
	workers   int
}

func NewSignalGeneratorService(clock *MarketClock, gateway interfaces.MarketDataGateway, scorer interfaces.Scorer,
	threshold float64, historyDays int, workers int) *SignalGeneratorService {
	if workers <= 0 {
		workers = 1
	}
	return &SignalGeneratorService{
		clock:     clock,
		gateway:   gateway,
		scorer:    scorer,
		threshold: threshold,
		days:      historyDays,
		workers:   workers,
	}
}

// Generate returns one signal per symbol that had usable data and passed the threshold.
// Symbols are processed concurrently, so the output order is not significant.
func (sgs *SignalGeneratorService) Generate(ctx context.Context, symbols []string, now time.Time) ([]models.Signal, error) {
	if !sgs.clock.IsOpen(now) {
		return nil, ErrMarketClosed
	}

	var mu sync.Mutex
	signals := make([]models.Signal, 0, len(symbols))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(sgs.workers)
	for _, symbol := range symbols {
		symbol := symbol
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			signal, ok := sgs.generateSignal(groupCtx, symbol, now)
			if !ok {
				return nil
			}
			mu.Lock()
			signals = append(signals, signal)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if len(signals) == 0 {
		return nil, ErrNoData
	}
	return signals, nil
}

func (sgs *SignalGeneratorService) generateSignal(ctx context.Context, symbol string, now time.Time) (models.Signal, bool) {
	quote, err := sgs.gateway.GetQuote(ctx, symbol)
	if err != nil {
		sgs.skip(symbol, "quote", err)
		return models.Signal{}, false
	}
	if quote.Price <= 0 {
		sgs.skip(symbol, "price", fmt.Errorf("non positive price %f", quote.Price))
		return models.Signal{}, false
	}
	history, err := sgs.gateway.GetHistory(ctx, symbol, sgs.days)
	if err != nil {
		sgs.skip(symbol, "history", err)
		return models.Signal{}, false
	}
	if len(history) == 0 {
		sgs.skip(symbol, "history", errors.New("empty history"))
		return models.Signal{}, false
	}

	avgPrice := indicators.LastAverage(indicators.SeriesFromHistory(history), config.AverageWindow)
	if avgPrice <= 0 {
		sgs.skip(symbol, "history", fmt.Errorf("non positive average %f", avgPrice))
		return models.Signal{}, false
	}

	input := models.ScoreInput{
		Symbol:   symbol,
		Price:    quote.Price,
		AvgPrice: avgPrice,
		Volume:   quote.Volume,
		History:  history,
	}
	confidence := sgs.scorer.Score(input)
	probability := helpers.ClampInt(int(math.Round(60+confidence*35)), 60, 95)
	if float64(probability)/100 < sgs.threshold {
		metrics.SignalsRejected.WithLabelValues(symbol).Inc()
		helpers.Logger.Debugln(fmt.Sprintf("%s: probability %d%% below threshold", symbol, probability))
		return models.Signal{}, false
	}

	signal := BuildSignal(symbol, quote.Price, avgPrice, probability, now)
	if err := signal.Validate(); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("Discarding generated signal: %s", err.Error()))
		return models.Signal{}, false
	}
	metrics.SignalsGenerated.WithLabelValues(symbol, string(signal.Direction)).Inc()
	return signal, true
}

func (sgs *SignalGeneratorService) skip(symbol string, reason string, err error) {
	metrics.SymbolsSkipped.WithLabelValues(symbol, reason).Inc()
	helpers.Logger.Warnln(fmt.Sprintf("Skipping %s: %s", symbol, err.Error()))
}

// PipSize is 0.01 for yen crosses and 0.0001 otherwise
func PipSize(symbol string) float64 {
	if strings.Contains(symbol, "JPY") {
		return 0.01
	}
	return 0.0001
}

// BuildSignal derives direction and price levels from the current price and its recent average
func BuildSignal(symbol string, price float64, avgPrice float64, probability int, now time.Time) models.Signal {
	volatility := math.Abs(price-avgPrice) / avgPrice
	riskFactor := 100 * PipSize(symbol) * (1 + 2*volatility)

	direction, sign, trend := models.SideTypeSell, -1.0, "Bearish"
	if price > avgPrice {
		direction, sign, trend = models.SideTypeBuy, 1.0, "Bullish"
	}

	takeProfit2 := price + sign*2*riskFactor
	signal := models.Signal{
		ID:          uuid.NewString(),
		Pair:        symbol,
		Direction:   direction,
		EntryPrice:  price,
		TakeProfit1: price + sign*riskFactor,
		TakeProfit2: &takeProfit2,
		StopLoss:    price - sign*0.8*riskFactor,
		Probability: probability,
		GeneratedAt: now,
		Status:      models.SignalStatusActive,
		IsPremium:   config.IsPremiumPair(symbol),
	}
	signal.Analysis = fmt.Sprintf("%s trend on %s: price %.5f vs %d-day average %.5f. Risk/Reward 1:%.2f",
		trend, symbol, price, config.AverageWindow, avgPrice, signal.RiskReward())
	return signal
}
