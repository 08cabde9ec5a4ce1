package binance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

var ErrUnsupportedPair = errors.New("pair is not listed on binance")

// Fiat and gold pairs tracked through their USDT-quoted spot markets
var markets = map[string]string{
	"EUR/USD": "EURUSDT",
	"GBP/USD": "GBPUSDT",
	"AUD/USD": "AUDUSDT",
	"XAU/USD": "PAXGUSDT",
}

type BinanceService struct {
	binanceClient *binance.Client
}

func NewBinanceService(apiKey string, apiSecret string) *BinanceService {
	return &BinanceService{
		binanceClient: binance.NewClient(apiKey, apiSecret),
	}
}

// NewBinanceServiceWithBaseURL points the client to another REST endpoint
func NewBinanceServiceWithBaseURL(apiKey string, apiSecret string, baseURL string) *BinanceService {
	binanceService := NewBinanceService(apiKey, apiSecret)
	binanceService.binanceClient.BaseURL = baseURL
	return binanceService
}

func Market(symbol string) (string, error) {
	market, ok := markets[symbol]
	if !ok {
		return "", fmt.Errorf("%s: %w", symbol, ErrUnsupportedPair)
	}
	return market, nil
}

func (binanceService *BinanceService) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	market, err := Market(symbol)
	if err != nil {
		return models.Quote{}, err
	}
	stats, err := binanceService.binanceClient.NewListPriceChangeStatsService().Symbol(market).Do(ctx)
	if err != nil {
		return models.Quote{}, fmt.Errorf("binance ticker %s: %w", market, err)
	}
	if len(stats) == 0 {
		return models.Quote{}, fmt.Errorf("binance ticker %s: empty response", market)
	}

	price, err := strconv.ParseFloat(stats[0].LastPrice, 64)
	if err != nil {
		return models.Quote{}, err
	}
	volume, err := strconv.ParseFloat(stats[0].Volume, 64)
	if err != nil {
		return models.Quote{}, err
	}
	return models.Quote{Symbol: symbol, Price: price, Volume: volume}, nil
}

func (binanceService *BinanceService) GetHistory(ctx context.Context, symbol string, days int) ([]models.HistoryPoint, error) {
	market, err := Market(symbol)
	if err != nil {
		return nil, err
	}
	klines, err := binanceService.binanceClient.NewKlinesService().Symbol(market).
		Interval("1d").Limit(days).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", market, err)
	}

	history := make([]models.HistoryPoint, 0, len(klines))
	for _, k := range klines {
		price, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, err
		}
		volume, err := strconv.ParseFloat(k.Volume, 64)
		if err != nil {
			return nil, err
		}
		history = append(history, models.HistoryPoint{
			Date:   time.Unix(k.OpenTime/1000, 0).UTC(),
			Price:  price,
			Volume: volume,
		})
	}
	return history, nil
}
