package fmp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

const DefaultBaseURL = "https://financialmodelingprep.com/api/v3"

var ErrEmptyPayload = errors.New("empty payload")

type quoteResponse struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

type historicalResponse struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string  `json:"date"`
		Close  float64 `json:"close"`
		Volume float64 `json:"volume"`
	} `json:"historical"`
}

// FMPService reads forex quotes from Financial Modeling Prep
type FMPService struct {
	client *resty.Client
	apiKey string
}

func NewFMPService(baseURL string, apiKey string, timeout time.Duration) *FMPService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FMPService{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		apiKey: apiKey,
	}
}

// Ticker converts "EUR/USD" to "EURUSD"
func Ticker(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

func (fs *FMPService) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	var quotes []quoteResponse
	resp, err := fs.client.R().
		SetContext(ctx).
		SetQueryParam("apikey", fs.apiKey).
		SetResult(&quotes).
		Get("/quote/" + Ticker(symbol))
	if err != nil {
		return models.Quote{}, fmt.Errorf("fmp quote %s: %w", symbol, err)
	}
	if resp.IsError() {
		return models.Quote{}, fmt.Errorf("fmp quote %s: status %d", symbol, resp.StatusCode())
	}
	if len(quotes) == 0 {
		return models.Quote{}, fmt.Errorf("fmp quote %s: %w", symbol, ErrEmptyPayload)
	}
	return models.Quote{Symbol: symbol, Price: quotes[0].Price, Volume: quotes[0].Volume}, nil
}

func (fs *FMPService) GetHistory(ctx context.Context, symbol string, days int) ([]models.HistoryPoint, error) {
	var payload historicalResponse
	resp, err := fs.client.R().
		SetContext(ctx).
		SetQueryParam("apikey", fs.apiKey).
		SetQueryParam("timeseries", strconv.Itoa(days)).
		SetResult(&payload).
		Get("/historical-price-full/" + Ticker(symbol))
	if err != nil {
		return nil, fmt.Errorf("fmp history %s: %w", symbol, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fmp history %s: status %d", symbol, resp.StatusCode())
	}
	if len(payload.Historical) == 0 {
		return nil, fmt.Errorf("fmp history %s: %w", symbol, ErrEmptyPayload)
	}

	// payload is newest first
	history := make([]models.HistoryPoint, 0, len(payload.Historical))
	for i := len(payload.Historical) - 1; i >= 0; i-- {
		entry := payload.Historical[i]
		date, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			return nil, fmt.Errorf("fmp history %s: bad date %q: %w", symbol, entry.Date, err)
		}
		history = append(history, models.HistoryPoint{Date: date, Price: entry.Close, Volume: entry.Volume})
	}
	if len(history) > days {
		history = history[len(history)-days:]
	}
	return history, nil
}
