package interfaces

import (
	"context"

	"gitlab.com/aoterocom/AOForexSignals/models"
)

// MarketDataGateway supplies quotes and daily history for a currency pair symbol ("EUR/USD")
type MarketDataGateway interface {
	GetQuote(ctx context.Context, symbol string) (models.Quote, error)
	// GetHistory returns at most days points ordered oldest to newest
	GetHistory(ctx context.Context, symbol string, days int) ([]models.HistoryPoint, error)
}
