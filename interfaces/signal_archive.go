package interfaces

import (
	"context"

	"gitlab.com/aoterocom/AOForexSignals/models"
)

// SignalArchive keeps every generated batch for later analysis
type SignalArchive interface {
	AddSignals(ctx context.Context, signals []models.Signal) error
}

// SignalHistory reads archived signals back, newest first. An empty pair means every pair.
type SignalHistory interface {
	GetSignalHistory(ctx context.Context, pair string, limit int) ([]models.Signal, error)
}
