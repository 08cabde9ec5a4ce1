package interfaces

import (
	"context"

	"gitlab.com/aoterocom/AOForexSignals/models"
)

type PaymentProvider interface {
	Connect(ctx context.Context) error
	IsConnected() bool
	Purchase(ctx context.Context) (models.PurchaseResult, error)
	Restore(ctx context.Context) (models.RestoreResult, error)
}
