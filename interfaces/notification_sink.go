package interfaces

import (
	"context"

	"gitlab.com/aoterocom/AOForexSignals/models"
)

// NotificationSink forwards notifications outside the process on a best-effort basis
type NotificationSink interface {
	Deliver(ctx context.Context, notification models.Notification) error
}
