package paper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
)

var _ interfaces.PaymentProvider = &PaperPaymentService{}

func TestPaperRequiresConnection(t *testing.T) {
	service := NewPaperPaymentService(true)
	assert.Equal(t, Disconnected, service.State())

	_, err := service.Purchase(context.Background())
	assert.True(t, errors.Is(err, ErrNotConnected))
	_, err = service.Restore(context.Background())
	assert.True(t, errors.Is(err, ErrNotConnected))
}

func TestPaperPurchaseAndRestore(t *testing.T) {
	ctx := context.Background()
	service := NewPaperPaymentService(true)
	require.NoError(t, service.Connect(ctx))
	assert.True(t, service.IsConnected())

	restored, err := service.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, restored.HasPremium)

	result, err := service.Purchase(ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.TransactionID, "paper-"))

	restored, err = service.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, restored.HasPremium)
}

func TestPaperDeclinedPurchase(t *testing.T) {
	ctx := context.Background()
	service := NewPaperPaymentService(false)
	require.NoError(t, service.Connect(ctx))

	result, err := service.Purchase(ctx)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestPaperConnectionFailure(t *testing.T) {
	service := NewPaperPaymentService(true)
	service.FailConnections(errors.New("billing unavailable"))

	assert.Error(t, service.Connect(context.Background()))
	assert.Equal(t, Failed, service.State())
	assert.Equal(t, "failed", service.State().String())

	service.FailConnections(nil)
	require.NoError(t, service.Connect(context.Background()))
	service.Disconnect()
	assert.False(t, service.IsConnected())
}
