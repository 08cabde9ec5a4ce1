package mocks

import (
	"context"
	"errors"

	"gitlab.com/aoterocom/AOForexSignals/models"
)

// PaymentMock answers purchases and restores with fixed results
type PaymentMock struct {
	Connected   bool
	Purchased   models.PurchaseResult
	Restored    models.RestoreResult
	Err         error
	PurchaseHit int
}

func NewPaymentMock(succeed bool) *PaymentMock {
	mock := &PaymentMock{Connected: true}
	if succeed {
		mock.Purchased = models.PurchaseResult{Success: true, TransactionID: "tx-mock"}
		mock.Restored = models.RestoreResult{Success: true, HasPremium: true}
	} else {
		mock.Purchased = models.PurchaseResult{Success: false, Error: "payment declined"}
		mock.Restored = models.RestoreResult{Success: true, HasPremium: false}
	}
	return mock
}

func (pm *PaymentMock) Connect(ctx context.Context) error {
	pm.Connected = true
	return nil
}

func (pm *PaymentMock) IsConnected() bool {
	return pm.Connected
}

func (pm *PaymentMock) Purchase(ctx context.Context) (models.PurchaseResult, error) {
	pm.PurchaseHit++
	if !pm.Connected {
		return models.PurchaseResult{}, errors.New("payment mock not connected")
	}
	return pm.Purchased, pm.Err
}

func (pm *PaymentMock) Restore(ctx context.Context) (models.RestoreResult, error) {
	if !pm.Connected {
		return models.RestoreResult{}, errors.New("payment mock not connected")
	}
	return pm.Restored, pm.Err
}
