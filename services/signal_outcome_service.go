package services

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

// SignalOutcomeService closes active signals whose take profit or stop loss was reached
type SignalOutcomeService struct {
	clock   *MarketClock
	gateway interfaces.MarketDataGateway
	store   *SignalStoreService
}

func NewSignalOutcomeService(clock *MarketClock, gateway interfaces.MarketDataGateway, store *SignalStoreService) *SignalOutcomeService {
	return &SignalOutcomeService{clock: clock, gateway: gateway, store: store}
}

// Evaluate returns the signals completed in this pass
func (sos *SignalOutcomeService) Evaluate(ctx context.Context, now time.Time) []models.Signal {
	if !sos.clock.IsOpen(now) {
		return nil
	}

	var completed []models.Signal
	for _, signal := range sos.store.GetActive(ctx, now) {
		if !signal.IsActive() {
			continue
		}
		quote, err := sos.gateway.GetQuote(ctx, signal.Pair)
		if err != nil || quote.Price <= 0 {
			continue
		}
		trigger := ExitTriggerFor(signal, quote.Price)
		if trigger == models.ExitTriggerNone {
			continue
		}
		if sos.store.Complete(ctx, signal.ID, trigger) {
			helpers.Logger.Infoln(fmt.Sprintf("%s %s closed by %s at %.5f", signal.Pair, signal.Direction, trigger, quote.Price))
			signal.Status = models.SignalStatusCompleted
			signal.ExitTrigger = trigger
			completed = append(completed, signal)
		}
	}
	return completed
}

// ExitTriggerFor checks the price against the first take profit and the stop loss
func ExitTriggerFor(signal models.Signal, price float64) models.ExitTrigger {
	switch signal.Direction {
	case models.SideTypeBuy:
		if price >= signal.TakeProfit1 {
			return models.ExitTriggerTakeProfit
		}
		if price <= signal.StopLoss {
			return models.ExitTriggerStopLoss
		}
	case models.SideTypeSell:
		if price <= signal.TakeProfit1 {
			return models.ExitTriggerTakeProfit
		}
		if price >= signal.StopLoss {
			return models.ExitTriggerStopLoss
		}
	}
	return models.ExitTriggerNone
}
