package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gitlab.com/aoterocom/AOForexSignals/config"
	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/metrics"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

const SubscriptionKey = "subscription_data"

var ErrPurchaseFailed = errors.New("purchase was not completed")

type LedgerOptions struct {
	MarketDays     int
	CalendarDays   int
	CancelPolicy   config.CancelPolicy
	TickOncePerDay bool
}

func DefaultLedgerOptions() LedgerOptions {
	return LedgerOptions{
		MarketDays:     config.SubscriptionMarketDays,
		CalendarDays:   config.SubscriptionDays,
		CancelPolicy:   config.CancelPolicyEndOfPeriod,
		TickOncePerDay: true,
	}
}

// SubscriptionLedgerService tracks premium entitlement in market days. Every state change
// happens under mu and is written back to the key value store.
type SubscriptionLedgerService struct {
	mu      sync.Mutex
	clock   *MarketClock
	payment interfaces.PaymentProvider
	kv      interfaces.KeyValueStore
	feed    *NotificationFeedService
	options LedgerOptions
}

func NewSubscriptionLedgerService(clock *MarketClock, payment interfaces.PaymentProvider, kv interfaces.KeyValueStore,
	feed *NotificationFeedService, options LedgerOptions) *SubscriptionLedgerService {
	return &SubscriptionLedgerService{
		clock:   clock,
		payment: payment,
		kv:      kv,
		feed:    feed,
		options: options,
	}
}

func (sls *SubscriptionLedgerService) Purchase(ctx context.Context, now time.Time) (models.SubscriptionState, error) {
	sls.mu.Lock()
	defer sls.mu.Unlock()

	current := sls.read(ctx)
	result, err := sls.payment.Purchase(ctx)
	if err != nil {
		return current, fmt.Errorf("purchasing %s: %w", config.ProductID, err)
	}
	if !result.Success {
		return current, fmt.Errorf("%w: %s", ErrPurchaseFailed, result.Error)
	}

	state := sls.activate(now, result.TransactionID)
	if err := sls.write(ctx, state); err != nil {
		return state, err
	}
	sls.notify(ctx, models.NotificationTypePremium, "Premium Activated",
		fmt.Sprintf("Premium signals unlocked for %d market days", state.MarketDaysRemaining), state)
	return state, nil
}

// Restore re-activates the subscription when the payment provider reports a premium purchase
func (sls *SubscriptionLedgerService) Restore(ctx context.Context, now time.Time) (models.SubscriptionState, error) {
	sls.mu.Lock()
	defer sls.mu.Unlock()

	current := sls.read(ctx)
	result, err := sls.payment.Restore(ctx)
	if err != nil {
		return current, fmt.Errorf("restoring %s: %w", config.ProductID, err)
	}
	if !result.Success || !result.HasPremium {
		helpers.Logger.Infoln("No premium purchase to restore")
		return current, nil
	}

	state := sls.activate(now, current.TransactionID)
	if err := sls.write(ctx, state); err != nil {
		return state, err
	}
	sls.notify(ctx, models.NotificationTypePremium, "Premium Restored",
		fmt.Sprintf("Premium signals unlocked for %d market days", state.MarketDaysRemaining), state)
	return state, nil
}

// Tick consumes one market day when the market is open. It never fails: read errors
// leave the subscription inactive and write errors are logged.
func (sls *SubscriptionLedgerService) Tick(ctx context.Context, now time.Time) models.SubscriptionState {
	sls.mu.Lock()
	defer sls.mu.Unlock()

	state := sls.read(ctx)
	metrics.MarketDaysRemaining.Set(float64(state.MarketDaysRemaining))
	if !state.IsActive || state.MarketDaysRemaining <= 0 || !sls.clock.IsOpen(now) {
		return state
	}
	tradingDay := sls.clock.TradingDay(now)
	if sls.options.TickOncePerDay && state.LastTickDate == tradingDay {
		return state
	}

	state.MarketDaysRemaining--
	state.LastTickDate = tradingDay
	state.IsActive = state.MarketDaysRemaining > 0
	metrics.LedgerDecrements.Inc()
	metrics.MarketDaysRemaining.Set(float64(state.MarketDaysRemaining))

	if err := sls.write(ctx, state); err != nil {
		helpers.Logger.Errorln(err)
	}
	if !state.IsActive {
		sls.notify(ctx, models.NotificationTypeAccount, "Premium Expired",
			"Your premium market days are used up", state)
	}
	return state
}

// Cancel applies the configured policy: immediate revokes access now, end of period
// lets the remaining market days run out
func (sls *SubscriptionLedgerService) Cancel(ctx context.Context, now time.Time) (models.SubscriptionState, error) {
	sls.mu.Lock()
	defer sls.mu.Unlock()

	state := sls.read(ctx)
	if !state.IsActive {
		return state, nil
	}

	message := fmt.Sprintf("Premium stays available for %d more market days", state.MarketDaysRemaining)
	if sls.options.CancelPolicy == config.CancelPolicyImmediate {
		state.IsActive = false
		state.MarketDaysRemaining = 0
		state.ExpiryDate = now
		message = "Premium access has been revoked"
	}
	state.CancelRequested = true

	if err := sls.write(ctx, state); err != nil {
		return state, err
	}
	sls.notify(ctx, models.NotificationTypeAccount, "Subscription Cancelled", message, state)
	return state, nil
}

// State returns the persisted subscription, inactive when it cannot be read
func (sls *SubscriptionLedgerService) State(ctx context.Context) models.SubscriptionState {
	sls.mu.Lock()
	defer sls.mu.Unlock()
	return sls.read(ctx)
}

func (sls *SubscriptionLedgerService) IsEntitled(ctx context.Context) bool {
	state := sls.State(ctx)
	return state.IsActive && state.MarketDaysRemaining > 0
}

func (sls *SubscriptionLedgerService) activate(now time.Time, transactionID string) models.SubscriptionState {
	return models.SubscriptionState{
		IsActive:            true,
		ProductID:           config.ProductID,
		TransactionID:       transactionID,
		StartDate:           now,
		ExpiryDate:          now.AddDate(0, 0, sls.options.CalendarDays),
		MarketDaysRemaining: sls.options.MarketDays,
	}
}

func (sls *SubscriptionLedgerService) read(ctx context.Context) models.SubscriptionState {
	raw, found, err := sls.kv.Get(ctx, SubscriptionKey)
	if err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("Reading subscription, treating as inactive: %s", err.Error()))
		return models.SubscriptionState{}
	}
	if !found {
		return models.SubscriptionState{}
	}
	var state models.SubscriptionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("Decoding subscription, treating as inactive: %s", err.Error()))
		return models.SubscriptionState{}
	}
	if !state.Consistent() {
		helpers.Logger.Warnln(fmt.Sprintf("Inconsistent subscription (active=%t, days=%d), treating as inactive",
			state.IsActive, state.MarketDaysRemaining))
		state.IsActive = false
	}
	return state
}

func (sls *SubscriptionLedgerService) write(ctx context.Context, state models.SubscriptionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding subscription: %w", err)
	}
	if err := sls.kv.Set(ctx, SubscriptionKey, string(raw)); err != nil {
		return fmt.Errorf("saving subscription: %w", err)
	}
	return nil
}

func (sls *SubscriptionLedgerService) notify(ctx context.Context, notificationType models.NotificationType, title string,
	message string, state models.SubscriptionState) {
	if sls.feed == nil {
		return
	}
	sls.feed.Add(ctx, notificationType, title, message, map[string]string{
		"marketDaysRemaining": strconv.Itoa(state.MarketDaysRemaining),
	})
}
