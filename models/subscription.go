package models

import "time"

// SubscriptionState is the persisted premium entitlement
type SubscriptionState struct {
	IsActive            bool      `json:"isActive"`
	ProductID           string    `json:"productId,omitempty"`
	TransactionID       string    `json:"transactionId,omitempty"`
	StartDate           time.Time `json:"startDate"`
	ExpiryDate          time.Time `json:"expiryDate"`
	MarketDaysRemaining int       `json:"marketDaysRemaining"`
	CancelRequested     bool      `json:"cancelRequested"`
	LastTickDate        string    `json:"lastTickDate,omitempty"`
}

// Consistent reports whether the active flag agrees with the remaining market days
func (ss SubscriptionState) Consistent() bool {
	return ss.IsActive == (ss.MarketDaysRemaining > 0)
}

type PurchaseResult struct {
	Success       bool
	TransactionID string
	Error         string
}

type RestoreResult struct {
	Success    bool
	HasPremium bool
	Error      string
}
