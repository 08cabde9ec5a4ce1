package models

import "time"

type NotificationType string

const (
	NotificationTypeSignal  NotificationType = "signal"
	NotificationTypeMarket  NotificationType = "market"
	NotificationTypeAccount NotificationType = "account"
	NotificationTypePremium NotificationType = "premium"
	NotificationTypeSystem  NotificationType = "system"
)

type Notification struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Type      NotificationType  `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Read      bool              `json:"read"`
	Data      map[string]string `json:"data,omitempty"`
}
