package models

// Session is a forex trading session name
type Session string

const (
	SessionAsian   Session = "Asian"
	SessionLondon  Session = "London"
	SessionNewYork Session = "New York"
)

// MarketStatus is derived from wall-clock time only and never persisted
type MarketStatus struct {
	IsOpen  bool     `json:"isOpen"`
	Session *Session `json:"session"`
}

// SessionName returns the session or an empty string when the market is closed
func (ms MarketStatus) SessionName() string {
	if ms.Session == nil {
		return ""
	}
	return string(*ms.Session)
}
