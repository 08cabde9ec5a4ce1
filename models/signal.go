package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidLevels = errors.New("signal price levels are inconsistent with its direction")

// SignalStatus define signal lifecycle status
type SignalStatus string

const (
	SignalStatusActive    SignalStatus = "active"
	SignalStatusCompleted SignalStatus = "completed"
	SignalStatusPending   SignalStatus = "pending"
)

// Signal is a single trading opportunity on a currency pair
type Signal struct {
	ID          string       `json:"id"`
	Pair        string       `json:"pair"`
	Direction   SideType     `json:"type"`
	EntryPrice  float64      `json:"entryPrice"`
	StopLoss    float64      `json:"stopLoss"`
	TakeProfit1 float64      `json:"takeProfit1"`
	TakeProfit2 *float64     `json:"takeProfit2"`
	TakeProfit3 *float64     `json:"takeProfit3"`
	Probability int          `json:"probability"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Status      SignalStatus `json:"status"`
	IsPremium   bool         `json:"isPremium"`
	IsFavorite  bool         `json:"isFavorite"`
	Analysis    string       `json:"analysis,omitempty"`
	ExitTrigger ExitTrigger  `json:"exitTrigger,omitempty"`
}

// Validate checks the take profit / entry / stop loss ordering for the signal direction
func (s *Signal) Validate() error {
	switch s.Direction {
	case SideTypeBuy:
		if s.TakeProfit1 > s.EntryPrice && s.EntryPrice > s.StopLoss {
			return nil
		}
	case SideTypeSell:
		if s.TakeProfit1 < s.EntryPrice && s.EntryPrice < s.StopLoss {
			return nil
		}
	default:
		return fmt.Errorf("%s: unknown direction %q", s.Pair, s.Direction)
	}
	return fmt.Errorf("%s %s entry=%f tp1=%f sl=%f: %w", s.Pair, s.Direction, s.EntryPrice,
		s.TakeProfit1, s.StopLoss, ErrInvalidLevels)
}

// IsActive returns true for signals still tradeable
func (s *Signal) IsActive() bool {
	return s.Status == SignalStatusActive || s.Status == SignalStatusPending
}

// RiskReward returns the reward/risk ratio between TP1 and the stop loss
func (s *Signal) RiskReward() float64 {
	var reward, risk float64
	if s.Direction == SideTypeBuy {
		reward, risk = s.TakeProfit1-s.EntryPrice, s.EntryPrice-s.StopLoss
	} else {
		reward, risk = s.EntryPrice-s.TakeProfit1, s.StopLoss-s.EntryPrice
	}
	if risk <= 0 {
		return 0
	}
	return reward / risk
}

// Clone returns a deep copy, optional levels included
func (s Signal) Clone() Signal {
	if s.TakeProfit2 != nil {
		tp2 := *s.TakeProfit2
		s.TakeProfit2 = &tp2
	}
	if s.TakeProfit3 != nil {
		tp3 := *s.TakeProfit3
		s.TakeProfit3 = &tp3
	}
	return s
}
