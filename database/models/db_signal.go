package database

import (
	"time"

	"gorm.io/gorm"
)

// Signal is an archived copy of a generated signal
type Signal struct {
	gorm.Model
	SignalID    string `gorm:"uniqueIndex;size:64"`
	Pair        string `gorm:"index;size:16"`
	Direction   string `gorm:"size:4"`
	EntryPrice  float64
	StopLoss    float64
	TakeProfit1 float64
	TakeProfit2 *float64
	TakeProfit3 *float64
	Probability int
	GeneratedAt time.Time `gorm:"index"`
	Status      string    `gorm:"size:16"`
	IsPremium   bool
	ExitTrigger string `gorm:"size:16"`
	Analysis    string `gorm:"type:text"`
}
