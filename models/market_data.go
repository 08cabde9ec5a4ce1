package models

import "time"

type Quote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
	Synthetic bool    `json:"synthetic"`
}

// HistoryPoint is one daily close; series are ordered oldest to newest
type HistoryPoint struct {
	Date   time.Time `json:"date"`
	Price  float64   `json:"price"`
	Volume float64   `json:"volume"`
}

// ScoreInput carries everything a scorer may look at for one symbol
type ScoreInput struct {
	Symbol   string
	Price    float64
	AvgPrice float64
	Volume   float64
	History  []HistoryPoint
}

// TrendStrength is the relative distance between price and its recent average
func (si ScoreInput) TrendStrength() float64 {
	if si.AvgPrice == 0 {
		return 0
	}
	strength := (si.Price - si.AvgPrice) / si.AvgPrice
	if strength < 0 {
		return -strength
	}
	return strength
}

// TrendUp reports whether price is above its recent average
func (si ScoreInput) TrendUp() bool {
	return si.Price > si.AvgPrice
}
