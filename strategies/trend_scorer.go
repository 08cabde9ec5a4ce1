package strategies

import (
	"math"

	"gitlab.com/aoterocom/AOForexSignals/models"
)

// TrendScorer rates a symbol by how far price has moved away from its recent average
type TrendScorer struct {
	// Sensitivity scales the trend strength before saturation
	Sensitivity float64
}

func NewTrendScorer() TrendScorer {
	return TrendScorer{Sensitivity: 100}
}

func (ts *TrendScorer) Name() string {
	return "trend"
}

// Score returns a value in [0.5, 0.9) for uptrends starting at 0.6
func (ts *TrendScorer) Score(input models.ScoreInput) float64 {
	base := 0.5
	if input.TrendUp() {
		base = 0.6
	}
	strength := input.TrendStrength()
	if math.IsNaN(strength) || math.IsInf(strength, 0) {
		return base
	}
	return base + 0.3*math.Tanh(ts.Sensitivity*strength)
}
