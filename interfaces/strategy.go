package interfaces

import "gitlab.com/aoterocom/AOForexSignals/models"

type (
	// Scorer turns one symbol's market data into a confidence in (0,1).
	// Implementations must be deterministic and non-decreasing in trend strength.
	Scorer interface {
		Name() string
		Score(input models.ScoreInput) float64
	}
)
