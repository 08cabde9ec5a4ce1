package strategies

import (
	"fmt"

	"gitlab.com/aoterocom/AOForexSignals/interfaces"
)

const neuralSeed = 42

func ScorerFactory(scorerName string) (interfaces.Scorer, error) {

	switch scorerName {
	case "", "trend":
		trendScorer := NewTrendScorer()
		return interfaces.Scorer(&trendScorer), nil
	case "neural":
		neuralScorer := NewNeuralScorer(neuralSeed)
		return interfaces.Scorer(&neuralScorer), nil
	default:
		return nil, fmt.Errorf("%s is not a known scorer", scorerName)
	}

}
