package strategies

import (
	"math"
	"math/rand"

	"github.com/goml/gobrain"
	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/models"
	"gitlab.com/aoterocom/AOForexSignals/strategies/indicators"
)

const (
	neuralHiddenNodes = 10
	neuralIterations  = 300
	neuralLearnRate   = 0.6
	neuralMomentum    = 0.4
	stochTimeframe    = 6
	minTrainingPoints = 8
)

// NeuralScorer trains a small feed-forward network on the symbol's own history and
// blends its directional agreement with the trend score
type NeuralScorer struct {
	trend TrendScorer
	Seed  int64
}

func NewNeuralScorer(seed int64) NeuralScorer {
	return NeuralScorer{trend: NewTrendScorer(), Seed: seed}
}

func (ns *NeuralScorer) Name() string {
	return "neural"
}

func (ns *NeuralScorer) Score(input models.ScoreInput) float64 {
	trendScore := ns.trend.Score(input)
	if len(input.History) < minTrainingPoints {
		return trendScore
	}

	features := historyFeatures(input.History)
	patterns := make([][][]float64, 0, len(features)-1)
	for i := 0; i < len(features)-1; i++ {
		target := 0.0
		if input.History[i+1].Price > input.History[i].Price {
			target = 1.0
		}
		patterns = append(patterns, [][]float64{features[i], {target}})
	}

	ff := &gobrain.FeedForward{}
	ff.Init(len(features[0]), neuralHiddenNodes, 1)
	seedWeights(ff, ns.Seed)
	ff.Train(patterns, neuralIterations, neuralLearnRate, neuralMomentum, false)

	upProbability := ff.Update(features[len(features)-1])[0]
	agreement := upProbability
	if !input.TrendUp() {
		agreement = 1 - upProbability
	}
	if math.IsNaN(agreement) {
		helpers.Logger.Warnln("neural scorer produced NaN for " + input.Symbol + ", using trend score")
		return trendScore
	}
	agreement = helpers.Clamp(agreement, 0.01, 0.99)

	return 0.5*trendScore + 0.5*agreement
}

// historyFeatures maps each point to [squashed daily return, relative volume, stochastic RSI]
func historyFeatures(history []models.HistoryPoint) [][]float64 {
	maxVolume := 0.0
	for _, point := range history {
		maxVolume = math.Max(maxVolume, point.Volume)
	}
	stoch := indicators.StochRSI(indicators.SeriesFromHistory(history), stochTimeframe)

	features := make([][]float64, len(history))
	for i, point := range history {
		ret := 0.0
		if i > 0 && history[i-1].Price > 0 {
			ret = (point.Price - history[i-1].Price) / history[i-1].Price
		}
		volume := 0.0
		if maxVolume > 0 {
			volume = point.Volume / maxVolume
		}
		stochValue := 0.5
		if i >= stochTimeframe {
			stochValue = helpers.Clamp(stoch.Calculate(i).Float(), 0, 1)
		}
		features[i] = []float64{0.5 + 0.5*math.Tanh(ret*100), volume, stochValue}
	}
	return features
}

// seedWeights replaces the randomly initialised weights so that scores are reproducible
func seedWeights(ff *gobrain.FeedForward, seed int64) {
	random := rand.New(rand.NewSource(seed))
	for i := range ff.InputWeights {
		for j := range ff.InputWeights[i] {
			ff.InputWeights[i][j] = random.Float64()*0.4 - 0.2
		}
	}
	for i := range ff.OutputWeights {
		for j := range ff.OutputWeights[i] {
			ff.OutputWeights[i][j] = random.Float64()*4 - 2
		}
	}
}
