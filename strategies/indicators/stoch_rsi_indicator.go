package indicators

import (
	"math"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
)

type stochasticRelativeStrengthIndicator struct {
	rsi    techan.Indicator
	minRSI techan.Indicator
	maxRSI techan.Indicator
}

// NewStochasticRelativeStrengthIndicator positions the base indicator inside its own
// min/max range over the timeframe, yielding values in [0,1]
func NewStochasticRelativeStrengthIndicator(baseIndicator techan.Indicator, timeframe int) techan.Indicator {
	return stochasticRelativeStrengthIndicator{
		rsi:    baseIndicator,
		minRSI: techan.NewMinimumValueIndicator(baseIndicator, timeframe),
		maxRSI: techan.NewMaximumValueIndicator(baseIndicator, timeframe),
	}
}

func (srs stochasticRelativeStrengthIndicator) Calculate(index int) big.Decimal {
	minValue := srs.minRSI.Calculate(index).Float()
	dividend := srs.rsi.Calculate(index).Float() - minValue
	divisor := srs.maxRSI.Calculate(index).Float() - minValue

	if divisor == 0.0 || math.IsNaN(dividend) || math.IsNaN(divisor) || math.IsInf(divisor, 0) {
		return big.NewDecimal(0.5)
	}

	return big.NewDecimal(dividend / divisor)
}
