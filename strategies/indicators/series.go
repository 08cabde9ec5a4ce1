package indicators

import (
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

// SeriesFromHistory builds a daily techan series from history points.
// Periods are laid out by index so weekend gaps in the feed do not reject candles.
func SeriesFromHistory(history []models.HistoryPoint) *techan.TimeSeries {
	series := techan.NewTimeSeries()
	for i, point := range history {
		start := time.Unix(int64(i)*86400, 0).UTC()
		candle := techan.NewCandle(techan.NewTimePeriod(start, 24*time.Hour))
		candle.OpenPrice = big.NewDecimal(point.Price)
		candle.ClosePrice = big.NewDecimal(point.Price)
		candle.MaxPrice = big.NewDecimal(point.Price)
		candle.MinPrice = big.NewDecimal(point.Price)
		candle.Volume = big.NewDecimal(point.Volume)
		series.AddCandle(candle)
	}
	return series
}

// LastAverage returns the simple moving average of the last min(window, n) closes
func LastAverage(series *techan.TimeSeries, window int) float64 {
	n := len(series.Candles)
	if n == 0 || window <= 0 {
		return 0
	}
	if window > n {
		window = n
	}
	sma := techan.NewSimpleMovingAverage(techan.NewClosePriceIndicator(series), window)
	return sma.Calculate(n - 1).Float()
}

// StochRSI returns a stochastic RSI indicator over closes
func StochRSI(series *techan.TimeSeries, timeframe int) techan.Indicator {
	rsi := techan.NewRelativeStrengthIndexIndicator(techan.NewClosePriceIndicator(series), timeframe)
	return NewStochasticRelativeStrengthIndicator(rsi, timeframe)
}
