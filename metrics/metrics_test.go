package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeRegistersMetrics(t *testing.T) {
	srv := Serve("127.0.0.1:0")
	defer srv.Close()

	SignalsGenerated.WithLabelValues("EUR/USD", "BUY").Inc()

	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "forex_signals_generated_total" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestSetMarketOpen(t *testing.T) {
	SetMarketOpen(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(MarketOpen))
	SetMarketOpen(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(MarketOpen))
}
