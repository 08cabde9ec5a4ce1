package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "forex_signals_generated_total", Help: "Signals emitted by the generator"},
		[]string{"pair", "side"},
	)
	SymbolsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "forex_symbols_skipped_total", Help: "Symbols skipped during generation"},
		[]string{"pair", "reason"},
	)
	SignalsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "forex_signals_rejected_total", Help: "Signals below the probability threshold"},
		[]string{"pair"},
	)
	FallbackBatches = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "forex_fallback_batches_total", Help: "Times the demo signal set replaced generated signals"},
	)
	DegradedCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "forex_gateway_degraded_total", Help: "Gateway calls answered with synthetic data"},
		[]string{"call"},
	)
	LedgerDecrements = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "forex_ledger_decrements_total", Help: "Market days consumed by subscription ticks"},
	)
	MarketOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "forex_market_open", Help: "1 when the forex market is open"},
	)
	MarketDaysRemaining = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "forex_subscription_market_days_remaining", Help: "Market days left on the premium subscription"},
	)
)

func init() {
	prometheus.MustRegister(SignalsGenerated, SymbolsSkipped, SignalsRejected, FallbackBatches, DegradedCalls,
		LedgerDecrements, MarketOpen, MarketDaysRemaining)
}

func SetMarketOpen(open bool) {
	if open {
		MarketOpen.Set(1)
		return
	}
	MarketOpen.Set(0)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
