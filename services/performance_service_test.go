package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOForexSignals/models"
	"gitlab.com/aoterocom/AOForexSignals/storage"
)

type historyStub struct {
	signals []models.Signal
	err     error
	pairs   []string
}

func (hs *historyStub) GetSignalHistory(ctx context.Context, pair string, limit int) ([]models.Signal, error) {
	hs.pairs = append(hs.pairs, pair)
	return hs.signals, hs.err
}

func closedSignal(id string, pair string, side models.SideType, entry float64, tp1 float64, sl float64,
	trigger models.ExitTrigger, generatedAt time.Time) models.Signal {
	return models.Signal{
		ID:          id,
		Pair:        pair,
		Direction:   side,
		EntryPrice:  entry,
		TakeProfit1: tp1,
		StopLoss:    sl,
		Probability: 80,
		GeneratedAt: generatedAt,
		Status:      models.SignalStatusCompleted,
		ExitTrigger: trigger,
	}
}

func performanceFixture(t *testing.T, history *historyStub) *PerformanceService {
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	store := NewSignalStoreService(storage.NewMemoryStore(""))

	yen := closedSignal("yen", "USD/JPY", models.SideTypeBuy, 145.00, 146.00, 144.20, models.ExitTriggerTakeProfit, now.Add(-time.Hour))
	open := closedSignal("open", "AUD/USD", models.SideTypeBuy, 0.6700, 0.6800, 0.6620, models.ExitTriggerNone, now.Add(-time.Hour))
	open.Status = models.SignalStatusActive
	require.NoError(t, store.Replace(context.Background(), []models.Signal{yen, open}))

	return NewPerformanceService(store, history, 30)
}

func archivedSignals() []models.Signal {
	tuesday := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	yenStillOpen := closedSignal("yen", "USD/JPY", models.SideTypeBuy, 145.00, 146.00, 144.20, models.ExitTriggerNone, tuesday)
	yenStillOpen.Status = models.SignalStatusActive
	return []models.Signal{
		closedSignal("eur", "EUR/USD", models.SideTypeBuy, 1.0850, 1.0950, 1.0770, models.ExitTriggerTakeProfit, tuesday),
		closedSignal("gbp", "GBP/USD", models.SideTypeSell, 1.2650, 1.2550, 1.2730, models.ExitTriggerStopLoss, tuesday),
		closedSignal("old", "EUR/USD", models.SideTypeBuy, 1.0850, 1.0950, 1.0770, models.ExitTriggerTakeProfit,
			time.Date(2023, 11, 1, 9, 0, 0, 0, time.UTC)),
		closedSignal("demo-1", "EUR/USD", models.SideTypeBuy, 1.0825, 1.0925, 1.0725, models.ExitTriggerTakeProfit, tuesday),
		yenStillOpen,
	}
}

func TestSignalPips(t *testing.T) {
	pips, closed := SignalPips(closedSignal("a", "EUR/USD", models.SideTypeBuy, 1.0850, 1.0950, 1.0770,
		models.ExitTriggerTakeProfit, openTime))
	assert.True(t, closed)
	assert.Equal(t, 100.0, pips)

	pips, closed = SignalPips(closedSignal("b", "USD/JPY", models.SideTypeSell, 145.00, 144.00, 145.80,
		models.ExitTriggerStopLoss, openTime))
	assert.True(t, closed)
	assert.Equal(t, -80.0, pips)

	_, closed = SignalPips(closedSignal("c", "EUR/USD", models.SideTypeBuy, 1.0850, 1.0950, 1.0770,
		models.ExitTriggerManual, openTime))
	assert.False(t, closed)
}

func TestPerformanceStats(t *testing.T) {
	history := &historyStub{signals: archivedSignals()}
	stats := performanceFixture(t, history).Stats(context.Background(), time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, []string{""}, history.pairs)
	assert.Equal(t, "2023-12-05", stats.From)
	assert.Equal(t, "2024-01-03", stats.To)
	assert.Equal(t, 4, stats.TotalTrades)
	assert.Equal(t, 2, stats.ProfitTrades)
	assert.Equal(t, 1, stats.LossTrades)
	assert.Equal(t, 1, stats.OpenTrades)
	assert.Equal(t, 67, stats.WinRate)
	assert.InDelta(t, 120.0, stats.TotalPips, 1e-9)
	assert.InDelta(t, 100.0, stats.AverageProfitPerTrade, 1e-9)
	assert.InDelta(t, 80.0, stats.AverageLossPerTrade, 1e-9)
	assert.InDelta(t, 1.25, stats.RiskRewardRatio, 1e-9)
	assert.InDelta(t, 1.25, stats.AverageRiskReward, 1e-9)
	assert.InDelta(t, 103.92, stats.PipsStdDev, 1e-9)

	require.Len(t, stats.DailyPerformance, 30)
	tuesday, wednesday := stats.DailyPerformance[28], stats.DailyPerformance[29]
	assert.Equal(t, models.PeriodPerformance{Period: "2024-01-02", Pips: 20, Trades: 2, CumulativePips: 20}, tuesday)
	assert.Equal(t, models.PeriodPerformance{Period: "2024-01-03", Pips: 100, Trades: 1, CumulativePips: 120}, wednesday)

	require.Len(t, stats.WeeklyPerformance, 5)
	assert.Equal(t, "2023-W49", stats.WeeklyPerformance[0].Period)
	assert.Equal(t, models.PeriodPerformance{Period: "2024-W01", Pips: 120, Trades: 3, CumulativePips: 120},
		stats.WeeklyPerformance[4])
}

func TestPerformanceStatsWithoutHistory(t *testing.T) {
	stats := performanceFixture(t, nil).Stats(context.Background(), time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, stats.TotalTrades)
	assert.Equal(t, 1, stats.ProfitTrades)
	assert.Equal(t, 100, stats.WinRate)
	assert.Zero(t, stats.RiskRewardRatio)
}

func TestPerformanceStatsHistoryFailureUsesCurrentBatch(t *testing.T) {
	history := &historyStub{err: errors.New("database gone")}
	stats := performanceFixture(t, history).Stats(context.Background(), time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, stats.TotalTrades)
	assert.InDelta(t, 100.0, stats.TotalPips, 1e-9)
}

func TestPerformanceStatsIgnoresDemoBatch(t *testing.T) {
	store := NewSignalStoreService(storage.NewMemoryStore(""))
	stats := NewPerformanceService(store, nil, 0).Stats(context.Background(), openTime)
	assert.Zero(t, stats.TotalTrades)
	assert.Len(t, stats.DailyPerformance, 30)
}
