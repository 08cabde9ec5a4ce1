package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gitlab.com/aoterocom/AOForexSignals/config"
	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

const dayLayout = "2006-01-02"

// PerformanceService computes outcome statistics from the archived signals and the
// current batch. Demo signals never count.
type PerformanceService struct {
	store   *SignalStoreService
	history interfaces.SignalHistory
	days    int
}

func NewPerformanceService(store *SignalStoreService, history interfaces.SignalHistory, days int) *PerformanceService {
	if days <= 0 {
		days = config.PerformanceDays
	}
	return &PerformanceService{store: store, history: history, days: days}
}

// Stats covers the signals generated during the last days calendar days up to now.
// Closed signals are attributed to the day they were issued.
func (ps *PerformanceService) Stats(ctx context.Context, now time.Time) models.PerformanceStats {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(ps.days - 1))
	stats := models.PerformanceStats{From: from.Format(dayLayout), To: today.Format(dayLayout)}

	daily := make(map[string]*models.PeriodPerformance)
	var wins, losses, closedPips, riskRewards []float64
	for _, signal := range ps.signals(ctx, now) {
		if IsDemoSignal(signal) || signal.GeneratedAt.Before(from) || signal.GeneratedAt.After(now) {
			continue
		}
		stats.TotalTrades++
		if signal.IsActive() {
			stats.OpenTrades++
			continue
		}
		pips, closed := SignalPips(signal)
		if !closed {
			continue
		}

		if pips > 0 {
			wins = append(wins, pips)
		} else {
			losses = append(losses, -pips)
		}
		closedPips = append(closedPips, pips)
		riskRewards = append(riskRewards, signal.RiskReward())

		day := signal.GeneratedAt.UTC().Format(dayLayout)
		if daily[day] == nil {
			daily[day] = &models.PeriodPerformance{Period: day}
		}
		daily[day].Pips += pips
		daily[day].Trades++
	}

	stats.ProfitTrades, stats.LossTrades = len(wins), len(losses)
	if closed := len(closedPips); closed > 0 {
		stats.WinRate = int(math.Round(100 * float64(len(wins)) / float64(closed)))
	}
	stats.TotalPips = round(helpers.Sum(closedPips), 1)
	stats.AverageProfitPerTrade = round(helpers.Mean(wins), 1)
	stats.AverageLossPerTrade = round(helpers.Mean(losses), 1)
	if stats.AverageLossPerTrade > 0 {
		stats.RiskRewardRatio = round(helpers.Mean(wins)/helpers.Mean(losses), 2)
	}
	stats.AverageRiskReward = round(helpers.Mean(riskRewards), 2)
	stats.PipsStdDev = round(helpers.StdDev(closedPips, helpers.Mean(closedPips)), 2)

	stats.DailyPerformance, stats.WeeklyPerformance = periods(daily, from, today)
	return stats
}

// SignalPips is the pip result of a signal closed by its take profit or stop loss
func SignalPips(signal models.Signal) (float64, bool) {
	pip := PipSize(signal.Pair)
	switch signal.ExitTrigger {
	case models.ExitTriggerTakeProfit:
		return round(math.Abs(signal.TakeProfit1-signal.EntryPrice)/pip, 1), true
	case models.ExitTriggerStopLoss:
		return -round(math.Abs(signal.EntryPrice-signal.StopLoss)/pip, 1), true
	}
	return 0, false
}

// signals merges the archive with the current batch, the batch winning on equal ids
func (ps *PerformanceService) signals(ctx context.Context, now time.Time) []models.Signal {
	merged := make(map[string]int)
	var signals []models.Signal
	add := func(signal models.Signal) {
		if i, ok := merged[signal.ID]; ok {
			signals[i] = signal
			return
		}
		merged[signal.ID] = len(signals)
		signals = append(signals, signal)
	}

	if ps.history != nil {
		archived, err := ps.history.GetSignalHistory(ctx, "", config.PerformanceHistoryLimit)
		if err != nil {
			helpers.Logger.Warnln(fmt.Sprintf("Signal history unavailable, using current signals only: %s", err.Error()))
		}
		for _, signal := range archived {
			add(signal)
		}
	}
	for _, signal := range ps.store.Filter(ctx, models.SignalFilterAll, now) {
		add(signal)
	}
	return signals
}

func periods(daily map[string]*models.PeriodPerformance, from time.Time, to time.Time) ([]models.PeriodPerformance, []models.PeriodPerformance) {
	var days, weeks []models.PeriodPerformance
	cumulative := 0.0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		entry := models.PeriodPerformance{Period: day.Format(dayLayout)}
		if recorded, ok := daily[entry.Period]; ok {
			entry.Pips, entry.Trades = round(recorded.Pips, 1), recorded.Trades
		}
		cumulative += entry.Pips
		entry.CumulativePips = round(cumulative, 1)
		days = append(days, entry)

		year, week := day.ISOWeek()
		period := fmt.Sprintf("%d-W%02d", year, week)
		if len(weeks) == 0 || weeks[len(weeks)-1].Period != period {
			weeks = append(weeks, models.PeriodPerformance{Period: period})
		}
		current := &weeks[len(weeks)-1]
		current.Pips = round(current.Pips+entry.Pips, 1)
		current.Trades += entry.Trades
		current.CumulativePips = entry.CumulativePips
	}
	return days, weeks
}

func round(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
