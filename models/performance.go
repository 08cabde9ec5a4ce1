package models

// PeriodPerformance aggregates closed signals of one day ("2006-01-02") or ISO week ("2006-W01")
type PeriodPerformance struct {
	Period         string  `json:"period"`
	Pips           float64 `json:"pips"`
	Trades         int     `json:"trades"`
	CumulativePips float64 `json:"cumulativePips"`
}

// PerformanceStats summarises signal outcomes over a trailing window
type PerformanceStats struct {
	From                  string              `json:"from"`
	To                    string              `json:"to"`
	TotalTrades           int                 `json:"totalTrades"`
	ProfitTrades          int                 `json:"profitTrades"`
	LossTrades            int                 `json:"lossTrades"`
	OpenTrades            int                 `json:"openTrades"`
	WinRate               int                 `json:"winRate"`
	TotalPips             float64             `json:"totalPips"`
	AverageProfitPerTrade float64             `json:"averageProfitPerTrade"`
	AverageLossPerTrade   float64             `json:"averageLossPerTrade"`
	RiskRewardRatio       float64             `json:"riskRewardRatio"`
	AverageRiskReward     float64             `json:"averageRiskReward"`
	PipsStdDev            float64             `json:"pipsStdDev"`
	DailyPerformance      []PeriodPerformance `json:"dailyPerformance"`
	WeeklyPerformance     []PeriodPerformance `json:"weeklyPerformance"`
}
