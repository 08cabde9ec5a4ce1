package bot_signalprovider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/metrics"
	"gitlab.com/aoterocom/AOForexSignals/models"
	"gitlab.com/aoterocom/AOForexSignals/services"
)

// RefreshReport summarises one refresh cycle
type RefreshReport struct {
	MarketOpen bool
	Session    string
	Generated  int
	Fallback   bool
	Offline    bool
	Signals    []models.Signal
}

type Intervals struct {
	SignalRefresh time.Duration
	DataRefresh   time.Duration
	Tick          time.Duration
}

type degradable interface {
	Degraded() int64
}

// SignalProviderService owns the application state and drives it on a schedule
type SignalProviderService struct {
	clock     *services.MarketClock
	generator *services.SignalGeneratorService
	store     *services.SignalStoreService
	ledger    *services.SubscriptionLedgerService
	feed      *services.NotificationFeedService
	outcomes  *services.SignalOutcomeService
	gateway   interfaces.MarketDataGateway
	archive   interfaces.SignalArchive

	pairs     []string
	intervals Intervals
	now       func() time.Time

	refreshMutex   sync.Mutex
	marketMutex    sync.Mutex
	lastMarketOpen *bool
}

func NewSignalProviderService(clock *services.MarketClock, gateway interfaces.MarketDataGateway,
	generator *services.SignalGeneratorService, store *services.SignalStoreService,
	ledger *services.SubscriptionLedgerService, feed *services.NotificationFeedService,
	outcomes *services.SignalOutcomeService, archive interfaces.SignalArchive,
	pairs []string, intervals Intervals) *SignalProviderService {
	return &SignalProviderService{
		clock:     clock,
		gateway:   gateway,
		generator: generator,
		store:     store,
		ledger:    ledger,
		feed:      feed,
		outcomes:  outcomes,
		archive:   archive,
		pairs:     pairs,
		intervals: intervals,
		now:       time.Now,
	}
}

// Refresh regenerates the signal batch while the market is open. When it is closed the
// last stored batch is served and nothing is generated.
func (sps *SignalProviderService) Refresh(ctx context.Context, now time.Time) (RefreshReport, error) {
	sps.refreshMutex.Lock()
	defer sps.refreshMutex.Unlock()

	status := sps.clock.Status(now)
	metrics.SetMarketOpen(status.IsOpen)
	report := RefreshReport{MarketOpen: status.IsOpen, Session: status.SessionName()}

	if !status.IsOpen {
		report.Signals = sps.store.GetActive(ctx, now)
		return report, nil
	}

	degradedBefore := sps.degraded()
	signals, err := sps.generator.Generate(ctx, sps.pairs, now)
	switch {
	case errors.Is(err, services.ErrNoData):
		helpers.Logger.Warnln("No market data produced a signal, using demo signals")
		metrics.FallbackBatches.Inc()
		signals = services.DemoSignals(now)
		report.Fallback = true
	case err != nil:
		report.Signals = sps.store.GetActive(ctx, now)
		return report, err
	default:
		report.Generated = len(signals)
	}
	report.Offline = sps.degraded() > degradedBefore

	if err := sps.store.Replace(ctx, signals); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("Signals kept in memory only: %s", err.Error()))
	}
	if sps.archive != nil && !report.Fallback {
		if err := sps.archive.AddSignals(ctx, signals); err != nil {
			helpers.Logger.Errorln(err)
		}
	}
	report.Signals = sps.store.GetActive(ctx, now)

	message := fmt.Sprintf("%d signals available", len(report.Signals))
	if report.Offline {
		message += " (offline data)"
	}
	sps.feed.Add(ctx, models.NotificationTypeSystem, "Data Updated", message, map[string]string{
		"offline":  strconv.FormatBool(report.Offline),
		"fallback": strconv.FormatBool(report.Fallback),
	})
	helpers.Logger.Infoln(fmt.Sprintf("🔄 %s session: %d generated, fallback=%t, offline=%t",
		report.Session, report.Generated, report.Fallback, report.Offline))
	return report, nil
}

// MarketCheck publishes a notification whenever the market opens or closes
func (sps *SignalProviderService) MarketCheck(ctx context.Context, now time.Time) models.MarketStatus {
	status := sps.clock.Status(now)
	metrics.SetMarketOpen(status.IsOpen)

	sps.marketMutex.Lock()
	changed := sps.lastMarketOpen != nil && *sps.lastMarketOpen != status.IsOpen
	open := status.IsOpen
	sps.lastMarketOpen = &open
	sps.marketMutex.Unlock()

	if changed {
		if status.IsOpen {
			sps.feed.Add(ctx, models.NotificationTypeMarket, "Market Open",
				fmt.Sprintf("Forex market opened, %s session", status.SessionName()), nil)
		} else {
			sps.feed.Add(ctx, models.NotificationTypeMarket, "Market Closed",
				"Forex market closed, showing the last signals", nil)
		}
	}
	return status
}

func (sps *SignalProviderService) TickSubscription(ctx context.Context, now time.Time) models.SubscriptionState {
	return sps.ledger.Tick(ctx, now)
}

// EvaluateOutcomes closes signals that reached their take profit or stop loss
func (sps *SignalProviderService) EvaluateOutcomes(ctx context.Context, now time.Time) []models.Signal {
	completed := sps.outcomes.Evaluate(ctx, now)
	for _, signal := range completed {
		sps.feed.Add(ctx, models.NotificationTypeSignal, "Signal Closed",
			fmt.Sprintf("%s %s closed by %s", signal.Pair, signal.Direction, signal.ExitTrigger),
			map[string]string{"signalId": signal.ID})
	}
	var archived []models.Signal
	for _, signal := range completed {
		if !services.IsDemoSignal(signal) {
			archived = append(archived, signal)
		}
	}
	if sps.archive != nil && len(archived) > 0 {
		if err := sps.archive.AddSignals(ctx, archived); err != nil {
			helpers.Logger.Errorln(err)
		}
	}
	return completed
}

// Start runs a first cycle, then schedules refresh, outcome and tick jobs until ctx ends
func (sps *SignalProviderService) Start(ctx context.Context) error {
	helpers.Logger.Infoln("🖖🏻 Signal Provider started")

	sps.MarketCheck(ctx, sps.now())
	if _, err := sps.Refresh(ctx, sps.now()); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("Initial refresh: %s", err.Error()))
	}
	sps.TickSubscription(ctx, sps.now())

	scheduler := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(helpers.Logger)),
		cron.SkipIfStillRunning(cron.PrintfLogger(helpers.Logger))))

	jobs := []struct {
		interval time.Duration
		run      func()
	}{
		{sps.intervals.SignalRefresh, func() {
			if _, err := sps.Refresh(ctx, sps.now()); err != nil {
				helpers.Logger.Errorln(fmt.Sprintf("Refresh: %s", err.Error()))
			}
		}},
		{sps.intervals.DataRefresh, func() { sps.EvaluateOutcomes(ctx, sps.now()) }},
		{sps.intervals.Tick, func() {
			sps.MarketCheck(ctx, sps.now())
			sps.TickSubscription(ctx, sps.now())
		}},
	}
	for _, job := range jobs {
		if job.interval <= 0 {
			return fmt.Errorf("invalid schedule interval %s", job.interval)
		}
		if _, err := scheduler.AddFunc("@every "+job.interval.String(), job.run); err != nil {
			return err
		}
	}

	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	helpers.Logger.Infoln("Signal Provider stopped")
	return nil
}

func (sps *SignalProviderService) degraded() int64 {
	if gateway, ok := sps.gateway.(degradable); ok {
		return gateway.Degraded()
	}
	return 0
}
