package bot_signal_provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"gitlab.com/aoterocom/AOForexSignals/api"
	signalProvider "gitlab.com/aoterocom/AOForexSignals/bot_signal-provider/services"
	"gitlab.com/aoterocom/AOForexSignals/config"
	"gitlab.com/aoterocom/AOForexSignals/database"
	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/metrics"
	"gitlab.com/aoterocom/AOForexSignals/providers"
	"gitlab.com/aoterocom/AOForexSignals/providers/paper"
	"gitlab.com/aoterocom/AOForexSignals/providers/telegram"
	"gitlab.com/aoterocom/AOForexSignals/services"
	"gitlab.com/aoterocom/AOForexSignals/storage"
	"gitlab.com/aoterocom/AOForexSignals/strategies"
	"golang.org/x/sync/errgroup"
)

// SignalProvider is the application root: it builds every component from the config
type SignalProvider struct {
	Config      *config.Config
	Clock       *services.MarketClock
	Store       *services.SignalStoreService
	Ledger      *services.SubscriptionLedgerService
	Feed        *services.NotificationFeedService
	Performance *services.PerformanceService
	Service     *signalProvider.SignalProviderService
	Payment     *paper.PaperPaymentService
	Database    *database.DBService
	KV          interfaces.KeyValueStore
}

func NewSignalProvider(ctx context.Context, cfg *config.Config) (*SignalProvider, error) {
	var sink interfaces.NotificationSink
	var mirror helpers.Mirror
	if cfg.TelegramOutput {
		telegramService := telegram.NewTelegramService(cfg.TelegramToken, cfg.TelegramChatID)
		sink, mirror = telegramService, telegramService
	}
	if err := helpers.ConfigureLogger(cfg.LogFile, cfg.LogLevel, mirror); err != nil {
		return nil, err
	}

	kv, dbService, err := storage.KeyValueStoreFactory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var archive interfaces.SignalArchive
	var history interfaces.SignalHistory
	if cfg.EnableDatabaseRecording {
		if dbService == nil {
			dbService, err = database.NewDBService(cfg.DSN(), cfg.StorePrefix)
			if err != nil {
				return nil, fmt.Errorf("connecting to signal archive: %w", err)
			}
		}
		archive, history = dbService, dbService
	}

	gateway, err := providers.GatewayFactory(cfg)
	if err != nil {
		return nil, err
	}
	scorer, err := strategies.ScorerFactory(cfg.Scorer)
	if err != nil {
		return nil, err
	}

	payment := paper.NewPaperPaymentService(cfg.PaymentSucceed)
	if err := payment.Connect(ctx); err != nil {
		helpers.Logger.Warnln(fmt.Sprintf("Payment provider unavailable: %s", err.Error()))
	}

	clock := services.NewMarketClock()
	feed := services.NewNotificationFeedService(kv, sink)
	store := services.NewSignalStoreService(kv)
	ledger := services.NewSubscriptionLedgerService(clock, payment, kv, feed, services.LedgerOptions{
		MarketDays:     cfg.SubscriptionMarketDays,
		CalendarDays:   cfg.SubscriptionDays,
		CancelPolicy:   cfg.CancelPolicy,
		TickOncePerDay: cfg.TickOncePerDay,
	})
	generator := services.NewSignalGeneratorService(clock, gateway, scorer, cfg.PredictionThreshold, cfg.HistoryDays, cfg.Concurrency)
	outcomes := services.NewSignalOutcomeService(clock, gateway, store)
	performance := services.NewPerformanceService(store, history, config.PerformanceDays)

	service := signalProvider.NewSignalProviderService(clock, gateway, generator, store, ledger, feed, outcomes, archive,
		cfg.Pairs, signalProvider.Intervals{
			SignalRefresh: cfg.SignalRefreshInterval,
			DataRefresh:   cfg.DataRefreshInterval,
			Tick:          cfg.TickInterval,
		})

	helpers.Logger.Debugln(fmt.Sprintf("Provider=%s scorer=%s store=%s pairs=%d", cfg.DataProvider, scorer.Name(),
		cfg.StoreBackend, len(cfg.Pairs)))

	return &SignalProvider{
		Config:      cfg,
		Clock:       clock,
		Store:       store,
		Ledger:      ledger,
		Feed:        feed,
		Performance: performance,
		Service:     service,
		Payment:     payment,
		Database:    dbService,
		KV:          kv,
	}, nil
}

// Run serves the API and metrics and runs the scheduler until ctx is cancelled
func (sp *SignalProvider) Run(ctx context.Context) error {
	router := api.NewRouter(&api.Handler{Clock: sp.Clock, Store: sp.Store, Ledger: sp.Ledger, Feed: sp.Feed,
		Performance: sp.Performance})
	httpServer := &http.Server{Addr: sp.Config.HTTPAddr, Handler: router}
	metricsServer := metrics.Serve(sp.Config.MetricsAddr)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		helpers.Logger.Infoln(fmt.Sprintf("API listening on %s", sp.Config.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return sp.Service.Start(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
		return httpServer.Shutdown(shutdownCtx)
	})
	err := group.Wait()
	sp.Close()
	return err
}

// Close releases the store and archive connections
func (sp *SignalProvider) Close() {
	if closer, ok := sp.KV.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			helpers.Logger.Errorln(fmt.Sprintf("Closing store: %s", err.Error()))
		}
	}
	if sp.Database != nil && sp.KV != interfaces.KeyValueStore(sp.Database) {
		if err := sp.Database.Close(); err != nil {
			helpers.Logger.Errorln(fmt.Sprintf("Closing database: %s", err.Error()))
		}
	}
}
