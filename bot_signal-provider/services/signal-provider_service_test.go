package bot_signalprovider

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOForexSignals/config"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/models"
	"gitlab.com/aoterocom/AOForexSignals/providers/fallback"
	"gitlab.com/aoterocom/AOForexSignals/providers/synthetic"
	"gitlab.com/aoterocom/AOForexSignals/services"
	"gitlab.com/aoterocom/AOForexSignals/storage"
	"gitlab.com/aoterocom/AOForexSignals/strategies"
	"gitlab.com/aoterocom/AOForexSignals/tests/mocks"
)

var (
	wednesday = time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	saturday  = time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)
)

type recordingArchive struct {
	mu      sync.Mutex
	batches [][]models.Signal
}

func (ra *recordingArchive) AddSignals(ctx context.Context, signals []models.Signal) error {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	ra.batches = append(ra.batches, signals)
	return nil
}

type fixture struct {
	provider *SignalProviderService
	store    *services.SignalStoreService
	feed     *services.NotificationFeedService
	archive  *recordingArchive
}

func newFixture(gateway interfaces.MarketDataGateway, pairs ...string) fixture {
	kv := storage.NewMemoryStore("forex:")
	clock := services.NewMarketClock()
	scorer := strategies.NewTrendScorer()
	generator := services.NewSignalGeneratorService(clock, gateway, &scorer, config.PredictionThreshold, config.HistoryDays, 2)
	store := services.NewSignalStoreService(kv)
	feed := services.NewNotificationFeedService(kv, nil)
	ledger := services.NewSubscriptionLedgerService(clock, mocks.NewPaymentMock(true), kv, feed, services.DefaultLedgerOptions())
	outcomes := services.NewSignalOutcomeService(clock, gateway, store)
	archive := &recordingArchive{}
	provider := NewSignalProviderService(clock, gateway, generator, store, ledger, feed, outcomes, archive, pairs,
		Intervals{SignalRefresh: time.Minute, DataRefresh: 30 * time.Second, Tick: 10 * time.Minute})
	return fixture{provider: provider, store: store, feed: feed, archive: archive}
}

func TestRefreshGeneratesWhenOpen(t *testing.T) {
	gateway := mocks.NewGatewayMock().WithSeries("EUR/USD", 1.0850, 1.0800, 1.0810, 1.0790, 1.0805, 1.0815)
	f := newFixture(gateway, "EUR/USD")

	report, err := f.provider.Refresh(context.Background(), wednesday)
	require.NoError(t, err)
	assert.True(t, report.MarketOpen)
	assert.Equal(t, "London", report.Session)
	assert.Equal(t, 1, report.Generated)
	assert.False(t, report.Fallback)
	require.Len(t, report.Signals, 1)
	assert.Equal(t, "EUR/USD", report.Signals[0].Pair)
	assert.Len(t, f.archive.batches, 1)
	assert.Equal(t, 1, f.feed.UnreadCount())
}

func TestRefreshClosedReusesStoredBatch(t *testing.T) {
	gateway := mocks.NewGatewayMock().WithSeries("EUR/USD", 1.0850, 1.0800, 1.0810)
	f := newFixture(gateway, "EUR/USD")
	_, err := f.provider.Refresh(context.Background(), wednesday)
	require.NoError(t, err)
	callsAfterOpen := gateway.Calls()

	report, err := f.provider.Refresh(context.Background(), saturday)
	require.NoError(t, err)
	assert.False(t, report.MarketOpen)
	assert.Equal(t, callsAfterOpen, gateway.Calls())
	require.Len(t, report.Signals, 1)
	assert.Equal(t, "EUR/USD", report.Signals[0].Pair)
}

func TestRefreshFallsBackToDemo(t *testing.T) {
	gateway := mocks.NewGatewayMock().WithError("EUR/USD", errors.New("down"))
	f := newFixture(gateway, "EUR/USD")

	report, err := f.provider.Refresh(context.Background(), wednesday)
	require.NoError(t, err)
	assert.True(t, report.Fallback)
	assert.Equal(t, services.DemoSignals(wednesday), report.Signals)
	assert.Empty(t, f.archive.batches)
}

func TestRefreshFlagsOfflineData(t *testing.T) {
	primary := mocks.NewGatewayMock().WithError("EUR/USD", errors.New("down"))
	gateway := fallback.NewFallbackService(primary, synthetic.NewSyntheticService(), time.Second)
	f := newFixture(gateway, "EUR/USD")

	report, err := f.provider.Refresh(context.Background(), wednesday)
	require.NoError(t, err)
	assert.True(t, report.Offline)
	notifications := f.feed.List(context.Background())
	require.NotEmpty(t, notifications)
	assert.Equal(t, "true", notifications[0].Data["offline"])
}

func TestMarketCheckNotifiesOnChange(t *testing.T) {
	f := newFixture(mocks.NewGatewayMock())
	ctx := context.Background()

	f.provider.MarketCheck(ctx, wednesday)
	assert.Equal(t, 0, f.feed.UnreadCount())
	f.provider.MarketCheck(ctx, wednesday.Add(time.Hour))
	assert.Equal(t, 0, f.feed.UnreadCount())

	status := f.provider.MarketCheck(ctx, saturday)
	assert.False(t, status.IsOpen)
	notifications := f.feed.List(ctx)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Market Closed", notifications[0].Title)
}

func TestEvaluateOutcomesNotifies(t *testing.T) {
	gateway := mocks.NewGatewayMock()
	gateway.Quotes["EUR/USD"] = models.Quote{Symbol: "EUR/USD", Price: 1.0700}
	f := newFixture(gateway)
	ctx := context.Background()
	require.NoError(t, f.store.Replace(ctx, services.DemoSignals(wednesday)))

	completed := f.provider.EvaluateOutcomes(ctx, wednesday)
	require.Len(t, completed, 1)
	assert.Equal(t, models.ExitTriggerStopLoss, completed[0].ExitTrigger)
	assert.Equal(t, "Signal Closed", f.feed.List(ctx)[0].Title)
	assert.Empty(t, f.archive.batches)
}

func TestEvaluateOutcomesArchivesGeneratedSignals(t *testing.T) {
	gateway := mocks.NewGatewayMock()
	gateway.Quotes["EUR/USD"] = models.Quote{Symbol: "EUR/USD", Price: 1.0700}
	f := newFixture(gateway)
	ctx := context.Background()
	signal := services.BuildSignal("EUR/USD", 1.0850, 1.0804, 85, wednesday)
	signal.ID = "eur"
	require.NoError(t, f.store.Replace(ctx, []models.Signal{signal}))

	completed := f.provider.EvaluateOutcomes(ctx, wednesday)
	require.Len(t, completed, 1)
	require.Len(t, f.archive.batches, 1)
	assert.Equal(t, "eur", f.archive.batches[0][0].ID)
	assert.Equal(t, models.SignalStatusCompleted, f.archive.batches[0][0].Status)
}

func TestStartStopsWithContext(t *testing.T) {
	gateway := mocks.NewGatewayMock().WithSeries("EUR/USD", 1.0850, 1.0800)
	f := newFixture(gateway, "EUR/USD")
	f.provider.now = func() time.Time { return wednesday }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.provider.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("provider did not stop")
	}
}
