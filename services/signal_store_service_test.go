package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/models"
	"gitlab.com/aoterocom/AOForexSignals/storage"
)

type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("disk unavailable")
}

func (failingStore) Set(ctx context.Context, key string, value string) error {
	return errors.New("disk unavailable")
}

func sampleSignals(now time.Time) []models.Signal {
	eur := BuildSignal("EUR/USD", 1.0850, 1.0804, 85, now)
	eur.ID = "eur"
	gbp := BuildSignal("GBP/USD", 1.2600, 1.2650, 70, now.AddDate(0, 0, -10))
	gbp.ID = "gbp"
	return []models.Signal{eur, gbp}
}

func TestStoreReplaceAndPersist(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore("")
	store := NewSignalStoreService(kv)

	require.NoError(t, store.Replace(ctx, sampleSignals(openTime)))
	assert.Len(t, store.GetActive(ctx, openTime), 2)

	raw, found, err := kv.Get(ctx, SignalsKey)
	require.NoError(t, err)
	require.True(t, found)
	var persisted []models.Signal
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Len(t, persisted, 2)

	reloaded := NewSignalStoreService(kv)
	assert.Equal(t, store.GetActive(ctx, closedTime), reloaded.GetActive(ctx, closedTime))
}

func TestStoreReplaceDuplicateIdsLastWins(t *testing.T) {
	ctx := context.Background()
	store := NewSignalStoreService(storage.NewMemoryStore(""))
	signals := sampleSignals(openTime)
	duplicate := signals[0]
	duplicate.Probability = 61
	signals = append(signals, duplicate)

	require.NoError(t, store.Replace(ctx, signals))
	active := store.GetActive(ctx, openTime)
	require.Len(t, active, 2)
	signal, err := store.Get(ctx, "eur")
	require.NoError(t, err)
	assert.Equal(t, 61, signal.Probability)
}

func TestStoreEmptyReturnsDemo(t *testing.T) {
	store := NewSignalStoreService(storage.NewMemoryStore(""))
	active := store.GetActive(context.Background(), closedTime)
	assert.Equal(t, DemoSignals(closedTime), active)
}

func TestStoreToggleFavorite(t *testing.T) {
	ctx := context.Background()
	store := NewSignalStoreService(storage.NewMemoryStore(""))
	require.NoError(t, store.Replace(ctx, sampleSignals(openTime)))

	assert.True(t, store.ToggleFavorite(ctx, "eur"))
	favorites := store.Filter(ctx, models.SignalFilterFavorites, openTime)
	require.Len(t, favorites, 1)
	assert.Equal(t, "eur", favorites[0].ID)

	assert.True(t, store.ToggleFavorite(ctx, "eur"))
	assert.Empty(t, store.Filter(ctx, models.SignalFilterFavorites, openTime))
}

func TestStoreToggleUnknownIdIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewSignalStoreService(storage.NewMemoryStore(""))
	require.NoError(t, store.Replace(ctx, sampleSignals(openTime)))
	before := store.GetActive(ctx, openTime)

	assert.False(t, store.ToggleFavorite(ctx, "missing"))
	assert.Equal(t, before, store.GetActive(ctx, openTime))
}

func TestStoreReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	store := NewSignalStoreService(storage.NewMemoryStore(""))
	require.NoError(t, store.Replace(ctx, sampleSignals(openTime)))

	active := store.GetActive(ctx, openTime)
	active[0].IsFavorite = true
	*active[0].TakeProfit2 = 0

	signal, err := store.Get(ctx, active[0].ID)
	require.NoError(t, err)
	assert.False(t, signal.IsFavorite)
	assert.NotEqual(t, 0.0, *signal.TakeProfit2)
}

func TestStoreCompleteAndFilters(t *testing.T) {
	ctx := context.Background()
	store := NewSignalStoreService(storage.NewMemoryStore(""))
	require.NoError(t, store.Replace(ctx, sampleSignals(openTime)))

	assert.True(t, store.Complete(ctx, "gbp", models.ExitTriggerStopLoss))
	assert.False(t, store.Complete(ctx, "gbp", models.ExitTriggerTakeProfit))

	active := store.Filter(ctx, models.SignalFilterActive, openTime)
	require.Len(t, active, 1)
	assert.Equal(t, "eur", active[0].ID)

	recent := store.Filter(ctx, models.SignalFilterLast7Days, openTime)
	require.Len(t, recent, 1)
	assert.Equal(t, "eur", recent[0].ID)

	assert.Len(t, store.Filter(ctx, models.SignalFilterAll, openTime), 2)

	gbp, err := store.Get(ctx, "gbp")
	require.NoError(t, err)
	assert.Equal(t, models.SignalStatusCompleted, gbp.Status)
	assert.Equal(t, models.ExitTriggerStopLoss, gbp.ExitTrigger)
}

func TestStoreGetUnknown(t *testing.T) {
	store := NewSignalStoreService(storage.NewMemoryStore(""))
	_, err := store.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))
}

func TestStorePersistenceFailureKeepsMemoryBatch(t *testing.T) {
	ctx := context.Background()
	store := NewSignalStoreService(failingStore{})

	err := store.Replace(ctx, sampleSignals(openTime))
	assert.Error(t, err)
	assert.Len(t, store.GetActive(ctx, openTime), 2)
}

func TestStoreCorruptPersistedBatch(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore("")
	require.NoError(t, kv.Set(ctx, SignalsKey, "{not json"))
	store := NewSignalStoreService(kv)
	assert.Equal(t, DemoSignals(openTime), store.GetActive(ctx, openTime))
}

// gatedStore holds the first Set until release is closed
type gatedStore struct {
	*storage.MemoryStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (gs *gatedStore) Set(ctx context.Context, key string, value string) error {
	first := false
	gs.once.Do(func() { first = true })
	if first {
		close(gs.entered)
		<-gs.release
	}
	return gs.MemoryStore.Set(ctx, key, value)
}

func TestStoreOverlappingReplacesPersistLastBatch(t *testing.T) {
	ctx := context.Background()
	kv := &gatedStore{MemoryStore: storage.NewMemoryStore(""), entered: make(chan struct{}), release: make(chan struct{})}
	store := NewSignalStoreService(kv)

	signals := sampleSignals(openTime)
	first, second := signals[:1], signals[1:]

	firstDone := make(chan error, 1)
	go func() { firstDone <- store.Replace(ctx, first) }()
	<-kv.entered

	secondDone := make(chan error, 1)
	go func() { secondDone <- store.Replace(ctx, second) }()
	time.Sleep(50 * time.Millisecond)
	close(kv.release)

	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)

	active := store.GetActive(ctx, openTime)
	require.Len(t, active, 1)
	assert.Equal(t, "gbp", active[0].ID)

	raw, found, err := kv.Get(ctx, SignalsKey)
	require.NoError(t, err)
	require.True(t, found)
	var persisted []models.Signal
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, "gbp", persisted[0].ID)
}

func TestStoreDemoSignalsAreAddressable(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore("")
	store := NewSignalStoreService(kv)

	listed := store.Filter(ctx, models.SignalFilterAll, closedTime)
	require.Len(t, listed, 2)

	signal, err := store.Get(ctx, listed[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "EUR/USD", signal.Pair)

	assert.True(t, store.ToggleFavorite(ctx, listed[0].ID))
	favorites := store.Filter(ctx, models.SignalFilterFavorites, closedTime)
	require.Len(t, favorites, 1)
	assert.Equal(t, listed[0].ID, favorites[0].ID)

	reloaded := NewSignalStoreService(kv)
	signal, err = reloaded.Get(ctx, listed[0].ID)
	require.NoError(t, err)
	assert.True(t, signal.IsFavorite)
}

func TestStoreGetBeforeListingFindsDemo(t *testing.T) {
	store := NewSignalStoreService(storage.NewMemoryStore(""))
	signal, err := store.Get(context.Background(), "demo-2")
	require.NoError(t, err)
	assert.Equal(t, models.SideTypeSell, signal.Direction)
	assert.True(t, IsDemoSignal(signal))
}
