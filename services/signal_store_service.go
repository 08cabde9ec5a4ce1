package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

const SignalsKey = "saved_signals"

// SignalStoreService holds the current signal batch. A batch is never modified in
// place: every mutation builds a new slice and swaps it under the write lock.
// Writers also hold writeMu until the batch is persisted, so the stored batch always
// matches the one being served.
type SignalStoreService struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	batch   []models.Signal
	loaded  bool
	kv      interfaces.KeyValueStore
}

func NewSignalStoreService(kv interfaces.KeyValueStore) *SignalStoreService {
	return &SignalStoreService{kv: kv}
}

// Replace swaps in a new batch. Duplicated ids keep the last occurrence. A persistence
// failure is returned but the in-memory batch is already replaced.
func (sss *SignalStoreService) Replace(ctx context.Context, signals []models.Signal) error {
	positions := make(map[string]int, len(signals))
	batch := make([]models.Signal, 0, len(signals))
	for _, signal := range signals {
		if i, ok := positions[signal.ID]; ok {
			batch[i] = signal.Clone()
			continue
		}
		positions[signal.ID] = len(batch)
		batch = append(batch, signal.Clone())
	}

	sss.writeMu.Lock()
	defer sss.writeMu.Unlock()

	sss.mu.Lock()
	sss.batch = batch
	sss.loaded = true
	sss.mu.Unlock()

	return sss.persist(ctx, batch)
}

// GetActive returns the current batch, falling back to the persisted one and then to
// the demo batch. It never triggers generation.
func (sss *SignalStoreService) GetActive(ctx context.Context, now time.Time) []models.Signal {
	batch := sss.current(ctx)
	if len(batch) == 0 {
		return sss.adoptDemo(now)
	}
	return batch
}

func (sss *SignalStoreService) Get(ctx context.Context, id string) (models.Signal, error) {
	for _, signal := range sss.GetActive(ctx, time.Now().UTC()) {
		if signal.ID == id {
			return signal, nil
		}
	}
	return models.Signal{}, fmt.Errorf("signal %s: %w", id, interfaces.ErrNotFound)
}

// ToggleFavorite flips the favorite flag of one signal. Unknown ids are ignored.
func (sss *SignalStoreService) ToggleFavorite(ctx context.Context, id string) bool {
	return sss.mutate(ctx, id, func(signal *models.Signal) bool {
		signal.IsFavorite = !signal.IsFavorite
		return true
	})
}

// Complete moves an active signal to completed, recording what closed it
func (sss *SignalStoreService) Complete(ctx context.Context, id string, trigger models.ExitTrigger) bool {
	return sss.mutate(ctx, id, func(signal *models.Signal) bool {
		if !signal.IsActive() {
			return false
		}
		signal.Status = models.SignalStatusCompleted
		signal.ExitTrigger = trigger
		return true
	})
}

func (sss *SignalStoreService) Filter(ctx context.Context, filter models.SignalFilter, now time.Time) []models.Signal {
	var filtered []models.Signal
	weekAgo := now.AddDate(0, 0, -7)
	for _, signal := range sss.GetActive(ctx, now) {
		switch filter {
		case models.SignalFilterActive:
			if !signal.IsActive() {
				continue
			}
		case models.SignalFilterLast7Days:
			if signal.GeneratedAt.Before(weekAgo) {
				continue
			}
		case models.SignalFilterFavorites:
			if !signal.IsFavorite {
				continue
			}
		}
		filtered = append(filtered, signal)
	}
	return filtered
}

func (sss *SignalStoreService) mutate(ctx context.Context, id string, change func(signal *models.Signal) bool) bool {
	sss.GetActive(ctx, time.Now().UTC())

	sss.writeMu.Lock()
	defer sss.writeMu.Unlock()

	sss.mu.Lock()
	index := -1
	for i := range sss.batch {
		if sss.batch[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		sss.mu.Unlock()
		return false
	}
	batch := make([]models.Signal, len(sss.batch))
	for i, signal := range sss.batch {
		batch[i] = signal.Clone()
	}
	if !change(&batch[index]) {
		sss.mu.Unlock()
		return false
	}
	sss.batch = batch
	sss.mu.Unlock()

	if err := sss.persist(ctx, batch); err != nil {
		helpers.Logger.Errorln(err)
	}
	return true
}

// adoptDemo makes the demo batch the in-memory batch when nothing else is stored, so
// the ids served to clients can be looked up and favorited. It is not persisted until
// it is mutated.
func (sss *SignalStoreService) adoptDemo(now time.Time) []models.Signal {
	sss.writeMu.Lock()
	defer sss.writeMu.Unlock()

	sss.mu.Lock()
	defer sss.mu.Unlock()
	if len(sss.batch) == 0 {
		sss.batch = DemoSignals(now)
		sss.loaded = true
	}
	batch := make([]models.Signal, len(sss.batch))
	for i, signal := range sss.batch {
		batch[i] = signal.Clone()
	}
	return batch
}

// current returns a copy of the in-memory batch, loading the persisted one on first use
func (sss *SignalStoreService) current(ctx context.Context) []models.Signal {
	sss.mu.RLock()
	loaded := sss.loaded
	sss.mu.RUnlock()

	if !loaded {
		persisted := sss.load(ctx)
		sss.mu.Lock()
		if !sss.loaded {
			sss.batch = persisted
			sss.loaded = true
		}
		sss.mu.Unlock()
	}

	sss.mu.RLock()
	defer sss.mu.RUnlock()
	batch := make([]models.Signal, len(sss.batch))
	for i, signal := range sss.batch {
		batch[i] = signal.Clone()
	}
	return batch
}

func (sss *SignalStoreService) load(ctx context.Context) []models.Signal {
	if sss.kv == nil {
		return nil
	}
	raw, found, err := sss.kv.Get(ctx, SignalsKey)
	if err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("Loading saved signals: %s", err.Error()))
		return nil
	}
	if !found {
		return nil
	}
	var signals []models.Signal
	if err := json.Unmarshal([]byte(raw), &signals); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("Decoding saved signals: %s", err.Error()))
		return nil
	}
	return signals
}

func (sss *SignalStoreService) persist(ctx context.Context, batch []models.Signal) error {
	if sss.kv == nil {
		return nil
	}
	raw, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encoding signals: %w", err)
	}
	if err := sss.kv.Set(ctx, SignalsKey, string(raw)); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("Saving signals: %s", err.Error()))
		return fmt.Errorf("saving signals: %w", err)
	}
	return nil
}
