package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gitlab.com/aoterocom/AOForexSignals/config"
	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

const ReadNotificationsKey = "notifications_read"

// NotificationFeedService keeps unread notifications in memory only and persists the
// read log. Both lists are newest first and together hold at most MaxNotifications.
type NotificationFeedService struct {
	mu     sync.Mutex
	unread []models.Notification
	read   []models.Notification
	loaded bool

	kv   interfaces.KeyValueStore
	sink interfaces.NotificationSink
	now  func() time.Time
}

func NewNotificationFeedService(kv interfaces.KeyValueStore, sink interfaces.NotificationSink) *NotificationFeedService {
	return &NotificationFeedService{kv: kv, sink: sink, now: time.Now}
}

func (nfs *NotificationFeedService) Add(ctx context.Context, notificationType models.NotificationType, title string,
	message string, data map[string]string) models.Notification {
	notification := models.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Type:      notificationType,
		Timestamp: nfs.now(),
		Data:      data,
	}

	nfs.ensureLoaded(ctx)
	nfs.mu.Lock()
	nfs.unread = append([]models.Notification{notification}, nfs.unread...)
	nfs.trim()
	nfs.mu.Unlock()

	if nfs.sink != nil {
		if err := nfs.sink.Deliver(ctx, notification); err != nil {
			helpers.Logger.Warnln(fmt.Sprintf("Delivering notification %q: %s", title, err.Error()))
		}
	}
	return notification
}

// List returns unread notifications followed by the read log
func (nfs *NotificationFeedService) List(ctx context.Context) []models.Notification {
	nfs.ensureLoaded(ctx)
	nfs.mu.Lock()
	defer nfs.mu.Unlock()
	list := make([]models.Notification, 0, len(nfs.unread)+len(nfs.read))
	list = append(list, nfs.unread...)
	return append(list, nfs.read...)
}

func (nfs *NotificationFeedService) UnreadCount() int {
	nfs.mu.Lock()
	defer nfs.mu.Unlock()
	return len(nfs.unread)
}

func (nfs *NotificationFeedService) MarkAllRead(ctx context.Context) error {
	nfs.ensureLoaded(ctx)
	nfs.mu.Lock()
	moved := make([]models.Notification, 0, len(nfs.unread)+len(nfs.read))
	for _, notification := range nfs.unread {
		notification.Read = true
		moved = append(moved, notification)
	}
	nfs.read = append(moved, nfs.read...)
	nfs.unread = nil
	nfs.trim()
	readLog := append([]models.Notification(nil), nfs.read...)
	nfs.mu.Unlock()

	return nfs.persist(ctx, readLog)
}

func (nfs *NotificationFeedService) Clear(ctx context.Context) error {
	nfs.mu.Lock()
	nfs.unread = nil
	nfs.read = nil
	nfs.loaded = true
	nfs.mu.Unlock()

	return nfs.persist(ctx, []models.Notification{})
}

// trim drops the oldest read entries first, then the oldest unread ones. Caller holds mu.
func (nfs *NotificationFeedService) trim() {
	excess := len(nfs.unread) + len(nfs.read) - config.MaxNotifications
	if excess <= 0 {
		return
	}
	if excess <= len(nfs.read) {
		nfs.read = nfs.read[:len(nfs.read)-excess]
		return
	}
	excess -= len(nfs.read)
	nfs.read = nil
	nfs.unread = nfs.unread[:len(nfs.unread)-excess]
}

func (nfs *NotificationFeedService) ensureLoaded(ctx context.Context) {
	nfs.mu.Lock()
	loaded := nfs.loaded
	nfs.mu.Unlock()
	if loaded {
		return
	}

	var readLog []models.Notification
	if nfs.kv != nil {
		raw, found, err := nfs.kv.Get(ctx, ReadNotificationsKey)
		if err != nil {
			helpers.Logger.Errorln(fmt.Sprintf("Loading notifications: %s", err.Error()))
		} else if found {
			if err := json.Unmarshal([]byte(raw), &readLog); err != nil {
				helpers.Logger.Errorln(fmt.Sprintf("Decoding notifications: %s", err.Error()))
				readLog = nil
			}
		}
	}

	nfs.mu.Lock()
	if !nfs.loaded {
		nfs.read = append(readLog, nfs.read...)
		nfs.loaded = true
		nfs.trim()
	}
	nfs.mu.Unlock()
}

func (nfs *NotificationFeedService) persist(ctx context.Context, readLog []models.Notification) error {
	if nfs.kv == nil {
		return nil
	}
	raw, err := json.Marshal(readLog)
	if err != nil {
		return fmt.Errorf("encoding notifications: %w", err)
	}
	if err := nfs.kv.Set(ctx, ReadNotificationsKey, string(raw)); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("Saving notifications: %s", err.Error()))
		return fmt.Errorf("saving notifications: %w", err)
	}
	return nil
}
