package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/models"
	"gitlab.com/aoterocom/AOForexSignals/services"
)

// Handler exposes read access to signals plus the subscription and notification actions
type Handler struct {
	Clock       *services.MarketClock
	Store       *services.SignalStoreService
	Ledger      *services.SubscriptionLedgerService
	Feed        *services.NotificationFeedService
	Performance *services.PerformanceService
	Now         func() time.Time
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/market", h.market)

	r.GET("/signals", h.listSignals)
	r.GET("/signals/:id", h.getSignal)
	r.POST("/signals/:id/favorite", h.toggleFavorite)

	r.GET("/subscription", h.subscription)
	r.POST("/subscription/purchase", h.purchase)
	r.POST("/subscription/restore", h.restore)
	r.POST("/subscription/cancel", h.cancel)

	r.GET("/performance", h.performance)

	r.GET("/notifications", h.notifications)
	r.POST("/notifications/read", h.markRead)
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) market(c *gin.Context) {
	Ok(c, h.Clock.Status(h.now()), nil)
}

// listSignals hides premium signals from users without an active subscription
func (h *Handler) listSignals(c *gin.Context) {
	filter, err := models.ParseSignalFilter(c.Query("filter"))
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	entitled := h.Ledger.IsEntitled(ctx)
	signals := make([]models.Signal, 0)
	locked := 0
	for _, signal := range h.Store.Filter(ctx, filter, h.now()) {
		if signal.IsPremium && !entitled {
			locked++
			continue
		}
		signals = append(signals, signal)
	}
	Ok(c, signals, map[string]any{"lockedPremium": locked, "filter": filter})
}

func (h *Handler) getSignal(c *gin.Context) {
	signal, ok := h.accessibleSignal(c)
	if !ok {
		return
	}
	Ok(c, signal, nil)
}

func (h *Handler) toggleFavorite(c *gin.Context) {
	if _, ok := h.accessibleSignal(c); !ok {
		return
	}
	ctx := c.Request.Context()
	if !h.Store.ToggleFavorite(ctx, c.Param("id")) {
		Error(c, http.StatusNotFound, "signal not found")
		return
	}
	signal, _ := h.Store.Get(ctx, c.Param("id"))
	Ok(c, signal, nil)
}

// accessibleSignal loads the :id signal and writes 404 or 403 when the caller may not see it
func (h *Handler) accessibleSignal(c *gin.Context) (models.Signal, bool) {
	ctx := c.Request.Context()
	signal, err := h.Store.Get(ctx, c.Param("id"))
	if errors.Is(err, interfaces.ErrNotFound) {
		Error(c, http.StatusNotFound, "signal not found")
		return models.Signal{}, false
	}
	if signal.IsPremium && !h.Ledger.IsEntitled(ctx) {
		Error(c, http.StatusForbidden, "premium subscription required")
		return models.Signal{}, false
	}
	return signal, true
}

func (h *Handler) performance(c *gin.Context) {
	if h.Performance == nil {
		Error(c, http.StatusServiceUnavailable, "performance statistics unavailable")
		return
	}
	Ok(c, h.Performance.Stats(c.Request.Context(), h.now()), nil)
}

func (h *Handler) subscription(c *gin.Context) {
	Ok(c, h.Ledger.State(c.Request.Context()), nil)
}

func (h *Handler) purchase(c *gin.Context) {
	state, err := h.Ledger.Purchase(c.Request.Context(), h.now())
	if errors.Is(err, services.ErrPurchaseFailed) {
		Error(c, http.StatusPaymentRequired, err.Error())
		return
	}
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, state, nil)
}

func (h *Handler) restore(c *gin.Context) {
	state, err := h.Ledger.Restore(c.Request.Context(), h.now())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, state, nil)
}

func (h *Handler) cancel(c *gin.Context) {
	state, err := h.Ledger.Cancel(c.Request.Context(), h.now())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	Ok(c, state, nil)
}

func (h *Handler) notifications(c *gin.Context) {
	Ok(c, h.Feed.List(c.Request.Context()), map[string]any{"unread": h.Feed.UnreadCount()})
}

func (h *Handler) markRead(c *gin.Context) {
	if err := h.Feed.MarkAllRead(c.Request.Context()); err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	Ok(c, nil, map[string]any{"unread": 0})
}
