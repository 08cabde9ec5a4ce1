package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gitlab.com/aoterocom/AOForexSignals/models"
	tb "gopkg.in/tucnak/telebot.v2"
)

// TelegramService posts plain text to a single chat. It serves both as notification
// sink and as log mirror.
type TelegramService struct {
	mu     sync.Mutex
	bot    *tb.Bot
	chat   *tb.Chat
	token  string
	chatID string
}

func NewTelegramService(token string, chatID string) *TelegramService {
	return &TelegramService{token: token, chatID: chatID}
}

func (ts *TelegramService) Send(message string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.bot == nil {
		b, err := tb.NewBot(tb.Settings{
			Token:  ts.token,
			Poller: &tb.LongPoller{Timeout: 10 * time.Second},
		})
		if err != nil {
			return err
		}
		chat, err := b.ChatByID(ts.chatID)
		if err != nil {
			return err
		}
		ts.bot, ts.chat = b, chat
	}

	_, err := ts.bot.Send(ts.chat, message)
	return err
}

func (ts *TelegramService) Deliver(ctx context.Context, notification models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ts.Send(Format(notification))
}

func Format(notification models.Notification) string {
	icon := "ℹ️"
	switch notification.Type {
	case models.NotificationTypeSignal:
		icon = "📈"
	case models.NotificationTypeMarket:
		icon = "🕒"
	case models.NotificationTypePremium:
		icon = "⭐"
	case models.NotificationTypeAccount:
		icon = "👤"
	}
	if notification.Message == "" {
		return fmt.Sprintf("%s %s", icon, notification.Title)
	}
	return fmt.Sprintf("%s %s\n%s", icon, notification.Title, notification.Message)
}
