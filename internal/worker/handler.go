package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/logger"
	"vibemusic/internal/queue"
)

// Notifier delivers Telegram messages. Implemented by service.TelegramService.
type Notifier interface {
	NotifyFollowed(ctx context.Context, followerID, followeeID int64) error
	Send(ctx context.Context, chatID int64, text string) error
}

// Handler routes notification stream events to the Notifier.
type Handler struct {
	notifier Notifier
	log      *logrus.Entry
}

func NewHandler(notifier Notifier) *Handler {
	return &Handler{notifier: notifier, log: logger.For("worker")}
}

// HandleEvent routes an event based on its type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.Event) error {
	start := time.Now()
	var err error

	switch event.Type {
	case queue.EventUserFollowed:
		err = h.handleUserFollowed(ctx, event)
	case queue.EventTelegramReply:
		err = h.handleTelegramReply(ctx, event)
	default:
		h.log.WithField("type", event.Type).Warn("unknown event type")
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	log := h.log.WithFields(logrus.Fields{"type": event.Type, "duration": time.Since(start)})
	if err != nil {
		log.WithError(err).Warn("event failed")
		return err
	}
	log.Debug("event handled")
	return nil
}

func (h *Handler) handleUserFollowed(ctx context.Context, event queue.Event) error {
	if event.FollowerID == 0 || event.FolloweeID == 0 {
		return fmt.Errorf("user_followed: missing follower or followee")
	}
	return h.notifier.NotifyFollowed(ctx, event.FollowerID, event.FolloweeID)
}

func (h *Handler) handleTelegramReply(ctx context.Context, event queue.Event) error {
	if event.ChatID == 0 || event.Text == "" {
		return fmt.Errorf("telegram_reply: missing chat or text")
	}
	return h.notifier.Send(ctx, event.ChatID, event.Text)
}
