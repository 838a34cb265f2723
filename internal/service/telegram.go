package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/logger"
	"vibemusic/internal/metrics"
	"vibemusic/internal/model"
	"vibemusic/internal/queue"
	"vibemusic/internal/repository"
)

// Bot replies
const (
	replyLinked       = "Your account is now linked to Telegram. You will receive notifications here."
	replyInvalidToken = "Invalid or expired token. Please request a new one and try again."
)

// markdownEscaper escapes the entity markers of Telegram's legacy Markdown mode.
var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// TelegramService binds Telegram chats to profiles and delivers notifications.
type TelegramService struct {
	signer      *ConnectTokenSigner
	client      TelegramClient
	users       repository.UserRepository
	profiles    repository.ProfileRepository
	publisher   queue.Publisher
	botUsername string
	log         *logrus.Entry
}

func NewTelegramService(
	signer *ConnectTokenSigner,
	client TelegramClient,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	publisher queue.Publisher,
	botUsername string,
) *TelegramService {
	return &TelegramService{
		signer:      signer,
		client:      client,
		users:       users,
		profiles:    profiles,
		publisher:   publisher,
		botUsername: strings.TrimPrefix(botUsername, "@"),
		log:         logger.For("telegram"),
	}
}

// IssueConnectToken returns a token the user sends to the bot as "/start <token>".
func (s *TelegramService) IssueConnectToken(userID int64) (*model.ConnectTokenResponse, error) {
	token, err := s.signer.Sign(userID)
	if err != nil {
		return nil, fmt.Errorf("sign connect token: %w", err)
	}

	resp := &model.ConnectTokenResponse{
		Token:        token,
		StartCommand: "/start " + token,
		ExpiresIn:    int(s.signer.TTL().Seconds()),
	}
	if s.botUsername != "" {
		resp.BotURL = "https://t.me/" + s.botUsername
	}
	return resp, nil
}

// HandleUpdate processes one webhook update. Only "/start <token>" in a
// message or edited message has an effect; everything else is ignored.
// Replies are sent asynchronously.
func (s *TelegramService) HandleUpdate(ctx context.Context, update *model.TelegramUpdate) error {
	msg := update.Message
	if msg == nil {
		msg = update.EditedMessage
	}
	if msg == nil {
		return nil
	}

	parts := strings.Fields(msg.Text)
	if len(parts) < 2 || parts[0] != "/start" {
		return nil
	}

	log := s.log.WithField("chat_id", msg.Chat.ID)

	userID, err := s.signer.Verify(parts[1])
	if err != nil {
		log.WithError(err).Warn("rejected connect token")
		s.reply(ctx, msg.Chat.ID, replyInvalidToken)
		return nil
	}

	var tgUsername *string
	if msg.From != nil && msg.From.Username != "" {
		name := "@" + msg.From.Username
		tgUsername = &name
	}

	if err := s.profiles.BindTelegram(ctx, userID, msg.Chat.ID, tgUsername); err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			log.WithField("user_id", userID).Warn("connect token for missing profile")
			s.reply(ctx, msg.Chat.ID, replyInvalidToken)
			return nil
		}
		return err
	}

	log.WithField("user_id", userID).Info("telegram chat linked")
	s.reply(ctx, msg.Chat.ID, replyLinked)
	return nil
}

// reply queues the message on the notification stream, falling back to a
// background send when the stream is unavailable.
func (s *TelegramService) reply(ctx context.Context, chatID int64, text string) {
	if s.publisher != nil {
		_, err := s.publisher.Publish(ctx, queue.StreamNotifications, queue.NewTelegramReplyEvent(chatID, text))
		if err == nil {
			return
		}
		s.log.WithError(err).Warn("failed to queue reply, sending directly")
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), telegramSendTimeout)
		defer cancel()
		if err := s.Send(sendCtx, chatID, text); err != nil {
			s.log.WithError(err).WithField("chat_id", chatID).Error("reply failed")
		}
	}()
}

// Send delivers text to chatID and records the outcome.
func (s *TelegramService) Send(ctx context.Context, chatID int64, text string) error {
	err := s.client.SendMessage(ctx, chatID, text)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.NotificationsSent.WithLabelValues(queue.EventTelegramReply, result).Inc()
	return err
}

// NotifyFollowed tells followeeID that followerID started following them.
// Followees without a linked chat are skipped.
func (s *TelegramService) NotifyFollowed(ctx context.Context, followerID, followeeID int64) error {
	followee, err := s.profiles.GetByUserID(ctx, followeeID)
	if err != nil {
		return fmt.Errorf("load followee profile: %w", err)
	}
	if !followee.HasTelegram() {
		return nil
	}

	follower, err := s.users.GetByID(ctx, followerID)
	if err != nil {
		return fmt.Errorf("load follower: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, telegramSendTimeout)
	defer cancel()

	start := time.Now()
	err = s.client.SendMessage(ctx, *followee.TelegramChatID, fmt.Sprintf("%s followed you", escapeMarkdown(follower.Username)))
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.NotificationsSent.WithLabelValues(queue.EventUserFollowed, result).Inc()
	if err != nil {
		return fmt.Errorf("send follow notification: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"follower_id": followerID,
		"followee_id": followeeID,
		"duration":    time.Since(start),
	}).Info("follow notification sent")
	return nil
}
