package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the notification stream
const (
	EventUserFollowed  = "user_followed"
	EventTelegramReply = "telegram_reply"
)

// Stream names
const (
	StreamNotifications = "stream:notifications"
)

// Consumer group name for notification workers
const (
	ConsumerGroupNotifications = "notification_workers"
)

// Event is a message on the notification stream.
type Event struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	// UserFollowed
	FollowerID int64 `json:"follower_id,omitempty"`
	FolloweeID int64 `json:"followee_id,omitempty"`

	// TelegramReply
	ChatID int64  `json:"chat_id,omitempty"`
	Text   string `json:"text,omitempty"`
}

// NewUserFollowedEvent is published after a follow commits.
// The worker tells the followee over Telegram.
func NewUserFollowedEvent(followerID, followeeID int64) Event {
	return Event{
		Type:       EventUserFollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
}

// NewTelegramReplyEvent queues a bot reply so the webhook can answer immediately.
func NewTelegramReplyEvent(chatID int64, text string) Event {
	return Event{
		Type:      EventTelegramReply,
		Timestamp: time.Now().Unix(),
		ChatID:    chatID,
		Text:      text,
	}
}

// ToMap converts the event to XADD field-value pairs. The payload is JSON in "data".
func (e Event) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseEvent parses an Event from Redis stream message values.
func ParseEvent(values map[string]interface{}) (Event, error) {
	data, ok := values["data"].(string)
	if !ok {
		return Event{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
