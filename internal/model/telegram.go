package model

import "errors"

// TelegramUpdate is the subset of a Bot API update the webhook consumes.
type TelegramUpdate struct {
	UpdateID      int64            `json:"update_id"`
	Message       *TelegramMessage `json:"message,omitempty"`
	EditedMessage *TelegramMessage `json:"edited_message,omitempty"`
}

type TelegramMessage struct {
	MessageID int64         `json:"message_id"`
	Text      string        `json:"text"`
	Chat      TelegramChat  `json:"chat"`
	From      *TelegramUser `json:"from,omitempty"`
}

type TelegramChat struct {
	ID int64 `json:"id"`
}

type TelegramUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ConnectTokenResponse is returned to a user who wants to bind Telegram.
// The token is sent to the bot as "/start <token>".
type ConnectTokenResponse struct {
	Token        string `json:"token"`
	StartCommand string `json:"start_command"`
	BotURL       string `json:"bot_url,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
}

var (
	ErrConnectTokenInvalid = errors.New("invalid connect token")
	ErrConnectTokenExpired = errors.New("connect token expired")
	ErrTelegramDisabled    = errors.New("telegram integration is not configured")
)
