package model

import (
	"errors"
	"time"
)

// Profile extends a User with social and integration attributes.
// UserID doubles as the profile identifier.
type Profile struct {
	UserID           int64     `db:"user_id" json:"id"`
	Username         string    `db:"username" json:"username"`
	PhotoURL         *string   `db:"photo_url" json:"photo_url"`
	PhoneNumber      *string   `db:"phone_number" json:"phone_number,omitempty"`
	TelegramChatID   *int64    `db:"telegram_chat_id" json:"-"`
	TelegramUsername *string   `db:"telegram_username" json:"telegram_username,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// HasTelegram reports whether the profile is bound to a Telegram chat.
func (p *Profile) HasTelegram() bool {
	return p.TelegramChatID != nil && *p.TelegramChatID != 0
}

// ProfileResponse is a profile with live relationship counts.
type ProfileResponse struct {
	*Profile
	FollowersCount int  `json:"followers_count"`
	FollowingCount int  `json:"following_count"`
	IsFollowing    bool `json:"is_following"`
	TelegramLinked bool `json:"telegram_linked"`
}

// UpdateProfileRequest carries editable profile fields. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url,max=2048"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20,printascii"`
}

var ErrProfileNotFound = errors.New("profile not found")
