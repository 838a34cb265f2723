package model

import (
	"time"
)

// Activity types
const (
	ActivityFollow   = "follow"
	ActivityUnfollow = "unfollow"
)

// Activity is an append-only entry in a user's history feed.
type Activity struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Type         string    `db:"activity_type" json:"type"`
	Message      string    `db:"message" json:"message"`
	TargetUserID *int64    `db:"target_user_id" json:"target_user_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Activity list bounds
const (
	DefaultActivityLimit = 10
	MaxActivityLimit     = 50
)

type ActivityListResponse struct {
	Activities []Activity `json:"activities"`
}
