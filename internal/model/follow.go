package model

import "errors"

// FollowAction is the outcome of a follow toggle.
type FollowAction string

const (
	ActionFollowed   FollowAction = "followed"
	ActionUnfollowed FollowAction = "unfollowed"
)

// FollowResult is returned by the follow toggle.
type FollowResult struct {
	Action         FollowAction `json:"action"`
	FollowersCount int          `json:"followers_count"`
}

// FollowToggleResponse is the HTTP body for a successful follow toggle.
type FollowToggleResponse struct {
	Success        bool         `json:"success"`
	Action         FollowAction `json:"action"`
	FollowersCount int          `json:"followers_count"`
}

type UserSummary struct {
	ID          int64   `db:"id" json:"id"`
	Username    string  `db:"username" json:"username"`
	PhotoURL    *string `db:"photo_url" json:"photo_url"`
	IsFollowing bool    `json:"is_following"`
}

type FollowListResponse struct {
	Users      []UserSummary `json:"users"`
	NextCursor *string       `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// MaxToggleAttempts bounds how often a toggle retries when a concurrent
// toggle removed the row between the insert and the delete.
const MaxToggleAttempts = 3

var (
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrToggleConflict   = errors.New("toggle conflicted with concurrent updates")
)
