package model

import (
	"errors"
	"time"
)

// Post is a blog entry, optionally about one artist.
type Post struct {
	ID           int64     `db:"id" json:"id"`
	UserID       *int64    `db:"user_id" json:"user_id,omitempty"`
	ArtistID     *int64    `db:"artist_id" json:"artist_id,omitempty"`
	Title        string    `db:"title" json:"title"`
	Slug         string    `db:"slug" json:"slug"`
	Content      string    `db:"content" json:"content"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	LikeCount    int       `db:"like_count" json:"like_count"`
	CommentCount int       `db:"comment_count" json:"comment_count"`
	IsLiked      bool      `db:"is_liked" json:"is_liked"`
}

type CreatePostRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required,max=20000"`
	ArtistID *int64 `json:"artist_id" validate:"omitempty,gt=0"`
}

var ErrPostNotFound = errors.New("post not found")
