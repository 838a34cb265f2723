package model

import (
	"errors"
	"time"
)

// Track is an uploaded audio file. AudioURL is derived from AudioKey.
type Track struct {
	ID        int64     `db:"id" json:"id"`
	UserID    *int64    `db:"user_id" json:"user_id,omitempty"`
	ArtistID  *int64    `db:"artist_id" json:"artist_id,omitempty"`
	Title     string    `db:"title" json:"title"`
	AudioKey  string    `db:"audio_key" json:"audio_key"`
	AudioURL  string    `db:"-" json:"audio_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	LikeCount int       `db:"like_count" json:"like_count"`
	IsLiked   bool      `db:"is_liked" json:"is_liked"`
}

// ConfirmTrackUploadRequest registers an object uploaded through a presigned URL.
type ConfirmTrackUploadRequest struct {
	Key      string `json:"key" validate:"required,max=512"`
	Title    string `json:"title" validate:"required,max=200"`
	ArtistID *int64 `json:"artist_id" validate:"omitempty,gt=0"`
}

var (
	ErrTrackNotFound   = errors.New("track not found")
	ErrTrackExists     = errors.New("track already registered")
	ErrInvalidTrackKey = errors.New("invalid track key")
	ErrUploadMissing   = errors.New("uploaded object not found")
)
