package model

import (
	"errors"
	"time"
)

// Artist is a likeable artist page. LikeCount and IsLiked are computed on read.
type Artist struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Bio       string    `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	LikeCount int       `db:"like_count" json:"like_count"`
	IsLiked   bool      `db:"is_liked" json:"is_liked"`
}

type CreateArtistRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Bio  string `json:"bio" validate:"max=7000"`
}

var (
	ErrArtistNotFound = errors.New("artist not found")
	ErrArtistExists   = errors.New("artist already exists")
	ErrSlugTaken      = errors.New("slug already taken")
)
