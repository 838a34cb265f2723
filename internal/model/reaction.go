package model

import (
	"errors"
	"strings"
)

// TargetKind identifies which likeable entity a reaction points at.
type TargetKind int

const (
	TargetPost TargetKind = iota + 1
	TargetTrack
	TargetComment
	TargetArtist
)

var targetKindNames = map[string]TargetKind{
	"post":    TargetPost,
	"track":   TargetTrack,
	"comment": TargetComment,
	"artist":  TargetArtist,
}

// ParseTargetKind maps the wire name of a target kind to its enum value.
func ParseTargetKind(s string) (TargetKind, error) {
	kind, ok := targetKindNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, ErrInvalidTargetKind
	}
	return kind, nil
}

func (k TargetKind) Valid() bool {
	return k >= TargetPost && k <= TargetArtist
}

func (k TargetKind) String() string {
	switch k {
	case TargetPost:
		return "post"
	case TargetTrack:
		return "track"
	case TargetComment:
		return "comment"
	case TargetArtist:
		return "artist"
	default:
		return "unknown"
	}
}

// Target is a typed reference to one likeable entity.
type Target struct {
	Kind TargetKind
	ID   int64
}

// ToggleReactionRequest is the body of POST /reactions/toggle.
type ToggleReactionRequest struct {
	Type string `json:"type"`
	ID   int64  `json:"id" validate:"required,gt=0"`
}

// ReactionResult is the state after a reaction toggle.
type ReactionResult struct {
	Liked bool
	Count int
}

// ToggleReactionResponse is the HTTP body for a successful reaction toggle.
type ToggleReactionResponse struct {
	Success   bool `json:"success"`
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

var (
	ErrInvalidTargetKind = errors.New("invalid target type")
	ErrTargetNotFound    = errors.New("target not found")
)
