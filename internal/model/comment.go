package model

import (
	"errors"
	"time"
)

// Comment is a post comment. Replies point at a top-level comment of the same post.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	ParentID  *int64    `db:"parent_id" json:"parent_id,omitempty"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	LikeCount int       `db:"like_count" json:"like_count"`
}

type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,max=2200"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

type CommentListResponse struct {
	Comments   []Comment `json:"comments"`
	NextCursor *string   `json:"next_cursor,omitempty"`
	HasMore    bool      `json:"has_more"`
}

var (
	ErrCommentNotFound   = errors.New("comment not found")
	ErrContentRequired   = errors.New("comment content is required")
	ErrParentOtherPost   = errors.New("parent comment belongs to another post")
	ErrInvalidListCursor = errors.New("invalid cursor")
)
