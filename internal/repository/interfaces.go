package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, userID int64) error
	GetByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	Update(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.Profile, error)
	BindTelegram(ctx context.Context, userID, chatID int64, username *string) error
}

// FollowRepository stores follow edges. Counts accept either the pool or an
// open transaction so the toggle can read its own writes.
type FollowRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64) (bool, error)
	Delete(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64) (bool, error)
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	CountFollowers(ctx context.Context, q sqlx.QueryerContext, profileID int64) (int, error)
	CountFollowing(ctx context.Context, q sqlx.QueryerContext, profileID int64) (int, error)
	GetFollowers(ctx context.Context, profileID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	GetFollowing(ctx context.Context, profileID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error)
}

type ReactionRepository interface {
	TargetExists(ctx context.Context, tx *sqlx.Tx, target model.Target) (bool, error)
	Create(ctx context.Context, tx *sqlx.Tx, userID int64, target model.Target) (bool, error)
	Delete(ctx context.Context, tx *sqlx.Tx, userID int64, target model.Target) (bool, error)
	Count(ctx context.Context, tx *sqlx.Tx, target model.Target) (int, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, activity *model.Activity) error
	ListRecent(ctx context.Context, userID int64, limit int) ([]model.Activity, error)
}

type IPLogRepository interface {
	Create(ctx context.Context, entry *model.IPChangeLog) error
	DistinctIPsSince(ctx context.Context, userID int64, since time.Time) ([]string, error)
}

type ArtistRepository interface {
	Create(ctx context.Context, artist *model.Artist) error
	GetBySlug(ctx context.Context, slug string, viewerID *int64) (*model.Artist, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64, viewerID *int64) (*model.Post, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	ListByPost(ctx context.Context, postID int64, cursor *string, limit int) ([]model.Comment, *string, error)
}

type TrackRepository interface {
	Create(ctx context.Context, track *model.Track) error
	GetByID(ctx context.Context, id int64, viewerID *int64) (*model.Track, error)
}
