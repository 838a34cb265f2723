package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vibemusic/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the edge and reports whether a row was written. A concurrent
// delete of either profile surfaces as ErrProfileNotFound.
func (r *followRepository) Create(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		if hasPQCode(err, pqForeignKeyViolation) {
			return false, model.ErrProfileNotFound
		}
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Delete removes the edge and reports whether a row was removed.
func (r *followRepository) Delete(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64) (bool, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`
	result, err := tx.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, q sqlx.QueryerContext, profileID int64) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count, `SELECT COUNT(*) FROM follows WHERE followee_id = $1`, profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, q sqlx.QueryerContext, profileID int64) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to count following: %w", err)
	}
	return count, nil
}

// GetFollowers lists profiles following profileID, newest edge first.
// The cursor is the created_at of the last edge on the previous page; one
// extra row is fetched to detect whether another page exists.
func (r *followRepository) GetFollowers(ctx context.Context, profileID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	return r.list(ctx, "follower_id", "followee_id", profileID, cursor, limit)
}

// GetFollowing lists profiles that profileID follows. Paging matches GetFollowers.
func (r *followRepository) GetFollowing(ctx context.Context, profileID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	return r.list(ctx, "followee_id", "follower_id", profileID, cursor, limit)
}

// list joins the profile on joinCol for edges whose filterCol equals profileID.
// Both column names are compile-time constants.
func (r *followRepository) list(ctx context.Context, joinCol, filterCol string, profileID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	query := `
		SELECT u.id, u.username, p.photo_url, f.created_at
		FROM follows f
		JOIN profiles p ON p.user_id = f.` + joinCol + `
		JOIN users u ON u.id = p.user_id
		WHERE f.` + filterCol + ` = $1`
	args := []interface{}{profileID}

	if cursor != nil {
		query += ` AND f.created_at < $2 ORDER BY f.created_at DESC LIMIT $3`
		args = append(args, *cursor, limit+1)
	} else {
		query += ` ORDER BY f.created_at DESC LIMIT $2`
		args = append(args, limit+1)
	}

	type userWithTime struct {
		model.UserSummary
		CreatedAt time.Time `db:"created_at"`
	}

	var results []userWithTime
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, nil, fmt.Errorf("failed to list follows: %w", err)
	}

	var nextCursor *time.Time
	if len(results) > limit {
		results = results[:limit]
		nextCursor = &results[len(results)-1].CreatedAt
	}

	users := make([]model.UserSummary, 0, len(results))
	for _, result := range results {
		users = append(users, result.UserSummary)
	}

	return users, nextCursor, nil
}

func (r *followRepository) CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error) {
	if len(followeeIDs) == 0 {
		return make(map[int64]bool), nil
	}

	query := `SELECT followee_id FROM follows WHERE follower_id = $1 AND followee_id = ANY($2)`
	var followedIDs []int64
	err := r.db.SelectContext(ctx, &followedIDs, query, followerID, pq.Array(followeeIDs))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check follows: %w", err)
	}

	result := make(map[int64]bool, len(followeeIDs))
	for _, id := range followeeIDs {
		result[id] = false
	}
	for _, id := range followedIDs {
		result[id] = true
	}

	return result, nil
}
