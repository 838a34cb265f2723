package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
)

type reactionRepository struct {
	db *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// targetColumns maps a target kind to its entity table and reactions column.
func targetColumns(kind model.TargetKind) (table, column string, err error) {
	switch kind {
	case model.TargetPost:
		return "posts", "post_id", nil
	case model.TargetTrack:
		return "tracks", "track_id", nil
	case model.TargetComment:
		return "comments", "comment_id", nil
	case model.TargetArtist:
		return "artists", "artist_id", nil
	default:
		return "", "", model.ErrInvalidTargetKind
	}
}

func (r *reactionRepository) TargetExists(ctx context.Context, tx *sqlx.Tx, target model.Target) (bool, error) {
	table, _, err := targetColumns(target.Kind)
	if err != nil {
		return false, err
	}

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM ` + table + ` WHERE id = $1)`
	if err := tx.GetContext(ctx, &exists, query, target.ID); err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", target.Kind, err)
	}
	return exists, nil
}

// Create inserts the reaction and reports whether a row was written.
func (r *reactionRepository) Create(ctx context.Context, tx *sqlx.Tx, userID int64, target model.Target) (bool, error) {
	_, column, err := targetColumns(target.Kind)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO reactions (user_id, ` + column + `)
		VALUES ($1, $2)
		ON CONFLICT (user_id, ` + column + `) WHERE ` + column + ` IS NOT NULL DO NOTHING`
	result, err := tx.ExecContext(ctx, query, userID, target.ID)
	if err != nil {
		if hasPQCode(err, pqForeignKeyViolation) {
			return false, model.ErrTargetNotFound
		}
		return false, fmt.Errorf("failed to create reaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// Delete removes the reaction and reports whether a row was removed.
func (r *reactionRepository) Delete(ctx context.Context, tx *sqlx.Tx, userID int64, target model.Target) (bool, error) {
	_, column, err := targetColumns(target.Kind)
	if err != nil {
		return false, err
	}

	query := `DELETE FROM reactions WHERE user_id = $1 AND ` + column + ` = $2`
	result, err := tx.ExecContext(ctx, query, userID, target.ID)
	if err != nil {
		return false, fmt.Errorf("failed to delete reaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *reactionRepository) Count(ctx context.Context, tx *sqlx.Tx, target model.Target) (int, error) {
	_, column, err := targetColumns(target.Kind)
	if err != nil {
		return 0, err
	}

	var count int
	query := `SELECT COUNT(*) FROM reactions WHERE ` + column + ` = $1`
	if err := tx.GetContext(ctx, &count, query, target.ID); err != nil {
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return count, nil
}
