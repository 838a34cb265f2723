package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
)

type activityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create appends an activity; id and created_at come from the database.
func (r *activityRepository) Create(ctx context.Context, tx *sqlx.Tx, a *model.Activity) error {
	query := `
		INSERT INTO activities (user_id, activity_type, message, target_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := tx.QueryRowxContext(ctx, query, a.UserID, a.Type, a.Message, a.TargetUserID).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

func (r *activityRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]model.Activity, error) {
	query := `
		SELECT id, user_id, activity_type, message, target_user_id, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	activities := []model.Activity{}
	if err := r.db.SelectContext(ctx, &activities, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}
