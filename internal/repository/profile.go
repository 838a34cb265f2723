package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `
	p.user_id, u.username, p.photo_url, p.phone_number, p.telegram_chat_id,
	p.telegram_username, p.created_at, p.updated_at`

func (r *profileRepository) Create(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO profiles (user_id) VALUES ($1)`, userID)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1`

	var p model.Profile
	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Update applies the non-nil fields of req and returns the stored profile.
func (r *profileRepository) Update(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.Profile, error) {
	query := `
		WITH updated AS (
			UPDATE profiles
			SET photo_url    = COALESCE($2, photo_url),
			    phone_number = COALESCE($3, phone_number),
			    updated_at   = NOW()
			WHERE user_id = $1
			RETURNING *
		)
		SELECT ` + profileColumns + `
		FROM updated p
		JOIN users u ON u.id = p.user_id`

	var p model.Profile
	if err := r.db.GetContext(ctx, &p, query, userID, req.PhotoURL, req.PhoneNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &p, nil
}

// BindTelegram stores the chat a user connected through the bot.
func (r *profileRepository) BindTelegram(ctx context.Context, userID, chatID int64, username *string) error {
	query := `
		UPDATE profiles
		SET telegram_chat_id = $2, telegram_username = $3, updated_at = NOW()
		WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, chatID, username)
	if err != nil {
		return fmt.Errorf("failed to bind telegram: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}
