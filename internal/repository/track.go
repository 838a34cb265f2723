package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
)

type trackRepository struct {
	db *sqlx.DB
}

func NewTrackRepository(db *sqlx.DB) TrackRepository {
	return &trackRepository{db: db}
}

// Create registers an uploaded audio object. Each object key maps to one track.
func (r *trackRepository) Create(ctx context.Context, t *model.Track) error {
	query := `
		INSERT INTO tracks (user_id, artist_id, title, audio_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, t.UserID, t.ArtistID, t.Title, t.AudioKey).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		switch {
		case hasPQCode(err, pqUniqueViolation):
			return model.ErrTrackExists
		case hasPQCode(err, pqForeignKeyViolation) && pqConstraint(err) == "tracks_artist_id_fkey":
			return model.ErrArtistNotFound
		}
		return fmt.Errorf("failed to insert track: %w", err)
	}
	return nil
}

func (r *trackRepository) GetByID(ctx context.Context, id int64, viewerID *int64) (*model.Track, error) {
	query := `
		SELECT t.id, t.user_id, t.artist_id, t.title, t.audio_key, t.created_at,
		       (SELECT COUNT(*) FROM reactions rc WHERE rc.track_id = t.id) AS like_count,
		       EXISTS(SELECT 1 FROM reactions rv WHERE rv.track_id = t.id AND rv.user_id = $2) AS is_liked
		FROM tracks t
		WHERE t.id = $1
	`

	var t model.Track
	if err := r.db.GetContext(ctx, &t, query, id, viewerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTrackNotFound
		}
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return &t, nil
}
