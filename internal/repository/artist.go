package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
)

type artistRepository struct {
	db *sqlx.DB
}

func NewArtistRepository(db *sqlx.DB) ArtistRepository {
	return &artistRepository{db: db}
}

// Create inserts the artist. A slug collision is reported as model.ErrSlugTaken
// so the caller can retry with another slug; a duplicate name is final.
func (r *artistRepository) Create(ctx context.Context, a *model.Artist) error {
	query := `
		INSERT INTO artists (name, slug, bio)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, a.Name, a.Slug, a.Bio).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if hasPQCode(err, pqUniqueViolation) {
			if pqConstraint(err) == "artists_slug_key" {
				return model.ErrSlugTaken
			}
			return model.ErrArtistExists
		}
		return fmt.Errorf("failed to insert artist: %w", err)
	}
	return nil
}

// GetBySlug loads an artist page with its live like count. viewerID may be nil.
func (r *artistRepository) GetBySlug(ctx context.Context, slug string, viewerID *int64) (*model.Artist, error) {
	query := `
		SELECT a.id, a.name, a.slug, a.bio, a.created_at,
		       (SELECT COUNT(*) FROM reactions rc WHERE rc.artist_id = a.id) AS like_count,
		       EXISTS(SELECT 1 FROM reactions rv WHERE rv.artist_id = a.id AND rv.user_id = $2) AS is_liked
		FROM artists a
		WHERE a.slug = $1
	`

	var a model.Artist
	if err := r.db.GetContext(ctx, &a, query, slug, viewerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}
	return &a, nil
}
