package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post. A slug collision is reported as model.ErrSlugTaken.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO posts (user_id, artist_id, title, slug, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, p.UserID, p.ArtistID, p.Title, p.Slug, p.Content).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		switch {
		case hasPQCode(err, pqUniqueViolation):
			return model.ErrSlugTaken
		case hasPQCode(err, pqForeignKeyViolation) && pqConstraint(err) == "posts_artist_id_fkey":
			return model.ErrArtistNotFound
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID loads a post with live like and comment counts. viewerID may be nil.
func (r *postRepository) GetByID(ctx context.Context, id int64, viewerID *int64) (*model.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.artist_id, p.title, p.slug, p.content, p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM reactions rc WHERE rc.post_id = p.id) AS like_count,
		       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
		       EXISTS(SELECT 1 FROM reactions rv WHERE rv.post_id = p.id AND rv.user_id = $2) AS is_liked
		FROM posts p
		WHERE p.id = $1
	`

	var p model.Post
	if err := r.db.GetContext(ctx, &p, query, id, viewerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &p, nil
}

func (r *postRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return exists, nil
}
