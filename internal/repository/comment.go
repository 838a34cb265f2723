package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `
	c.id, c.post_id, c.user_id, u.username, c.parent_id, c.content, c.created_at,
	(SELECT COUNT(*) FROM reactions rc WHERE rc.comment_id = c.id) AS like_count
`

// Create inserts the comment and fills in its id and timestamp.
func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, c.PostID, c.UserID, c.ParentID, c.Content).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if hasPQCode(err, pqForeignKeyViolation) {
			switch pqConstraint(err) {
			case "comments_post_id_fkey":
				return model.ErrPostNotFound
			case "comments_parent_id_fkey":
				return model.ErrCommentNotFound
			}
		}
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`

	var c model.Comment
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &c, nil
}

// ListByPost returns a page of comments, newest first. The cursor is opaque
// to callers and encodes the (created_at, id) of the last comment returned.
func (r *commentRepository) ListByPost(ctx context.Context, postID int64, cursor *string, limit int) ([]model.Comment, *string, error) {
	var (
		query string
		args  []interface{}
	)

	if cursor == nil {
		query = `SELECT ` + commentColumns + `
			FROM comments c
			JOIN users u ON u.id = c.user_id
			WHERE c.post_id = $1
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $2`
		args = []interface{}{postID, limit + 1}
	} else {
		ts, id, err := parseCommentCursor(*cursor)
		if err != nil {
			return nil, nil, err
		}
		query = `SELECT ` + commentColumns + `
			FROM comments c
			JOIN users u ON u.id = c.user_id
			WHERE c.post_id = $1 AND (c.created_at, c.id) < ($2, $3)
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $4`
		args = []interface{}{postID, ts, id, limit + 1}
	}

	comments := []model.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, nil, fmt.Errorf("failed to list comments: %w", err)
	}

	var next *string
	if len(comments) > limit {
		comments = comments[:limit]
		last := comments[len(comments)-1]
		c := formatCommentCursor(last.CreatedAt, last.ID)
		next = &c
	}
	return comments, next, nil
}

// formatCommentCursor encodes "id:unix_nanos".
func formatCommentCursor(t time.Time, id int64) string {
	return strconv.FormatInt(id, 10) + ":" + strconv.FormatInt(t.UnixNano(), 10)
}

func parseCommentCursor(cursor string) (time.Time, int64, error) {
	idStr, tsStr, ok := strings.Cut(cursor, ":")
	if !ok {
		return time.Time{}, 0, model.ErrInvalidListCursor
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return time.Time{}, 0, model.ErrInvalidListCursor
	}
	ns, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return time.Time{}, 0, model.ErrInvalidListCursor
	}
	return time.Unix(0, ns).UTC(), id, nil
}
