package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
)

type ipLogRepository struct {
	db *sqlx.DB
}

func NewIPLogRepository(db *sqlx.DB) IPLogRepository {
	return &ipLogRepository{db: db}
}

func (r *ipLogRepository) Create(ctx context.Context, entry *model.IPChangeLog) error {
	query := `
		INSERT INTO ip_change_logs (user_id, ip, bytes_uploaded)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, entry.UserID, entry.IP, entry.BytesUploaded).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log upload ip: %w", err)
	}
	return nil
}

// DistinctIPsSince returns the distinct IPs a user uploaded from after since.
func (r *ipLogRepository) DistinctIPsSince(ctx context.Context, userID int64, since time.Time) ([]string, error) {
	query := `SELECT DISTINCT ip FROM ip_change_logs WHERE user_id = $1 AND created_at >= $2`
	ips := []string{}
	if err := r.db.SelectContext(ctx, &ips, query, userID, since); err != nil {
		return nil, fmt.Errorf("failed to list upload ips: %w", err)
	}
	return ips, nil
}
