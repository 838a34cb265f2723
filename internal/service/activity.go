package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
	"vibemusic/internal/repository"
)

// ActivityService appends to and reads the per-user activity history.
type ActivityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Record appends an entry inside the caller's transaction so it commits or
// rolls back together with the change it describes.
func (s *ActivityService) Record(ctx context.Context, tx *sqlx.Tx, userID int64, activityType, message string, targetUserID *int64) (*model.Activity, error) {
	activity := &model.Activity{
		UserID:       userID,
		Type:         activityType,
		Message:      message,
		TargetUserID: targetUserID,
	}
	if err := s.repo.Create(ctx, tx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Recent returns the newest entries first. limit is clamped to [1, MaxActivityLimit];
// zero or negative selects DefaultActivityLimit.
func (s *ActivityService) Recent(ctx context.Context, userID int64, limit int) ([]model.Activity, error) {
	switch {
	case limit <= 0:
		limit = model.DefaultActivityLimit
	case limit > model.MaxActivityLimit:
		limit = model.MaxActivityLimit
	}
	return s.repo.ListRecent(ctx, userID, limit)
}
