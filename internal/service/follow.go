package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"vibemusic/internal/database"
	"vibemusic/internal/logger"
	"vibemusic/internal/metrics"
	"vibemusic/internal/model"
	"vibemusic/internal/queue"
	"vibemusic/internal/repository"
)

type FollowService struct {
	follows    repository.FollowRepository
	profiles   repository.ProfileRepository
	activities *ActivityService
	tx         database.Transactor
	publisher  queue.Publisher
	log        *logrus.Entry
}

func NewFollowService(
	follows repository.FollowRepository,
	profiles repository.ProfileRepository,
	activities *ActivityService,
	tx database.Transactor,
	publisher queue.Publisher,
) *FollowService {
	return &FollowService{
		follows:    follows,
		profiles:   profiles,
		activities: activities,
		tx:         tx,
		publisher:  publisher,
		log:        logger.For("follow"),
	}
}

// Toggle follows targetID if followerID does not follow it yet and unfollows
// it otherwise. The edge change, the activity entry and the follower count
// read happen in one transaction. The Telegram notification is queued only
// after commit and never affects the result.
func (s *FollowService) Toggle(ctx context.Context, followerID, targetID int64) (*model.FollowResult, error) {
	if followerID == targetID {
		return nil, model.ErrCannotFollowSelf
	}

	if _, err := s.profiles.GetByUserID(ctx, followerID); err != nil {
		return nil, err
	}
	target, err := s.profiles.GetByUserID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	var result model.FollowResult
	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		followed, err := toggleEdge(
			func() (bool, error) { return s.follows.Create(ctx, tx, followerID, targetID) },
			func() (bool, error) { return s.follows.Delete(ctx, tx, followerID, targetID) },
		)
		if err != nil {
			return err
		}

		activityType, message := model.ActivityUnfollow, fmt.Sprintf("You unfollowed %s", target.Username)
		result.Action = model.ActionUnfollowed
		if followed {
			activityType, message = model.ActivityFollow, fmt.Sprintf("You followed %s", target.Username)
			result.Action = model.ActionFollowed
		}

		if _, err := s.activities.Record(ctx, tx, followerID, activityType, message, &targetID); err != nil {
			return err
		}

		count, err := s.follows.CountFollowers(ctx, tx, targetID)
		if err != nil {
			return err
		}
		result.FollowersCount = count
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrToggleConflict) {
			metrics.FollowToggles.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	metrics.FollowToggles.WithLabelValues(string(result.Action)).Inc()

	if result.Action == model.ActionFollowed && target.HasTelegram() {
		s.publishFollowed(ctx, followerID, targetID)
	}

	return &result, nil
}

// publishFollowed is best effort: a failure is logged and swallowed.
func (s *FollowService) publishFollowed(ctx context.Context, followerID, targetID int64) {
	if s.publisher == nil {
		return
	}

	log := s.log.WithFields(logrus.Fields{"follower_id": followerID, "followee_id": targetID})
	msgID, err := s.publisher.Publish(ctx, queue.StreamNotifications, queue.NewUserFollowedEvent(followerID, targetID))
	if err != nil {
		log.WithError(err).Warn("failed to publish user_followed event")
		return
	}
	log.WithField("msg_id", msgID).Debug("published user_followed event")
}

// GetFollowers returns profiles following profileID, newest first. When
// viewerID is set each entry reports whether the viewer follows it; that
// enrichment degrades to false on error.
func (s *FollowService) GetFollowers(ctx context.Context, profileID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error) {
	if _, err := s.profiles.GetByUserID(ctx, profileID); err != nil {
		return nil, err
	}

	users, nextCursor, err := s.follows.GetFollowers(ctx, profileID, cursor, limit)
	if err != nil {
		return nil, err
	}
	return s.listResponse(ctx, users, nextCursor, viewerID), nil
}

// GetFollowing returns profiles that profileID follows. See GetFollowers.
func (s *FollowService) GetFollowing(ctx context.Context, profileID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error) {
	if _, err := s.profiles.GetByUserID(ctx, profileID); err != nil {
		return nil, err
	}

	users, nextCursor, err := s.follows.GetFollowing(ctx, profileID, cursor, limit)
	if err != nil {
		return nil, err
	}
	return s.listResponse(ctx, users, nextCursor, viewerID), nil
}

func (s *FollowService) listResponse(ctx context.Context, users []model.UserSummary, nextCursor *time.Time, viewerID *int64) *model.FollowListResponse {
	if viewerID != nil {
		users = s.enrichWithFollowStatus(ctx, *viewerID, users)
	}

	var nextCursorStr *string
	if nextCursor != nil {
		str := nextCursor.Format(time.RFC3339Nano)
		nextCursorStr = &str
	}

	return &model.FollowListResponse{
		Users:      users,
		NextCursor: nextCursorStr,
		HasMore:    nextCursor != nil,
	}
}

// enrichWithFollowStatus checks the whole page with one ANY($2) query.
func (s *FollowService) enrichWithFollowStatus(ctx context.Context, viewerID int64, users []model.UserSummary) []model.UserSummary {
	if len(users) == 0 {
		return users
	}

	userIDs := make([]int64, len(users))
	for i, user := range users {
		userIDs[i] = user.ID
	}

	followMap, err := s.follows.CheckFollows(ctx, viewerID, userIDs)
	if err != nil {
		s.log.WithError(err).Warn("follow status enrichment failed")
		return users
	}

	for i := range users {
		users[i].IsFollowing = followMap[users[i].ID]
	}

	return users
}
