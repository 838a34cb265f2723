package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/repository"
)

type ProfileService struct {
	profiles repository.ProfileRepository
	follows  repository.FollowRepository
	db       sqlx.QueryerContext
}

func NewProfileService(profiles repository.ProfileRepository, follows repository.FollowRepository, db sqlx.QueryerContext) *ProfileService {
	return &ProfileService{profiles: profiles, follows: follows, db: db}
}

// GetProfile returns the profile with live follower and following counts.
// IsFollowing is only computed for an authenticated viewer other than the
// owner, and falls back to false if the lookup fails.
func (s *ProfileService) GetProfile(ctx context.Context, profileID int64, viewerID *int64) (*model.ProfileResponse, error) {
	profile, err := s.profiles.GetByUserID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	followers, err := s.follows.CountFollowers(ctx, s.db, profileID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.CountFollowing(ctx, s.db, profileID)
	if err != nil {
		return nil, err
	}

	resp := &model.ProfileResponse{
		Profile:        profile,
		FollowersCount: followers,
		FollowingCount: following,
		TelegramLinked: profile.HasTelegram(),
	}

	if viewerID != nil && *viewerID != profileID {
		isFollowing, err := s.follows.Exists(ctx, *viewerID, profileID)
		if err != nil {
			logger.For("profile").WithError(err).Warn("follow status lookup failed")
		} else {
			resp.IsFollowing = isFollowing
		}
	}

	return resp, nil
}

// Update changes the editable fields of the caller's own profile.
func (s *ProfileService) Update(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.Profile, error) {
	return s.profiles.Update(ctx, userID, req)
}
