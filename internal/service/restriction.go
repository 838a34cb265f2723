package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/cache"
	"vibemusic/internal/logger"
	"vibemusic/internal/metrics"
	"vibemusic/internal/model"
	"vibemusic/internal/repository"
)

// RestrictionPolicy configures the upload IP change guard.
type RestrictionPolicy struct {
	Window    time.Duration // how far back distinct IPs are counted
	Threshold int           // distinct IPs at which uploads are blocked
	Duration  time.Duration // how long a block lasts
}

// RestrictionService blocks uploads for users whose uploads arrive from too
// many different IP addresses in a short window.
type RestrictionService struct {
	iplogs repository.IPLogRepository
	flags  cache.RestrictionCache
	policy RestrictionPolicy
	now    func() time.Time
	log    *logrus.Entry
}

func NewRestrictionService(iplogs repository.IPLogRepository, flags cache.RestrictionCache, policy RestrictionPolicy) *RestrictionService {
	return &RestrictionService{
		iplogs: iplogs,
		flags:  flags,
		policy: policy,
		now:    time.Now,
		log:    logger.For("restriction"),
	}
}

// RecordUpload logs the IP an upload request came from.
func (s *RestrictionService) RecordUpload(ctx context.Context, userID int64, ip string) error {
	return s.iplogs.Create(ctx, &model.IPChangeLog{UserID: userID, IP: ip})
}

// Check reports whether userID may upload from ip. An active flag wins;
// otherwise the distinct IPs inside the window, counting ip itself, are
// compared with the threshold and a new flag is set when it is reached.
func (s *RestrictionService) Check(ctx context.Context, userID int64, ip string) (model.RestrictionStatus, error) {
	remaining, restricted, err := s.flags.Remaining(ctx, userID)
	if err != nil {
		return model.RestrictionStatus{}, err
	}
	if restricted {
		return model.RestrictionStatus{Restricted: true, RetryAfter: remaining}, nil
	}

	ips, err := s.iplogs.DistinctIPsSince(ctx, userID, s.now().Add(-s.policy.Window))
	if err != nil {
		return model.RestrictionStatus{}, err
	}

	distinct := len(ips)
	if !containsIP(ips, ip) {
		distinct++
	}
	if distinct < s.policy.Threshold {
		return model.RestrictionStatus{}, nil
	}

	if err := s.flags.Restrict(ctx, userID, s.policy.Duration); err != nil {
		return model.RestrictionStatus{}, err
	}
	metrics.UploadRestrictions.Inc()
	s.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"distinct_ips": distinct,
		"duration":     s.policy.Duration,
	}).Warn("uploads restricted after IP changes")

	return model.RestrictionStatus{Restricted: true, RetryAfter: s.policy.Duration}, nil
}

func containsIP(ips []string, ip string) bool {
	for _, candidate := range ips {
		if candidate == ip {
			return true
		}
	}
	return false
}
