package service

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"vibemusic/internal/database"
	"vibemusic/internal/logger"
	"vibemusic/internal/metrics"
	"vibemusic/internal/model"
	"vibemusic/internal/repository"
)

// ReactionService toggles likes on posts, tracks, comments and artists.
// Reactions deliberately record no activity entry.
type ReactionService struct {
	reactions repository.ReactionRepository
	tx        database.Transactor
}

func NewReactionService(reactions repository.ReactionRepository, tx database.Transactor) *ReactionService {
	return &ReactionService{reactions: reactions, tx: tx}
}

// Toggle likes the target if the user has not liked it yet and unlikes it
// otherwise. The returned count is read inside the same transaction.
func (s *ReactionService) Toggle(ctx context.Context, userID int64, target model.Target) (*model.ReactionResult, error) {
	if !target.Kind.Valid() {
		return nil, model.ErrInvalidTargetKind
	}

	var result model.ReactionResult
	err := s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.reactions.TargetExists(ctx, tx, target)
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrTargetNotFound
		}

		liked, err := toggleEdge(
			func() (bool, error) { return s.reactions.Create(ctx, tx, userID, target) },
			func() (bool, error) { return s.reactions.Delete(ctx, tx, userID, target) },
		)
		if err != nil {
			return err
		}

		count, err := s.reactions.Count(ctx, tx, target)
		if err != nil {
			return err
		}

		result = model.ReactionResult{Liked: liked, Count: count}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrToggleConflict) {
			metrics.ReactionToggles.WithLabelValues(target.Kind.String(), "conflict").Inc()
			logger.For("reaction").WithField("user_id", userID).
				WithField("kind", target.Kind.String()).
				WithField("target_id", target.ID).
				Warn("reaction toggle gave up after concurrent updates")
		}
		return nil, err
	}

	outcome := "unliked"
	if result.Liked {
		outcome = "liked"
	}
	metrics.ReactionToggles.WithLabelValues(target.Kind.String(), outcome).Inc()

	return &result, nil
}
