package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/httputil"
	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/transport/http/middleware"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type FollowHandler struct {
	follows FollowGraph
	log     *logrus.Entry
}

func NewFollowHandler(follows FollowGraph) *FollowHandler {
	return &FollowHandler{follows: follows, log: logger.For("follow")}
}

// Toggle follows the profile, or unfollows it when already followed.
// POST /follow/{profile_id}
func (h *FollowHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteErrorField(w, http.StatusUnauthorized, httputil.ErrCodeUnauthorized, "Authentication required")
		return
	}

	targetID, ok := pathID(r, "profile_id")
	if !ok {
		httputil.WriteErrorField(w, http.StatusBadRequest, httputil.ErrCodeBadRequest, "Invalid profile ID")
		return
	}

	result, err := h.follows.Toggle(r.Context(), followerID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteErrorField(w, http.StatusBadRequest, httputil.ErrCodeInvalidOperation, "Cannot follow yourself")
		case errors.Is(err, model.ErrProfileNotFound):
			httputil.WriteErrorField(w, http.StatusNotFound, httputil.ErrCodeNotFound, "Profile not found")
		case errors.Is(err, model.ErrToggleConflict):
			httputil.WriteErrorField(w, http.StatusConflict, httputil.ErrCodeConflict, "Please try again")
		default:
			h.log.WithError(err).WithFields(logrus.Fields{
				"follower_id": followerID,
				"target_id":   targetID,
			}).Error("follow toggle failed")
			httputil.WriteErrorField(w, http.StatusInternalServerError, httputil.ErrCodeInternal, "Failed to update follow")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.FollowToggleResponse{
		Success:        true,
		Action:         result.Action,
		FollowersCount: result.FollowersCount,
	})
}

// GET /profiles/{id}/followers
func (h *FollowHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.follows.GetFollowers, "followers")
}

// GET /profiles/{id}/following
func (h *FollowHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.follows.GetFollowing, "following")
}

type listFunc func(ctx context.Context, profileID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error)

func (h *FollowHandler) list(w http.ResponseWriter, r *http.Request, fetch listFunc, name string) {
	profileID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid profile ID")
		return
	}

	var cursor *time.Time
	if cursorStr := r.URL.Query().Get("cursor"); cursorStr != "" {
		parsed, err := time.Parse(time.RFC3339Nano, cursorStr)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid cursor format")
			return
		}
		cursor = &parsed
	}

	limit := defaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit < 1 || parsedLimit > maxListLimit {
			httputil.WriteBadRequest(w, "Limit must be between 1 and 100")
			return
		}
		limit = parsedLimit
	}

	result, err := fetch(r.Context(), profileID, cursor, limit, optionalViewer(r))
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		h.log.WithError(err).WithField("profile_id", profileID).Errorf("list %s failed", name)
		httputil.WriteInternalError(w, "Failed to fetch "+name)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
