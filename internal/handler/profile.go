package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/httputil"
	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/transport/http/middleware"
)

type ProfileHandler struct {
	profiles   ProfileStore
	activities ActivityReader
	log        *logrus.Entry
}

func NewProfileHandler(profiles ProfileStore, activities ActivityReader) *ProfileHandler {
	return &ProfileHandler{
		profiles:   profiles,
		activities: activities,
		log:        logger.For("profile"),
	}
}

// GET /profiles/{id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid profile ID")
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), profileID, optionalViewer(r))
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		h.log.WithError(err).WithField("profile_id", profileID).Error("get profile failed")
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateMe edits the caller's phone number and photo URL.
// PATCH /profiles/me
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, validationMessage(err))
		return
	}

	profile, err := h.profiles.Update(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		h.log.WithError(err).WithField("user_id", userID).Error("update profile failed")
		httputil.WriteInternalError(w, "Failed to update profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// Activities lists the caller's most recent activity entries. Only the owner
// may read them.
// GET /profiles/{id}/activities?limit=
func (h *ProfileHandler) Activities(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	profileID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid profile ID")
		return
	}
	if profileID != userID {
		httputil.WriteForbidden(w, "You can only view your own activity")
		return
	}

	limit := model.DefaultActivityLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid limit")
			return
		}
		limit = parsed
	}

	activities, err := h.activities.Recent(r.Context(), userID, limit)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("list activities failed")
		httputil.WriteInternalError(w, "Failed to fetch activities")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.ActivityListResponse{Activities: activities})
}
