package handler

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/httputil"
	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/transport/http/middleware"
)

type ReactionHandler struct {
	reactions ReactionToggler
	log       *logrus.Entry
}

func NewReactionHandler(reactions ReactionToggler) *ReactionHandler {
	return &ReactionHandler{reactions: reactions, log: logger.For("reaction")}
}

// Toggle likes or unlikes a post, track, comment or artist.
// POST /reactions/toggle
func (h *ReactionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.ToggleReactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	kind, err := model.ParseTargetKind(req.Type)
	if err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeInvalidArgument, "Invalid type. Allowed: post, track, comment, artist")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeInvalidArgument, validationMessage(err))
		return
	}

	result, err := h.reactions.Toggle(r.Context(), userID, model.Target{Kind: kind, ID: req.ID})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTargetNotFound):
			httputil.WriteNotFound(w, "Target not found")
		case errors.Is(err, model.ErrToggleConflict):
			httputil.WriteConflict(w, "Please try again")
		default:
			h.log.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"kind":    kind.String(),
				"id":      req.ID,
			}).Error("reaction toggle failed")
			httputil.WriteInternalError(w, "Failed to toggle reaction")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.ToggleReactionResponse{
		Success:   true,
		Liked:     result.Liked,
		LikeCount: result.Count,
	})
}
