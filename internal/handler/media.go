package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/httputil"
	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/transport/http/middleware"
)

type MediaHandler struct {
	media  TrackPresigner
	tracks TrackCatalog
	guard  UploadGuard
	log    *logrus.Entry
}

// NewMediaHandler accepts a nil presigner when R2 is not configured; the
// presign endpoint then answers 503.
func NewMediaHandler(media TrackPresigner, tracks TrackCatalog, guard UploadGuard) *MediaHandler {
	return &MediaHandler{media: media, tracks: tracks, guard: guard, log: logger.For("media")}
}

// PresignTrackUpload returns a presigned URL for uploading a track directly to R2.
// POST /uploads/tracks/presign
func (h *MediaHandler) PresignTrackUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	if h.media == nil {
		httputil.WriteServiceUnavailable(w, model.ErrUploadsDisabled.Error())
		return
	}

	var req model.PresignTrackUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, validationMessage(err))
		return
	}

	if !h.allowUpload(w, r, userID) {
		return
	}

	res, err := h.media.PresignTrackUpload(r.Context(), userID, req.ContentType, req.FileSize)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidAudioType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidAudioType, "Unsupported audio type. Allowed: mp3, m4a, ogg, wav, flac")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Track exceeds 50MB limit")
		default:
			h.log.WithError(err).WithField("user_id", userID).Error("presign track upload failed")
			httputil.WriteInternalError(w, "Failed to create upload URL")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

// ConfirmTrackUpload registers an object uploaded through a presigned URL as a track.
// POST /uploads/tracks
func (h *MediaHandler) ConfirmTrackUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.ConfirmTrackUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	req.Key = strings.TrimSpace(req.Key)
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(&req); err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, validationMessage(err))
		return
	}

	if !h.allowUpload(w, r, userID) {
		return
	}

	track, err := h.tracks.Confirm(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUploadsDisabled):
			httputil.WriteServiceUnavailable(w, err.Error())
		case errors.Is(err, model.ErrInvalidTrackKey):
			httputil.WriteBadRequestWithCode(w, httputil.ErrCodeInvalidArgument, "Key was not issued for this user")
		case errors.Is(err, model.ErrUploadMissing):
			httputil.WriteBadRequestWithCode(w, model.CodeUploadMissing, "Upload the file before confirming it")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Track exceeds 50MB limit")
		case errors.Is(err, model.ErrTrackExists):
			httputil.WriteConflict(w, "Track already registered")
		case errors.Is(err, model.ErrArtistNotFound):
			httputil.WriteNotFound(w, "Artist not found")
		default:
			h.log.WithError(err).WithField("user_id", userID).Error("confirm track upload failed")
			httputil.WriteInternalError(w, "Failed to register track")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, track)
}

// GET /tracks/{id}
func (h *MediaHandler) GetTrack(w http.ResponseWriter, r *http.Request) {
	trackID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid track ID")
		return
	}

	track, err := h.tracks.Get(r.Context(), trackID, optionalViewer(r))
	if err != nil {
		if errors.Is(err, model.ErrTrackNotFound) {
			httputil.WriteNotFound(w, "Track not found")
			return
		}
		h.log.WithError(err).WithField("track_id", trackID).Error("get track failed")
		httputil.WriteInternalError(w, "Failed to get track")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, track)
}

// allowUpload runs the IP-change guard and writes the error response when
// the upload must not proceed.
func (h *MediaHandler) allowUpload(w http.ResponseWriter, r *http.Request, userID int64) bool {
	status, err := h.guard.Check(r.Context(), userID, middleware.ClientIP(r))
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("restriction check failed")
		httputil.WriteInternalError(w, "Failed to check upload restrictions")
		return false
	}
	if status.Restricted {
		httputil.WriteTooManyRequests(w, model.CodeUploadRestricted, status.RetryAfter,
			"Uploads are temporarily restricted because of frequent IP changes")
		return false
	}
	return true
}
