package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"vibemusic/internal/httputil"
	"vibemusic/internal/logger"
	"vibemusic/internal/model"
)

type ArtistHandler struct {
	artists ArtistCatalog
	log     *logrus.Entry
}

func NewArtistHandler(artists ArtistCatalog) *ArtistHandler {
	return &ArtistHandler{artists: artists, log: logger.For("artist")}
}

// Create adds an artist page.
// POST /artists
func (h *ArtistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateArtistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Bio = strings.TrimSpace(req.Bio)
	if err := validate.Struct(&req); err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, validationMessage(err))
		return
	}

	artist, err := h.artists.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrArtistExists) {
			httputil.WriteConflict(w, "Artist already exists")
			return
		}
		h.log.WithError(err).WithField("name", req.Name).Error("create artist failed")
		httputil.WriteInternalError(w, "Failed to create artist")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, artist)
}

// GET /artists/{slug}
func (h *ArtistHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	artist, err := h.artists.GetBySlug(r.Context(), slug, optionalViewer(r))
	if err != nil {
		if errors.Is(err, model.ErrArtistNotFound) {
			httputil.WriteNotFound(w, "Artist not found")
			return
		}
		h.log.WithError(err).WithField("slug", slug).Error("get artist failed")
		httputil.WriteInternalError(w, "Failed to get artist")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, artist)
}
