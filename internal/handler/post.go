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

type PostHandler struct {
	posts PostStore
	log   *logrus.Entry
}

func NewPostHandler(posts PostStore) *PostHandler {
	return &PostHandler{posts: posts, log: logger.For("post")}
}

// Create publishes a post for the authenticated user.
// POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := validate.Struct(&req); err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, validationMessage(err))
		return
	}

	post, err := h.posts.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrArtistNotFound) {
			httputil.WriteNotFound(w, "Artist not found")
			return
		}
		h.log.WithError(err).WithField("user_id", userID).Error("create post failed")
		httputil.WriteInternalError(w, "Failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// GET /posts/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.posts.Get(r.Context(), postID, optionalViewer(r))
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		h.log.WithError(err).WithField("post_id", postID).Error("get post failed")
		httputil.WriteInternalError(w, "Failed to get post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}
