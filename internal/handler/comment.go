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

const maxCommentPage = 50

type CommentHandler struct {
	comments CommentThread
	log      *logrus.Entry
}

func NewCommentHandler(comments CommentThread) *CommentHandler {
	return &CommentHandler{comments: comments, log: logger.For("comment")}
}

// Create comments on a post, optionally as a reply.
// POST /posts/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, validationMessage(err))
		return
	}

	comment, err := h.comments.Create(r.Context(), postID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Parent comment not found")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, "content is required")
		case errors.Is(err, model.ErrParentOtherPost):
			httputil.WriteBadRequestWithCode(w, httputil.ErrCodeInvalidArgument, "Parent comment belongs to another post")
		default:
			h.log.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"post_id": postID,
			}).Error("create comment failed")
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// List returns a page of comments, newest first.
// GET /posts/{id}/comments?cursor=&limit=
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 || parsed > maxCommentPage {
			httputil.WriteBadRequest(w, "Limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	result, err := h.comments.List(r.Context(), postID, cursor, limit)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrInvalidListCursor):
			httputil.WriteBadRequest(w, "Invalid cursor format")
		default:
			h.log.WithError(err).WithField("post_id", postID).Error("list comments failed")
			httputil.WriteInternalError(w, "Failed to get comments")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
