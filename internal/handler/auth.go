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

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	users    UserAccounts
	tokens   TokenIssuer
	profiles ProfileStore
	log      *logrus.Entry
}

func NewAuthHandler(users UserAccounts, tokens TokenIssuer, profiles ProfileStore) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		profiles: profiles,
		log:      logger.For("auth"),
	}
}

// Register creates the user and its profile and signs them in.
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Struct(&req); err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, validationMessage(err))
		return
	}

	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrUsernameExists) {
			httputil.WriteConflict(w, "Username already exists")
			return
		}
		h.log.WithError(err).Error("register failed")
		httputil.WriteInternalError(w, "Failed to register")
		return
	}

	resp, err := h.tokens.IssueToken(user)
	if err != nil {
		h.log.WithError(err).Error("issue token failed")
		httputil.WriteInternalError(w, "Failed to generate token")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// Login handles user login
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, validationMessage(err))
		return
	}

	user, err := h.users.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid username or password")
			return
		}
		h.log.WithError(err).Error("login failed")
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	resp, err := h.tokens.IssueToken(user)
	if err != nil {
		h.log.WithError(err).Error("issue token failed")
		httputil.WriteInternalError(w, "Failed to generate token")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated user's profile.
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), userID, &userID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		h.log.WithError(err).WithField("user_id", userID).Error("load profile failed")
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}
