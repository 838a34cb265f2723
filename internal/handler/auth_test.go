package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibemusic/internal/model"
)

func TestAuthHandler_Register(t *testing.T) {
	var got *model.RegisterRequest
	users := &mockUserAccounts{registerFn: func(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
		got = req
		return &model.User{ID: 4, Username: req.Username}, nil
	}}
	h := NewAuthHandler(users, mockTokenIssuer{}, &mockProfileStore{})

	rec := serve(t, http.MethodPost, "/auth/register", "/auth/register", `{"username":"  alice ","password":"longenough"}`, 0, h.Register)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	body := decode(t, rec)
	assert.Equal(t, "token-for-alice", body["access_token"])
}

func TestAuthHandler_RegisterErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "malformed", body: `nope`, wantStatus: http.StatusBadRequest},
		{name: "short password", body: `{"username":"alice","password":"short"}`, wantStatus: http.StatusBadRequest},
		{name: "bad username", body: `{"username":"a b!","password":"longenough"}`, wantStatus: http.StatusBadRequest},
		{name: "taken", body: `{"username":"alice","password":"longenough"}`, err: model.ErrUsernameExists, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserAccounts{registerFn: func(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
				return nil, tt.err
			}}
			h := NewAuthHandler(users, mockTokenIssuer{}, &mockProfileStore{})

			rec := serve(t, http.MethodPost, "/auth/register", "/auth/register", tt.body, 0, h.Register)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	users := &mockUserAccounts{loginFn: func(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
		if req.Password != "correct-horse" {
			return nil, model.ErrInvalidCredentials
		}
		return &model.User{ID: 1, Username: req.Username}, nil
	}}
	h := NewAuthHandler(users, mockTokenIssuer{}, &mockProfileStore{})

	ok := serve(t, http.MethodPost, "/auth/login", "/auth/login", `{"username":"bob","password":"correct-horse"}`, 0, h.Login)
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "token-for-bob", decode(t, ok)["access_token"])

	bad := serve(t, http.MethodPost, "/auth/login", "/auth/login", `{"username":"bob","password":"wrong"}`, 0, h.Login)
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	missing := serve(t, http.MethodPost, "/auth/login", "/auth/login", `{"username":"bob"}`, 0, h.Login)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Equal(t, "password is required", decode(t, missing)["message"])
}

func TestAuthHandler_Me(t *testing.T) {
	var viewer *int64
	profiles := &mockProfileStore{getFn: func(ctx context.Context, profileID int64, viewerID *int64) (*model.ProfileResponse, error) {
		viewer = viewerID
		return &model.ProfileResponse{Profile: &model.Profile{UserID: profileID, Username: "alice"}, FollowersCount: 2}, nil
	}}
	h := NewAuthHandler(&mockUserAccounts{}, mockTokenIssuer{}, profiles)

	rec := serve(t, http.MethodGet, "/me", "/me", "", 6, h.Me)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(6), body["id"])
	assert.Equal(t, float64(2), body["followers_count"])
	require.NotNil(t, viewer)
	assert.Equal(t, int64(6), *viewer)

	anon := serve(t, http.MethodGet, "/me", "/me", "", 0, h.Me)
	assert.Equal(t, http.StatusUnauthorized, anon.Code)
}
