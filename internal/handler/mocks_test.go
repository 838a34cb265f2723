package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"vibemusic/internal/model"
	"vibemusic/internal/transport/http/middleware"
)

// =============================================================================
// REQUEST HELPERS
// =============================================================================

// serve routes one request through a chi router so URL params resolve.
// userID 0 sends the request anonymously.
func serve(t *testing.T, method, pattern, path string, body string, userID int64, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.10:5555"
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return body
}

// =============================================================================
// SERVICE MOCKS
// =============================================================================

type mockUserAccounts struct {
	registerFn func(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	loginFn    func(ctx context.Context, req *model.LoginRequest) (*model.User, error)
}

func (m *mockUserAccounts) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return &model.User{ID: 1, Username: req.Username}, nil
}

func (m *mockUserAccounts) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return &model.User{ID: 1, Username: req.Username}, nil
}

type mockTokenIssuer struct{}

func (mockTokenIssuer) IssueToken(user *model.User) (*model.AuthResponse, error) {
	return &model.AuthResponse{User: user, AccessToken: "token-for-" + user.Username, ExpiresIn: 900}, nil
}

type mockReactionToggler struct {
	calls    []model.Target
	toggleFn func(ctx context.Context, userID int64, target model.Target) (*model.ReactionResult, error)
}

func (m *mockReactionToggler) Toggle(ctx context.Context, userID int64, target model.Target) (*model.ReactionResult, error) {
	m.calls = append(m.calls, target)
	if m.toggleFn != nil {
		return m.toggleFn(ctx, userID, target)
	}
	return &model.ReactionResult{Liked: true, Count: 1}, nil
}

type mockFollowGraph struct {
	toggleFn    func(ctx context.Context, followerID, targetID int64) (*model.FollowResult, error)
	followersFn func(ctx context.Context, profileID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error)
	toggleCalls int
}

func (m *mockFollowGraph) Toggle(ctx context.Context, followerID, targetID int64) (*model.FollowResult, error) {
	m.toggleCalls++
	if m.toggleFn != nil {
		return m.toggleFn(ctx, followerID, targetID)
	}
	return &model.FollowResult{Action: model.ActionFollowed, FollowersCount: 1}, nil
}

func (m *mockFollowGraph) GetFollowers(ctx context.Context, profileID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error) {
	if m.followersFn != nil {
		return m.followersFn(ctx, profileID, cursor, limit, viewerID)
	}
	return &model.FollowListResponse{Users: []model.UserSummary{}}, nil
}

func (m *mockFollowGraph) GetFollowing(ctx context.Context, profileID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error) {
	return &model.FollowListResponse{Users: []model.UserSummary{}}, nil
}

type mockProfileStore struct {
	getFn    func(ctx context.Context, profileID int64, viewerID *int64) (*model.ProfileResponse, error)
	updateFn func(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.Profile, error)
}

func (m *mockProfileStore) GetProfile(ctx context.Context, profileID int64, viewerID *int64) (*model.ProfileResponse, error) {
	if m.getFn != nil {
		return m.getFn(ctx, profileID, viewerID)
	}
	return &model.ProfileResponse{Profile: &model.Profile{UserID: profileID, Username: "user"}}, nil
}

func (m *mockProfileStore) Update(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.Profile, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, req)
	}
	return &model.Profile{UserID: userID, PhotoURL: req.PhotoURL, PhoneNumber: req.PhoneNumber}, nil
}

type mockActivityReader struct {
	limitArg int
}

func (m *mockActivityReader) Recent(ctx context.Context, userID int64, limit int) ([]model.Activity, error) {
	m.limitArg = limit
	return []model.Activity{{ID: 1, UserID: userID, Type: model.ActivityFollow, Message: "You followed bob"}}, nil
}

type mockTelegramLinker struct {
	updates  []*model.TelegramUpdate
	handleFn func(ctx context.Context, update *model.TelegramUpdate) error
}

func (m *mockTelegramLinker) IssueConnectToken(userID int64) (*model.ConnectTokenResponse, error) {
	return &model.ConnectTokenResponse{Token: "tok", StartCommand: "/start tok", ExpiresIn: 60}, nil
}

func (m *mockTelegramLinker) HandleUpdate(ctx context.Context, update *model.TelegramUpdate) error {
	m.updates = append(m.updates, update)
	if m.handleFn != nil {
		return m.handleFn(ctx, update)
	}
	return nil
}

type mockTrackPresigner struct {
	calls     int
	presignFn func(ctx context.Context, userID int64, contentType string, fileSize int64) (*model.PresignUploadResponse, error)
}

func (m *mockTrackPresigner) PresignTrackUpload(ctx context.Context, userID int64, contentType string, fileSize int64) (*model.PresignUploadResponse, error) {
	m.calls++
	if m.presignFn != nil {
		return m.presignFn(ctx, userID, contentType, fileSize)
	}
	return &model.PresignUploadResponse{UploadURL: "https://r2/upload", Key: "tracks/1/a.mp3", ExpiresInS: 900}, nil
}

type mockUploadGuard struct {
	ipArg  string
	status model.RestrictionStatus
	err    error
}

func (m *mockUploadGuard) Check(ctx context.Context, userID int64, ip string) (model.RestrictionStatus, error) {
	m.ipArg = ip
	return m.status, m.err
}

type mockTrackCatalog struct {
	confirmReqs []model.ConfirmTrackUploadRequest
	confirmFn   func(ctx context.Context, userID int64, req *model.ConfirmTrackUploadRequest) (*model.Track, error)
	getFn       func(ctx context.Context, trackID int64, viewerID *int64) (*model.Track, error)
}

func (m *mockTrackCatalog) Confirm(ctx context.Context, userID int64, req *model.ConfirmTrackUploadRequest) (*model.Track, error) {
	m.confirmReqs = append(m.confirmReqs, *req)
	if m.confirmFn != nil {
		return m.confirmFn(ctx, userID, req)
	}
	return &model.Track{ID: 1, Title: req.Title, AudioKey: req.Key}, nil
}

func (m *mockTrackCatalog) Get(ctx context.Context, trackID int64, viewerID *int64) (*model.Track, error) {
	if m.getFn != nil {
		return m.getFn(ctx, trackID, viewerID)
	}
	return nil, model.ErrTrackNotFound
}

type mockArtistCatalog struct {
	created []model.CreateArtistRequest
	err     error
}

func (m *mockArtistCatalog) Create(ctx context.Context, req *model.CreateArtistRequest) (*model.Artist, error) {
	m.created = append(m.created, *req)
	if m.err != nil {
		return nil, m.err
	}
	return &model.Artist{ID: 1, Name: req.Name, Slug: "slug"}, nil
}

func (m *mockArtistCatalog) GetBySlug(ctx context.Context, slug string, viewerID *int64) (*model.Artist, error) {
	if slug != "radiohead" {
		return nil, model.ErrArtistNotFound
	}
	return &model.Artist{ID: 1, Name: "Radiohead", Slug: slug, IsLiked: viewerID != nil}, nil
}

type mockPostStore struct {
	created []model.CreatePostRequest
	err     error
}

func (m *mockPostStore) Create(ctx context.Context, userID int64, req *model.CreatePostRequest) (*model.Post, error) {
	m.created = append(m.created, *req)
	if m.err != nil {
		return nil, m.err
	}
	return &model.Post{ID: 10, UserID: &userID, Title: req.Title, Slug: "slug", Content: req.Content}, nil
}

func (m *mockPostStore) Get(ctx context.Context, postID int64, viewerID *int64) (*model.Post, error) {
	if postID != 10 {
		return nil, model.ErrPostNotFound
	}
	return &model.Post{ID: postID, Title: "t", IsLiked: viewerID != nil}, nil
}

type mockCommentThread struct {
	createFn  func(ctx context.Context, postID, userID int64, req *model.CreateCommentRequest) (*model.Comment, error)
	listErr   error
	cursorArg *string
	limitArg  int
}

func (m *mockCommentThread) Create(ctx context.Context, postID, userID int64, req *model.CreateCommentRequest) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID, req)
	}
	return &model.Comment{ID: 5, PostID: postID, UserID: userID, Content: req.Content}, nil
}

func (m *mockCommentThread) List(ctx context.Context, postID int64, cursor *string, limit int) (*model.CommentListResponse, error) {
	m.cursorArg = cursor
	m.limitArg = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	return &model.CommentListResponse{Comments: []model.Comment{{ID: 5, PostID: postID}}}, nil
}
