package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"vibemusic/internal/model"
	"vibemusic/internal/transport/http/middleware"
)

// Services the handlers depend on. The concrete types live in internal/service.
type (
	UserAccounts interface {
		Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
		Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)
	}

	TokenIssuer interface {
		IssueToken(user *model.User) (*model.AuthResponse, error)
	}

	ReactionToggler interface {
		Toggle(ctx context.Context, userID int64, target model.Target) (*model.ReactionResult, error)
	}

	FollowGraph interface {
		Toggle(ctx context.Context, followerID, targetID int64) (*model.FollowResult, error)
		GetFollowers(ctx context.Context, profileID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error)
		GetFollowing(ctx context.Context, profileID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error)
	}

	ProfileStore interface {
		GetProfile(ctx context.Context, profileID int64, viewerID *int64) (*model.ProfileResponse, error)
		Update(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.Profile, error)
	}

	ActivityReader interface {
		Recent(ctx context.Context, userID int64, limit int) ([]model.Activity, error)
	}

	TelegramLinker interface {
		IssueConnectToken(userID int64) (*model.ConnectTokenResponse, error)
		HandleUpdate(ctx context.Context, update *model.TelegramUpdate) error
	}

	TrackPresigner interface {
		PresignTrackUpload(ctx context.Context, userID int64, contentType string, fileSize int64) (*model.PresignUploadResponse, error)
	}

	UploadGuard interface {
		Check(ctx context.Context, userID int64, ip string) (model.RestrictionStatus, error)
	}

	TrackCatalog interface {
		Confirm(ctx context.Context, userID int64, req *model.ConfirmTrackUploadRequest) (*model.Track, error)
		Get(ctx context.Context, trackID int64, viewerID *int64) (*model.Track, error)
	}

	ArtistCatalog interface {
		Create(ctx context.Context, req *model.CreateArtistRequest) (*model.Artist, error)
		GetBySlug(ctx context.Context, slug string, viewerID *int64) (*model.Artist, error)
	}

	PostStore interface {
		Create(ctx context.Context, userID int64, req *model.CreatePostRequest) (*model.Post, error)
		Get(ctx context.Context, postID int64, viewerID *int64) (*model.Post, error)
	}

	CommentThread interface {
		Create(ctx context.Context, postID, userID int64, req *model.CreateCommentRequest) (*model.Comment, error)
		List(ctx context.Context, postID int64, cursor *string, limit int) (*model.CommentListResponse, error)
	}
)

const maxJSONBody = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(dst)
}

// validationMessage turns the first validator failure into a client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	fe := verrs[0]
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be a positive number", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// optionalViewer returns the authenticated user, if any.
func optionalViewer(r *http.Request) *int64 {
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		return &id
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
