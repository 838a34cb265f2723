package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vibemusic/internal/handler"
	"vibemusic/internal/httputil"
	"vibemusic/internal/logger"
	authmw "vibemusic/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler     *handler.AuthHandler
	ReactionHandler *handler.ReactionHandler
	FollowHandler   *handler.FollowHandler
	ProfileHandler  *handler.ProfileHandler
	TelegramHandler *handler.TelegramHandler
	MediaHandler    *handler.MediaHandler
	ArtistHandler   *handler.ArtistHandler
	PostHandler     *handler.PostHandler
	CommentHandler  *handler.CommentHandler

	UploadIPRecorder authmw.UploadIPRecorder
	UploadPathPrefix string
	JWTSecret        string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(authmw.RequestLogger(logger.For("http")))
	r.Use(middleware.Recoverer)
	r.Use(authmw.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// The bot authenticates with the webhook secret header instead of a JWT.
	r.Post("/telegram/webhook", cfg.TelegramHandler.Webhook)

	// Public endpoints with optional authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuth(cfg.JWTSecret))

		r.Get("/profiles/{id}", cfg.ProfileHandler.Get)
		r.Get("/profiles/{id}/followers", cfg.FollowHandler.GetFollowers)
		r.Get("/profiles/{id}/following", cfg.FollowHandler.GetFollowing)

		r.Get("/artists/{slug}", cfg.ArtistHandler.Get)
		r.Get("/posts/{id}", cfg.PostHandler.Get)
		r.Get("/posts/{id}/comments", cfg.CommentHandler.List)
		r.Get("/tracks/{id}", cfg.MediaHandler.GetTrack)
	})

	// The follow endpoint reports failures in "error", auth failures included.
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddlewareErrorField(cfg.JWTSecret))

		r.Post("/follow/{profile_id}", cfg.FollowHandler.Toggle)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Patch("/profiles/me", cfg.ProfileHandler.UpdateMe)
		r.Get("/profiles/{id}/activities", cfg.ProfileHandler.Activities)

		r.Post("/reactions/toggle", cfg.ReactionHandler.Toggle)

		r.Post("/artists", cfg.ArtistHandler.Create)
		r.Post("/posts", cfg.PostHandler.Create)
		r.Post("/posts/{id}/comments", cfg.CommentHandler.Create)

		r.Post("/telegram/token", cfg.TelegramHandler.Token)

		r.Route(cfg.UploadPathPrefix, func(r chi.Router) {
			r.Use(authmw.UploadIPLogger(cfg.UploadIPRecorder, cfg.UploadPathPrefix))
			r.Post("/tracks/presign", cfg.MediaHandler.PresignTrackUpload)
			r.Post("/tracks", cfg.MediaHandler.ConfirmTrackUpload)
		})
	})

	return r
}
