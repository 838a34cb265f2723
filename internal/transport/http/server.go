package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vibemusic/internal/cache"
	"vibemusic/internal/config"
	"vibemusic/internal/database"
	"vibemusic/internal/handler"
	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/queue"
	"vibemusic/internal/redis"
	"vibemusic/internal/repository"
	"vibemusic/internal/service"
	"vibemusic/internal/worker"
)

const shutdownTimeout = 15 * time.Second

// Run wires every dependency, serves HTTP and blocks until SIGINT or SIGTERM.
func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.LogLevel)
	log := logger.For("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database and apply migrations
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Connect to Redis
	rdb, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to configure redis: %w", err)
	}
	defer rdb.Close()

	if err := rdb.Ping(ctx); err != nil {
		return err
	}

	// 4. Repositories and services
	tx := database.NewTransactor(db)
	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)
	follows := repository.NewFollowRepository(db)
	reactions := repository.NewReactionRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	iplogs := repository.NewIPLogRepository(db)
	artists := repository.NewArtistRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	tracks := repository.NewTrackRepository(db)

	publisher := queue.NewPublisher(rdb.Client)

	userService := service.NewUserService(users, profiles, tx)
	authService := service.NewAuthService(cfg)
	activityService := service.NewActivityService(activityRepo)
	profileService := service.NewProfileService(profiles, follows, db)
	reactionService := service.NewReactionService(reactions, tx)
	artistService := service.NewArtistService(artists)
	postService := service.NewPostService(posts)
	commentService := service.NewCommentService(comments, posts)
	followService := service.NewFollowService(follows, profiles, activityService, tx, publisher)
	restrictionService := service.NewRestrictionService(iplogs, cache.NewRestrictionCache(rdb.Client), service.RestrictionPolicy{
		Window:    cfg.IPChangeWindow,
		Threshold: cfg.IPChangeThreshold,
		Duration:  cfg.IPChangeRestrictionTTL,
	})

	// Optional integrations stay nil interfaces when unconfigured so the
	// handlers answer 503.
	var telegramLinker handler.TelegramLinker
	var manager *worker.Manager
	if cfg.TelegramEnabled() {
		telegramService := service.NewTelegramService(
			service.NewConnectTokenSigner(cfg.TelegramSigningKey, cfg.TelegramTokenTTL),
			service.NewBotClient(cfg.TelegramAPIURL, cfg.TelegramBotToken),
			users,
			profiles,
			publisher,
			cfg.TelegramBotUsername,
		)
		telegramLinker = telegramService

		manager = worker.NewManager(
			queue.NewConsumer(rdb.Client),
			worker.NewHandler(telegramService),
			worker.ManagerConfig{WorkerCount: cfg.WorkerCount},
		)
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		defer manager.Stop()
	} else {
		log.Warn("telegram not configured, notifications disabled")
	}

	var trackPresigner handler.TrackPresigner
	var uploadInspector service.UploadInspector
	mediaService, err := service.NewMediaService(ctx, cfg)
	switch {
	case err == nil:
		trackPresigner = mediaService
		uploadInspector = mediaService
	case errors.Is(err, model.ErrUploadsDisabled):
		log.Warn("R2 not configured, uploads disabled")
	default:
		return fmt.Errorf("failed to init media service: %w", err)
	}
	trackService := service.NewTrackService(tracks, uploadInspector, cfg.R2PublicURL)

	// 5. Router
	router := NewRouter(RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userService, authService, profileService),
		ReactionHandler:  handler.NewReactionHandler(reactionService),
		FollowHandler:    handler.NewFollowHandler(followService),
		ProfileHandler:   handler.NewProfileHandler(profileService, activityService),
		TelegramHandler:  handler.NewTelegramHandler(telegramLinker, cfg.TelegramWebhookSecret),
		MediaHandler:     handler.NewMediaHandler(trackPresigner, trackService, restrictionService),
		ArtistHandler:    handler.NewArtistHandler(artistService),
		PostHandler:      handler.NewPostHandler(postService),
		CommentHandler:   handler.NewCommentHandler(commentService),
		UploadIPRecorder: restrictionService,
		UploadPathPrefix: cfg.UploadPathPrefix,
		JWTSecret:        cfg.JWTSecret,
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Serve until a signal arrives
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
