package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/omniscribe/internal/config"
	"github.com/xpanvictor/omniscribe/internal/domains/pipeline"
	"github.com/xpanvictor/omniscribe/internal/domains/reconcile"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/internal/domains/user"
	"github.com/xpanvictor/omniscribe/internal/handlers"
	"github.com/xpanvictor/omniscribe/internal/models/transcriber"
	audioRepo "github.com/xpanvictor/omniscribe/internal/repository/audio"
	transcriptRepo "github.com/xpanvictor/omniscribe/internal/repository/transcript"
	userRepo "github.com/xpanvictor/omniscribe/internal/repository/user"
	"github.com/xpanvictor/omniscribe/internal/server"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
	"gorm.io/gorm"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger
	DB     *gorm.DB
	RC     *redis.Client

	Transcriber *transcriber.GeminiTranscriber
	Aligner     pipeline.Aligner
	// repos, nil when the backing store is not configured
	TranscriptRepo transcript.Repository
	AudioStore     transcript.AudioStore
	UserRepo       user.UserRepository

	Sequencer  *pipeline.Sequencer
	Controller *pipeline.Controller
	ServerDeps server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly
// wired. db and rc may be nil.
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger, db *gorm.DB, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		RC:     rc,
	}

	if err := app.setupPipeline(ctx); err != nil {
		return nil, err
	}
	app.setupServer()

	return app, nil
}

// setupPipeline builds the providers, stores and the two runners.
func (a *App) setupPipeline(ctx context.Context) error {
	factory := NewProviderFactory(a.Config, a.Logger)

	t, err := factory.CreateTranscriber(ctx)
	if err != nil {
		return err
	}
	a.Transcriber = t

	al, err := factory.CreateAligner()
	if err != nil {
		return err
	}
	a.Aligner = al

	policy, err := reconcile.ParsePolicy(a.Config.Pipeline.ReconcilePolicy)
	if err != nil {
		return err
	}

	// Interface fields stay nil when a store is missing so the sequencer
	// skips the write instead of calling through a nil pointer.
	if a.DB != nil {
		a.TranscriptRepo = transcriptRepo.NewGormTranscriptRepo(a.DB)
		a.UserRepo = userRepo.NewGormUserRepo(a.DB)
	} else {
		a.Logger.Warn("no database configured, transcripts will not be persisted")
	}
	if a.RC != nil {
		a.AudioStore = audioRepo.NewRedisAudioStore(a.RC, a.Config.Redis.AudioTTL)
	} else {
		a.Logger.Warn("no redis configured, audio will not be kept")
	}

	a.Sequencer = pipeline.NewSequencer(
		a.Transcriber,
		a.Aligner,
		a.TranscriptRepo,
		a.AudioStore,
		pipeline.Config{MaxUploadBytes: a.Config.Pipeline.MaxUploadBytes, Policy: policy},
		a.Logger,
	)
	a.Controller = pipeline.NewController(a.Sequencer, a.Config.Pipeline.BatchConcurrency, a.Logger)
	return nil
}

func (a *App) setupServer() {
	history := transcript.NewService(a.TranscriptRepo, a.AudioStore, a.Logger)

	var (
		userService user.UserService
		userHandler *handlers.AuthHandler
	)
	if a.UserRepo != nil && a.Config.Auth.JWTSecret != "" {
		tokenTTL := time.Duration(a.Config.Auth.TokenTTLHours) * time.Hour
		userService = user.NewUserService(a.UserRepo, a.Logger, a.Config.Auth.JWTSecret, tokenTTL)
		userHandler = handlers.NewAuthHandler(userService, a.Logger)
		a.Logger.Info("accounts enabled, history is scoped per user")
	} else {
		a.Logger.Infof("accounts disabled, history is scoped by the %s header", handlers.SessionHeader)
	}

	a.ServerDeps = server.NewServerDependencies(
		handlers.NewTranscribeHandler(a.Sequencer, a.Controller, a.Config.Pipeline.MaxUploadBytes, a.Logger),
		handlers.NewHistoryHandler(history, a.Logger),
		userHandler,
		userService,
		a.Logger,
	)
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}

// Close releases the provider clients and stores.
func (a *App) Close() error {
	var firstErr error
	if a.Transcriber != nil {
		if err := a.Transcriber.Close(); err != nil {
			firstErr = fmt.Errorf("close transcriber: %w", err)
		}
	}
	if a.RC != nil {
		if err := a.RC.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close redis: %w", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("close database: %w", err)
			}
		}
	}
	return firstErr
}
