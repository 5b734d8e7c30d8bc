package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xpanvictor/omniscribe/internal/app"
	"github.com/xpanvictor/omniscribe/internal/config"
	"github.com/xpanvictor/omniscribe/internal/database"
	"github.com/xpanvictor/omniscribe/internal/server"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().String("addr", "", "listen address, overrides server.addr")
	return cmd
}

func loadSettings(cmd *cobra.Command) (*config.Settings, *Logger.Logger, error) {
	dir, _ := cmd.Flags().GetString("config-dir")
	cfg, err := config.LoadFrom(viper.New(), dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := Logger.New(cfg.Log.Debug)
	if cfg.Log.File != "" {
		logger = Logger.NewWithFile(cfg.Log.Debug, Logger.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   true,
		})
	}
	return cfg, logger, nil
}

// openStores connects whichever stores are configured. Either result may
// be nil.
func openStores(cfg *config.Settings, logger *Logger.Logger) (*gorm.DB, *redis.Client, error) {
	var (
		db  *gorm.DB
		rc  *redis.Client
		err error
	)
	if cfg.DB.Enabled() {
		db, err = database.InitDB(cfg.DB, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateDB(db); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	if cfg.Redis.Addr != "" {
		rc, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
	}
	return db, rc, nil
}

func buildApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger) (*app.App, error) {
	db, rc, err := openStores(cfg, logger)
	if err != nil {
		return nil, err
	}
	return app.NewApp(ctx, cfg, logger, db, rc)
}

func serve(ctx context.Context, cfg *config.Settings, logger *Logger.Logger) error {
	defer logger.Sync()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	server.InitializeRoutes(cfg, router, a.GetServerDependencies())

	// listen with graceful exit
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router.Handler(),
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server exited: %w", err)
	}

	// 5 secs then cancel
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
	logger.Info("Shutdown system")
	return nil
}
