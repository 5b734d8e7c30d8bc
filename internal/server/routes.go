package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/xpanvictor/omniscribe/internal/config"
	"github.com/xpanvictor/omniscribe/internal/domains/user"
	"github.com/xpanvictor/omniscribe/internal/handlers"
	"github.com/xpanvictor/omniscribe/pkg/Logger"

	_ "github.com/xpanvictor/omniscribe/docs"
)

type Dependencies struct {
	Transcribe *handlers.TranscribeHandler
	History    *handlers.HistoryHandler
	// Users and UserService are nil when accounts are disabled.
	Users       *handlers.AuthHandler
	UserService user.UserService
	Logger      *Logger.Logger
}

func NewServerDependencies(
	transcribe *handlers.TranscribeHandler,
	history *handlers.HistoryHandler,
	users *handlers.AuthHandler,
	userService user.UserService,
	logger *Logger.Logger,
) Dependencies {
	return Dependencies{
		Transcribe:  transcribe,
		History:     history,
		Users:       users,
		UserService: userService,
		Logger:      logger,
	}
}

// AuthEnabled reports whether history is scoped by account instead of by
// session header.
func (d Dependencies) AuthEnabled() bool {
	return d.Users != nil && d.UserService != nil
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	r.Use(handlers.RequestLoggerMiddleware(dep.Logger), handlers.ErrorHandlerMiddleware(dep.Logger))
	if cfg.Server.CORS {
		r.Use(handlers.CORSMiddleware())
	}

	r.GET("/", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"message": "Server healthy"}) })
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	if dep.AuthEnabled() {
		dep.Users.RegisterAuthRoutes(api)
	}

	scoped := api.Group("")
	if dep.AuthEnabled() {
		scoped.Use(handlers.AuthMiddleware(dep.UserService, dep.Logger))
	} else {
		scoped.Use(handlers.SessionScopeMiddleware())
	}
	{
		scoped.POST("/transcribe", dep.Transcribe.Transcribe)
		scoped.POST("/transcribe-stream", dep.Transcribe.TranscribeStream)
		scoped.POST("/transcribe-batch-stream", dep.Transcribe.TranscribeBatchStream)

		scoped.GET("/history", dep.History.ListTranscripts)
		scoped.GET("/history/:id", dep.History.GetTranscript)
		scoped.PUT("/history/:id", dep.History.UpdateTranscript)
		scoped.DELETE("/history/:id", dep.History.DeleteTranscript)
		scoped.GET("/audio/:id", dep.History.GetAudio)
	}
}
