package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/kpv/internal/logger"
	httpH "github.com/abhisek/kpv/internal/server/handlers"
	httpMW "github.com/abhisek/kpv/internal/server/middleware"
)

type RouterConfig struct {
	TopicHandler    *httpH.TopicHandler
	SnapshotHandler *httpH.SnapshotHandler
	HealthHandler   *httpH.HealthHandler

	AllowOrigins []string
	Log          *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestID())
	r.Use(httpMW.RequestLogger(cfg.Log))
	if len(cfg.AllowOrigins) > 0 {
		r.Use(httpMW.CORS(cfg.AllowOrigins))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Topics
		if cfg.TopicHandler != nil {
			api.GET("/topics", cfg.TopicHandler.List)
			api.GET("/topics/:id", cfg.TopicHandler.Get)
			api.PUT("/topics/:id/progress", cfg.TopicHandler.SetProgress)
			api.GET("/edges", cfg.TopicHandler.Edges)
		}

		// Snapshots
		if cfg.SnapshotHandler != nil {
			api.GET("/export", cfg.SnapshotHandler.Export)
			api.POST("/import", cfg.SnapshotHandler.Import)
		}
	}

	return r
}
