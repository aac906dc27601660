// Package server exposes the topic store over HTTP for a browser front end.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/kpv/internal/logger"
	httpH "github.com/abhisek/kpv/internal/server/handlers"
	"github.com/abhisek/kpv/internal/topics"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Engine *gin.Engine
	log    *logger.Logger
}

// New wires every handler against store.
func New(store *topics.Store, allowOrigins []string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "server")
	return &Server{
		Engine: NewRouter(RouterConfig{
			TopicHandler:    httpH.NewTopicHandler(store, log),
			SnapshotHandler: httpH.NewSnapshotHandler(store, log),
			HealthHandler:   httpH.NewHealthHandler(),
			AllowOrigins:    allowOrigins,
			Log:             log,
		}),
		log: log,
	}
}

// Run serves on address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
