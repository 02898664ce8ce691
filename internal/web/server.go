package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/displaywake/displaywake/internal/config"
	"github.com/displaywake/displaywake/internal/database"
	"github.com/displaywake/displaywake/internal/logging"
)

// Server exposes the wake journal as a read-only local HTTP API, so
// dashboards (Home Assistant included) can poll what the daemon did.
type Server struct {
	handler *Handler
	server  *http.Server
	log     *logrus.Entry
}

func NewServer(cfg *config.Config, repo *database.Repository) *Server {
	handler := NewHandler(cfg, repo)
	mux := http.NewServeMux()
	handler.SetupRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		handler: handler,
		server:  httpServer,
		log:     logging.NewLogger("web"),
	}
}

func (s *Server) Start() error {
	s.log.Infof("Status API listening on http://%s", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down status API")
	return s.server.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.server.Addr
}
