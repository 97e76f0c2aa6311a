package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/client"
	"github.com/yigit/campusdesk/internal/app/store"
	"github.com/yigit/campusdesk/internal/bootstrap"
	"github.com/yigit/campusdesk/internal/config"
	"github.com/yigit/campusdesk/internal/pkg/websocket"
)

// Server holds the state for the HTTP server.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	client   *client.Client
	sessions *store.Registry
	hub      *websocket.Hub
	logger   zerolog.Logger
	http     *http.Server

	stopRefresh context.CancelFunc
	refreshDone sync.WaitGroup
	stopHub     context.CancelFunc
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)

	s := &Server{
		config:   cfg,
		router:   router,
		client:   deps.Client,
		sessions: deps.Sessions,
		hub:      deps.Hub,
		logger:   lgr,
	}

	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	hubCtx, stopHub := context.WithCancel(context.Background())
	s.stopHub = stopHub
	go s.hub.Run(hubCtx)

	s.startRefresher()

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.config.BackendTimeout() + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive either a server error or an OS signal
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.stopRefresher()
			s.stopHub()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// startRefresher re-fetches the collections of every live session each refresh interval
func (s *Server) startRefresher() {
	interval := s.config.RefreshInterval()
	if interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopRefresh = cancel
	s.refreshDone.Add(1)

	go func() {
		defer s.refreshDone.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				reqCtx, cancelReq := context.WithTimeout(ctx, s.config.BackendTimeout())
				if err := s.sessions.RefreshAll(reqCtx); err != nil {
					s.logger.Warn().Err(err).Msg("Background refresh failed")
				}
				cancelReq()
			}
		}
	}()
	s.logger.Info().Dur("interval", interval).Msg("Background cache refresh started")
}

// stopRefresher cancels the refresher and waits for it to exit
func (s *Server) stopRefresher() {
	if s.stopRefresh == nil {
		return
	}
	s.stopRefresh()
	s.refreshDone.Wait()
	s.stopRefresh = nil
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	shutdownError := false

	s.stopRefresher()

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if s.stopHub != nil {
		s.stopHub()
		s.logger.Info().Msg("Change feed stopped.")
	}

	if s.client != nil {
		s.client.Close()
		s.logger.Info().Msg("Backend client closed.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
