package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/bootstrap"
	"github.com/osahq/conduct/internal/config"
	"github.com/osahq/conduct/internal/sweeper"
)

// Server holds the state for the HTTP server and its background sweeper.
type Server struct {
	config  *config.Config
	router  *gin.Engine
	dbPool  *pgxpool.Pool
	logger  zerolog.Logger
	sweeper *sweeper.Sweeper
	http    *http.Server

	sweepCancel context.CancelFunc
	sweepDone   chan struct{}
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(filepath.Join("configs", "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		// Attempt to close DB pool if DI fails
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)

	s := &Server{
		config:  cfg,
		router:  router,
		dbPool:  dbPool,
		logger:  lgr,
		sweeper: deps.Sweeper,
	}

	return s, nil
}

// Run starts the HTTP server and the background sweeper, then handles
// graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Background sweeps (meeting expiry, year level promotion) run for the
	// lifetime of the server.
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	s.sweepCancel = sweepCancel
	s.sweepDone = make(chan struct{})
	go func() {
		defer close(s.sweepDone)
		s.sweeper.Run(sweepCtx)
	}()

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	// Start the server
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	// Channel to listen for OS signals
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive either a server error or an OS signal
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	// Perform graceful shutdown
	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	shutdownError := false

	// Stop the sweeper first so no sweep races the closing pool.
	if s.sweepCancel != nil {
		s.logger.Info().Msg("Stopping background sweeper...")
		s.sweepCancel()
		select {
		case <-s.sweepDone:
			s.logger.Info().Msg("Background sweeper stopped.")
		case <-ctx.Done():
			s.logger.Error().Msg("Timed out waiting for background sweeper to stop")
			shutdownError = true
		}
	}

	// Shutdown HTTP server
	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	// Close database pool
	if s.dbPool != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.dbPool.Close()
		s.logger.Info().Msg("Database connection pool closed.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
