// Package authapi is a development auth backend speaking the contract the
// web front expects: POST /signup, POST /login, GET /check_session and
// DELETE /logout, with the login held in a signed cookie.
package authapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/movers-solution/movers/internal/auth"
	"github.com/movers-solution/movers/internal/config"
	"github.com/movers-solution/movers/internal/models"
	"github.com/movers-solution/movers/internal/validation"
)

// Server represents the auth API
type Server struct {
	router  *gin.Engine
	db      *gorm.DB
	config  config.AuthAPIConfig
	logger  zerolog.Logger
	tokens  *auth.Issuer
	version string
}

// New opens the user database and builds the router
func New(cfg config.AuthAPIConfig, zlog zerolog.Logger, version string) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("AUTHAPI_JWT_SECRET is required")
	}

	db, err := models.Open(cfg.DatabaseURL, zlog)
	if err != nil {
		return nil, err
	}

	return NewWithDB(cfg, db, zlog, version)
}

// NewWithDB builds the auth API on an already opened database
func NewWithDB(cfg config.AuthAPIConfig, db *gorm.DB, zlog zerolog.Logger, version string) (*Server, error) {
	tokens, err := auth.NewIssuer(cfg.JWTSecret, sessionTTL)
	if err != nil {
		return nil, err
	}

	if err := validation.Register(); err != nil {
		return nil, err
	}

	s := &Server{
		db:      db,
		config:  cfg,
		logger:  zlog,
		tokens:  tokens,
		version: version,
	}
	s.setupRouter()
	return s, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// The browser front sends credentials cross-origin during development
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.router.GET("/health", s.healthCheck)

	s.router.POST("/signup", s.signup)
	s.router.POST("/login", s.login)
	s.router.DELETE("/logout", s.logout)

	withSession := s.router.Group("/")
	withSession.Use(SessionMiddleware(s.db, s.tokens, s.logger))
	{
		withSession.GET("/check_session", s.checkSession)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "movers-authapi",
		"version":   s.version,
	})
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.config.Address).Msg("Starting auth API")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		_ = models.Close(s.db)
		return fmt.Errorf("HTTP server error: %w", err)
	case <-sigChan:
	}
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if err := models.Close(s.db); err != nil {
		s.logger.Error().Err(err).Msg("Error closing database")
	}

	s.logger.Info().Msg("Auth API shutdown complete")
	return nil
}
