// Package web is the server-rendered front of the movers site: home page,
// navigation bar, login and registration forms, gated pages and logout.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/movers-solution/movers/internal/access"
	"github.com/movers-solution/movers/internal/auth"
	"github.com/movers-solution/movers/internal/backend"
	"github.com/movers-solution/movers/internal/config"
	"github.com/movers-solution/movers/internal/models"
	"github.com/movers-solution/movers/internal/navigation"
	"github.com/movers-solution/movers/internal/session"
	"github.com/movers-solution/movers/internal/validation"
)

// Backend is the auth backend as seen by the web front
type Backend interface {
	navigation.LogoutClient
	Login(ctx context.Context, email, password string) (session.Session, error)
	Signup(ctx context.Context, req backend.SignupRequest) (session.Session, error)
}

// Server represents the web front
type Server struct {
	router   *gin.Engine
	config   *config.Config
	logger   zerolog.Logger
	sessions *session.Manager
	nav      *navigation.Controller
	backend  Backend
	cookies  *auth.Issuer
	metrics  *metrics
	version  string
	closers  []func() error

	// closed on shutdown to end long-lived streams
	done chan struct{}
}

// New creates the web front from configuration
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	policy, err := access.LoadPolicy(cfg.Nav.PolicyFile)
	if err != nil {
		return nil, err
	}

	secret := cfg.Server.SessionSecret
	if secret == "" {
		// 64 hex characters = 32 bytes of randomness
		secretBytes := make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = hex.EncodeToString(secretBytes)
		zlog.Warn().Msg("SESSION_SECRET not set - generated one, sessions will not survive a restart")
	}

	cookies, err := auth.NewIssuer(secret, 0)
	if err != nil {
		return nil, err
	}

	repo, closer, err := openSessionRepo(cfg, zlog)
	if err != nil {
		return nil, err
	}

	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	s := newServer(cfg, zlog, version, session.NewManager(repo, zlog), policy, client, cookies)
	s.closers = append(s.closers, closer)
	return s, nil
}

func newServer(
	cfg *config.Config,
	zlog zerolog.Logger,
	version string,
	sessions *session.Manager,
	policy *access.Policy,
	client Backend,
	cookies *auth.Issuer,
) *Server {
	m := newMetrics(sessions)

	server := &Server{
		config:   cfg,
		logger:   zlog,
		sessions: sessions,
		backend:  client,
		cookies:  cookies,
		metrics:  m,
		version:  version,
		done:     make(chan struct{}),
		nav: navigation.NewController(policy, sessions, client, zlog,
			navigation.WithOutcomeObserver(m.observeLogout),
			navigation.WithLogoutTimeout(cfg.Backend.Timeout)),
	}

	server.setupRouter()
	return server
}

// openSessionRepo opens the session store named by SESSION_STORE
func openSessionRepo(cfg *config.Config, zlog zerolog.Logger) (session.Repo, func() error, error) {
	switch cfg.Session.Store {
	case config.StoreSQLite:
		db, err := models.Open(cfg.Session.DatabaseURL, zlog)
		if err != nil {
			return nil, nil, err
		}
		zlog.Info().Str("database", cfg.Session.DatabaseURL).Msg("Using sqlite session store")
		return session.NewGormRepo(db), func() error { return models.Close(db) }, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddress})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		zlog.Info().Str("address", cfg.Session.RedisAddress).Msg("Using redis session store")
		return session.NewRedisRepo(client, cfg.Session.IdleTTL), client.Close, nil

	default:
		zlog.Info().Msg("Using in-memory session store")
		return session.NewMemoryRepo(), func() error { return nil }, nil
	}
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	if err := validation.Register(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to register form validators")
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	s.router.SetHTMLTemplate(templates)
	s.router.StaticFS("/static", staticFS())

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", s.metrics.handler())

	// Everything below knows the client's session
	site := s.router.Group("/")
	site.Use(s.sessionMiddleware())
	{
		site.GET("/", s.homePage)

		site.GET("/login", s.loginPage)
		site.POST("/login", s.login)
		site.GET("/register", s.registerPage)
		site.POST("/register", s.register)

		site.POST("/logout", s.logout)

		site.GET("/session/events", s.sessionEvents)

		for _, route := range access.GatedRoutes() {
			site.GET(route.Path, s.requireRoute(route.ID), s.gatedPage(route))
		}
	}

	s.router.NoRoute(s.sessionMiddleware(), s.notFound)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "movers-web",
		"version":   s.version,
	})
}

// Handler exposes the router, mainly for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the session manager for background workers
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.Server.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		// No WriteTimeout: /session/events is long-lived
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.config.Server.Address).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		s.close()
		return fmt.Errorf("HTTP server error: %w", err)
	case <-sigChan:
	}
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	close(s.done)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		s.close()
		return err
	}

	s.close()
	s.logger.Info().Msg("Server shutdown complete")
	return nil
}

func (s *Server) close() {
	for _, closer := range s.closers {
		if err := closer(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing session store")
		}
	}
}
