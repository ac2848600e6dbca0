// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"

	"github.com/hidrosense/hub/api"
	"github.com/hidrosense/hub/internal/audit"
	"github.com/hidrosense/hub/internal/auth"
	"github.com/hidrosense/hub/internal/config"
	"github.com/hidrosense/hub/internal/database"
	"github.com/hidrosense/hub/internal/hubservice"
	"github.com/hidrosense/hub/internal/monitoring"
	"github.com/hidrosense/hub/internal/ratelimit"
	"github.com/hidrosense/hub/internal/repository/postgres"
	"github.com/hidrosense/hub/internal/repository/timescale"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Initialize services
	s.hubservice = initializeHubService(s.config)
	s.monitoring = monitoring.NewService(monitoring.Config{
		PrometheusEndpoint: s.config.Monitoring.PrometheusEndpoint,
		LokiEndpoint:       s.config.Monitoring.LokiEndpoint,
	})

	// Set up audit event handlers
	s.setupAuditHandlers()

	router := api.NewRouter(s.hubservice)

	handler := handlers.CORS(
		handlers.AllowedOrigins(s.config.CORS.AllowedOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(router)
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)
	handler = handlers.RecoveryHandler(
		handlers.PrintRecoveryStack(true),
	)(handler)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) setupAuditHandlers() {
	s.hubservice.Audit.OnEvent(audit.EventUserCreated, func(subject string) {
		nuts.L.Infof("[Audit] User %s created", subject)
		s.monitoring.RecordEvent("user_created", map[string]string{
			"user_id": subject,
		})
	})

	s.hubservice.Audit.OnEvent(audit.EventUserUpdated, func(subject string) {
		nuts.L.Infof("[Audit] User %s updated", subject)
		s.monitoring.RecordEvent("user_updated", map[string]string{
			"user_id": subject,
		})
	})

	s.hubservice.Audit.OnEvent(audit.EventUserDeleted, func(subject string) {
		nuts.L.Infof("[Audit] User %s deleted", subject)
		s.monitoring.RecordEvent("user_deleted", map[string]string{
			"user_id": subject,
		})
	})

	s.hubservice.Audit.OnEvent(audit.EventLoginFailed, func(subject string) {
		nuts.L.Warnf("[Audit] Failed login for %s", subject)
		s.monitoring.RecordEvent("login_failed", map[string]string{
			"subject": subject,
		})
	})
}

// initializeHubService creates and configures the hub service
func initializeHubService(cfg *config.Config) *hubservice.HubService {
	// Initialize database connections
	tsdb := initTimescaleDB(cfg.Database.TimescaleDB)
	appDB := initAppDB(cfg.Database.AppDB)

	// Initialize repositories
	users, err := postgres.NewUserRepository(appDB)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize user repository: %v", err)
	}
	sensorData, err := timescale.NewSensorDataRepository(tsdb)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize sensor data repository: %v", err)
	}

	tokens := auth.NewTokenService(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)
	limiter := ratelimit.New(initRedis(cfg.Redis), cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)

	svc := hubservice.New(users, sensorData, tokens, limiter, cfg.Users.ListLimit)
	if err := svc.Validate(); err != nil {
		nuts.L.Fatalf("[Server] Invalid service configuration: %v", err)
	}
	return svc
}

func initTimescaleDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewTimescaleDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to TimescaleDB: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping TimescaleDB: %v", err)
	}
	return wrappedDB
}

func initAppDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewPostgresDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to AppDB: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping AppDB: %v", err)
	}
	return wrappedDB
}

// initRedis connects to redis for login throttling. A missing host
// disables the limiter rather than blocking startup.
func initRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		nuts.L.Warnf("[Server] Redis not configured, login rate limiting disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		nuts.L.Warnf("[Server] Redis unreachable at startup: %v", err)
	}
	return client
}
