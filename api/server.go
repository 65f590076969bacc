package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-admin-backend/config"
	"github.com/rpupo63/portfolio-admin-backend/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg *config.Config, projectService *services.ProjectService, healthCheck func(context.Context) error) (Server, error) {
	if cfg == nil {
		return Server{}, fmt.Errorf("server config is required")
	}

	address := fmt.Sprintf("0.0.0.0:%s", cfg.Port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	router := newRouter(projectService, withConfig(cfg), withStartupTime(startupTime), withHealthCheck(healthCheck))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      *config.Config
	startupTime time.Time
	healthCheck func(context.Context) error
}

func withConfig(c *config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withHealthCheck(check func(context.Context) error) func(*router) {
	return func(r *router) {
		r.healthCheck = check
	}
}

func newRouter(projectService *services.ProjectService, opts ...func(*router)) *chi.Mux {
	router := router{config: &config.Config{MaxUploadMB: 10}}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(corsMiddleware(router.config.AllowedOrigins))
	chiRouter.Use(metricsMiddleware)

	handlers := initializeHandlers(projectService, int64(router.config.MaxUploadMB)<<20)
	authMiddleware := newAuthMiddleware(router.config.AdminJWTSecret)

	setupSystemRoutes(chiRouter, router)
	setupAdminRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
