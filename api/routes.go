package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// setupAdminRoutes registers the project resource routes behind the admin gate
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/projects", handlers.projectHandler.index())
		r.Get("/projects/create", handlers.projectHandler.create())
		r.Post("/projects", handlers.projectHandler.store())
		r.Get("/projects/{project}", handlers.projectHandler.show())
		r.Get("/projects/{project}/edit", handlers.projectHandler.edit())
		r.Put("/projects/{project}", handlers.projectHandler.update())
		r.Patch("/projects/{project}", handlers.projectHandler.update())
		r.Delete("/projects/{project}", handlers.projectHandler.destroy())
	})
}

// setupSystemRoutes registers liveness and metrics endpoints
func setupSystemRoutes(r chi.Router, router router) {
	responder := NewResponder(log.With().Str("handlerName", "systemHandler").Logger())

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if router.healthCheck != nil {
			if err := router.healthCheck(req.Context()); err != nil {
				responder.WriteError(w, err)
				return
			}
		}
		responder.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"uptime": time.Since(router.startupTime).Round(time.Second).String(),
		})
	})
}
