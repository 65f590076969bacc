package api

import (
	"github.com/rpupo63/portfolio-admin-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(projectService *services.ProjectService, maxUploadBytes int64) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(projectService, maxUploadBytes),
	}
}
