package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/services"
)

const projectsPath = "/admin/projects"

type projectHandler struct {
	responder      Responder
	renderer       Renderer
	logger         zerolog.Logger
	projectService *services.ProjectService
	maxUploadBytes int64
}

func newProjectHandler(projectService *services.ProjectService, maxUploadBytes int64) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()
	responder := NewResponder(logger)

	return projectHandler{
		responder:      responder,
		renderer:       jsonRenderer{responder: responder},
		logger:         logger,
		projectService: projectService,
		maxUploadBytes: maxUploadBytes,
	}
}

// index lists all projects
// @Summary List projects
// @Tags Projects
// @Produce json
// @Success 200 {object} ViewResponse "admin.projects.index with projects"
// @Router /admin/projects [get]
func (h projectHandler) index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectService.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "projects", err))
			return
		}

		h.renderer.Render(w, http.StatusOK, "admin.projects.index", map[string]any{"projects": projects})
	}
}

// create returns the data for the empty project form
// @Summary New project form
// @Tags Projects
// @Produce json
// @Success 200 {object} ViewResponse "admin.projects.create with types and technologies"
// @Router /admin/projects/create [get]
func (h projectHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := h.projectService.PrepareCreateForm(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("load", "project form", err))
			return
		}

		h.renderer.Render(w, http.StatusOK, "admin.projects.create", form)
	}
}

// store creates a project from a submitted form
// @Summary Create project
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Success 303 {object} RedirectResponse "Redirect to the project list"
// @Failure 422 {object} ValidationResponse "Validation errors"
// @Failure 502 {object} ErrorResponse "Image storage failed"
// @Router /admin/projects [post]
func (h projectHandler) store() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseProjectForm(w, r, h.maxUploadBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer form.close()

		project, err := h.projectService.Create(r.Context(), form.input)
		if err != nil {
			h.writeMutationError(w, err, form, projectsPath+"/create")
			return
		}

		projectMutations.WithLabelValues("create").Inc()
		h.responder.Redirect(w, RedirectResponse{
			Redirect:  projectsPath,
			Type:      "success",
			Msg:       "Nuovo progetto creato",
			ProjectID: project.ID,
		})
	}
}

// show returns one project with its type and technologies
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param project path int true "Project ID"
// @Success 200 {object} ViewResponse "admin.projects.show with project"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Router /admin/projects/{project} [get]
func (h projectHandler) show() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectID(chi.URLParam(r, "project"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectService.Show(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "project", err))
			return
		}

		h.renderer.Render(w, http.StatusOK, "admin.projects.show", map[string]any{"project": project})
	}
}

// edit returns the data for the edit form
// @Summary Edit project form
// @Tags Projects
// @Produce json
// @Param project path int true "Project ID"
// @Success 200 {object} ViewResponse "admin.projects.edit with project, types, technologies and linked ids"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Router /admin/projects/{project}/edit [get]
func (h projectHandler) edit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectID(chi.URLParam(r, "project"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		form, err := h.projectService.PrepareEditForm(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("load", "project form", err))
			return
		}

		h.renderer.Render(w, http.StatusOK, "admin.projects.edit", form)
	}
}

// update overwrites a project from a submitted form
// @Summary Update project
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param project path int true "Project ID"
// @Success 303 {object} RedirectResponse "Redirect to the project page"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 422 {object} ValidationResponse "Validation errors"
// @Router /admin/projects/{project} [put]
func (h projectHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectID(chi.URLParam(r, "project"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		form, err := parseProjectForm(w, r, h.maxUploadBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer form.close()

		project, err := h.projectService.Update(r.Context(), id, form.input)
		if err != nil {
			h.writeMutationError(w, err, form, fmt.Sprintf("%s/%d/edit", projectsPath, id))
			return
		}

		projectMutations.WithLabelValues("update").Inc()
		h.responder.Redirect(w, RedirectResponse{
			Redirect:  fmt.Sprintf("%s/%d", projectsPath, project.ID),
			Type:      "success",
			Msg:       "Progetto modificato",
			ProjectID: project.ID,
		})
	}
}

// destroy deletes a project, its image and its technology links
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param project path int true "Project ID"
// @Success 303 {object} RedirectResponse "Redirect to the project list"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Router /admin/projects/{project} [delete]
func (h projectHandler) destroy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectID(chi.URLParam(r, "project"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectService.Destroy(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("delete", "project", err))
			return
		}

		projectMutations.WithLabelValues("delete").Inc()
		h.responder.Redirect(w, RedirectResponse{
			Redirect: projectsPath,
			Type:     "success",
			Msg:      fmt.Sprintf("Il progetto '%s' è stato eliminato", project.Title),
		})
	}
}

// writeMutationError sends validation failures back to the originating
// form and everything else through the regular error path.
func (h projectHandler) writeMutationError(w http.ResponseWriter, err error, form *projectForm, back string) {
	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		h.responder.WriteValidationError(w, verr, form.old, back)
		return
	}
	h.responder.WriteError(w, errs.NewDatabaseError("save", "project", err))
}
