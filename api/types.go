package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ViewResponse is what the default renderer writes for a view
type ViewResponse struct {
	View string `json:"view" example:"admin.projects.index"`
	Data any    `json:"data"`
}

// RedirectResponse accompanies a 303 after a successful mutation
type RedirectResponse struct {
	Redirect  string `json:"redirect" example:"/admin/projects"`
	Type      string `json:"type" example:"success"`
	Msg       string `json:"msg" example:"Progetto modificato"`
	ProjectID uint   `json:"project_id,omitempty" example:"3"`
}

// ValidationResponse sends the caller back to the form with field messages
type ValidationResponse struct {
	Error    string              `json:"error" example:"Validation error"`
	Status   string              `json:"status" example:"validation_error"`
	Errors   map[string][]string `json:"errors"`
	Old      map[string]any      `json:"old"`
	Redirect string              `json:"redirect" example:"/admin/projects/create"`
}
