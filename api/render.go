package api

import (
	"net/http"
)

// Renderer turns a named view and its data context into a response.
type Renderer interface {
	Render(w http.ResponseWriter, status int, view string, data any)
}

// jsonRenderer is the default Renderer: it writes the view name and data
// as JSON for a client-side admin front-end to draw.
type jsonRenderer struct {
	responder Responder
}

func (r jsonRenderer) Render(w http.ResponseWriter, status int, view string, data any) {
	r.responder.WriteJSON(w, status, ViewResponse{View: view, Data: data})
}
