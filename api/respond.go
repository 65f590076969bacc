package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-admin-backend/errs"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// Redirect answers a successful mutation with 303 See Other and the flash
// message the next page should display.
func (r Responder) Redirect(w http.ResponseWriter, response RedirectResponse) {
	w.Header().Set("Location", response.Redirect)
	r.WriteJSON(w, http.StatusSeeOther, response)
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		r.WriteJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
			Error:  "Validation error",
			Status: "validation_error",
			Errors: validationErr.Fields,
		})
		return
	}

	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request failed")
	}

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}

	r.WriteJSON(w, apiErr.StatusCode, response)
}

// WriteValidationError sends the caller back to the originating form with
// the field messages and the submitted values.
func (r Responder) WriteValidationError(w http.ResponseWriter, verr *errs.ValidationError, old map[string]any, back string) {
	r.WriteJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
		Error:    "Validation error",
		Status:   "validation_error",
		Errors:   verr.Fields,
		Old:      old,
		Redirect: back,
	})
}
