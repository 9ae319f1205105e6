package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the message (e.g. "trip not found") because the handler
// is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return errorBody("not_found", message)
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) ErrorResponse {
	return errorBody("validation_error", unwrapMessage(err))
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return errorBody("validation_error", message)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

// respondError maps a service error to the error envelope. what names the
// resource for not-found messages, e.g. "trip".
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, what string, err error) {
	var gfe *domain.GenerationFormatError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(notFoundMessage(what, err)))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.As(err, &gfe):
		s.logger.ErrorContext(r.Context(), "generation failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("generation_failed", gfe.Error()))
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// notFoundMessage prefers the specific part a service attached, such as
// "checklist 3: not found", over the generic resource name.
func notFoundMessage(what string, err error) string {
	msg := err.Error()
	for _, sub := range []string{"item ", "checklist "} {
		if i := strings.LastIndex(msg, sub); i >= 0 && strings.HasSuffix(msg, domain.ErrNotFound.Error()) {
			return strings.TrimSuffix(msg[i:], ": "+domain.ErrNotFound.Error()) + " not found"
		}
	}
	return what + " not found"
}

// badRequest writes a 422 for input rejected before the service layer.
func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
}
