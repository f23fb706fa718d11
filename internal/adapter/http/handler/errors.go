package handler

import (
	"errors"
	"net/http"

	"github.com/Abdurahmanit/skip2love/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
)

// statusFor maps the domain error taxonomy to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailNotConfirmed), errors.Is(err, domain.ErrProfileIncomplete):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrFetch), errors.Is(err, domain.ErrWrite):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	middleware.WriteError(w, status, message)
}
