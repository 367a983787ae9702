package handler

import (
	"context"
	"errors"
	"net/http"

	"lessonview/internal/domain"
	"lessonview/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		notFoundErr   *domain.NotFoundError
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
	)

	switch {
	case errors.As(err, &notFoundErr):
		httputil.RespondErrorWithExtras(w, http.StatusNotFound, notFoundErr.Error(), map[string]any{
			"path": notFoundErr.Path,
		})
	case errors.As(err, &validationErr):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, validationErr.Error(), map[string]any{
			"field": validationErr.Field,
		})
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled):
		// The client went away; there is nobody to read a body
		w.WriteHeader(httputil.StatusClientClosedRequest)
	case errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		httputil.RespondError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
