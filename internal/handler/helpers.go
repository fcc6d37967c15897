package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/dukerupert/chapters/internal/middleware"
	"github.com/go-playground/validator/v10"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps a domain error onto an HTTP status and writes the
// structured error body the UI layer expects.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)

	var rejected *domain.OrderRejectedError
	if errors.As(err, &rejected) {
		code = domain.EREJECTED
		message = err.Error()
	}

	status := statusForCode(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("code", code),
		slog.Int("status", status),
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request failed", attrs...)
	}

	respondJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// statusForCode maps domain error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EREJECTED:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// bindJSON decodes the request body into v and runs struct validation.
// Returns an EINVALID domain error on either failure.
func bindJSON(r *http.Request, v interface{}, validate *validator.Validate) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("handler.bind", "invalid JSON body")
	}
	if err := validate.StructCtx(r.Context(), v); err != nil {
		return domain.WrapError(err, domain.EINVALID, "handler.bind", "request validation failed")
	}
	return nil
}
