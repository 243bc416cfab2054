package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"leadscli/internal/dataprocessing"
)

// ErrorHandler provides centralized error handling for HTTP handlers.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError logs the error, converts it to an APIError and renders it.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	render.Render(w, r, ToAPIError(err))
}

// ToAPIError maps any error to an APIError. Processing sentinels get their
// own codes; unknown errors become a 500.
func ToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, dataprocessing.ErrUnsupportedFileType):
		return New(http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE", err.Error())
	case errors.Is(err, dataprocessing.ErrParse):
		return New(http.StatusUnprocessableEntity, "PARSE_ERROR", err.Error())
	case errors.Is(err, dataprocessing.ErrNoIdentityColumns):
		return New(http.StatusUnprocessableEntity, "NO_IDENTITY_COLUMNS", err.Error())
	case errors.Is(err, dataprocessing.ErrIncompatibleKeys):
		return New(http.StatusUnprocessableEntity, "INCOMPATIBLE_KEYS", err.Error())
	case errors.Is(err, dataprocessing.ErrMissingColumn):
		return New(http.StatusUnprocessableEntity, "MISSING_COLUMN", err.Error())
	default:
		return New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err.Error())
	}
}
