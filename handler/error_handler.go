package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mohnish27-dev/protocol-zero/pkg/logger"
)

// ErrorMapper translates a domain error to an HTTPError. ok is false when the
// mapper does not recognize err.
type ErrorMapper func(err error) (HTTPError, bool)

// classifyError runs the mappers in order and falls back to the built-in rules.
func classifyError(err error, mappers []ErrorMapper) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	for _, m := range mappers {
		if mapped, ok := m(err); ok {
			return mapped
		}
	}
	if errors.Is(err, ErrBindFailed) {
		return ErrBadRequest
	}
	return ErrInternalServerError
}

func logLevel(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelWarn
}

// NewErrorHandler returns an ErrorHandler that maps errors to HTTP errors,
// logs them and renders a JSON error envelope. Request-scoped attributes such as
// the request id are added by the logger's context extractors.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(ctx Context, err error) {
		httpErr := classifyError(err, mappers)
		r := ctx.Request()

		log.LogAttrs(r.Context(), logLevel(httpErr.Code), "request error",
			logger.Error(err),
			slog.Int("status_code", httpErr.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := JSONError(httpErr).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(renderErr))
		}
	}
}
