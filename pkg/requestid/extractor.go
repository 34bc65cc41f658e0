package requestid

import (
	"context"
	"log/slog"

	"github.com/Mohnish27-dev/protocol-zero/pkg/logger"
)

// LoggerExtractor adds "request_id" to records logged within a request.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return logger.RequestID(id), true
		}
		return slog.Attr{}, false
	}
}
