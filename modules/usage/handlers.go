package usage

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Mohnish27-dev/protocol-zero/handler"
	"github.com/Mohnish27-dev/protocol-zero/pkg/binder"
	"github.com/Mohnish27-dev/protocol-zero/pkg/insight"
	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
	"github.com/Mohnish27-dev/protocol-zero/pkg/logger"
	meter "github.com/Mohnish27-dev/protocol-zero/pkg/usage"
)

// Ledger is the subset of *usage.Ledger the HTTP module needs.
type Ledger interface {
	Usage(ctx context.Context, userID string) (meter.Summary, error)
	TryIncrement(ctx context.Context, userID string, feature limits.Feature) (meter.IncrementResult, error)
	Release(ctx context.Context, userID string, feature limits.Feature) error
	SetTier(ctx context.Context, userID string, isPro bool) error
}

// Insights is the subset of *insight.Service the HTTP module needs.
type Insights interface {
	Insights(ctx context.Context, snap insight.Snapshot) (insight.Result, error)
}

type featureRequest struct {
	Feature string `path:"feature"`
}

type tierRequest struct {
	UserID string `path:"userID" json:"-"`
	IsPro  *bool  `path:"-" json:"is_pro"`
}

type empty struct{}

// retryAfterSeconds is advertised on 503 responses.
const retryAfterSeconds = 1

type handlers struct {
	ledger   Ledger
	insights Insights
	log      *slog.Logger
	errs     handler.ErrorHandler
}

func wrap[R any](h *handlers, fn handler.HandlerFunc[R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(fn,
		handler.WithBinders[R](binders...),
		handler.WithErrorHandler[R](h.errs),
	)
}

func (h *handlers) fail(err error) handler.Response {
	if mapped, ok := mapError(err); ok && mapped == errTryAgain {
		return handler.JSONError(mapped, handler.WithJSONHeader("Retry-After", strconv.Itoa(retryAfterSeconds)))
	}
	return handler.Fail(err)
}

func (h *handlers) summary(ctx handler.Context, _ empty) handler.Response {
	summary, err := h.ledger.Usage(ctx, UserIDFromContext(ctx))
	if err != nil {
		return h.fail(err)
	}
	return handler.JSON(summary)
}

func (h *handlers) consume(ctx handler.Context, req featureRequest) handler.Response {
	feature := limits.Feature(req.Feature)
	res, err := h.ledger.TryIncrement(ctx, UserIDFromContext(ctx), feature)
	if err != nil {
		return h.fail(err)
	}
	if !res.Success {
		h.log.DebugContext(ctx, "consume denied", logger.Feature(req.Feature))
		return handler.JSON(handler.JSONResponse{
			Data:  res,
			Error: &handler.ErrorDetail{Code: errLimitReached.Key, Message: "Usage limit reached for " + req.Feature},
		}, handler.WithJSONStatus(errLimitReached.Code))
	}
	return handler.JSON(res)
}

func (h *handlers) release(ctx handler.Context, req featureRequest) handler.Response {
	if err := h.ledger.Release(ctx, UserIDFromContext(ctx), limits.Feature(req.Feature)); err != nil {
		return h.fail(err)
	}
	return handler.Empty()
}

func (h *handlers) setTier(ctx handler.Context, req tierRequest) handler.Response {
	if req.IsPro == nil {
		return handler.Fail(errMissingTier)
	}
	if err := h.ledger.SetTier(ctx, req.UserID, *req.IsPro); err != nil {
		return h.fail(err)
	}
	return handler.Empty()
}

func (h *handlers) insight(ctx handler.Context, snap insight.Snapshot) handler.Response {
	res, err := h.insights.Insights(ctx, snap)
	if err != nil {
		return h.fail(err)
	}
	return handler.JSON(res)
}

func pathBinder() handler.Bind {
	return binder.Path(chi.URLParam)
}
