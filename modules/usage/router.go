// Package usage exposes the usage ledger and insight service over HTTP.
package usage

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/Mohnish27-dev/protocol-zero/handler"
	"github.com/Mohnish27-dev/protocol-zero/pkg/binder"
	"github.com/Mohnish27-dev/protocol-zero/pkg/insight"
)

// RouterOptions configures the usage module. Ledger is required; the insight
// route is mounted only when Insights is set.
type RouterOptions struct {
	Ledger   Ledger
	Insights Insights

	// Users resolves the caller. Defaults to the X-User-ID header.
	Users UserResolver
	// AdminToken guards the admin routes. Empty disables them (403).
	AdminToken string
	// MaxBodySize caps JSON bodies. Zero uses binder.DefaultMaxJSONSize.
	MaxBodySize int64

	Logger *slog.Logger
}

// Router creates the usage module router.
//
//	r := chi.NewRouter()
//	r.Mount("/v1", usage.Router(usage.RouterOptions{
//		Ledger:     ledger,
//		Insights:   insights,
//		AdminToken: cfg.AdminToken,
//		Logger:     log,
//	}))
func Router(opts RouterOptions) chi.Router {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Users == nil {
		opts.Users = HeaderUserResolver(DefaultUserHeader)
	}

	h := &handlers{
		ledger:   opts.Ledger,
		insights: opts.Insights,
		log:      opts.Logger,
		errs:     handler.NewErrorHandler(opts.Logger, mapError),
	}
	jsonBody := binder.JSON(opts.MaxBodySize)

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(requireUser(opts.Users))

		r.Route("/usage", func(r chi.Router) {
			r.Get("/", wrap[empty](h, h.summary))
			r.Post("/{feature}/consume", wrap(h, h.consume, pathBinder()))
			r.Delete("/{feature}", wrap(h, h.release, pathBinder()))
		})

		if opts.Insights != nil {
			r.Post("/insights", wrap[insight.Snapshot](h, h.insight, jsonBody))
		}
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAdmin(opts.AdminToken))
		r.Put("/users/{userID}/tier", wrap(h, h.setTier, jsonBody, pathBinder()))
	})

	return r
}
