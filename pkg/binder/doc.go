// Package binder decodes HTTP request data into typed request structs.
//
// Binders share the signature func(r *http.Request, v any) error so they can
// be chained by handler.Wrap:
//
//	type consumeRequest struct {
//		Feature string `path:"feature"`
//	}
//
//	r.Post("/usage/{feature}/consume", handler.Wrap(consume,
//		handler.WithBinders[consumeRequest](binder.Path(chi.URLParam)),
//	))
//
// JSON is strict: it requires an application/json content type, rejects
// unknown fields and trailing data, and caps the body size. Path binds
// string, integer and bool fields from router URL parameters.
//
// All failures wrap one of the package's sentinel errors so callers can map
// them to HTTP status codes with errors.Is.
package binder
