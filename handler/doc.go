// Package handler provides type-safe JSON HTTP handlers.
//
// A HandlerFunc receives a request value already populated by binders and
// returns a Response. Wrap turns it into an http.HandlerFunc:
//
//	type tierRequest struct {
//		UserID string `path:"userID"`
//		IsPro  bool   `json:"is_pro"`
//	}
//
//	setTier := func(ctx handler.Context, req tierRequest) handler.Response {
//		if err := ledger.SetTier(ctx, req.UserID, req.IsPro); err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.Empty()
//	}
//
//	r.Put("/admin/users/{userID}/tier", handler.Wrap(setTier,
//		handler.WithBinders[tierRequest](binder.Path(chi.URLParam), binder.JSON(0)),
//		handler.WithErrorHandler[tierRequest](handler.NewErrorHandler(log, mapDomainErrors)),
//	))
//
// # Responses
//
// JSON wraps data in the JSONResponse envelope. JSONError renders an
// ErrorDetail: HTTPError values keep their status and key, every other error
// becomes a 500 without leaking internal text. Empty writes a status code only.
//
// # Errors
//
// Binding failures are joined with ErrBindFailed. NewErrorHandler maps errors
// through caller-supplied ErrorMappers, logs them at Warn for 4xx and Error for
// 5xx, and renders the JSON envelope.
package handler
