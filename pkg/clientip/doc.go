// Package clientip resolves the caller's IP address behind proxies.
//
// Headers are trusted in the order given; only deploy behind proxies that
// overwrite them. Middleware stores the result in the request context and
// LoggerExtractor exposes it to pkg/logger:
//
//	r.Use(clientip.Middleware("X-Forwarded-For"))
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
package clientip
