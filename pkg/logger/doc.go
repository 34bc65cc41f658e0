// Package logger builds *slog.Logger instances for the metering service.
//
// New picks a text or JSON handler and wraps it in LogHandlerDecorator, which
// copies request-scoped values (request id, environment) from the context
// onto every record:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, cfg.AppName),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "usage incremented",
//		logger.UserID(userID),
//		logger.Feature(string(feature)),
//	)
//
// The attribute helpers in attr.go keep key names consistent across
// packages. Error and UserID return an empty Attr for nil or empty input, so
// callers never need a guard.
package logger
