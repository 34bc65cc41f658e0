// Package httpserver runs the metering HTTP API with bounded timeouts and
// graceful shutdown.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns once ctx is done and in-flight requests have drained, or the
// shutdown timeout has passed. LivenessHandler and ReadinessHandler back the
// /healthz and /readyz probes.
package httpserver
