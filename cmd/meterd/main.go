// Command meterd serves usage metering, quota enforcement and repository insights over HTTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	usageapi "github.com/Mohnish27-dev/protocol-zero/modules/usage"
	"github.com/Mohnish27-dev/protocol-zero/pkg/clientip"
	"github.com/Mohnish27-dev/protocol-zero/pkg/config"
	"github.com/Mohnish27-dev/protocol-zero/pkg/environment"
	"github.com/Mohnish27-dev/protocol-zero/pkg/httpserver"
	"github.com/Mohnish27-dev/protocol-zero/pkg/logger"
	"github.com/Mohnish27-dev/protocol-zero/pkg/requestid"
	"github.com/Mohnish27-dev/protocol-zero/pkg/usage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("meterd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg AppConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	env := environment.Parse(cfg.Env)
	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			environment.LoggerExtractor(),
			usageapi.UserLoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	b, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close(context.WithoutCancel(ctx), log)

	policy, err := loadPolicy(ctx, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := usage.NewPrometheusObserver(reg, cfg.MetricsNamespace)
	if err != nil {
		return err
	}

	ledgerOpts := []usage.Option{
		usage.WithLogger(log),
		usage.WithStoreTimeout(cfg.StoreTimeout),
		usage.WithObserver(observer),
	}
	if cfg.StrictLimits {
		ledgerOpts = append(ledgerOpts, usage.WithStrictLimits())
	}
	ledger, err := usage.NewLedger(b.store, policy, ledgerOpts...)
	if err != nil {
		return err
	}

	insights, err := newInsightService(ctx, cfg, b, log)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware(cfg.TrustedIPHeaders...),
		environment.Middleware(env),
	)
	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, b.probes...))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/v1", usageapi.Router(usageapi.RouterOptions{
		Ledger:     ledger,
		Insights:   insights,
		AdminToken: cfg.AdminToken,
		Logger:     log,
	}))

	if cfg.AdminToken == "" {
		log.WarnContext(ctx, "ADMIN_TOKEN is empty; admin routes are disabled")
	}

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("meterd listening",
				slog.String("addr", httpCfg.Addr),
				slog.String("store", cfg.StoreDriver),
				slog.Bool("strict_limits", cfg.StrictLimits),
			)
		}),
		httpserver.WithStopHook(func(l *slog.Logger) { l.Info("meterd stopped serving") }),
	)
	return srv.Run(ctx, r)
}
