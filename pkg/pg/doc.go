// Package pg bootstraps a pgx/v5 connection pool for the Postgres usage
// store: connection with retry, goose migrations from an embedded
// filesystem, a readiness probe, and helpers that classify driver errors.
//
// Usage:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	cfg.MigrationsPath = usage.MigrationsDir
//	if err := pg.Migrate(ctx, pool, usage.Migrations, cfg, log); err != nil {
//		return err
//	}
//	store := usage.NewPostgresStore(pool)
//
// Migrate serializes callers because goose keeps its settings in globals.
package pg
