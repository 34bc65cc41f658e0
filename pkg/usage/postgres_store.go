package usage

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
	"github.com/Mohnish27-dev/protocol-zero/pkg/pg"
)

// Migrations holds the schema for PostgresStore, applied with pg.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

// DB is the part of *pgxpool.Pool that PostgresStore uses.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on two tables: usage_records holds the tier
// and window, usage_counters holds one row per user and feature.
// The tier column carries legacy plan names written by older clients.
type PostgresStore struct {
	db DB
}

// NewPostgresStore returns a store on db, usually a *pgxpool.Pool. A nil db
// yields a store whose every call fails with ErrStoreUnavailable.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// inTx commits when fn succeeds and rolls back otherwise.
func (s *PostgresStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) ready() error {
	if s == nil || s.db == nil {
		return errors.Join(ErrStoreUnavailable, errors.New("postgres pool is not configured"))
	}
	return nil
}

func featureNames(features []limits.Feature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = string(f)
	}
	return out
}

func (s *PostgresStore) Load(ctx context.Context, userID string) (*Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `
		SELECT r.is_pro, r.tier, r.window_start, r.created_at, c.feature, c.count
		FROM usage_records r
		LEFT JOIN usage_counters c ON c.user_id = r.user_id
		WHERE r.user_id = $1
	`, userID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var (
		found       bool
		isPro       *bool
		legacyTier  *string
		windowStart *time.Time
		createdAt   time.Time
		raw         = make(map[string]int64)
	)
	for rows.Next() {
		var (
			feature *string
			count   *int64
		)
		if err := rows.Scan(&isPro, &legacyTier, &windowStart, &createdAt, &feature, &count); err != nil {
			return nil, unavailable(err)
		}
		found = true
		if feature != nil && count != nil {
			raw[*feature] = *count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	if !found {
		return nil, nil
	}

	rec := Record{
		IsPro:     decodeTier(isPro, legacyTier).normalize(),
		Usage:     countersFrom(raw),
		CreatedAt: createdAt.UTC(),
	}
	if windowStart != nil {
		rec.WindowStart = windowStart.UTC()
	}
	return &rec, nil
}

func (s *PostgresStore) Create(ctx context.Context, userID string, rec Record) (Record, error) {
	if err := s.ready(); err != nil {
		return Record{}, err
	}
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO usage_records (user_id, is_pro, window_start, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO NOTHING
		`, userID, rec.IsPro, rec.WindowStart.UTC(), rec.CreatedAt.UTC())
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		return upsertCounters(ctx, tx, userID, rec.Usage)
	})
	if err != nil {
		return Record{}, unavailable(err)
	}

	stored, err := s.Load(ctx, userID)
	if err != nil {
		return Record{}, err
	}
	if stored == nil {
		return Record{}, unavailable(ErrRecordNotFound)
	}
	return *stored, nil
}

func (s *PostgresStore) Save(ctx context.Context, userID string, rec Record) error {
	if err := s.ready(); err != nil {
		return err
	}
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO usage_records (user_id, is_pro, tier, window_start, created_at)
			VALUES ($1, $2, NULL, $3, $4)
			ON CONFLICT (user_id) DO UPDATE
			SET is_pro = EXCLUDED.is_pro,
			    tier = NULL,
			    window_start = EXCLUDED.window_start,
			    created_at = EXCLUDED.created_at
		`, userID, rec.IsPro, rec.WindowStart.UTC(), rec.CreatedAt.UTC()); err != nil {
			return err
		}
		return upsertCounters(ctx, tx, userID, rec.Usage)
	})
	return unavailable(err)
}

func upsertCounters(ctx context.Context, tx pgx.Tx, userID string, usage Counters) error {
	batch := &pgx.Batch{}
	for _, f := range limits.KnownFeatures {
		batch.Queue(`
			INSERT INTO usage_counters (user_id, feature, count)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, feature) DO UPDATE SET count = EXCLUDED.count
		`, userID, string(f), max(0, usage[f]))
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (s *PostgresStore) Increment(ctx context.Context, userID string, feature limits.Feature) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO usage_counters (user_id, feature, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, feature) DO UPDATE SET count = usage_counters.count + 1
	`, userID, string(feature))
	if pg.IsForeignKeyViolationError(err) {
		return ErrRecordNotFound
	}
	return unavailable(err)
}

func (s *PostgresStore) Decrement(ctx context.Context, userID string, feature limits.Feature) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
		UPDATE usage_counters SET count = count - 1
		WHERE user_id = $1 AND feature = $2 AND count > 0
	`, userID, string(feature))
	return unavailable(err)
}

func (s *PostgresStore) SetTier(ctx context.Context, userID string, isPro bool) error {
	if err := s.ready(); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE usage_records SET is_pro = $2, tier = NULL WHERE user_id = $1
	`, userID, isPro)
	if err != nil {
		return unavailable(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *PostgresStore) ResetWindow(ctx context.Context, userID string, from, to time.Time, features []limits.Feature) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	var applied bool
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var fromArg any = from.UTC()
		if from.IsZero() {
			fromArg = nil
		}
		tag, err := tx.Exec(ctx, `
			UPDATE usage_records SET window_start = $3
			WHERE user_id = $1 AND window_start IS NOT DISTINCT FROM $2
		`, userID, fromArg, to.UTC())
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		applied = true
		_, err = tx.Exec(ctx, `
			UPDATE usage_counters SET count = 0
			WHERE user_id = $1 AND feature = ANY($2)
		`, userID, featureNames(features))
		return err
	})
	if err != nil {
		return false, unavailable(err)
	}
	return applied, nil
}

func (s *PostgresStore) IncrementIfBelow(ctx context.Context, userID string, feature limits.Feature, limit int64) (int64, bool, error) {
	if err := s.ready(); err != nil {
		return 0, false, err
	}
	if limit > 0 {
		var current int64
		err := s.db.QueryRow(ctx, `
			INSERT INTO usage_counters (user_id, feature, count)
			VALUES ($1, $2, 1)
			ON CONFLICT (user_id, feature) DO UPDATE SET count = usage_counters.count + 1
			WHERE usage_counters.count < $3
			RETURNING count
		`, userID, string(feature), limit).Scan(&current)
		switch {
		case err == nil:
			return current, true, nil
		case pg.IsForeignKeyViolationError(err):
			return 0, false, ErrRecordNotFound
		case !pg.IsNotFoundError(err):
			return 0, false, unavailable(err)
		}
	}

	rec, err := s.Load(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	if rec == nil {
		return 0, false, ErrRecordNotFound
	}
	return rec.Usage[feature], false, nil
}
