package usage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
	"github.com/Mohnish27-dev/protocol-zero/pkg/usage"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestRedisStore(t *testing.T) {
	t.Parallel()
	runStoreSuite(t, func(t *testing.T) usage.Store {
		_, client := newRedisClient(t)
		return usage.NewRedisStore(client, usage.WithKeyPrefix("test:usage:"))
	})
}

func TestRedisStore_KeyLayout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv, client := newRedisClient(t)
	s := usage.NewRedisStore(client)

	_, err := s.Create(ctx, "u1", usage.NewRecord(jan2024))
	require.NoError(t, err)
	require.NoError(t, s.Increment(ctx, "u1", limits.FeaturePushAnalyses))

	assert.True(t, srv.Exists("usage:u1"))
	assert.Equal(t, "1", srv.HGet("usage:u1", "u:push_analyses"))
	assert.Equal(t, "0", srv.HGet("usage:u1", "is_pro"))
}

func TestRedisStore_LegacyRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name   string
		fields map[string]string
		isPro  bool
	}{
		{name: "legacy pro plan", fields: map[string]string{"tier": "pro"}, isPro: true},
		{name: "legacy premium plan", fields: map[string]string{"tier": "Premium"}, isPro: true},
		{name: "legacy free plan", fields: map[string]string{"tier": "free"}, isPro: false},
		{name: "flag wins over legacy", fields: map[string]string{"tier": "pro", "is_pro": "0"}, isPro: false},
		{name: "no tier at all", fields: map[string]string{"u:fix_prs": "1"}, isPro: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv, client := newRedisClient(t)
			for k, v := range tt.fields {
				srv.HSet("usage:legacy", k, v)
			}

			rec, err := usage.NewRedisStore(client).Load(ctx, "legacy")
			require.NoError(t, err)
			require.NotNil(t, rec)
			assert.Equal(t, tt.isPro, rec.IsPro)
			for _, f := range limits.KnownFeatures {
				assert.GreaterOrEqual(t, rec.Usage[f], int64(0))
			}
		})
	}

	t.Run("set tier drops the legacy field", func(t *testing.T) {
		t.Parallel()
		srv, client := newRedisClient(t)
		srv.HSet("usage:legacy", "tier", "pro")

		s := usage.NewRedisStore(client)
		require.NoError(t, s.SetTier(ctx, "legacy", false))

		rec, err := s.Load(ctx, "legacy")
		require.NoError(t, err)
		assert.False(t, rec.IsPro)
		assert.Empty(t, srv.HGet("usage:legacy", "tier"))
	})

	t.Run("record without window resets", func(t *testing.T) {
		t.Parallel()
		srv, client := newRedisClient(t)
		srv.HSet("usage:legacy", "u:fix_prs", "2")
		srv.HSet("usage:legacy", "u:projects", "1")

		s := usage.NewRedisStore(client)
		feb := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
		applied, err := s.ResetWindow(ctx, "legacy", time.Time{}, feb, []limits.Feature{limits.FeatureFixPRs})
		require.NoError(t, err)
		assert.True(t, applied)

		rec, err := s.Load(ctx, "legacy")
		require.NoError(t, err)
		assert.True(t, feb.Equal(rec.WindowStart))
		assert.Equal(t, int64(0), rec.Usage[limits.FeatureFixPRs])
		assert.Equal(t, int64(1), rec.Usage[limits.FeatureProjects])
	})
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("nil client", func(t *testing.T) {
		t.Parallel()
		s := usage.NewRedisStore(nil)
		_, err := s.Load(ctx, "u1")
		assert.ErrorIs(t, err, usage.ErrStoreUnavailable)
	})

	t.Run("server gone", func(t *testing.T) {
		t.Parallel()
		srv, client := newRedisClient(t)
		srv.Close()

		s := usage.NewRedisStore(client)
		_, err := s.Load(ctx, "u1")
		assert.ErrorIs(t, err, usage.ErrStoreUnavailable)
		assert.ErrorIs(t, s.Increment(ctx, "u1", limits.FeatureFixPRs), usage.ErrStoreUnavailable)
	})
}
