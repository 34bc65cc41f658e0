package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
)

type brokenStore struct{ *MemoryStore }

func (brokenStore) Increment(context.Context, string, limits.Feature) error {
	return errors.New("write concern timeout")
}

func TestPrometheusObserver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	obs, err := NewPrometheusObserver(reg, "meterd")
	require.NoError(t, err)

	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	clock := ClockFunc(func() time.Time { return now })
	policy := limits.MustNewPolicy(ctx, limits.NewInMemSource(limits.DefaultPlans()))

	ledger, err := NewLedger(NewMemoryStore(), policy, WithObserver(obs), WithClock(clock))
	require.NoError(t, err)

	for range 3 {
		_, err := ledger.TryIncrement(ctx, "u1", limits.FeaturePushAnalyses)
		require.NoError(t, err)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(obs.checks.WithLabelValues("push_analyses", "free", "allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.checks.WithLabelValues("push_analyses", "free", "denied")))
	assert.Equal(t, 2.0, testutil.ToFloat64(obs.increments.WithLabelValues("push_analyses", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.increments.WithLabelValues("push_analyses", "limit_reached")))

	now = now.AddDate(0, 1, 0)
	_, err = ledger.GetCurrent(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.resets))

	failing, err := NewLedger(brokenStore{NewMemoryStore()}, policy, WithObserver(obs), WithClock(clock))
	require.NoError(t, err)
	_, err = failing.TryIncrement(ctx, "u2", limits.FeatureFixPRs)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.storeFailures.WithLabelValues("increment")))

	_, err = NewPrometheusObserver(reg, "meterd")
	assert.Error(t, err, "registering twice must fail")
}

type stallingStore struct{ *MemoryStore }

func (stallingStore) Load(ctx context.Context, _ string) (*Record, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPrometheusObserver_CallerCancellation(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	obs, err := NewPrometheusObserver(reg, "meterd")
	require.NoError(t, err)
	policy := limits.MustNewPolicy(context.Background(), limits.NewInMemSource(limits.DefaultPlans()))

	ledger, err := NewLedger(stallingStore{NewMemoryStore()}, policy,
		WithObserver(obs), WithStoreTimeout(time.Second))
	require.NoError(t, err)

	t.Run("caller gone is not a store failure", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := ledger.CheckLimit(ctx, "u1", limits.FeatureFixPRs)
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0.0, testutil.ToFloat64(obs.storeFailures.WithLabelValues("load")))
	})

	t.Run("store deadline is a store failure", func(t *testing.T) {
		short, err := NewLedger(stallingStore{NewMemoryStore()}, policy,
			WithObserver(obs), WithStoreTimeout(10*time.Millisecond))
		require.NoError(t, err)

		_, err = short.CheckLimit(context.Background(), "u1", limits.FeatureFixPRs)
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 1.0, testutil.ToFloat64(obs.storeFailures.WithLabelValues("load")))
	})
}
