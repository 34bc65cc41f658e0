package insight

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Mohnish27-dev/protocol-zero/pkg/logger"
)

// Result is an insight together with the key it is cached under.
type Result struct {
	Key     string  `json:"key"`
	Insight Insight `json:"insight"`
	Cached  bool    `json:"cached"`
}

// Service serves insights from the cache and generates them on a miss.
// Concurrent misses for one key share a single generation.
type Service struct {
	gen     Generator
	cache   Cache
	logger  *slog.Logger
	timeout time.Duration
	group   singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCache sets the cache. Without one every call generates.
func WithCache(c Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithGenerateTimeout bounds a single generation.
func WithGenerateTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService returns a Service that generates with gen.
func NewService(gen Generator, opts ...Option) (*Service, error) {
	if gen == nil {
		return nil, ErrNilGenerator
	}
	s := &Service{
		gen:     gen,
		logger:  slog.New(slog.DiscardHandler),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("insight_service"))
	return s, nil
}

// Insights returns the insight for snap, generating and caching it on a miss.
// Cache faults are logged and otherwise ignored. A caller whose ctx ends stops
// waiting with ctx.Err() while the shared generation carries on.
func (s *Service) Insights(ctx context.Context, snap Snapshot) (Result, error) {
	if err := snap.Validate(); err != nil {
		return Result{}, err
	}
	key := DeriveKey(snap)

	if in, ok := s.lookup(ctx, key); ok {
		return Result{Key: key, Insight: in, Cached: true}, nil
	}

	// Generation is detached from the callers: it runs to completion and fills
	// the cache even when every waiter has gone.
	genCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(genCtx, s.timeout)
		defer cancel()

		in, err := s.gen.Generate(ctx, snap)
		if err != nil {
			s.logger.ErrorContext(ctx, "insight generation failed", logger.CacheKey(key), logger.Error(err))
			return Insight{}, errors.Join(ErrGenerationFailed, err)
		}
		s.store(ctx, key, in)
		return in, nil
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Result{}, res.Err
		}
		return Result{Key: key, Insight: res.Val.(Insight)}, nil
	}
}

func (s *Service) lookup(ctx context.Context, key string) (Insight, bool) {
	if s.cache == nil {
		return Insight{}, false
	}
	in, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "insight cache read failed", logger.CacheKey(key), logger.Error(err))
		return Insight{}, false
	}
	return in, ok
}

func (s *Service) store(ctx context.Context, key string, in Insight) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, in); err != nil {
		s.logger.WarnContext(ctx, "insight cache write failed", logger.CacheKey(key), logger.Error(err))
	}
}
