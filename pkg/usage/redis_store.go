package usage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
)

// Hash layout for one user record.
const (
	redisFieldIsPro       = "is_pro"
	redisFieldLegacyTier  = "tier"
	redisFieldWindowStart = "window_start" // unix milliseconds
	redisFieldCreatedAt   = "created_at"   // unix milliseconds
	redisCounterPrefix    = "u:"
)

// Every mutation runs as a Lua script so existence checks and deltas are one atomic step.
var (
	redisCreateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

	redisIncrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
`)

	redisDecrementScript = redis.NewScript(`
local v = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
if v > 0 then
  return redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
end
return 0
`)

	redisSetTierScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
redis.call('HSET', KEYS[1], 'is_pro', ARGV[1])
redis.call('HDEL', KEYS[1], 'tier')
return 1
`)

	redisResetWindowScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
local current = redis.call('HGET', KEYS[1], 'window_start') or ''
if current ~= ARGV[1] then
  return 0
end
redis.call('HSET', KEYS[1], 'window_start', ARGV[2])
for i = 3, #ARGV do
  redis.call('HSET', KEYS[1], ARGV[i], 0)
end
return 1
`)

	redisIncrementIfBelowScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return {-1, 0}
end
local v = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
if v < tonumber(ARGV[2]) then
  return {redis.call('HINCRBY', KEYS[1], ARGV[1], 1), 1}
end
return {v, 0}
`)
)

// RedisStore implements Store with one hash per user.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix sets the key prefix. Default is "usage:".
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore returns a store on client. A nil client yields a store whose
// every call fails with ErrStoreUnavailable.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "usage:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

func counterField(f limits.Feature) string {
	return redisCounterPrefix + string(f)
}

func (s *RedisStore) ready() error {
	if s == nil || s.client == nil {
		return errors.Join(ErrStoreUnavailable, errors.New("redis client is not configured"))
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, userID string) (*Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	fields, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	rec, err := decodeRedisRecord(fields)
	if err != nil {
		return nil, unavailable(err)
	}
	return &rec, nil
}

func (s *RedisStore) Create(ctx context.Context, userID string, rec Record) (Record, error) {
	if err := s.ready(); err != nil {
		return Record{}, err
	}
	if err := redisCreateScript.Run(ctx, s.client, []string{s.key(userID)}, encodeRedisRecord(rec)...).Err(); err != nil {
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

func (s *RedisStore) Save(ctx context.Context, userID string, rec Record) error {
	if err := s.ready(); err != nil {
		return err
	}
	key := s.key(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, encodeRedisRecord(rec)...)
		return nil
	})
	return unavailable(err)
}

func (s *RedisStore) Increment(ctx context.Context, userID string, feature limits.Feature) error {
	if err := s.ready(); err != nil {
		return err
	}
	n, err := redisIncrementScript.Run(ctx, s.client, []string{s.key(userID)}, counterField(feature)).Int64()
	if err != nil {
		return unavailable(err)
	}
	if n < 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *RedisStore) Decrement(ctx context.Context, userID string, feature limits.Feature) error {
	if err := s.ready(); err != nil {
		return err
	}
	err := redisDecrementScript.Run(ctx, s.client, []string{s.key(userID)}, counterField(feature)).Err()
	return unavailable(err)
}

func (s *RedisStore) SetTier(ctx context.Context, userID string, isPro bool) error {
	if err := s.ready(); err != nil {
		return err
	}
	n, err := redisSetTierScript.Run(ctx, s.client, []string{s.key(userID)}, formatBool(isPro)).Int64()
	if err != nil {
		return unavailable(err)
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *RedisStore) ResetWindow(ctx context.Context, userID string, from, to time.Time, features []limits.Feature) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	args := make([]any, 0, 2+len(features))
	args = append(args, formatMillis(from), formatMillis(to))
	for _, f := range features {
		args = append(args, counterField(f))
	}
	n, err := redisResetWindowScript.Run(ctx, s.client, []string{s.key(userID)}, args...).Int64()
	if err != nil {
		return false, unavailable(err)
	}
	return n == 1, nil
}

func (s *RedisStore) IncrementIfBelow(ctx context.Context, userID string, feature limits.Feature, limit int64) (int64, bool, error) {
	if err := s.ready(); err != nil {
		return 0, false, err
	}
	res, err := redisIncrementIfBelowScript.Run(ctx, s.client,
		[]string{s.key(userID)}, counterField(feature), limit,
	).Int64Slice()
	if err != nil {
		return 0, false, unavailable(err)
	}
	if len(res) != 2 {
		return 0, false, unavailable(errors.New("unexpected reply from increment script"))
	}
	if res[0] < 0 {
		return 0, false, ErrRecordNotFound
	}
	return res[0], res[1] == 1, nil
}

func encodeRedisRecord(rec Record) []any {
	args := make([]any, 0, 6+2*len(limits.KnownFeatures))
	args = append(args,
		redisFieldIsPro, formatBool(rec.IsPro),
		redisFieldWindowStart, formatMillis(rec.WindowStart),
		redisFieldCreatedAt, formatMillis(rec.CreatedAt),
	)
	for _, f := range limits.KnownFeatures {
		args = append(args, counterField(f), strconv.FormatInt(max(0, rec.Usage[f]), 10))
	}
	return args
}

func decodeRedisRecord(fields map[string]string) (Record, error) {
	var flag *bool
	if v, ok := fields[redisFieldIsPro]; ok {
		b := v == "1" || v == "true"
		flag = &b
	}
	var legacy *string
	if v, ok := fields[redisFieldLegacyTier]; ok {
		legacy = &v
	}

	windowStart, err := parseMillis(fields[redisFieldWindowStart])
	if err != nil {
		return Record{}, err
	}
	createdAt, err := parseMillis(fields[redisFieldCreatedAt])
	if err != nil {
		return Record{}, err
	}

	usage := make(Counters, len(limits.KnownFeatures))
	for _, f := range limits.KnownFeatures {
		var n int64
		if v, ok := fields[counterField(f)]; ok {
			if n, err = strconv.ParseInt(v, 10, 64); err != nil {
				return Record{}, err
			}
		}
		usage[f] = max(0, n)
	}

	return Record{
		IsPro:       decodeTier(flag, legacy).normalize(),
		Usage:       usage,
		WindowStart: windowStart,
		CreatedAt:   createdAt,
	}, nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// formatMillis encodes t as unix milliseconds; the zero time encodes as "" so
// records missing a window still match on reset.
func formatMillis(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.UTC().UnixMilli(), 10)
}

func parseMillis(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}
