package usage

import (
	"context"
	"sync"
	"time"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
)

// MemoryStore implements Store and ConditionalIncrementer in process memory.
// It is safe for concurrent use; every mutation holds the lock, so deltas are linearizable.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, nil
	}
	rec = rec.Clone()
	return &rec, nil
}

func (s *MemoryStore) Create(ctx context.Context, userID string, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, unavailable(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[userID]; ok {
		return existing.Clone(), nil
	}
	s.records[userID] = rec.Clone()
	return rec.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, userID string, rec Record) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[userID] = rec.Clone()
	return nil
}

func (s *MemoryStore) Increment(ctx context.Context, userID string, feature limits.Feature) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return ErrRecordNotFound
	}
	if rec.Usage == nil {
		rec.Usage = Counters{}
	}
	rec.Usage[feature]++
	s.records[userID] = rec
	return nil
}

func (s *MemoryStore) Decrement(ctx context.Context, userID string, feature limits.Feature) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok || rec.Usage[feature] <= 0 {
		return nil
	}
	rec.Usage[feature]--
	s.records[userID] = rec
	return nil
}

func (s *MemoryStore) SetTier(ctx context.Context, userID string, isPro bool) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return ErrRecordNotFound
	}
	rec.IsPro = isPro
	s.records[userID] = rec
	return nil
}

func (s *MemoryStore) ResetWindow(ctx context.Context, userID string, from, to time.Time, features []limits.Feature) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, unavailable(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok || !rec.WindowStart.Equal(from) {
		return false, nil
	}
	rec.WindowStart = to
	if rec.Usage == nil {
		rec.Usage = Counters{}
	}
	for _, f := range features {
		rec.Usage[f] = 0
	}
	s.records[userID] = rec
	return true, nil
}

func (s *MemoryStore) IncrementIfBelow(ctx context.Context, userID string, feature limits.Feature, limit int64) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, unavailable(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return 0, false, ErrRecordNotFound
	}
	current := rec.Usage[feature]
	if current >= limit {
		return current, false, nil
	}
	if rec.Usage == nil {
		rec.Usage = Counters{}
	}
	rec.Usage[feature] = current + 1
	s.records[userID] = rec
	return current + 1, true, nil
}
