// Package cache provides a generic, thread-safe LRU cache with optional
// time-based expiry. The insight service keeps generated insights in it when
// no Redis instance is configured.
//
//	c := cache.NewLRUCache[string, Insight](1024, cache.WithTTL(10*time.Minute))
//	c.Put(key, insight)
//	if v, ok := c.Get(key); ok {
//		return v
//	}
//
// Get and Put are O(1). Expired entries are removed when they are
// next touched rather than by a background sweeper, so Len may count entries
// that Get would no longer return.
package cache
