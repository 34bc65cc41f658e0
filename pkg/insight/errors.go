package insight

import "errors"

var (
	ErrInvalidSnapshot  = errors.New("insight.errors.invalid_snapshot")
	ErrGenerationFailed = errors.New("insight.errors.generation_failed")
	ErrCacheUnavailable = errors.New("insight.errors.cache_unavailable")
	ErrNilGenerator     = errors.New("insight.errors.nil_generator")
)
