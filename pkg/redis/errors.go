package redis

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("redis.errors.failed_to_parse_connection_string")
	ErrRedisNotReady                = errors.New("redis.errors.not_ready")
	ErrEmptyConnectionURL           = errors.New("redis.errors.empty_connection_url")
	ErrHealthcheckFailed            = errors.New("redis.errors.healthcheck_failed")
)
