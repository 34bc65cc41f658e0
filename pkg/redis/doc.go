// Package redis connects a go-redis client shared by the Redis usage store
// and the insight cache, and exposes a readiness probe for it.
//
// Configuration is read from REDIS_* environment variables:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := usage.NewRedisStore(client)
//
// Connect retries until ConnectTimeout expires and returns ErrRedisNotReady
// when the server never answers.
package redis
