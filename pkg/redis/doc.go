// Package redis opens go-redis clients from the [redis] configuration section.
//
// [Open] validates the URL, applies pool and timeout settings from [Config]
// and pings the server, retrying with a linearly growing delay:
//
//	cfg := redis.DefaultConfig()
//	if err := config.Decode(conf.Child("redis"), &cfg, redis.DefaultConfig()); err != nil {
//		return err
//	}
//	client, err := redis.Open(ctx, cfg, redis.WithLogger(log))
//
// The client backs session.RedisStore. [Healthcheck] plugs into the
// application's readiness checks and [Shutdown] into its shutdown hooks.
//
// Errors are wrapped with errors.Join around the sentinels in errors.go.
package redis
