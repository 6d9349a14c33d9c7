// Package session provides a named bag of per-client values and the stores
// that persist it.
//
// A [Session] is addressed by an opaque cookie token and identified by an
// ID. Values are read with GetValue, Get or the typed [Value] and [ValueOr]
// helpers. GetOnce reads a value and removes it, which is how flash
// messages are implemented. Destroy empties the session and flags it so the
// session manager deletes it from the store and expires the cookie.
//
// # Stores
//
// Two [Store] implementations ship with the package:
//
//   - [MemoryStore] keeps sessions in a map and sweeps expired entries lazily.
//   - [RedisStore] writes JSON documents through go-redis with a key prefix
//     and a TTL.
//
// Both accept [StoreOption] values:
//
//	store := session.NewRedisStore(client,
//	    session.WithKeyPrefix("blog:session:"),
//	    session.WithTTL(24*time.Hour),
//	)
package session
