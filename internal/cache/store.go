package cache

import "context"

// Store is the injected cache backend. The cache is a pure performance
// optimization: implementations swallow backend failures and report a miss,
// so a broken store degrades to "always recompute", never to wrong output.
type Store interface {
	// Get returns the cached payload for a key, or ok=false on miss,
	// expiry, or backend failure.
	Get(ctx context.Context, key string) (payload []byte, ok bool)

	// Set stores a payload under a key for the store's TTL. Best effort.
	Set(ctx context.Context, key string, payload []byte)

	// DeletePattern drops every entry whose key matches the glob pattern.
	DeletePattern(ctx context.Context, pattern string)
}
