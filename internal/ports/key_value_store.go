package ports

import "context"

// KeyValueStore is the durable on-device cache. Get returns
// domain.ErrCacheMiss when the key is absent; Remove of an absent key is a
// no-op.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
