package cache

import (
	"context"
	"time"
)

// ListCache stores JSON-encodable read models under string keys. A miss is
// reported as found == false with a nil error.
type ListCache interface {
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type NoopListCache struct{}

func (NoopListCache) Get(_ context.Context, _ string, _ any) (bool, error) {
	return false, nil
}

func (NoopListCache) Set(_ context.Context, _ string, _ any, _ time.Duration) error {
	return nil
}

func (NoopListCache) Delete(_ context.Context, _ ...string) error {
	return nil
}
