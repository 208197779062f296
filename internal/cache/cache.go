package cache

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("cache: key not found")

// Cache is the persistence surface the client keeps between runs: the
// bearer token, the remembered identity, and anything else that survives a
// restart.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
