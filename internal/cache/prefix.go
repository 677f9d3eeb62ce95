package cache

import (
	"context"
	"time"
)

// Prefixed scopes every key of the wrapped store, so several deployments can
// share one Redis database.
type Prefixed struct {
	Store
	prefix string
}

// WithPrefix wraps s; an empty prefix returns s unchanged
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &Prefixed{Store: s, prefix: prefix}
}

func (p *Prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.Store.Get(ctx, p.prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return p.Store.Set(ctx, p.prefix+key, value, ttl)
}

func (p *Prefixed) Delete(ctx context.Context, keys ...string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = p.prefix + k
	}
	return p.Store.Delete(ctx, scoped...)
}

func (p *Prefixed) DeletePrefix(ctx context.Context, prefix string) error {
	return p.Store.DeletePrefix(ctx, p.prefix+prefix)
}
