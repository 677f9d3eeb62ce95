package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Typed is a JSON-encoded view of a Store under a key namespace.
type Typed[T any] struct {
	store     Store
	namespace string
}

func NewTyped[T any](store Store, namespace string) *Typed[T] {
	return &Typed[T]{store: store, namespace: namespace}
}

func (t *Typed[T]) key(k string) string {
	return t.namespace + k
}

// Get returns the cached value. Backend errors and undecodable payloads are
// reported as a miss; the corrupt entry is removed.
func (t *Typed[T]) Get(ctx context.Context, k string) (T, bool) {
	var zero T
	data, ok, err := t.store.Get(ctx, t.key(k))
	if err != nil {
		log.Printf("[Cache] Get %s failed: %v", t.key(k), err)
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("[Cache] Dropping undecodable entry %s: %v", t.key(k), err)
		t.store.Delete(ctx, t.key(k))
		return zero, false
	}
	return v, true
}

func (t *Typed[T]) Set(ctx context.Context, k string, v T, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", t.key(k), err)
	}
	return t.store.Set(ctx, t.key(k), data, ttl)
}

func (t *Typed[T]) Delete(ctx context.Context, k string) error {
	return t.store.Delete(ctx, t.key(k))
}

// Invalidate drops every entry of this namespace
func (t *Typed[T]) Invalidate(ctx context.Context) error {
	return t.store.DeletePrefix(ctx, t.namespace)
}

// GetOrLoad returns the cached value or calls load and caches its result.
// A failing cache write is logged; the loaded value is still returned.
func (t *Typed[T]) GetOrLoad(ctx context.Context, k string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := t.Get(ctx, k); ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := t.Set(ctx, k, v, ttl); err != nil {
		log.Printf("[Cache] Set %s failed: %v", t.key(k), err)
	}
	return v, nil
}
