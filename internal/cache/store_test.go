package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// backend bundles a store with a way to move its clock forward
type backend struct {
	store   Store
	advance func(d time.Duration)
}

func memoryBackend(t *testing.T) backend {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.SetClock(func() time.Time { return now })
	return backend{store: m, advance: func(d time.Duration) { now = now.Add(d) }}
}

func fileBackend(t *testing.T) backend {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	f.SetClock(func() time.Time { return now })
	return backend{store: f, advance: func(d time.Duration) { now = now.Add(d) }}
}

func redisBackend(t *testing.T) backend {
	s := miniredis.RunT(t)
	store, err := NewRedisStore(&redis.Options{Addr: s.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return backend{store: store, advance: s.FastForward}
}

var backends = map[string]func(t *testing.T) backend{
	"memory": memoryBackend,
	"file":   fileBackend,
	"redis":  redisBackend,
}

func TestStore_SetGet(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			b := mk(t)
			ctx := context.Background()

			if _, ok, err := b.store.Get(ctx, "missing"); ok || err != nil {
				t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
			}

			if err := b.store.Set(ctx, "k", []byte("v1"), time.Minute); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, ok, err := b.store.Get(ctx, "k")
			if err != nil || !ok || string(got) != "v1" {
				t.Fatalf("Get = %q, %v, %v", got, ok, err)
			}

			if err := b.store.Set(ctx, "k", []byte("v2"), time.Minute); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, _, _ = b.store.Get(ctx, "k")
			if string(got) != "v2" {
				t.Errorf("expected overwrite, got %q", got)
			}
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			b := mk(t)
			ctx := context.Background()

			b.store.Set(ctx, "short", []byte("x"), time.Minute)
			b.store.Set(ctx, "forever", []byte("y"), 0)

			b.advance(59 * time.Second)
			if _, ok, _ := b.store.Get(ctx, "short"); !ok {
				t.Error("entry expired too early")
			}

			b.advance(2 * time.Second)
			if _, ok, _ := b.store.Get(ctx, "short"); ok {
				t.Error("expired entry returned")
			}

			b.advance(365 * 24 * time.Hour)
			if _, ok, _ := b.store.Get(ctx, "forever"); !ok {
				t.Error("ttl 0 entry should never expire")
			}
		})
	}
}

func TestStore_DeleteAndPrefix(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			b := mk(t)
			ctx := context.Background()

			b.store.Set(ctx, "clients:list:1", []byte("a"), time.Minute)
			b.store.Set(ctx, "clients:list:2", []byte("b"), time.Minute)
			b.store.Set(ctx, "reports:summary", []byte("c"), time.Minute)
			b.store.Set(ctx, "single", []byte("d"), time.Minute)

			if err := b.store.Delete(ctx, "single", "never-existed"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, ok, _ := b.store.Get(ctx, "single"); ok {
				t.Error("deleted key still present")
			}

			if err := b.store.DeletePrefix(ctx, "clients:"); err != nil {
				t.Fatalf("DeletePrefix: %v", err)
			}
			for _, k := range []string{"clients:list:1", "clients:list:2"} {
				if _, ok, _ := b.store.Get(ctx, k); ok {
					t.Errorf("%s should be gone", k)
				}
			}
			if _, ok, _ := b.store.Get(ctx, "reports:summary"); !ok {
				t.Error("unrelated key removed by prefix delete")
			}
		})
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	b := memoryBackend(t)
	m := b.store.(*MemoryStore)
	ctx := context.Background()

	m.Set(ctx, "a", []byte("1"), time.Second)
	m.Set(ctx, "b", []byte("2"), time.Hour)
	b.advance(time.Minute)

	if removed := m.Sweep(); removed != 1 {
		t.Errorf("expected 1 swept entry, got %d", removed)
	}
	if _, ok := m.entries["b"]; !ok || len(m.entries) != 1 {
		t.Errorf("expected only the live entry to remain, got %d entries", len(m.entries))
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	buf := []byte("abc")
	m.Set(ctx, "k", buf, 0)
	buf[0] = 'X'

	got, _, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("store must not alias caller buffer, got %q", got)
	}
}

func TestFileStore_CorruptFileIsMiss(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	f.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(f.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := f.Get(ctx, "k"); ok || err != nil {
		t.Errorf("corrupt entry should be a clean miss, got ok=%v err=%v", ok, err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.Base(f.path("k")))); !os.IsNotExist(err) {
		t.Error("corrupt file should be removed")
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	f1, _ := NewFileStore(dir)
	f1.Set(ctx, "prefs", []byte(`{"theme":"dark"}`), time.Hour)

	f2, _ := NewFileStore(dir)
	got, ok, err := f2.Get(ctx, "prefs")
	if err != nil || !ok || string(got) != `{"theme":"dark"}` {
		t.Errorf("expected persisted value, got %q %v %v", got, ok, err)
	}
}

func TestPrefixed_ScopesKeys(t *testing.T) {
	inner := NewMemoryStore()
	store := WithPrefix(inner, "crm:")
	ctx := context.Background()

	if err := store.Set(ctx, "clients:a", []byte("1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	inner.Set(ctx, "other:clients:b", []byte("2"), 0)

	if _, ok, _ := inner.Get(ctx, "crm:clients:a"); !ok {
		t.Fatal("expected prefixed key in backing store")
	}
	if err := store.DeletePrefix(ctx, "clients:"); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "clients:a"); ok {
		t.Error("prefixed entry should be gone")
	}
	if _, ok, _ := inner.Get(ctx, "other:clients:b"); !ok {
		t.Error("entries outside the prefix must survive")
	}

	if WithPrefix(inner, "") != Store(inner) {
		t.Error("empty prefix should return the store unchanged")
	}
	if name, ok := Healthy(ctx, store); name != BackendMemory || !ok {
		t.Errorf("Healthy = %s, %v", name, ok)
	}
}

func TestStore_DeletePrefixIsLiteral(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			b := mk(t)
			ctx := context.Background()

			keys := []string{"crm[1]:a", "crm1:a", "crm?x:a", "crmzx:a", `crm\*:a`, `crm\x:a`}
			for _, k := range keys {
				if err := b.store.Set(ctx, k, []byte("v"), 0); err != nil {
					t.Fatalf("Set %q: %v", k, err)
				}
			}

			for _, p := range []string{"crm[1]:", "crm?x:", `crm\*:`} {
				if err := b.store.DeletePrefix(ctx, p); err != nil {
					t.Fatalf("DeletePrefix %q: %v", p, err)
				}
			}

			for _, k := range []string{"crm[1]:a", "crm?x:a", `crm\*:a`} {
				if _, ok, _ := b.store.Get(ctx, k); ok {
					t.Errorf("%q should be deleted", k)
				}
			}
			for _, k := range []string{"crm1:a", "crmzx:a", `crm\x:a`} {
				if _, ok, _ := b.store.Get(ctx, k); !ok {
					t.Errorf("%q matched a glob it should not have", k)
				}
			}
		})
	}
}
