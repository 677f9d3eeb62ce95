package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStore persists each key as a JSON envelope file in a directory.
// File names are hashes of the key; the key itself is stored inside the
// envelope so DeletePrefix can match it.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

type fileEnvelope struct {
	Key string `json:"key"`
	entry
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// SetClock overrides the time source used for expiry
func (f *FileStore) SetClock(now func() time.Time) {
	f.now = now
}

func (f *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:])+".json")
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.path(key)
	env, err := readEnvelope(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		// unreadable entry behaves as a miss
		os.Remove(p)
		return nil, false, nil
	}
	if env.expired(f.now()) {
		os.Remove(p)
		return nil, false, nil
	}
	return env.Value, true, nil
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	env := fileEnvelope{Key: key, entry: entry{Value: value, ExpiresAt: expiryFor(f.now(), ttl)}}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// write-then-rename so readers never see a partial file
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit cache file: %w", err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, k := range keys {
		if err := os.Remove(f.path(k)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete cache file: %w", err)
		}
	}
	return nil
}

func (f *FileStore) DeletePrefix(ctx context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	files, err := os.ReadDir(f.dir)
	if err != nil {
		return fmt.Errorf("list cache dir: %w", err)
	}
	for _, de := range files {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		p := filepath.Join(f.dir, de.Name())
		env, err := readEnvelope(p)
		if err != nil || strings.HasPrefix(env.Key, prefix) {
			os.Remove(p)
		}
	}
	return nil
}

func readEnvelope(path string) (*fileEnvelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var env fileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
