package cache

import (
	"context"
	"log"
	"time"

	"spectres-crm/internal/config"

	"github.com/redis/go-redis/v9"
)

// Backend names accepted in config
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Open builds the configured backend under cfg.Cache.Prefix. Redis and file
// failures degrade to an in-memory store so the server still starts.
func Open(cfg *config.Config) Store {
	return WithPrefix(openBackend(cfg), cfg.Cache.Prefix)
}

func openBackend(cfg *config.Config) Store {
	switch cfg.Cache.Backend {
	case BackendRedis:
		store, err := NewRedisStore(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Printf("[Redis] Cache unavailable: %v (falling back to in-memory cache)", err)
			return newSweptMemoryStore()
		}
		log.Println("[Redis] Cache connected successfully")
		return store
	case BackendFile:
		store, err := NewFileStore(cfg.Cache.Dir)
		if err != nil {
			log.Printf("[Cache] File cache unavailable: %v (falling back to in-memory cache)", err)
			return newSweptMemoryStore()
		}
		log.Printf("[Cache] Using file cache at %s", cfg.Cache.Dir)
		return store
	default:
		return newSweptMemoryStore()
	}
}

func newSweptMemoryStore() *MemoryStore {
	m := NewMemoryStore()
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			m.Sweep()
		}
	}()
	return m
}

// Healthy reports backend health for the detailed health endpoint
func Healthy(ctx context.Context, s Store) (string, bool) {
	if p, ok := s.(*Prefixed); ok {
		s = p.Store
	}
	switch st := s.(type) {
	case *RedisStore:
		return BackendRedis, st.IsHealthy(ctx)
	case *FileStore:
		return BackendFile, true
	default:
		return BackendMemory, true
	}
}
