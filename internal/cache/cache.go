// Package cache keeps rendered read-path payloads (the public content tree)
// in memory or in Redis.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache is the storage used by read-heavy public endpoints.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	DeleteByPrefix(ctx context.Context, prefix string)
	Close() error
}

// Current is the process-wide cache. It starts as an in-memory cache and is
// replaced at startup when Redis is configured.
var Current Cache = NewMemory()

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a thread-safe in-memory cache with per-entry TTL.
type Memory struct {
	data sync.Map
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	val, ok := m.data.Load(key)
	if !ok {
		return nil, false
	}

	e := val.(*entry)
	if time.Now().After(e.expiresAt) {
		m.data.Delete(key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.data.Store(key, &entry{value: value, expiresAt: time.Now().Add(ttl)})
}

func (m *Memory) DeleteByPrefix(_ context.Context, prefix string) {
	m.data.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			m.data.Delete(key)
		}
		return true
	})
}

func (m *Memory) Close() error {
	m.data.Range(func(key, _ any) bool {
		m.data.Delete(key)
		return true
	})
	return nil
}
