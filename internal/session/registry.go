package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Registry keeps live sessions. Get returns ErrNotFound for unknown or
// expired sessions.
type Registry interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[string]Session), now: time.Now}
}

func (r *MemoryRegistry) Save(_ context.Context, s *Session) error {
	if s.Expired(r.now()) {
		return ErrExpired
	}
	r.mu.Lock()
	r.sessions[s.ID] = *s
	r.mu.Unlock()
	return nil
}

func (r *MemoryRegistry) Get(_ context.Context, id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.Expired(r.now()) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *MemoryRegistry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

// RedisRegistry stores sessions as JSON with a TTL matching their expiry.
type RedisRegistry struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client, prefix: "session:", now: time.Now}
}

func (r *RedisRegistry) key(id string) string {
	return r.prefix + id
}

func (r *RedisRegistry) Save(ctx context.Context, s *Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return ErrExpired
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *RedisRegistry) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

var (
	_ Registry = (*MemoryRegistry)(nil)
	_ Registry = (*RedisRegistry)(nil)
)
