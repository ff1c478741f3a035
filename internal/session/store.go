// Package session owns the single piece of persisted client state: the
// authenticated user's profile/token pair. Everything else the client
// holds is session-scoped and rebuilt from fetches.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoCredentials means no credential record is stored.
var ErrNoCredentials = errors.New("session: no stored credentials")

// Credentials is the persisted profile/token pair.
type Credentials struct {
	Token string `json:"token"`
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Store persists exactly one credential record.
type Store interface {
	Load(ctx context.Context) (*Credentials, error)
	Save(ctx context.Context, creds *Credentials) error
	Clear(ctx context.Context) error
}

// FileStore keeps the credentials in a mode-0600 JSON file. This is the
// default backend for single-user CLI use.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (*Credentials, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredentials
		}
		return nil, fmt.Errorf("session: read credentials: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("session: decode credentials: %w", err)
	}
	return &creds, nil
}

func (s *FileStore) Save(ctx context.Context, creds *Credentials) error {
	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("session: encode credentials: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("session: create credentials dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("session: write credentials: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: clear credentials: %w", err)
	}
	return nil
}

// RedisStore keeps the credentials under a single key, for gateway
// deployments where the process does not own durable disk.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = "medisync:session"
	}
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) (*Credentials, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("session: read credentials: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("session: decode credentials: %w", err)
	}
	return &creds, nil
}

func (s *RedisStore) Save(ctx context.Context, creds *Credentials) error {
	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("session: encode credentials: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: write credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session: clear credentials: %w", err)
	}
	return nil
}
