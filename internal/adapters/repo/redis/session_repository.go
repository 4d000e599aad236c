package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
	"github.com/go-redis/redis/v8"
)

const DefaultSessionKey = "camrelay:session:active"

// SessionRepository shares the active session between operators through a
// single Redis key.
type SessionRepository struct {
	client redis.UniversalClient
	key    string
}

var _ ports.SessionStore = (*SessionRepository)(nil)

type sessionValue struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func NewSessionRepository(client redis.UniversalClient, key string) *SessionRepository {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionRepository{client: client, key: key}
}

func (r *SessionRepository) Load(ctx context.Context) (domain.ClientIdentity, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ClientIdentity{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.ClientIdentity{}, fmt.Errorf("read session key %q: %w", r.key, err)
	}

	var value sessionValue
	if err := json.Unmarshal(data, &value); err != nil {
		return domain.ClientIdentity{}, fmt.Errorf("decode session key %q: %w", r.key, err)
	}

	client, err := domain.NewClientIdentity(value.Host, value.Port)
	if err != nil {
		return domain.ClientIdentity{}, fmt.Errorf("decode session key %q: %w", r.key, err)
	}
	return client, nil
}

func (r *SessionRepository) Save(ctx context.Context, client domain.ClientIdentity) error {
	data, err := json.Marshal(sessionValue{Host: client.Host, Port: client.Port})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write session key %q: %w", r.key, err)
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("delete session key %q: %w", r.key, err)
	}
	return nil
}

func (r *SessionRepository) Close() error {
	return r.client.Close()
}
