package redis

import (
	"fmt"

	"github.com/go-redis/redis/v8"
)

type ClientOption func(*redis.Options)

// NewUniversalClient builds a client from a redis:// or rediss:// URL.
func NewUniversalClient(rawURL string, options ...ClientOption) (redis.UniversalClient, error) {
	parsed, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	for _, opt := range options {
		opt(parsed)
	}

	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{parsed.Addr},
		DB:           parsed.DB,
		Username:     parsed.Username,
		Password:     parsed.Password,
		TLSConfig:    parsed.TLSConfig,
		DialTimeout:  parsed.DialTimeout,
		ReadTimeout:  parsed.ReadTimeout,
		WriteTimeout: parsed.WriteTimeout,
		MaxRetries:   parsed.MaxRetries,
		PoolSize:     parsed.PoolSize,
		MinIdleConns: parsed.MinIdleConns,
		IdleTimeout:  parsed.IdleTimeout,
	}), nil
}
