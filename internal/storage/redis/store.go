// Package redis stores collections in a Redis database. Every key is scoped
// under a fixed prefix so the database can be shared.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/storage/kv"
)

type Store struct {
	connURL string
	prefix  string
	client  *redis.Client
}

// NewStore creates a store for a redis:// or rediss:// URL.
func NewStore(connURL string) *Store {
	return &Store{connURL: connURL, prefix: constants.RedisKeyPrefix}
}

func (s *Store) options() (*redis.Options, error) {
	opts, err := redis.ParseURL(s.connURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = constants.RedisDialTimeout
	opts.ReadTimeout = constants.RedisReadTimeout
	opts.WriteTimeout = constants.RedisWriteTimeout
	return opts, nil
}

// Init and Load both connect; Redis needs no schema.
func (s *Store) Init() error {
	return s.connect()
}

func (s *Store) Load() error {
	return s.connect()
}

func (s *Store) connect() error {
	if s.client != nil {
		return nil
	}
	opts, err := s.options()
	if err != nil {
		return err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.client = client
	return nil
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.client == nil {
		return nil, kv.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisReadTimeout)
	defer cancel()

	result := s.client.Get(ctx, s.key(key))
	if errors.Is(result.Err(), redis.Nil) {
		return nil, kv.ErrNotFound
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, result.Err())
	}
	return result.Bytes()
}

func (s *Store) Put(key string, value []byte) error {
	if s.client == nil {
		return kv.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisWriteTimeout)
	defer cancel()

	// No TTL: collections persist until deleted
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if s.client == nil {
		return kv.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisWriteTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(prefix string) ([]string, error) {
	if s.client == nil {
		return nil, kv.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisReadTimeout)
	defer cancel()

	var keys []string
	iter := s.client.Scan(ctx, 0, s.key(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// GetConfigPath returns the URL with any password removed.
func (s *Store) GetConfigPath() string {
	return redactURL(s.connURL)
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "redis"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.String()
}
