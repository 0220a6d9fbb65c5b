// Package cache wraps the Redis connection used for response caching and
// rate limiting. With no address configured it runs an embedded server.
package cache

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned when a key does not exist.
var ErrCacheMiss = errors.New("cache: key not found")

type Store struct {
	client   *redis.Client
	embedded *miniredis.Miniredis
}

// New connects to addr, or starts an embedded Redis when addr is empty.
func New(addr, password string, log *zap.Logger) (*Store, error) {
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, errors.Wrap(err, "start embedded redis")
		}
		log.Info("embedded redis started", zap.String("addr", mr.Addr()))
		return &Store{
			client:   redis.NewClient(&redis.Options{Addr: mr.Addr()}),
			embedded: mr,
		}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "connect to redis at %s", addr)
	}
	log.Info("connected to redis", zap.String("addr", addr))
	return &Store{client: client}, nil
}

func (s *Store) Client() *redis.Client {
	return s.client
}

func (s *Store) IsEmbedded() bool {
	return s.embedded != nil
}

func (s *Store) Close() error {
	err := s.client.Close()
	if s.embedded != nil {
		s.embedded.Close()
	}
	return err
}

func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return errors.Wrap(err, "cache get")
	}
	return errors.Wrap(json.Unmarshal(data, dest), "cache decode")
}

func (s *Store) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "cache encode")
	}
	return errors.Wrap(s.client.Set(ctx, key, data, ttl).Err(), "cache set")
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	return errors.Wrap(s.client.Del(ctx, keys...).Err(), "cache delete")
}

// Incr bumps a counter and starts its expiry window on the first hit.
func (s *Store) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, errors.Wrap(err, "cache incr")
	}
	if n == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return n, errors.Wrap(err, "cache expire")
		}
	}
	return n, nil
}
