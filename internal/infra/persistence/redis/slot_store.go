package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	domcart "example.com/phonestore/internal/domain/cart"
)

type SlotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient accepts either a redis:// URL or a bare "host:port" address.
func NewClient(addr string) *redis.Client {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
		}
	}
	return redis.NewClient(opts)
}

// NewSlotStore stores each slot as a plain string key. A zero ttl keeps slots
// forever; otherwise every write refreshes the expiry.
func NewSlotStore(client *redis.Client, ttl time.Duration) *SlotStore {
	return &SlotStore{client: client, ttl: ttl}
}

func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domcart.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *SlotStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

func (s *SlotStore) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(pingCtx).Err()
}

func (s *SlotStore) Close() error {
	return s.client.Close()
}
