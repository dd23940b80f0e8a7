package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"example.com/phonestore/internal/config"
	domcart "example.com/phonestore/internal/domain/cart"
	"example.com/phonestore/internal/infra/persistence/memory"
	"example.com/phonestore/internal/infra/persistence/mysql"
	"example.com/phonestore/internal/infra/persistence/postgres"
	"example.com/phonestore/internal/infra/persistence/redis"
	"example.com/phonestore/internal/infra/persistence/sqlite"
)

// slotBackend is the durable slot store the process owns and closes on exit.
type slotBackend interface {
	pingStore
	Close() error
}

type migrator interface {
	Migrate(ctx context.Context) error
}

type pingStore interface {
	domcart.SlotStore
	Ping(ctx context.Context) error
}

type closingStore struct {
	pingStore
	closeFn func() error
}

func (c closingStore) Close() error {
	if c.closeFn == nil {
		return nil
	}
	return c.closeFn()
}

func openSlotStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (slotBackend, error) {
	var (
		store   pingStore
		closeFn func() error
	)

	switch cfg.SlotBackend {
	case config.BackendMemory:
		logger.Warn("memory slot backend: carts are lost on restart")
		store = memory.NewSlotStore()
	case config.BackendRedis:
		rs := redis.NewSlotStore(redis.NewClient(cfg.RedisURL), cfg.RedisSlotTTL)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		store, closeFn = rs, rs.Close
	case config.BackendMySQL:
		db, err := mysql.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		store, closeFn = mysql.NewSlotRepository(db), db.Close
	case config.BackendPostgres:
		pool, err := postgres.Open(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		store = postgres.NewSlotRepository(pool)
		closeFn = func() error {
			pool.Close()
			return nil
		}
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		store, closeFn = sqlite.NewSlotRepository(db), db.Close
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.SlotBackend)
	}

	if m, ok := store.(migrator); ok {
		if err := m.Migrate(ctx); err != nil {
			if closeFn != nil {
				_ = closeFn()
			}
			return nil, fmt.Errorf("%s migrate: %w", cfg.SlotBackend, err)
		}
	}

	logger.Info("slot store ready", zap.String("backend", cfg.SlotBackend))
	return closingStore{pingStore: store, closeFn: closeFn}, nil
}
