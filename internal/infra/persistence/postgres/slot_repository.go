package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domcart "example.com/phonestore/internal/domain/cart"
)

const createSlotsTable = `
    CREATE TABLE IF NOT EXISTS cart_slots (
        slot_key   TEXT        PRIMARY KEY,
        payload    BYTEA       NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )
`

type SlotRepository struct {
	pool *pgxpool.Pool
}

func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

func (r *SlotRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, createSlotsTable)
	return err
}

func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM cart_slots WHERE slot_key = $1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domcart.ErrSlotNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (r *SlotRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO cart_slots (slot_key, payload, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (slot_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
    `, key, value)
	return err
}

func (r *SlotRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
