package mysql

import (
	"context"
	"database/sql"
	"errors"

	domcart "example.com/phonestore/internal/domain/cart"
)

const createSlotsTable = `
    CREATE TABLE IF NOT EXISTS cart_slots (
        slot_key   VARCHAR(255) NOT NULL PRIMARY KEY,
        payload    MEDIUMBLOB   NOT NULL,
        updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    )
`

type SlotRepository struct {
	db *sql.DB
}

func NewSlotRepository(db *sql.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Migrate creates the cart_slots table if it does not exist.
func (r *SlotRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createSlotsTable)
	return err
}

func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT payload FROM cart_slots WHERE slot_key = ?
    `, key)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcart.ErrSlotNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (r *SlotRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO cart_slots (slot_key, payload)
        VALUES (?, ?)
        ON DUPLICATE KEY UPDATE payload = VALUES(payload)
    `, key, value)
	return err
}

func (r *SlotRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
