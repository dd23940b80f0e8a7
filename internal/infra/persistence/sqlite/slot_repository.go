package sqlite

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"

	domcart "example.com/phonestore/internal/domain/cart"
)

const createSlotsTable = `
    CREATE TABLE IF NOT EXISTS cart_slots (
        slot_key   TEXT PRIMARY KEY,
        payload    BLOB NOT NULL,
        updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
    )
`

// Open opens (or creates) the database file with a busy timeout and WAL journal.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout=5000&_pragma=journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	return db, nil
}

type SlotRepository struct {
	db *sql.DB
}

func NewSlotRepository(db *sql.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createSlotsTable)
	return err
}

func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM cart_slots WHERE slot_key = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcart.ErrSlotNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (r *SlotRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO cart_slots (slot_key, payload, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(slot_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
    `, key, value)
	return err
}

func (r *SlotRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
