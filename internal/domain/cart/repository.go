package cart

import "context"

// SlotStore is the durable key-value store carts are written through to.
// Get returns ErrSlotNotFound when the key has never been written.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
