package cart

import (
	"context"

	domcart "example.com/phonestore/internal/domain/cart"
)

// ScopedSlots confines a slot store to one browser session: every key is
// stored as "session/<scope>/<key>", so two browsers never share a guest cart.
func ScopedSlots(store domcart.SlotStore, scope string) domcart.SlotStore {
	return &scopedSlots{store: store, prefix: "session/" + scope + "/"}
}

type scopedSlots struct {
	store  domcart.SlotStore
	prefix string
}

func (s *scopedSlots) Get(ctx context.Context, key string) ([]byte, error) {
	return s.store.Get(ctx, s.prefix+key)
}

func (s *scopedSlots) Set(ctx context.Context, key string, value []byte) error {
	return s.store.Set(ctx, s.prefix+key, value)
}
