package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domcart "example.com/phonestore/internal/domain/cart"
)

func newTestRepository(t *testing.T) *SlotRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSlotRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestSlotRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "cart_guest")
	require.ErrorIs(t, err, domcart.ErrSlotNotFound)
}

func TestSlotRepository_Upsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "cart_guest", []byte(`[]`)))
	require.NoError(t, repo.Set(ctx, "cart_guest", []byte(`[{"productId":1}]`)))
	require.NoError(t, repo.Set(ctx, "cart_42", []byte(`[]`)))

	v, err := repo.Get(ctx, "cart_guest")
	require.NoError(t, err)
	require.Equal(t, `[{"productId":1}]`, string(v))

	v, err = repo.Get(ctx, "cart_42")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(v))
}

func TestSlotRepository_MigrateIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Migrate(context.Background()))
	require.NoError(t, repo.Ping(context.Background()))
}
