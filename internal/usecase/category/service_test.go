package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	dom "example.com/phonestore/internal/domain/category"
)

type mockCategoryRepository struct {
	categories []*dom.Category
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *dom.Category) (*dom.Category, error) {
	c.ID = int64(len(m.categories) + 1)
	m.categories = append(m.categories, c)
	return c, nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*dom.Category, error) {
	return m.categories, nil
}

func TestCreateCategory_Valid(t *testing.T) {
	repo := &mockCategoryRepository{}
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), &dom.Category{Name: " Pantallas ", Description: " Repuestos "})

	require.NoError(t, err)
	require.Equal(t, int64(1), c.ID)
	require.Equal(t, "Pantallas", c.Name)
	require.Equal(t, "Repuestos", c.Description)
}

func TestCreateCategory_EmptyName(t *testing.T) {
	repo := &mockCategoryRepository{}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), &dom.Category{Name: "   "})

	require.ErrorIs(t, err, dom.ErrCategoryInvalidName)
	require.Empty(t, repo.categories)
}

func TestListCategories(t *testing.T) {
	repo := &mockCategoryRepository{}
	svc := NewService(repo)
	_, _ = svc.Create(context.Background(), &dom.Category{Name: "Covers"})
	_, _ = svc.Create(context.Background(), &dom.Category{Name: "Cargadores"})

	list, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
}
