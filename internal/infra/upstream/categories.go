package upstream

import (
	"context"
	"net/http"

	domcategory "example.com/phonestore/internal/domain/category"
)

type categoryDTO struct {
	CategoriaID int64  `json:"categoriaId"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

type CategoryRepository struct {
	client *Client
}

func NewCategoryRepository(client *Client) *CategoryRepository {
	return &CategoryRepository{client: client}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domcategory.Category, error) {
	var dtos []categoryDTO
	if err := r.client.do(ctx, request{method: http.MethodGet, path: "api/Categorias"}, &dtos); err != nil {
		return nil, err
	}

	categories := make([]*domcategory.Category, 0, len(dtos))
	for _, d := range dtos {
		categories = append(categories, &domcategory.Category{
			ID:          d.CategoriaID,
			Name:        d.Nombre,
			Description: d.Descripcion,
		})
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *domcategory.Category) (*domcategory.Category, error) {
	req, err := r.client.jsonRequest(http.MethodPost, "api/Categorias", categoryDTO{
		Nombre:      c.Name,
		Descripcion: c.Description,
	}, nil)
	if err != nil {
		return nil, err
	}

	var created categoryDTO
	if err := r.client.do(ctx, req, &created); err != nil {
		return nil, err
	}
	if created.CategoriaID != 0 {
		c.ID = created.CategoriaID
	}
	return c, nil
}
