package category

import (
	"context"
	"strings"

	dom "example.com/phonestore/internal/domain/category"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, c *dom.Category) (*dom.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, dom.ErrCategoryInvalidName
	}
	c.Description = strings.TrimSpace(c.Description)
	return s.repo.Create(ctx, c)
}

func (s *Service) List(ctx context.Context) ([]*dom.Category, error) {
	return s.repo.List(ctx)
}
