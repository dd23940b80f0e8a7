package user

import (
	"context"
	"strings"

	dom "example.com/phonestore/internal/domain/user"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, page, pageSize int) (*dom.Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.repo.List(ctx, page, pageSize)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return dom.ErrUserNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ChangeRole(ctx context.Context, id string, role string) (dom.RoleCode, error) {
	code, err := dom.ParseRoleCode(role)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(id) == "" {
		return "", dom.ErrUserNotFound
	}
	if err := s.repo.ChangeRole(ctx, id, code); err != nil {
		return "", err
	}
	return code, nil
}
