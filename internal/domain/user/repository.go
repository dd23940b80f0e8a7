package user

import "context"

type Repository interface {
	List(ctx context.Context, page, pageSize int) (*Page, error)
	Delete(ctx context.Context, id string) error
	ChangeRole(ctx context.Context, id string, role RoleCode) error
}
