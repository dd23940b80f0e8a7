package product

import (
	"context"
	"io"
)

type Repository interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
}

// ImageStore keeps product pictures. UploadImage returns the stored file name,
// the value that goes into Product.ImageURL.
type ImageStore interface {
	UploadImage(ctx context.Context, name string, body io.Reader) (string, error)
}
