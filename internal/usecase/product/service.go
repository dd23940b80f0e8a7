package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/shopspring/decimal"

	dom "example.com/phonestore/internal/domain/product"
)

// coverWords select the accessories shown on the covers page.
var coverWords = []string{"cover", "funda"}

// imageExts are the picture formats the storefront renders.
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type Service struct {
	repo   dom.Repository
	images dom.ImageStore
}

func NewService(repo dom.Repository, images dom.ImageStore) *Service {
	return &Service{repo: repo, images: images}
}

type ImageFile struct {
	Name string
	Body io.Reader
}

// UploadImages stores every file in order and returns the stored names. Their
// comma-joined form is what Product.ImageURL expects.
func (s *Service) UploadImages(ctx context.Context, files []ImageFile) ([]string, error) {
	if len(files) == 0 {
		return nil, dom.ErrNoImages
	}
	for _, f := range files {
		if !imageExts[strings.ToLower(path.Ext(f.Name))] {
			return nil, fmt.Errorf("%w: %q", dom.ErrProductInvalidImage, f.Name)
		}
	}
	if s.images == nil {
		return nil, errors.New("product: no image store configured")
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		name, err := s.images.UploadImage(ctx, path.Base(f.Name), f.Body)
		if err != nil {
			return nil, fmt.Errorf("upload %q: %w", f.Name, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func (s *Service) Create(ctx context.Context, p *dom.Product) (*dom.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validate(p); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

// UpdateInput carries an admin edit. Empty strings, a zero price and a zero
// category keep the stored value; a nil Stock keeps the stored stock.
type UpdateInput struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       *int64
	ImageURL    string
	CategoryID  int64
}

// Update merges the fields set in in into the stored product.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*dom.Product, error) {
	existed, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		existed.Name = name
	}
	if in.Description != "" {
		existed.Description = in.Description
	}
	if !in.Price.IsZero() {
		existed.Price = in.Price
	}
	if in.ImageURL != "" {
		existed.ImageURL = in.ImageURL
	}
	if in.CategoryID > 0 {
		existed.CategoryID = in.CategoryID
	}
	if in.Stock != nil {
		existed.Stock = *in.Stock
	}

	if err := validate(existed); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, existed)
}

// UpdateStock rewrites only the stock, keeping every other field as stored.
func (s *Service) UpdateStock(ctx context.Context, id, stock int64) (*dom.Product, error) {
	if stock < 0 {
		return nil, dom.ErrProductInvalidStock
	}
	existed, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existed.Stock = stock
	return s.repo.Update(ctx, existed)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List fetches the catalog and filters it; the catalog API has no server-side search.
func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]*dom.Product, 0, len(all))
	for _, p := range all {
		if filter.Match(p) {
			products = append(products, p)
		}
	}
	return products, nil
}

// Covers lists phone covers and cases, optionally narrowed by a search term.
func (s *Service) Covers(ctx context.Context, search string) ([]*dom.Product, error) {
	return s.List(ctx, dom.ListFilter{Search: search, NameContainsAny: coverWords})
}

func validate(p *dom.Product) error {
	switch {
	case p.Name == "":
		return dom.ErrProductInvalidName
	case p.Price.IsNegative():
		return dom.ErrProductInvalidPrice
	case p.Stock < 0:
		return dom.ErrProductInvalidStock
	}
	return nil
}
