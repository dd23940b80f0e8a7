package product

import (
	"strings"

	"github.com/shopspring/decimal"

	domcart "example.com/phonestore/internal/domain/cart"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	ImageURL    string // comma separated file names under /Uploads
	CategoryID  int64
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

// ImageNames splits the stored image list, skipping blanks.
func (p *Product) ImageNames() []string {
	var names []string
	for _, n := range strings.Split(p.ImageURL, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// ImageURLs resolves image names against the catalog base URL.
func (p *Product) ImageURLs(baseURL string) []string {
	base := strings.TrimRight(baseURL, "/")
	names := p.ImageNames()
	urls := make([]string, 0, len(names))
	for _, n := range names {
		urls = append(urls, base+"/Uploads/"+n)
	}
	return urls
}

// Snapshot is what the cart keeps of a product at the time it is added.
func (p *Product) Snapshot() domcart.Product {
	return domcart.Product{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Stock:     p.Stock,
		ImageURL:  p.ImageURL,
	}
}

type ListFilter struct {
	CategoryID *int64
	Search     string
	// NameContainsAny keeps products whose name contains one of the words.
	NameContainsAny []string
}

// Match applies the filter to one product. Name matching is case-insensitive.
func (f ListFilter) Match(p *Product) bool {
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
	name := strings.ToLower(p.Name)
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" && !strings.Contains(name, q) {
		return false
	}
	if len(f.NameContainsAny) > 0 {
		for _, w := range f.NameContainsAny {
			if strings.Contains(name, strings.ToLower(w)) {
				return true
			}
		}
		return false
	}
	return true
}
