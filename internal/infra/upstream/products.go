package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	domproduct "example.com/phonestore/internal/domain/product"
)

type productDTO struct {
	ProductoID  int64       `json:"productoId"`
	Nombre      string      `json:"nombre"`
	Descripcion string      `json:"descripcion"`
	Precio      json.Number `json:"precio"`
	Stock       int64       `json:"stock"`
	ImagenURL   string      `json:"imagenURL"`
	CategoriaID int64       `json:"categoriaId"`
}

func toProductDTO(p *domproduct.Product) productDTO {
	return productDTO{
		ProductoID:  p.ID,
		Nombre:      p.Name,
		Descripcion: p.Description,
		Precio:      json.Number(p.Price.String()),
		Stock:       p.Stock,
		ImagenURL:   p.ImageURL,
		CategoriaID: p.CategoryID,
	}
}

func (d productDTO) toDomain() (*domproduct.Product, error) {
	price := decimal.Zero
	if d.Precio != "" {
		p, err := decimal.NewFromString(d.Precio.String())
		if err != nil {
			return nil, fmt.Errorf("upstream: product %d: precio %q: %w", d.ProductoID, d.Precio, err)
		}
		price = p
	}
	return &domproduct.Product{
		ID:          d.ProductoID,
		Name:        d.Nombre,
		Description: d.Descripcion,
		Price:       price,
		Stock:       d.Stock,
		ImageURL:    d.ImagenURL,
		CategoryID:  d.CategoriaID,
	}, nil
}

// ProductRepository reads and writes the catalog through api/Productos.
type ProductRepository struct {
	client *Client
}

func NewProductRepository(client *Client) *ProductRepository {
	return &ProductRepository{client: client}
}

func (r *ProductRepository) List(ctx context.Context) ([]*domproduct.Product, error) {
	var dtos []productDTO
	req := request{method: http.MethodGet, path: "api/Productos"}
	if err := r.client.do(ctx, req, &dtos); err != nil {
		return nil, err
	}

	products := make([]*domproduct.Product, 0, len(dtos))
	for _, d := range dtos {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	var dto productDTO
	req := request{
		method:   http.MethodGet,
		path:     "api/Productos/" + strconv.FormatInt(id, 10),
		notFound: domproduct.ErrProductNotFound,
	}
	if err := r.client.do(ctx, req, &dto); err != nil {
		return nil, err
	}
	if dto.ProductoID == 0 {
		return nil, domproduct.ErrProductNotFound
	}
	return dto.toDomain()
}

func (r *ProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	req, err := r.client.jsonRequest(http.MethodPost, "api/Productos", toProductDTO(p), nil)
	if err != nil {
		return nil, err
	}

	var created productDTO
	if err := r.client.do(ctx, req, &created); err != nil {
		return nil, err
	}
	if created.ProductoID == 0 {
		return p, nil
	}
	return created.toDomain()
}

// Update sends the full product as a multipart form, the shape the catalog
// API accepts on PUT.
func (r *ProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"productoId", strconv.FormatInt(p.ID, 10)},
		{"nombre", p.Name},
		{"descripcion", p.Description},
		{"precio", p.Price.String()},
		{"stock", strconv.FormatInt(p.Stock, 10)},
		{"categoriaId", strconv.FormatInt(p.CategoryID, 10)},
	}
	if p.ImageURL != "" {
		fields = append(fields, struct{ name, value string }{"imagenURL", p.ImageURL})
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req := request{
		method:      http.MethodPut,
		path:        "api/Productos/" + strconv.FormatInt(p.ID, 10),
		body:        &buf,
		contentType: w.FormDataContentType(),
		notFound:    domproduct.ErrProductNotFound,
	}
	if err := r.client.do(ctx, req, nil); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadImage posts one picture to api/Files as the "file" part and returns
// the name the catalog API stored it under.
func (r *ProductRepository) UploadImage(ctx context.Context, name string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	var out struct {
		FileName string `json:"fileName"`
	}
	req := request{
		method:      http.MethodPost,
		path:        "api/Files",
		body:        &buf,
		contentType: w.FormDataContentType(),
	}
	if err := r.client.do(ctx, req, &out); err != nil {
		return "", err
	}
	if out.FileName == "" {
		return "", fmt.Errorf("upstream: api/Files returned no fileName for %q", name)
	}
	return out.FileName, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	req := request{
		method:   http.MethodDelete,
		path:     "api/Productos/" + strconv.FormatInt(id, 10),
		notFound: domproduct.ErrProductNotFound,
	}
	return r.client.do(ctx, req, nil)
}
