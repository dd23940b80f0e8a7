package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domcategory "example.com/phonestore/internal/domain/category"
	domproduct "example.com/phonestore/internal/domain/product"
	domuser "example.com/phonestore/internal/domain/user"
	"example.com/phonestore/internal/infra/persistence/memory"
	"example.com/phonestore/internal/infra/security"
	authuc "example.com/phonestore/internal/usecase/auth"
	cartuc "example.com/phonestore/internal/usecase/cart"
	categoryuc "example.com/phonestore/internal/usecase/category"
	checkoutuc "example.com/phonestore/internal/usecase/checkout"
	productuc "example.com/phonestore/internal/usecase/product"
	useruc "example.com/phonestore/internal/usecase/user"
)

type fakeCatalog struct {
	products map[int64]*domproduct.Product
	nextID   int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[int64]*domproduct.Product{
			1: {ID: 1, Name: "Cover iPhone 14", Price: decimal.NewFromInt(500), Stock: 3, ImageURL: "cover.jpg", CategoryID: 1},
			2: {ID: 2, Name: "Funda Samsung S23", Price: decimal.RequireFromString("380.50"), Stock: 10, CategoryID: 1},
			3: {ID: 3, Name: "Pantalla iPhone 11", Price: decimal.NewFromInt(3200), Stock: 0, CategoryID: 2},
		},
		nextID: 4,
	}
}

func (f *fakeCatalog) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	p.ID = f.nextID
	f.nextID++
	cloned := *p
	f.products[p.ID] = &cloned
	return p, nil
}

func (f *fakeCatalog) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	if _, ok := f.products[p.ID]; !ok {
		return nil, domproduct.ErrProductNotFound
	}
	cloned := *p
	f.products[p.ID] = &cloned
	return p, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return domproduct.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	if p, ok := f.products[id]; ok {
		cloned := *p
		return &cloned, nil
	}
	return nil, domproduct.ErrProductNotFound
}

func (f *fakeCatalog) List(ctx context.Context) ([]*domproduct.Product, error) {
	ids := make([]int64, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*domproduct.Product, 0, len(ids))
	for _, id := range ids {
		cloned := *f.products[id]
		result = append(result, &cloned)
	}
	return result, nil
}

type fakeCategories struct {
	categories []*domcategory.Category
}

func (f *fakeCategories) Create(ctx context.Context, c *domcategory.Category) (*domcategory.Category, error) {
	c.ID = int64(len(f.categories) + 1)
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeCategories) List(ctx context.Context) ([]*domcategory.Category, error) {
	return f.categories, nil
}

type fakeUsers struct {
	users map[string]*domuser.User
}

func (f *fakeUsers) List(ctx context.Context, page, pageSize int) (*domuser.Page, error) {
	ids := make([]string, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	items := make([]*domuser.User, 0, len(ids))
	for _, id := range ids {
		items = append(items, f.users[id])
	}
	return &domuser.Page{Items: items, Page: page, PageSize: pageSize, TotalPages: 1}, nil
}

func (f *fakeUsers) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return domuser.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) ChangeRole(ctx context.Context, id string, role domuser.RoleCode) error {
	u, ok := f.users[id]
	if !ok {
		return domuser.ErrUserNotFound
	}
	u.Roles = []domuser.RoleCode{role}
	return nil
}

// fakeGateway accepts "secret" as the password of every known user.
type fakeGateway struct {
	users *fakeUsers
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (string, error) {
	for id, u := range f.users.users {
		if u.Email == email && password == "secret" {
			return "upstream-" + id, nil
		}
	}
	return "", domuser.ErrInvalidCredential
}

func (f *fakeGateway) CurrentUser(ctx context.Context, token string) (*domuser.User, error) {
	for id, u := range f.users.users {
		if token == "upstream-"+id {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, domuser.ErrUnauthorized
}

func (f *fakeGateway) Register(ctx context.Context, email, password string) error {
	for _, u := range f.users.users {
		if u.Email == email {
			return domuser.ErrEmailAlreadyUsed
		}
	}
	id := "u-" + email
	f.users.users[id] = &domuser.User{ID: id, Email: email, Roles: []domuser.RoleCode{domuser.RoleCodeUser}}
	return nil
}

type fakeImages struct {
	uploaded map[string]string
}

func (f *fakeImages) UploadImage(ctx context.Context, name string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	stored := fmt.Sprintf("%d_%s", len(f.uploaded)+1, name)
	f.uploaded[stored] = string(data)
	return stored, nil
}

type failingSlots struct{}

func (failingSlots) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingSlots) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("disk on fire")
}

type testEnv struct {
	router  chi.Router
	tokens  *security.JWTService
	catalog *fakeCatalog
	users   *fakeUsers
	images  *fakeImages
	slots   *memory.SlotStore
}

type testOption func(*Dependencies)

func newTestEnv(t *testing.T, opts ...testOption) *testEnv {
	t.Helper()

	env := &testEnv{
		tokens:  security.NewJWTService("test-secret", time.Hour),
		catalog: newFakeCatalog(),
		users: &fakeUsers{users: map[string]*domuser.User{
			"u-ana":   {ID: "u-ana", Email: "ana@example.com", Roles: []domuser.RoleCode{domuser.RoleCodeUser}},
			"u-admin": {ID: "u-admin", Email: "admin@example.com", Roles: []domuser.RoleCode{domuser.RoleCodeAdmin}},
		}},
		images: &fakeImages{uploaded: map[string]string{}},
		slots:  memory.NewSlotStore(),
	}

	productSvc := productuc.NewService(env.catalog, env.images)
	deps := Dependencies{
		AuthService:     authuc.NewService(&fakeGateway{users: env.users}, env.tokens, nil),
		UserService:     useruc.NewService(env.users),
		CategoryService: categoryuc.NewService(&fakeCategories{categories: []*domcategory.Category{{ID: 1, Name: "Covers"}}}),
		ProductService:  productSvc,
		CartService:     cartuc.NewService(env.slots, productSvc, nil),
		CheckoutService: checkoutuc.NewService("1 809 555 0101"),
		Slots:           env.slots,
		ImageBaseURL:    "https://api.example.com",
	}
	for _, opt := range opts {
		opt(&deps)
	}

	env.router = NewAPI(deps).Router()
	return env
}

func (e *testEnv) tokenFor(t *testing.T, sess *authuc.Session) string {
	t.Helper()
	token, err := e.tokens.GenerateToken(sess)
	require.NoError(t, err)
	return token
}

func (e *testEnv) adminToken(t *testing.T) string {
	return e.tokenFor(t, &authuc.Session{
		ID:            "sid-admin",
		UserID:        "u-admin",
		Email:         "admin@example.com",
		Roles:         []domuser.RoleCode{domuser.RoleCodeAdmin},
		UpstreamToken: "upstream-u-admin",
	})
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}
