package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domcart "example.com/phonestore/internal/domain/cart"
	domcategory "example.com/phonestore/internal/domain/category"
	domproduct "example.com/phonestore/internal/domain/product"
	domuser "example.com/phonestore/internal/domain/user"
	"example.com/phonestore/internal/infra/upstream"
	authuc "example.com/phonestore/internal/usecase/auth"
	cartuc "example.com/phonestore/internal/usecase/cart"
	categoryuc "example.com/phonestore/internal/usecase/category"
	checkoutuc "example.com/phonestore/internal/usecase/checkout"
	productuc "example.com/phonestore/internal/usecase/product"
	useruc "example.com/phonestore/internal/usecase/user"
)

type API struct {
	authSvc      *authuc.Service
	userSvc      *useruc.Service
	categorySvc  *categoryuc.Service
	productSvc   *productuc.Service
	cartSvc      *cartuc.Service
	checkoutSvc  *checkoutuc.Service
	slots        domcart.SlotStore
	imageBaseURL string
	healthCheck  func(ctx context.Context) error
	secureCookie bool
	logger       *zap.Logger
	validator    *validator.Validate
}

type Dependencies struct {
	AuthService     *authuc.Service
	UserService     *useruc.Service
	CategoryService *categoryuc.Service
	ProductService  *productuc.Service
	CartService     *cartuc.Service
	CheckoutService *checkoutuc.Service
	// Slots is the shared durable store; each request scopes it to its session.
	Slots        domcart.SlotStore
	ImageBaseURL string
	HealthCheck  func(ctx context.Context) error
	SecureCookie bool
	Logger       *zap.Logger
}

func NewAPI(deps Dependencies) *API {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		authSvc:      deps.AuthService,
		userSvc:      deps.UserService,
		categorySvc:  deps.CategoryService,
		productSvc:   deps.ProductService,
		cartSvc:      deps.CartService,
		checkoutSvc:  deps.CheckoutService,
		slots:        deps.Slots,
		imageBaseURL: deps.ImageBaseURL,
		healthCheck:  deps.HealthCheck,
		secureCookie: deps.SecureCookie,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(a.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain", "multipart/form-data"))

	r.Get("/health", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(a.sessionMiddleware)

		r.Post("/auth/login", a.handleLogin)
		r.Post("/auth/register", a.handleRegister)
		r.Post("/auth/logout", a.handleLogout)
		r.Get("/me", a.handleMe)

		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)
		r.Get("/products/{id}/inquiry", a.handleProductInquiry)
		r.Get("/covers", a.handleListCovers)
		r.Get("/categories", a.handleListCategories)
		r.Get("/contact", a.handleContact)

		r.Route("/cart", func(cr chi.Router) {
			cr.Get("/", a.handleGetCart)
			cr.Post("/items", a.handleAddCartItem)
			cr.Put("/items/{productID}", a.handleSetCartQuantity)
			cr.Delete("/items/{productID}", a.handleRemoveCartItem)
			cr.Get("/checkout", a.handleCartCheckout)
			cr.Get("/items/{productID}/checkout", a.handleLineCheckout)
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.requireRoles(domuser.RoleCodeAdmin))
			ar.Use(forwardUpstreamToken)

			ar.Route("/admin", func(admin chi.Router) {
				admin.Route("/products", func(rr chi.Router) {
					rr.Post("/", a.handleCreateProduct)
					rr.Post("/images", a.handleUploadProductImages)
					rr.Put("/{id}", a.handleUpdateProduct)
					rr.Patch("/{id}/stock", a.handleUpdateStock)
					rr.Delete("/{id}", a.handleDeleteProduct)
				})

				admin.Post("/categories", a.handleCreateCategory)

				admin.Route("/users", func(rr chi.Router) {
					rr.Get("/", a.handleListUsers)
					rr.Delete("/{id}", a.handleDeleteUser)
					rr.Put("/{id}/role", a.handleChangeUserRole)
				})
			})
		})
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.healthCheck != nil {
		if err := a.healthCheck(r.Context()); err != nil {
			a.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

// money keeps prices exact on the wire: a JSON number with the decimal's text.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func mapUser(u *domuser.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"email":    u.Email,
		"roles":    u.Roles,
		"is_admin": u.IsAdmin(),
	}
}

func mapCategory(c *domcategory.Category) map[string]any {
	return map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
	}
}

func (a *API) mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       money(p.Price),
		"stock":       p.Stock,
		"in_stock":    p.InStock(),
		"image_urls":  p.ImageURLs(a.imageBaseURL),
		"category_id": p.CategoryID,
	}
}

func (a *API) mapCartLine(l domcart.Line) map[string]any {
	images := (&domproduct.Product{ImageURL: l.ImageURL}).ImageURLs(a.imageBaseURL)
	return map[string]any{
		"product_id":      l.ProductID,
		"name":            l.Name,
		"unit_price":      money(l.UnitPrice),
		"quantity":        l.Quantity,
		"available_stock": l.AvailableStock,
		"subtotal":        money(l.Subtotal()),
		"image_urls":      images,
	}
}

func (a *API) mapCart(c *domcart.Cart) map[string]any {
	items := make([]map[string]any, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, a.mapCartLine(l))
	}
	return map[string]any{
		"owner":      c.Owner,
		"items":      items,
		"item_count": c.ItemCount(),
		"total":      money(a.cartSvc.Total(c)),
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	var upErr *upstream.Error
	switch {
	case errors.Is(err, domcart.ErrInsufficientStock),
		errors.Is(err, domcart.ErrOutOfRange),
		errors.Is(err, domcart.ErrInvalidProduct),
		errors.Is(err, checkoutuc.ErrEmptyCart):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domuser.ErrInvalidRoleCode),
		errors.Is(err, domcategory.ErrCategoryInvalidName),
		errors.Is(err, domproduct.ErrProductInvalidName),
		errors.Is(err, domproduct.ErrProductInvalidPrice),
		errors.Is(err, domproduct.ErrProductInvalidStock),
		errors.Is(err, domproduct.ErrProductInvalidImage),
		errors.Is(err, domproduct.ErrNoImages):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domuser.ErrEmailAlreadyUsed):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domuser.ErrUserNotFound),
		errors.Is(err, domcategory.ErrCategoryNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domcart.ErrLineNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domuser.ErrUnauthorized),
		errors.Is(err, domuser.ErrInvalidCredential):
		respondError(w, http.StatusUnauthorized, err)
	case errors.As(err, &upErr):
		respondError(w, http.StatusBadGateway, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
