package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	domcart "example.com/phonestore/internal/domain/cart"
	cartuc "example.com/phonestore/internal/usecase/cart"
	checkoutuc "example.com/phonestore/internal/usecase/checkout"
)

// persistWarning is returned alongside a cart that changed but could not be saved.
const persistWarning = "your cart was updated but could not be saved; it may be lost when you leave"

type addCartItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  *int64 `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity *int64 `json:"quantity" validate:"required"`
}

// sessionCart binds the cart store to the caller's session scope and loads
// the cart of the session's owner.
func (a *API) sessionCart(r *http.Request) (*cartuc.Service, *domcart.Cart, bool) {
	sess := getSession(r.Context())
	if sess == nil {
		return nil, nil, false
	}
	svc := a.cartSvc.WithSlots(cartuc.ScopedSlots(a.slots, sess.ID))
	return svc, svc.Load(r.Context(), sess.Owner()), true
}

// writeCartResult answers a cart mutation. Rejections carry the unchanged
// cart; a save failure still returns the new cart with a warning.
func (a *API) writeCartResult(w http.ResponseWriter, status int, c *domcart.Cart, outcome domcart.Outcome, err error) {
	body := map[string]any{
		"outcome": outcome,
		"cart":    a.mapCart(c),
	}

	switch {
	case err == nil:
		writeJSON(w, status, body)
	case errors.Is(err, domcart.ErrPersistenceFailed):
		body["warning"] = persistWarning
		writeJSON(w, http.StatusOK, body)
	case errors.Is(err, domcart.ErrInsufficientStock),
		errors.Is(err, domcart.ErrOutOfRange),
		errors.Is(err, domcart.ErrInvalidProduct):
		body["error"] = err.Error()
		writeJSON(w, http.StatusUnprocessableEntity, body)
	default:
		handleDomainError(w, err)
	}
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	_, c, ok := a.sessionCart(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, a.mapCart(c))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	svc, c, ok := a.sessionCart(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	next, outcome, err := svc.AddFromCatalog(r.Context(), c, req.ProductID, qty)
	status := http.StatusOK
	if outcome == domcart.OutcomeAdded {
		status = http.StatusCreated
	}
	a.writeCartResult(w, status, next, outcome, err)
}

func (a *API) handleSetCartQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	svc, c, ok := a.sessionCart(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req setQuantityRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	next, outcome, err := svc.SetQuantity(r.Context(), c, productID, *req.Quantity)
	a.writeCartResult(w, http.StatusOK, next, outcome, err)
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	svc, c, ok := a.sessionCart(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	next, err := svc.RemoveLine(r.Context(), c, productID)
	a.writeCartResult(w, http.StatusOK, next, domcart.OutcomeRemoved, err)
}

func (a *API) buyer(r *http.Request) checkoutuc.Buyer {
	if sess := getSession(r.Context()); sess != nil && !sess.IsGuest() {
		return checkoutuc.Buyer{Email: sess.Email}
	}
	return checkoutuc.Buyer{}
}

func (a *API) handleCartCheckout(w http.ResponseWriter, r *http.Request) {
	svc, c, ok := a.sessionCart(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	total := svc.Total(c)
	msg, err := a.checkoutSvc.CartMessage(c, total, a.buyer(r))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	a.logger.Info("cart checkout",
		zap.String("owner", string(c.Owner)),
		zap.Int("lines", len(c.Lines)),
		zap.String("total", total.StringFixed(2)),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      msg,
		"total":        money(total),
		"whatsapp_url": a.checkoutSvc.Link(msg),
	})
}

func (a *API) handleLineCheckout(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	_, c, ok := a.sessionCart(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	line, found := c.Line(productID)
	if !found {
		handleDomainError(w, domcart.ErrLineNotFound)
		return
	}

	msg := a.checkoutSvc.LineMessage(line, a.buyer(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      msg,
		"total":        money(line.Subtotal()),
		"whatsapp_url": a.checkoutSvc.Link(msg),
	})
}
