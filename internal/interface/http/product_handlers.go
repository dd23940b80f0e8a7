package http

import (
	"net/http"
	"strconv"

	domproduct "example.com/phonestore/internal/domain/product"
)

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := domproduct.ListFilter{
		Search: r.URL.Query().Get("q"),
	}
	if cid := r.URL.Query().Get("category_id"); cid != "" {
		if id, err := strconv.ParseInt(cid, 10, 64); err == nil {
			filter.CategoryID = &id
		}
	}

	products, err := a.productSvc.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	a.writeProducts(w, products)
}

func (a *API) handleListCovers(w http.ResponseWriter, r *http.Request) {
	products, err := a.productSvc.Covers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	a.writeProducts(w, products)
}

func (a *API) writeProducts(w http.ResponseWriter, products []*domproduct.Product) {
	resp := make([]map[string]any, 0, len(products))
	for _, p := range products {
		resp = append(resp, a.mapProduct(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	p, err := a.productSvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.mapProduct(p))
}

func (a *API) handleProductInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	p, err := a.productSvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	msg := a.checkoutSvc.ProductInquiry(p)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      msg,
		"whatsapp_url": a.checkoutSvc.Link(msg),
	})
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categorySvc.List(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, mapCategory(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleContact(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"whatsapp_url": a.checkoutSvc.ContactLink()})
}
