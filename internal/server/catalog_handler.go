package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/theauraflow/pos/internal/catalog"
	"github.com/theauraflow/pos/internal/domain"
)

type CatalogHandler struct {
	service *catalog.Service
	timeout time.Duration
}

func NewCatalogHandler(service *catalog.Service, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{service: service, timeout: timeout}
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.service.GetProduct(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "unknown product")
			return
		}
		respondError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.service.ListProducts(ctx)
	if err != nil {
		respondError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if p.ID == "" || p.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_product", "id and name are required")
		return
	}

	if err := h.service.SaveProduct(ctx, &p); err != nil {
		respondError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, p)
}
