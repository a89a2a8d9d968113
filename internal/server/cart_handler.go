package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/theauraflow/pos/internal/cart"
	"github.com/theauraflow/pos/internal/catalog"
	"github.com/theauraflow/pos/internal/domain"
)

type CartHandler struct {
	engine  *cart.Engine
	catalog *catalog.Service
	timeout time.Duration
}

func NewCartHandler(engine *cart.Engine, cat *catalog.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{
		engine:  engine,
		catalog: cat,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string            `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Modifiers []domain.Modifier `json:"modifiers,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type DiscountRequestDTO struct {
	Kind  domain.DiscountKind `json:"kind"`
	Value int64               `json:"value"`
}

type CartViewDTO struct {
	Cart   domain.Cart `json:"cart"`
	Totals cart.Totals `json:"totals"`
}

func (h *CartHandler) view() CartViewDTO {
	return CartViewDTO{Cart: h.engine.Cart(), Totals: h.engine.Totals()}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "unknown product")
			return
		}
		respondError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}

	if _, err := h.engine.AddItem(*product, req.Quantity, req.Modifiers); err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.view())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.engine.UpdateQuantity(itemID, req.Quantity); err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.engine.RemoveItem(chi.URLParam(r, "itemID"))
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) AddModifier(w http.ResponseWriter, r *http.Request) {
	var mod domain.Modifier
	if err := json.NewDecoder(r.Body).Decode(&mod); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.engine.AddModifier(chi.URLParam(r, "itemID"), mod); err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) RemoveModifier(w http.ResponseWriter, r *http.Request) {
	err := h.engine.RemoveModifier(chi.URLParam(r, "itemID"), chi.URLParam(r, "modifierID"))
	if err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) ApplyItemDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	d := domain.Discount{Kind: req.Kind, Value: req.Value, Scope: domain.DiscountScopeItem}
	if err := h.engine.ApplyItemDiscount(chi.URLParam(r, "itemID"), d); err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) RemoveItemDiscount(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.RemoveItemDiscount(chi.URLParam(r, "itemID")); err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) ApplyOrderDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	d := domain.Discount{Kind: req.Kind, Value: req.Value, Scope: domain.DiscountScopeOrder}
	if err := h.engine.ApplyOrderDiscount(d); err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) RemoveOrderDiscount(w http.ResponseWriter, r *http.Request) {
	h.engine.RemoveOrderDiscount()
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.engine.SetCustomer(req.CustomerID)
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.engine.SetNotes(req.Notes)
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) SetPriceOverride(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price *domain.Money `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.engine.SetPriceOverride(chi.URLParam(r, "itemID"), req.Price); err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.engine.Clear()
	respondJSON(w, http.StatusOK, h.view())
}

func respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, cart.ErrInvalidDiscount):
		respondError(w, http.StatusBadRequest, "invalid_discount", err.Error())
	case errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
