package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/theauraflow/pos/internal/customer"
)

const defaultSearchLimit = 25

type CustomerHandler struct {
	repo    customer.Repository
	timeout time.Duration
}

func NewCustomerHandler(repo customer.Repository, timeout time.Duration) *CustomerHandler {
	return &CustomerHandler{repo: repo, timeout: timeout}
}

type LoyaltyAdjustRequestDTO struct {
	Delta int64 `json:"delta"`
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var c customer.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if c.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_customer", "name is required")
		return
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	if err := h.repo.Create(ctx, &c); err != nil {
		respondError(w, http.StatusBadGateway, "customer_store_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.repo.GetByID(ctx, chi.URLParam(r, "customerID"))
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			respondError(w, http.StatusNotFound, "customer_not_found", "unknown customer")
			return
		}
		respondError(w, http.StatusBadGateway, "customer_store_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	limit := int64(defaultSearchLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	out, err := h.repo.Search(ctx, r.URL.Query().Get("q"), limit)
	if err != nil {
		respondError(w, http.StatusBadGateway, "customer_store_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *CustomerHandler) AdjustLoyalty(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoyaltyAdjustRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "customerID")
	if err := h.repo.AdjustLoyaltyPoints(ctx, id, req.Delta); err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			respondError(w, http.StatusNotFound, "customer_not_found", "unknown customer")
			return
		}
		respondError(w, http.StatusBadGateway, "customer_store_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "adjusted"})
}
