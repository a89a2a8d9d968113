package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/theauraflow/pos/internal/cart"
	"github.com/theauraflow/pos/internal/park"
)

type ParkHandler struct {
	manager *park.Manager
}

func NewParkHandler(manager *park.Manager) *ParkHandler {
	return &ParkHandler{manager: manager}
}

type ParkRequestDTO struct {
	Label string `json:"label"`
}

type ParkResponseDTO struct {
	ID string `json:"id"`
}

func (h *ParkHandler) Park(w http.ResponseWriter, r *http.Request) {
	var req ParkRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	id, err := h.manager.Park(r.Context(), req.Label)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			respondError(w, http.StatusUnprocessableEntity, "empty_cart", "cannot park an empty cart")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, ParkResponseDTO{ID: id})
}

func (h *ParkHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.manager.List())
}

func (h *ParkHandler) Resume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "parkID")
	if err := h.manager.Resume(r.Context(), id); err != nil {
		if errors.Is(err, park.ErrParkedSaleNotFound) {
			respondError(w, http.StatusNotFound, "parked_sale_not_found", "no parked sale with that id")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "resumed"})
}

func (h *ParkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.manager.Delete(r.Context(), chi.URLParam(r, "parkID"))
	w.WriteHeader(http.StatusNoContent)
}
