package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/theauraflow/pos/internal/checkout"
	"github.com/theauraflow/pos/internal/domain"
	"github.com/theauraflow/pos/internal/ledger"
)

type LedgerHandler struct {
	ledger  *ledger.Ledger
	service *checkout.Service
}

func NewLedgerHandler(lg *ledger.Ledger, service *checkout.Service) *LedgerHandler {
	return &LedgerHandler{ledger: lg, service: service}
}

type CashMovementRequestDTO struct {
	Amount domain.Money `json:"amount"`
	Note   string       `json:"note,omitempty"`
}

func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ledger.Filter{
		OrderID: q.Get("order_id"),
		Type:    domain.TransactionType(q.Get("type")),
		Status:  domain.TransactionStatus(q.Get("status")),
	}
	respondJSON(w, http.StatusOK, h.ledger.Query(f))
}

func (h *LedgerHandler) CashIn(w http.ResponseWriter, r *http.Request) {
	h.cashMovement(w, r, h.service.CashIn)
}

func (h *LedgerHandler) CashOut(w http.ResponseWriter, r *http.Request) {
	h.cashMovement(w, r, h.service.CashOut)
}

func (h *LedgerHandler) cashMovement(
	w http.ResponseWriter,
	r *http.Request,
	record func(ctx context.Context, amount domain.Money, note string) (domain.Transaction, error),
) {
	var req CashMovementRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	tx, err := record(r.Context(), req.Amount, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount", err.Error())
		case errors.Is(err, ledger.ErrWriteFailed):
			respondError(w, http.StatusServiceUnavailable, "ledger_write_failed", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal", err.Error())
		}
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

func (h *LedgerHandler) Flush(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Flush(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "ledger_write_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "flushed"})
}

func (h *LedgerHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Clear(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "ledger_write_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
