package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/theauraflow/pos/internal/cart"
	"github.com/theauraflow/pos/internal/checkout"
	"github.com/theauraflow/pos/internal/domain"
	"github.com/theauraflow/pos/internal/ledger"
)

type CheckoutHandler struct {
	service *checkout.Service
	ledger  *ledger.Ledger
}

func NewCheckoutHandler(service *checkout.Service, lg *ledger.Ledger) *CheckoutHandler {
	return &CheckoutHandler{service: service, ledger: lg}
}

type CheckoutRequestDTO struct {
	PaymentMethod  domain.PaymentMethod `json:"payment_method"`
	AmountTendered *domain.Money        `json:"amount_tendered,omitempty"`
	CustomerID     string               `json:"customer_id,omitempty"`
	Notes          string               `json:"notes,omitempty"`
}

type CheckoutResponseDTO struct {
	Order   domain.Order `json:"order"`
	Warning string       `json:"warning,omitempty"`
}

type CancelRequestDTO struct {
	Reason string `json:"reason"`
}

type RefundRequestDTO struct {
	Amount domain.Money `json:"amount"`
	Reason string       `json:"reason"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	res, err := h.service.Checkout(r.Context(), checkout.Request{
		PaymentMethod:  req.PaymentMethod,
		AmountTendered: req.AmountTendered,
		CustomerID:     req.CustomerID,
		Notes:          req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrEmptyCart):
			respondError(w, http.StatusUnprocessableEntity, "empty_cart", "cannot check out an empty cart")
		case errors.Is(err, checkout.ErrInsufficientPayment):
			respondError(w, http.StatusUnprocessableEntity, "insufficient_payment", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal", err.Error())
		}
		return
	}

	out := CheckoutResponseDTO{Order: res.Order}
	if res.Warning != nil {
		out.Warning = res.Warning.Error()
	}
	respondJSON(w, http.StatusCreated, out)
}

func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req CancelRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, ok := h.orderFromLedger(orderID)
	if !ok {
		respondError(w, http.StatusNotFound, "order_not_found", "no sale recorded for that order")
		return
	}

	tx, err := h.service.CancelOrder(r.Context(), order, req.Reason)
	if err != nil {
		respondSettlementError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

func (h *CheckoutHandler) Refund(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req RefundRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, ok := h.orderFromLedger(orderID)
	if !ok {
		respondError(w, http.StatusNotFound, "order_not_found", "no sale recorded for that order")
		return
	}

	tx, err := h.service.RefundOrder(r.Context(), order, req.Amount, req.Reason)
	if err != nil {
		respondSettlementError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if _, ok := h.orderFromLedger(orderID); !ok {
		respondError(w, http.StatusNotFound, "order_not_found", "no sale recorded for that order")
		return
	}
	respondJSON(w, http.StatusOK, map[string]domain.OrderStatus{
		"status": h.service.OrderStatus(orderID),
	})
}

// orderFromLedger rebuilds the order identity needed for settlement from
// the recorded sale transaction. Voids and refunds validate against the
// sale amount, not a mutable order row.
func (h *CheckoutHandler) orderFromLedger(orderID string) (domain.Order, bool) {
	sales := h.ledger.Query(ledger.Filter{OrderID: orderID, Type: domain.TransactionSale})
	if len(sales) == 0 {
		return domain.Order{}, false
	}
	return domain.Order{ID: orderID, Total: sales[0].Amount}, true
}

func respondSettlementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrReasonRequired):
		respondError(w, http.StatusBadRequest, "reason_required", err.Error())
	case errors.Is(err, checkout.ErrInvalidRefund):
		respondError(w, http.StatusUnprocessableEntity, "invalid_refund", err.Error())
	case errors.Is(err, ledger.ErrWriteFailed):
		respondError(w, http.StatusServiceUnavailable, "ledger_write_failed", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
