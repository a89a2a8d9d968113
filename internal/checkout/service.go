// Package checkout finalizes the active cart into an immutable order and
// records every money-moving event in the transaction ledger.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/theauraflow/pos/internal/cart"
	"github.com/theauraflow/pos/internal/domain"
	"github.com/theauraflow/pos/internal/ledger"
	"github.com/theauraflow/pos/internal/orders"
	"go.uber.org/zap"
)

var (
	ErrInsufficientPayment = errors.New("amount tendered is less than the total")
	ErrReasonRequired      = errors.New("a reason is required")
	ErrInvalidRefund       = errors.New("invalid refund amount")
)

// Request carries the payment details for finalizing the active cart.
// AmountTendered is required for cash; other methods default it to the
// total.
type Request struct {
	PaymentMethod  domain.PaymentMethod
	AmountTendered *domain.Money
	CustomerID     string
	Notes          string
}

// Result is the outcome of a successful checkout. Warning is non-nil when
// the sale committed but the ledger snapshot could not be persisted; the
// sale is complete either way and the caller owns retrying persistence.
type Result struct {
	Order   domain.Order
	Warning error
}

// Service is the order finalizer. The order-number sequence is seeded
// from the clock so numbers stay monotonic within a session and restarts
// leave gaps instead of repeating.
type Service struct {
	engine   *cart.Engine
	ledger   *ledger.Ledger
	archive  orders.Repository // optional
	log      *zap.Logger
	newID    func() string
	now      func() time.Time
	orderSeq atomic.Int64
}

func NewService(engine *cart.Engine, lg *ledger.Ledger, archive orders.Repository, log *zap.Logger) *Service {
	s := &Service{
		engine:  engine,
		ledger:  lg,
		archive: archive,
		log:     log,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	s.orderSeq.Store(time.Now().Unix())
	return s
}

// SetIDFunc overrides ID generation, for deterministic tests.
func (s *Service) SetIDFunc(f func() string) { s.newID = f }

// SetClock overrides the clock, for deterministic tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Checkout finalizes the active cart:
//
//  1. rejects an empty cart,
//  2. computes totals,
//  3. validates cash tender and computes change,
//  4. builds the immutable order snapshot,
//  5. appends the sale transaction,
//  6. clears the cart.
//
// Once the tender is accepted the sale has happened at the counter, so a
// ledger persistence failure never rolls it back: the cart is cleared
// regardless and the failure is surfaced as Result.Warning.
func (s *Service) Checkout(ctx context.Context, req Request) (*Result, error) {
	snapshot := s.engine.Cart()
	if snapshot.IsEmpty() {
		return nil, cart.ErrEmptyCart
	}
	totals := s.engine.Totals()

	tendered := totals.Total
	change := domain.Money(0)
	if req.PaymentMethod == domain.PaymentCash {
		if req.AmountTendered == nil || *req.AmountTendered < totals.Total {
			return nil, ErrInsufficientPayment
		}
		tendered = *req.AmountTendered
		change = tendered - totals.Total
	} else if req.AmountTendered != nil {
		tendered = *req.AmountTendered
	}

	now := s.now()
	customerID := req.CustomerID
	if customerID == "" {
		customerID = snapshot.CustomerID
	}

	order := domain.Order{
		ID:             s.newID(),
		OrderNumber:    domain.OrderNumberFor(s.orderSeq.Add(1)),
		Items:          snapshot.Clone().Items,
		Subtotal:       totals.Subtotal,
		DiscountTotal:  totals.DiscountTotal,
		TaxTotal:       totals.TaxTotal,
		Total:          totals.Total,
		PaymentMethod:  req.PaymentMethod,
		AmountTendered: tendered,
		ChangeDue:      change,
		CustomerID:     customerID,
		Notes:          req.Notes,
		Status:         domain.OrderStatusCompleted,
		CreatedAt:      now,
	}

	res := &Result{Order: order}
	appendErr := s.ledger.Append(ctx, domain.Transaction{
		ID:              s.newID(),
		ReferenceNumber: domain.ReferenceNumber(domain.TransactionSale, now),
		OrderID:         order.ID,
		Type:            domain.TransactionSale,
		Amount:          order.Total,
		Status:          domain.TransactionCompleted,
		CreatedAt:       now,
	})
	if appendErr != nil {
		s.log.Warn("sale committed but ledger persistence failed",
			zap.String("order_id", order.ID),
			zap.Error(appendErr))
		res.Warning = appendErr
	}

	// The customer has already been handed their receipt; never re-show
	// a completed sale as in progress.
	s.engine.Clear()

	if s.archive != nil {
		if err := s.archive.SaveOrder(ctx, &order); err != nil {
			s.log.Warn("order archive write failed",
				zap.String("order_id", order.ID),
				zap.Error(err))
		}
	}

	s.log.Info("checkout completed",
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.String()))
	return res, nil
}

// CancelOrder records a void transaction for the order. The original
// order record is never mutated.
func (s *Service) CancelOrder(ctx context.Context, order domain.Order, reason string) (domain.Transaction, error) {
	if strings.TrimSpace(reason) == "" {
		return domain.Transaction{}, ErrReasonRequired
	}

	now := s.now()
	tx := domain.Transaction{
		ID:              s.newID(),
		ReferenceNumber: domain.ReferenceNumber(domain.TransactionVoid, now),
		OrderID:         order.ID,
		Type:            domain.TransactionVoid,
		Amount:          -order.Total,
		Status:          domain.TransactionCompleted,
		Note:            reason,
		CreatedAt:       now,
	}
	if err := s.ledger.Append(ctx, tx); err != nil {
		return tx, err
	}
	return tx, nil
}

// RefundOrder records a refund transaction. Partial refunds are allowed;
// the amount must be positive and cannot exceed the order total.
func (s *Service) RefundOrder(ctx context.Context, order domain.Order, amount domain.Money, reason string) (domain.Transaction, error) {
	if amount <= 0 {
		return domain.Transaction{}, ErrInvalidRefund
	}
	if amount > order.Total {
		return domain.Transaction{}, fmt.Errorf("%w: %s exceeds order total %s",
			ErrInvalidRefund, amount.String(), order.Total.String())
	}
	if strings.TrimSpace(reason) == "" {
		return domain.Transaction{}, ErrReasonRequired
	}

	now := s.now()
	tx := domain.Transaction{
		ID:              s.newID(),
		ReferenceNumber: domain.ReferenceNumber(domain.TransactionRefund, now),
		OrderID:         order.ID,
		Type:            domain.TransactionRefund,
		Amount:          -amount,
		Status:          domain.TransactionCompleted,
		Note:            reason,
		CreatedAt:       now,
	}
	if err := s.ledger.Append(ctx, tx); err != nil {
		return tx, err
	}
	return tx, nil
}

// OrderStatus derives an order's displayed status from the ledger rather
// than a stored field: a void wins over a refund, a refund over the
// original sale.
func (s *Service) OrderStatus(orderID string) domain.OrderStatus {
	txs := s.ledger.Query(ledger.Filter{OrderID: orderID})
	status := domain.OrderStatusPending
	for _, tx := range txs {
		switch tx.Type {
		case domain.TransactionVoid:
			return domain.OrderStatusCancelled
		case domain.TransactionRefund:
			status = domain.OrderStatusRefunded
		case domain.TransactionSale:
			if status == domain.OrderStatusPending {
				status = domain.OrderStatusCompleted
			}
		}
	}
	return status
}
