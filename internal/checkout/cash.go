package checkout

import (
	"context"
	"errors"

	"github.com/theauraflow/pos/internal/domain"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// CashIn records cash added to the drawer (starting float, tips). Drawer
// adjustments bypass the cart entirely.
func (s *Service) CashIn(ctx context.Context, amount domain.Money, note string) (domain.Transaction, error) {
	return s.cashMovement(ctx, domain.TransactionCashIn, amount, note)
}

// CashOut records cash removed from the drawer (payouts, deposits). The
// ledger amount is negative.
func (s *Service) CashOut(ctx context.Context, amount domain.Money, note string) (domain.Transaction, error) {
	return s.cashMovement(ctx, domain.TransactionCashOut, amount, note)
}

func (s *Service) cashMovement(ctx context.Context, typ domain.TransactionType, amount domain.Money, note string) (domain.Transaction, error) {
	if amount <= 0 {
		return domain.Transaction{}, ErrInvalidAmount
	}
	if typ == domain.TransactionCashOut {
		amount = -amount
	}

	now := s.now()
	tx := domain.Transaction{
		ID:              s.newID(),
		ReferenceNumber: domain.ReferenceNumber(typ, now),
		Type:            typ,
		Amount:          amount,
		Status:          domain.TransactionCompleted,
		Note:            note,
		CreatedAt:       now,
	}
	if err := s.ledger.Append(ctx, tx); err != nil {
		return tx, err
	}
	return tx, nil
}
