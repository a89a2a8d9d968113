package domain

import (
	"fmt"
	"time"
)

type TransactionType string

const (
	TransactionSale    TransactionType = "sale"
	TransactionRefund  TransactionType = "refund"
	TransactionCashIn  TransactionType = "cash_in"
	TransactionCashOut TransactionType = "cash_out"
	TransactionVoid    TransactionType = "void"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionReversed  TransactionStatus = "reversed"
)

// Transaction is a single monetary ledger entry. Amounts are signed:
// negative for cash_out, refund and void. Once appended to the ledger an
// entry is never mutated or individually deleted.
type Transaction struct {
	ID              string            `json:"id"`
	ReferenceNumber string            `json:"reference_number"`
	OrderID         string            `json:"order_id,omitempty"`
	Type            TransactionType   `json:"type"`
	Amount          Money             `json:"amount"`
	Status          TransactionStatus `json:"status"`
	Note            string            `json:"note,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ReferenceNumber builds a display reference like TXN-S-1704067200000.
func ReferenceNumber(t TransactionType, at time.Time) string {
	prefix := "TXN-A"
	switch t {
	case TransactionSale:
		prefix = "TXN-S"
	case TransactionRefund:
		prefix = "TXN-R"
	case TransactionCashIn:
		prefix = "TXN-CI"
	case TransactionCashOut:
		prefix = "TXN-CO"
	case TransactionVoid:
		prefix = "TXN-V"
	}
	return fmt.Sprintf("%s-%d", prefix, at.UnixMilli())
}
