package domain

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeBuy     TransactionType = "buy"
	TransactionTypeSell    TransactionType = "sell"
	TransactionTypeFee     TransactionType = "fee"
	TransactionTypeDeposit TransactionType = "deposit"
)

type TransactionStatus string

// Completed is the only reachable state; there is no pending or reversed
// lifecycle yet.
const TransactionStatusCompleted TransactionStatus = "completed"

// Transaction is one immutable audit record. Rows are append-only: never
// updated, never deleted.
type Transaction struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Reference string
	Type      TransactionType
	Asset     string
	Amount    decimal.Decimal
	Fee       decimal.Decimal
	Rate      decimal.NullDecimal
	Status    TransactionStatus
	Metadata  Metadata
	CreatedAt time.Time
}

// Metadata is the closed set of per-type context payloads. The serialized
// shape matches the historical JSON blob so downstream consumers keep
// working.
type Metadata interface {
	isMetadata()
}

type BuyMetadata struct {
	NairaAmount  decimal.Decimal `json:"naira_amount"`
	TotalDebited decimal.Decimal `json:"total_debited"`
}

type SellMetadata struct {
	NairaValue     decimal.Decimal `json:"naira_value"`
	CreditReceived decimal.Decimal `json:"credit_received"`
}

type FeeMetadata struct {
	ParentTransaction string `json:"parent_transaction"`
	Description       string `json:"description"`
}

type DepositMetadata struct {
	Description string `json:"description"`
}

func (BuyMetadata) isMetadata()     {}
func (SellMetadata) isMetadata()    {}
func (FeeMetadata) isMetadata()     {}
func (DepositMetadata) isMetadata() {}

// NewReference builds a collision-resistant idempotency key in the
// TXN_<timestamp>_<random> format. Uniqueness is additionally enforced by a
// unique index on the transactions table.
func NewReference(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "TXN_" + strconv.FormatInt(now.Unix(), 10) + "_" + hex.EncodeToString(buf), nil
}
