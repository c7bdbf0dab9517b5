package trading

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairex/nairex-api/internal/domain"
)

type tradePair struct {
	userID   uuid.UUID
	kind     domain.TransactionType
	asset    domain.Asset
	amount   decimal.Decimal
	fee      decimal.Decimal
	rate     decimal.Decimal
	now      time.Time
	feeDesc  string
	metadata domain.Metadata
}

// appendTradePair writes the two audit records every trade produces: the
// trade entry and a fee entry whose metadata points back at the trade's
// reference. Both land in the surrounding transaction or not at all.
func (s *Service) appendTradePair(ctx context.Context, tx *sql.Tx, p tradePair) (*domain.Transaction, error) {
	ref, err := domain.NewReference(p.now)
	if err != nil {
		return nil, fmt.Errorf("appendTradePair: reference: %w", err)
	}
	feeRef, err := domain.NewReference(p.now)
	if err != nil {
		return nil, fmt.Errorf("appendTradePair: fee reference: %w", err)
	}

	tradeTxn := &domain.Transaction{
		ID:        uuid.New(),
		UserID:    p.userID,
		Reference: ref,
		Type:      p.kind,
		Asset:     string(p.asset),
		Amount:    p.amount,
		Fee:       p.fee,
		Rate:      decimal.NewNullDecimal(p.rate),
		Status:    domain.TransactionStatusCompleted,
		Metadata:  p.metadata,
		CreatedAt: p.now,
	}
	if err := s.transactions.Create(ctx, tx, tradeTxn); err != nil {
		return nil, fmt.Errorf("appendTradePair: %s entry: %w", p.kind, err)
	}

	feeTxn := &domain.Transaction{
		ID:        uuid.New(),
		UserID:    p.userID,
		Reference: feeRef,
		Type:      domain.TransactionTypeFee,
		Asset:     domain.FiatCurrency,
		Amount:    p.fee,
		Fee:       decimal.Zero,
		Status:    domain.TransactionStatusCompleted,
		Metadata: domain.FeeMetadata{
			ParentTransaction: ref,
			Description:       p.feeDesc,
		},
		CreatedAt: p.now,
	}
	if err := s.transactions.Create(ctx, tx, feeTxn); err != nil {
		return nil, fmt.Errorf("appendTradePair: fee entry: %w", err)
	}

	return tradeTxn, nil
}
