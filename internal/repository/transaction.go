package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/nairex/nairex-api/internal/domain"
)

const transactionColumns = `id, user_id, reference, type, asset, amount, fee,
	rate, status, metadata, created_at`

// TransactionRepository is the append-only audit log. Rows are inserted
// inside the trade transaction and never updated or deleted afterwards.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	meta, err := marshalMetadata(t.Metadata)
	if err != nil {
		return fmt.Errorf("Create: metadata: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (
			id, user_id, reference, type, asset, amount, fee,
			rate, status, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.UserID, t.Reference, t.Type, t.Asset, t.Amount, t.Fee,
		t.Rate, t.Status, meta, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ListFilter narrows the history query. Zero values mean "no filter".
type ListFilter struct {
	Type    domain.TransactionType
	Asset   string
	Page    int
	PerPage int
}

// ListByUser returns a page of the user's entries, newest first, with the
// unfiltered-by-page total for pagination metadata.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]domain.Transaction, int, error) {
	where := `WHERE user_id = $1`
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		where += ` AND type = $` + strconv.Itoa(len(args))
	}
	if filter.Asset != "" {
		args = append(args, filter.Asset)
		where += ` AND asset = $` + strconv.Itoa(len(args))
	}

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByUser: count: %w", err)
	}

	if filter.PerPage <= 0 {
		filter.PerPage = 15
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.PerPage

	args = append(args, filter.PerPage, offset)
	query := `SELECT ` + transactionColumns + ` FROM transactions ` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)-1) +
		` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	var entries []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListByUser: scan: %w", err)
		}
		entries = append(entries, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListByUser: rows: %w", err)
	}
	return entries, total, nil
}

func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE reference = $1`, reference,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByReference: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByReference: %w", err)
	}
	return t, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var meta []byte
	err := s.Scan(
		&t.ID, &t.UserID, &t.Reference, &t.Type, &t.Asset, &t.Amount, &t.Fee,
		&t.Rate, &t.Status, &meta, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Metadata, err = unmarshalMetadata(t.Type, meta)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func marshalMetadata(m domain.Metadata) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func unmarshalMetadata(kind domain.TransactionType, raw []byte) (domain.Metadata, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	switch kind {
	case domain.TransactionTypeBuy:
		var m domain.BuyMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	case domain.TransactionTypeSell:
		var m domain.SellMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	case domain.TransactionTypeFee:
		var m domain.FeeMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	case domain.TransactionTypeDeposit:
		var m domain.DepositMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, nil
	}
}
