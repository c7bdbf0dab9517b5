package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairex/nairex-api/internal/domain"
)

const cryptoWalletColumns = `id, user_id, asset, balance, created_at`

type CryptoWalletRepository struct {
	db *sql.DB
}

func NewCryptoWalletRepository(db *sql.DB) *CryptoWalletRepository {
	return &CryptoWalletRepository{db: db}
}

func (r *CryptoWalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.CryptoWallet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cryptoWalletColumns+` FROM crypto_wallets
		WHERE user_id = $1 ORDER BY asset`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer rows.Close()

	var wallets []domain.CryptoWallet
	for rows.Next() {
		w, err := scanCryptoWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		wallets = append(wallets, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return wallets, nil
}

func (r *CryptoWalletRepository) GetByUserAndAsset(ctx context.Context, userID uuid.UUID, asset domain.Asset) (*domain.CryptoWallet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+cryptoWalletColumns+` FROM crypto_wallets
		WHERE user_id = $1 AND asset = $2`, userID, asset,
	)
	w, err := scanCryptoWallet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByUserAndAsset: %w", domain.ErrWalletNotFound)
		}
		return nil, fmt.Errorf("GetByUserAndAsset: %w", err)
	}
	return w, nil
}

func (r *CryptoWalletRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, userID uuid.UUID, asset domain.Asset) (*domain.CryptoWallet, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+cryptoWalletColumns+` FROM crypto_wallets
		WHERE user_id = $1 AND asset = $2 FOR UPDATE`, userID, asset,
	)
	w, err := scanCryptoWallet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrWalletNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return w, nil
}

func (r *CryptoWalletRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE crypto_wallets SET balance = $1 WHERE id = $2`, newBalance, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrWalletNotFound)
	}
	return nil
}

func (r *CryptoWalletRepository) Create(ctx context.Context, tx *sql.Tx, w *domain.CryptoWallet) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO crypto_wallets (id, user_id, asset, balance, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.UserID, w.Asset, w.Balance, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func scanCryptoWallet(s scanner) (*domain.CryptoWallet, error) {
	var w domain.CryptoWallet
	err := s.Scan(&w.ID, &w.UserID, &w.Asset, &w.Balance, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
