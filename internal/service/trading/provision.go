package trading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairex/nairex-api/internal/domain"
	"github.com/nairex/nairex-api/internal/logging"
)

type ProvisionResult struct {
	Wallet        *domain.Wallet
	CryptoWallets []domain.CryptoWallet
}

// ProvisionAccount creates a user's naira wallet plus one zero wallet per
// supported asset. The account-creation collaborator calls this explicitly
// and synchronously after registering the user; there is no hidden lifecycle
// hook. A configured seed balance writes a deposit entry so even the opening
// funds are on the ledger.
func (s *Service) ProvisionAccount(ctx context.Context, userID uuid.UUID) (*ProvisionResult, error) {
	log := logging.FromContext(ctx)

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("ProvisionAccount: %w", err)
	}

	_, err := s.wallets.GetByUserID(ctx, userID)
	if err == nil {
		return nil, fmt.Errorf("ProvisionAccount: %w", domain.ErrWalletExists)
	}
	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, fmt.Errorf("ProvisionAccount: check existing: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ProvisionAccount: begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	seed := s.config.SeedNairaBalance

	wallet := &domain.Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Currency:  domain.FiatCurrency,
		Balance:   seed,
		CreatedAt: now,
	}
	if err := s.wallets.Create(ctx, tx, wallet); err != nil {
		return nil, fmt.Errorf("ProvisionAccount: naira wallet: %w", err)
	}

	cryptoWallets := make([]domain.CryptoWallet, 0, len(s.config.SupportedAssets))
	for _, asset := range s.config.SupportedAssets {
		cw := domain.CryptoWallet{
			ID:        uuid.New(),
			UserID:    userID,
			Asset:     asset,
			Balance:   decimal.Zero,
			CreatedAt: now,
		}
		if err := s.cryptoWallets.Create(ctx, tx, &cw); err != nil {
			return nil, fmt.Errorf("ProvisionAccount: %s wallet: %w", asset, err)
		}
		cryptoWallets = append(cryptoWallets, cw)
	}

	if seed.IsPositive() {
		ref, err := domain.NewReference(now)
		if err != nil {
			return nil, fmt.Errorf("ProvisionAccount: reference: %w", err)
		}
		deposit := &domain.Transaction{
			ID:        uuid.New(),
			UserID:    userID,
			Reference: ref,
			Type:      domain.TransactionTypeDeposit,
			Asset:     domain.FiatCurrency,
			Amount:    seed,
			Fee:       decimal.Zero,
			Status:    domain.TransactionStatusCompleted,
			Metadata:  domain.DepositMetadata{Description: "Initial account funding"},
			CreatedAt: now,
		}
		if err := s.transactions.Create(ctx, tx, deposit); err != nil {
			return nil, fmt.Errorf("ProvisionAccount: deposit entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ProvisionAccount: commit: %w: %w", domain.ErrStorageConflict, err)
	}

	log.Info("account provisioned",
		"user_id", userID,
		"seed_balance", seed,
		"assets", s.config.SupportedAssets,
	)

	return &ProvisionResult{Wallet: wallet, CryptoWallets: cryptoWallets}, nil
}
