package trading

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairex/nairex-api/internal/domain"
	"github.com/nairex/nairex-api/internal/repository"
)

type FiatHolding struct {
	Balance  decimal.Decimal
	Currency string
}

type AssetHolding struct {
	Balance    decimal.Decimal
	NairaValue decimal.Decimal
}

type Portfolio struct {
	Naira  FiatHolding
	Crypto map[domain.Asset]AssetHolding
}

// Portfolio values every holding at the current rate. Read-only: one batched
// rate lookup, no mutation.
func (s *Service) Portfolio(ctx context.Context, userID uuid.UUID) (*Portfolio, error) {
	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Portfolio: %w", err)
	}

	cryptoWallets, err := s.cryptoWallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Portfolio: %w", err)
	}

	quotes, err := s.rates.GetRates(ctx, s.config.SupportedAssets)
	if err != nil {
		return nil, fmt.Errorf("Portfolio: %w", err)
	}

	p := &Portfolio{
		Naira:  FiatHolding{Balance: wallet.Balance, Currency: wallet.Currency},
		Crypto: make(map[domain.Asset]AssetHolding, len(cryptoWallets)),
	}
	for _, cw := range cryptoWallets {
		holding := AssetHolding{Balance: cw.Balance}
		if quote, ok := quotes[cw.Asset]; ok {
			holding.NairaValue = cw.Balance.Mul(quote.Rate).Round(2)
		}
		p.Crypto[cw.Asset] = holding
	}

	return p, nil
}

// History returns a page of the user's ledger, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, filter repository.ListFilter) ([]domain.Transaction, int, error) {
	if filter.Asset != "" {
		filter.Asset = string(domain.NormalizeAsset(filter.Asset))
	}

	entries, total, err := s.transactions.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("History: %w", err)
	}
	return entries, total, nil
}
