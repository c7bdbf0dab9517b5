package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairex/nairex-api/internal/domain"
	"github.com/nairex/nairex-api/internal/logging"
)

// Balances reports the post-trade state of the two touched wallets.
type Balances struct {
	Naira  decimal.Decimal
	Crypto decimal.Decimal
}

type BuyResult struct {
	Transaction  *domain.Transaction
	CryptoAmount decimal.Decimal
	Rate         decimal.Decimal
	Fee          decimal.Decimal
	NewBalances  Balances
}

// Buy purchases crypto with naira. The fee is added on top of the trade
// amount, so the wallet is debited amount + fee. A successful buy appends
// exactly two ledger entries: the buy and its linked fee.
func (s *Service) Buy(ctx context.Context, userID uuid.UUID, asset domain.Asset, nairaAmount decimal.Decimal) (*BuyResult, error) {
	log := logging.FromContext(ctx)

	asset = domain.NormalizeAsset(string(asset))
	if !s.supportedAsset(asset) {
		return nil, fmt.Errorf("Buy: %s: %w", asset, domain.ErrUnsupportedAsset)
	}
	if !nairaAmount.IsPositive() {
		return nil, fmt.Errorf("Buy: %w", domain.ErrInvalidAmount)
	}
	if nairaAmount.LessThan(s.config.MinBuyAmount) {
		return nil, fmt.Errorf("Buy: minimum is %s: %w", s.config.MinBuyAmount, domain.ErrBelowMinimum)
	}

	quote, err := s.rates.GetRate(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("Buy: %w", err)
	}

	bt := s.fees.BuyTotal(nairaAmount)
	cryptoAmount := nairaAmount.Div(quote.Rate).Round(8)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Buy: begin tx: %w", err)
	}
	defer tx.Rollback()

	// Fiat wallet first, then the asset wallet. Every trade locks in this
	// order, so two trades on one account serialize instead of deadlocking.
	wallet, err := s.wallets.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("Buy: %w", err)
	}
	if wallet.Balance.LessThan(bt.Total) {
		return nil, fmt.Errorf("Buy: need %s NGN: %w", bt.Total, domain.ErrInsufficientBalance)
	}

	cryptoWallet, err := s.cryptoWallets.GetForUpdate(ctx, tx, userID, asset)
	if err != nil {
		return nil, fmt.Errorf("Buy: %w", err)
	}

	newNaira := wallet.Balance.Sub(bt.Total)
	newCrypto := cryptoWallet.Balance.Add(cryptoAmount)

	if err := s.wallets.UpdateBalance(ctx, tx, wallet.ID, newNaira); err != nil {
		return nil, fmt.Errorf("Buy: debit naira: %w", err)
	}
	if err := s.cryptoWallets.UpdateBalance(ctx, tx, cryptoWallet.ID, newCrypto); err != nil {
		return nil, fmt.Errorf("Buy: credit %s: %w", asset, err)
	}

	now := time.Now().UTC()
	buyTxn, err := s.appendTradePair(ctx, tx, tradePair{
		userID:  userID,
		kind:    domain.TransactionTypeBuy,
		asset:   asset,
		amount:  cryptoAmount,
		fee:     bt.Fee,
		rate:    quote.Rate,
		now:     now,
		feeDesc: fmt.Sprintf("Trading fee for %s purchase", asset),
		metadata: domain.BuyMetadata{
			NairaAmount:  nairaAmount,
			TotalDebited: bt.Total,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Buy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Buy: commit: %w: %w", domain.ErrStorageConflict, err)
	}

	log.Info("buy completed",
		"user_id", userID,
		"asset", asset,
		"reference", buyTxn.Reference,
		"naira_amount", nairaAmount,
		"crypto_amount", cryptoAmount,
		"rate", quote.Rate,
		"rate_source", quote.Source,
		"fee", bt.Fee,
	)

	return &BuyResult{
		Transaction:  buyTxn,
		CryptoAmount: cryptoAmount,
		Rate:         quote.Rate,
		Fee:          bt.Fee,
		NewBalances:  Balances{Naira: newNaira, Crypto: newCrypto},
	}, nil
}
