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

type SellResult struct {
	Transaction *domain.Transaction
	NairaValue  decimal.Decimal
	Rate        decimal.Decimal
	Fee         decimal.Decimal
	Credit      decimal.Decimal
	NewBalances Balances
}

// Sell converts crypto back to naira. The fee comes out of the proceeds, so
// the wallet is credited value - fee.
//
// The minimum-sale floor is assessed against the rate-converted naira value,
// after the rate pull: a rate move between request and fill can push a
// previously valid amount under the floor. That is deliberate policy, not an
// ordering accident.
func (s *Service) Sell(ctx context.Context, userID uuid.UUID, asset domain.Asset, cryptoAmount decimal.Decimal) (*SellResult, error) {
	log := logging.FromContext(ctx)

	asset = domain.NormalizeAsset(string(asset))
	if !s.supportedAsset(asset) {
		return nil, fmt.Errorf("Sell: %s: %w", asset, domain.ErrUnsupportedAsset)
	}
	if !cryptoAmount.IsPositive() {
		return nil, fmt.Errorf("Sell: %w", domain.ErrInvalidAmount)
	}

	// Snapshot precheck so an obviously unaffordable sell is rejected before
	// the rate pull; the authoritative check repeats under the row lock.
	held, err := s.cryptoWallets.GetByUserAndAsset(ctx, userID, asset)
	if err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}
	if held.Balance.LessThan(cryptoAmount) {
		return nil, fmt.Errorf("Sell: have %s %s: %w", held.Balance, asset, domain.ErrInsufficientBalance)
	}

	quote, err := s.rates.GetRate(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}

	nairaValue := cryptoAmount.Mul(quote.Rate).Round(2)
	if nairaValue.LessThan(s.config.MinSellAmount) {
		return nil, fmt.Errorf("Sell: value %s below minimum %s: %w", nairaValue, s.config.MinSellAmount, domain.ErrBelowMinimum)
	}

	sc := s.fees.SellCredit(nairaValue)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Sell: begin tx: %w", err)
	}
	defer tx.Rollback()

	// Same lock order as Buy: fiat wallet, then asset wallet.
	wallet, err := s.wallets.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}

	cryptoWallet, err := s.cryptoWallets.GetForUpdate(ctx, tx, userID, asset)
	if err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}
	if cryptoWallet.Balance.LessThan(cryptoAmount) {
		return nil, fmt.Errorf("Sell: have %s %s: %w", cryptoWallet.Balance, asset, domain.ErrInsufficientBalance)
	}

	newCrypto := cryptoWallet.Balance.Sub(cryptoAmount)
	newNaira := wallet.Balance.Add(sc.Credit)

	if err := s.cryptoWallets.UpdateBalance(ctx, tx, cryptoWallet.ID, newCrypto); err != nil {
		return nil, fmt.Errorf("Sell: debit %s: %w", asset, err)
	}
	if err := s.wallets.UpdateBalance(ctx, tx, wallet.ID, newNaira); err != nil {
		return nil, fmt.Errorf("Sell: credit naira: %w", err)
	}

	now := time.Now().UTC()
	sellTxn, err := s.appendTradePair(ctx, tx, tradePair{
		userID:  userID,
		kind:    domain.TransactionTypeSell,
		asset:   asset,
		amount:  cryptoAmount,
		fee:     sc.Fee,
		rate:    quote.Rate,
		now:     now,
		feeDesc: fmt.Sprintf("Trading fee for %s sale", asset),
		metadata: domain.SellMetadata{
			NairaValue:     nairaValue,
			CreditReceived: sc.Credit,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Sell: commit: %w: %w", domain.ErrStorageConflict, err)
	}

	log.Info("sell completed",
		"user_id", userID,
		"asset", asset,
		"reference", sellTxn.Reference,
		"crypto_amount", cryptoAmount,
		"naira_value", nairaValue,
		"rate", quote.Rate,
		"rate_source", quote.Source,
		"fee", sc.Fee,
		"credit", sc.Credit,
	)

	return &SellResult{
		Transaction: sellTxn,
		NairaValue:  nairaValue,
		Rate:        quote.Rate,
		Fee:         sc.Fee,
		Credit:      sc.Credit,
		NewBalances: Balances{Naira: newNaira, Crypto: newCrypto},
	}, nil
}
