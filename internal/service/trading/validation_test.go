package trading

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nairex/nairex-api/internal/domain"
)

func newServiceWithConfig() *Service {
	return &Service{
		config: Config{
			MinBuyAmount:    decimal.NewFromInt(5000),
			MinSellAmount:   decimal.NewFromInt(2000),
			SupportedAssets: []domain.Asset{domain.AssetBTC, domain.AssetETH, domain.AssetUSDT},
		},
	}
}

type stubCryptoWallets struct {
	wallet *domain.CryptoWallet
}

func (s *stubCryptoWallets) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.CryptoWallet, error) {
	return []domain.CryptoWallet{*s.wallet}, nil
}

func (s *stubCryptoWallets) GetByUserAndAsset(ctx context.Context, userID uuid.UUID, asset domain.Asset) (*domain.CryptoWallet, error) {
	return s.wallet, nil
}

func (s *stubCryptoWallets) GetForUpdate(ctx context.Context, tx *sql.Tx, userID uuid.UUID, asset domain.Asset) (*domain.CryptoWallet, error) {
	return s.wallet, nil
}

func (s *stubCryptoWallets) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal) error {
	return nil
}

func (s *stubCryptoWallets) Create(ctx context.Context, tx *sql.Tx, w *domain.CryptoWallet) error {
	return nil
}

type stubRates struct {
	rate  decimal.Decimal
	calls int
}

func (s *stubRates) GetRate(ctx context.Context, asset domain.Asset) (domain.RateQuote, error) {
	s.calls++
	return domain.RateQuote{
		Asset:    asset,
		Currency: domain.FiatCurrency,
		Rate:     s.rate,
		Source:   domain.RateSourceLive,
	}, nil
}

func (s *stubRates) GetRates(ctx context.Context, assets []domain.Asset) (map[domain.Asset]domain.RateQuote, error) {
	quotes := make(map[domain.Asset]domain.RateQuote, len(assets))
	for _, a := range assets {
		q, _ := s.GetRate(ctx, a)
		quotes[a] = q
	}
	return quotes, nil
}

func TestBuyValidation(t *testing.T) {
	svc := newServiceWithConfig()
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name    string
		asset   domain.Asset
		amount  decimal.Decimal
		wantErr error
	}{
		{
			name:    "unsupported asset",
			asset:   "XRP",
			amount:  decimal.NewFromInt(10000),
			wantErr: domain.ErrUnsupportedAsset,
		},
		{
			name:    "zero amount",
			asset:   domain.AssetBTC,
			amount:  decimal.Zero,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			asset:   domain.AssetBTC,
			amount:  decimal.NewFromInt(-100),
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "just below minimum",
			asset:   domain.AssetBTC,
			amount:  decimal.RequireFromString("4999.99"),
			wantErr: domain.ErrBelowMinimum,
		},
		{
			name:    "lower-case symbol is normalized before the supported check",
			asset:   "btc",
			amount:  decimal.NewFromInt(100),
			wantErr: domain.ErrBelowMinimum,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Buy(ctx, userID, tc.asset, tc.amount)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSellValidation(t *testing.T) {
	svc := newServiceWithConfig()
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name    string
		asset   domain.Asset
		amount  decimal.Decimal
		wantErr error
	}{
		{
			name:    "unsupported asset",
			asset:   "DOGE",
			amount:  decimal.RequireFromString("0.5"),
			wantErr: domain.ErrUnsupportedAsset,
		},
		{
			name:    "zero amount",
			asset:   domain.AssetETH,
			amount:  decimal.Zero,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			asset:   domain.AssetETH,
			amount:  decimal.RequireFromString("-0.1"),
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Sell(ctx, userID, tc.asset, tc.amount)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

// An unaffordable sell is rejected on the snapshot read, before any rate
// lookup happens.
func TestSellInsufficientBalanceSkipsRatePull(t *testing.T) {
	rates := &stubRates{rate: decimal.NewFromInt(85_000_000)}
	svc := newServiceWithConfig()
	svc.rates = rates
	svc.cryptoWallets = &stubCryptoWallets{
		wallet: &domain.CryptoWallet{
			ID:      uuid.New(),
			Asset:   domain.AssetBTC,
			Balance: decimal.RequireFromString("0.05"),
		},
	}

	_, err := svc.Sell(context.Background(), uuid.New(), domain.AssetBTC, decimal.RequireFromString("0.1"))

	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	require.Zero(t, rates.calls)
}

// The minimum-sale floor applies to the converted naira value, so a rate
// collapse can put an otherwise fine amount under it.
func TestSellBelowMinimumAfterConversion(t *testing.T) {
	svc := newServiceWithConfig()
	svc.rates = &stubRates{rate: decimal.NewFromInt(1000)}
	svc.cryptoWallets = &stubCryptoWallets{
		wallet: &domain.CryptoWallet{
			ID:      uuid.New(),
			Asset:   domain.AssetBTC,
			Balance: decimal.NewFromInt(1),
		},
	}

	// 0.1 BTC at 1,000 NGN/BTC is worth 100 NGN, under the 2,000 floor.
	_, err := svc.Sell(context.Background(), uuid.New(), domain.AssetBTC, decimal.RequireFromString("0.1"))

	require.ErrorIs(t, err, domain.ErrBelowMinimum)
}
