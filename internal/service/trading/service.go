package trading

import (
	"context"
	"database/sql"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairex/nairex-api/internal/domain"
	"github.com/nairex/nairex-api/internal/fees"
	"github.com/nairex/nairex-api/internal/repository"
)

type walletRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal) error
	Create(ctx context.Context, tx *sql.Tx, w *domain.Wallet) error
}

type cryptoWalletRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.CryptoWallet, error)
	GetByUserAndAsset(ctx context.Context, userID uuid.UUID, asset domain.Asset) (*domain.CryptoWallet, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, userID uuid.UUID, asset domain.Asset) (*domain.CryptoWallet, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal) error
	Create(ctx context.Context, tx *sql.Tx, w *domain.CryptoWallet) error
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter repository.ListFilter) ([]domain.Transaction, int, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type rateProvider interface {
	GetRate(ctx context.Context, asset domain.Asset) (domain.RateQuote, error)
	GetRates(ctx context.Context, assets []domain.Asset) (map[domain.Asset]domain.RateQuote, error)
}

type feeCalculator interface {
	BuyTotal(amount decimal.Decimal) fees.BuyTotal
	SellCredit(value decimal.Decimal) fees.SellCredit
}

// Config is the immutable trading policy, injected at construction rather
// than read from ambient state.
type Config struct {
	MinBuyAmount     decimal.Decimal
	MinSellAmount    decimal.Decimal
	SeedNairaBalance decimal.Decimal
	SupportedAssets  []domain.Asset
}

// Service orchestrates buys and sells: rate pull, fee computation, invariant
// checks, and the atomic balance-mutation-plus-audit-append commit. The rate
// is always resolved before the database transaction opens so no network
// call happens while account rows are locked.
type Service struct {
	wallets       walletRepo
	cryptoWallets cryptoWalletRepo
	transactions  transactionRepo
	users         userRepo
	rates         rateProvider
	fees          feeCalculator
	db            *sql.DB
	config        Config
}

func NewService(
	wallets walletRepo,
	cryptoWallets cryptoWalletRepo,
	transactions transactionRepo,
	users userRepo,
	rates rateProvider,
	feeCalc feeCalculator,
	db *sql.DB,
	cfg Config,
) *Service {
	return &Service{
		wallets:       wallets,
		cryptoWallets: cryptoWallets,
		transactions:  transactions,
		users:         users,
		rates:         rates,
		fees:          feeCalc,
		db:            db,
		config:        cfg,
	}
}

func (s *Service) supportedAsset(asset domain.Asset) bool {
	return slices.Contains(s.config.SupportedAssets, asset)
}
