package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FiatCurrency is the only fiat denomination the ledger holds.
const FiatCurrency = "NGN"

type Asset string

const (
	AssetBTC  Asset = "BTC"
	AssetETH  Asset = "ETH"
	AssetUSDT Asset = "USDT"
)

// NormalizeAsset maps user input to the canonical upper-case symbol.
func NormalizeAsset(s string) Asset {
	return Asset(strings.ToUpper(strings.TrimSpace(s)))
}

// Wallet is a user's naira balance. Exactly one per user, 2 fractional
// digits, never negative.
type Wallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Currency  string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// CryptoWallet is a user's holding of one asset. One row per (user, asset),
// 8 fractional digits, never negative.
type CryptoWallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Asset     Asset
	Balance   decimal.Decimal
	CreatedAt time.Time
}
