package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RateSource string

const (
	RateSourceLive     RateSource = "live"
	RateSourceFallback RateSource = "fallback"
)

// RateQuote is a priced snapshot of one asset in naira. Ephemeral: held only
// in the rate cache, never persisted.
type RateQuote struct {
	Asset      Asset
	Currency   string
	Rate       decimal.Decimal
	Source     RateSource
	ValidUntil time.Time
}
