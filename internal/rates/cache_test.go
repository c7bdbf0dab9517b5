package rates

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairex/nairex-api/internal/domain"
)

func TestCachePutGet(t *testing.T) {
	c := NewCache()
	quote := domain.RateQuote{
		Asset:    domain.AssetBTC,
		Currency: domain.FiatCurrency,
		Rate:     decimal.NewFromInt(85_000_000),
		Source:   domain.RateSourceLive,
	}

	_, hit := c.Get("BTC_NGN")
	assert.False(t, hit)

	c.Put("BTC_NGN", quote, time.Minute)

	got, hit := c.Get("BTC_NGN")
	require.True(t, hit)
	assert.True(t, got.Rate.Equal(quote.Rate))
	assert.Equal(t, domain.RateSourceLive, got.Source)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Put("BTC_NGN", domain.RateQuote{Asset: domain.AssetBTC}, time.Minute)

	_, hit := c.Get("BTC_NGN")
	assert.True(t, hit)

	c.now = func() time.Time { return now.Add(61 * time.Second) }
	_, hit = c.Get("BTC_NGN")
	assert.False(t, hit)
}

func TestCacheOverwrite(t *testing.T) {
	c := NewCache()

	c.Put("BTC_NGN", domain.RateQuote{Rate: decimal.NewFromInt(1)}, time.Minute)
	c.Put("BTC_NGN", domain.RateQuote{Rate: decimal.NewFromInt(2)}, time.Minute)

	got, hit := c.Get("BTC_NGN")
	require.True(t, hit)
	assert.True(t, got.Rate.Equal(decimal.NewFromInt(2)))
}
