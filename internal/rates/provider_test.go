package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairex/nairex-api/internal/domain"
)

func priceServer(t *testing.T, calls *atomic.Int64, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetRate_Live(t *testing.T) {
	var calls atomic.Int64
	srv := priceServer(t, &calls, `{"bitcoin":{"ngn":85000000}}`, http.StatusOK)

	p := NewProvider(srv.URL, time.Minute, time.Second)
	quote, err := p.GetRate(context.Background(), domain.AssetBTC)

	require.NoError(t, err)
	assert.Equal(t, domain.AssetBTC, quote.Asset)
	assert.Equal(t, domain.FiatCurrency, quote.Currency)
	assert.Equal(t, domain.RateSourceLive, quote.Source)
	assert.Equal(t, "85000000", quote.Rate.String())
	assert.False(t, quote.ValidUntil.IsZero())
}

func TestGetRate_CacheHitSkipsUpstream(t *testing.T) {
	var calls atomic.Int64
	srv := priceServer(t, &calls, `{"bitcoin":{"ngn":85000000}}`, http.StatusOK)

	p := NewProvider(srv.URL, time.Minute, time.Second)
	ctx := context.Background()

	_, err := p.GetRate(ctx, domain.AssetBTC)
	require.NoError(t, err)
	_, err = p.GetRate(ctx, domain.AssetBTC)
	require.NoError(t, err)

	assert.Equal(t, int64(1), calls.Load())
}

func TestGetRate_CaseInsensitive(t *testing.T) {
	var calls atomic.Int64
	srv := priceServer(t, &calls, `{"tether":{"ngn":1500}}`, http.StatusOK)

	p := NewProvider(srv.URL, time.Minute, time.Second)
	quote, err := p.GetRate(context.Background(), domain.Asset("usdt"))

	require.NoError(t, err)
	assert.Equal(t, domain.AssetUSDT, quote.Asset)
	assert.Equal(t, "1500", quote.Rate.String())
}

func TestGetRate_UnsupportedAsset(t *testing.T) {
	p := NewProvider("http://unused.invalid", time.Minute, time.Second)

	_, err := p.GetRate(context.Background(), domain.Asset("DOGE"))

	require.ErrorIs(t, err, domain.ErrUnsupportedAsset)
}

func TestGetRate_FallbackOnErrorStatus(t *testing.T) {
	var calls atomic.Int64
	srv := priceServer(t, &calls, `{"error":"rate limited"}`, http.StatusTooManyRequests)

	p := NewProvider(srv.URL, time.Minute, time.Second)
	quote, err := p.GetRate(context.Background(), domain.AssetBTC)

	require.NoError(t, err)
	assert.Equal(t, domain.RateSourceFallback, quote.Source)
	assert.True(t, quote.Rate.IsPositive())
}

func TestGetRate_FallbackOnMalformedPayload(t *testing.T) {
	var calls atomic.Int64
	srv := priceServer(t, &calls, `not json`, http.StatusOK)

	p := NewProvider(srv.URL, time.Minute, time.Second)
	quote, err := p.GetRate(context.Background(), domain.AssetETH)

	require.NoError(t, err)
	assert.Equal(t, domain.RateSourceFallback, quote.Source)
	assert.True(t, quote.Rate.IsPositive())
}

func TestGetRate_FallbackOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"bitcoin":{"ngn":85000000}}`))
	}))
	t.Cleanup(srv.Close)

	p := NewProvider(srv.URL, time.Minute, 50*time.Millisecond)
	quote, err := p.GetRate(context.Background(), domain.AssetBTC)

	require.NoError(t, err)
	assert.Equal(t, domain.RateSourceFallback, quote.Source)
	assert.True(t, quote.Rate.IsPositive())
}

func TestGetRate_FallbackIsCached(t *testing.T) {
	var calls atomic.Int64
	srv := priceServer(t, &calls, `{}`, http.StatusInternalServerError)

	p := NewProvider(srv.URL, time.Minute, time.Second)
	ctx := context.Background()

	_, err := p.GetRate(ctx, domain.AssetBTC)
	require.NoError(t, err)
	_, err = p.GetRate(ctx, domain.AssetBTC)
	require.NoError(t, err)

	// a failing upstream must not cause a request storm
	assert.Equal(t, int64(1), calls.Load())
}

func TestGetRates_BatchedFetch(t *testing.T) {
	var calls atomic.Int64
	srv := priceServer(t, &calls,
		`{"bitcoin":{"ngn":85000000},"ethereum":{"ngn":5000000},"tether":{"ngn":1500}}`,
		http.StatusOK)

	p := NewProvider(srv.URL, time.Minute, time.Second)
	quotes, err := p.GetRates(context.Background(),
		[]domain.Asset{domain.AssetBTC, domain.AssetETH, domain.AssetUSDT})

	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, "85000000", quotes[domain.AssetBTC].Rate.String())
	assert.Equal(t, "5000000", quotes[domain.AssetETH].Rate.String())
	assert.Equal(t, "1500", quotes[domain.AssetUSDT].Rate.String())
}

func TestGetRates_PartialPayloadFallsBackPerAsset(t *testing.T) {
	var calls atomic.Int64
	srv := priceServer(t, &calls, `{"bitcoin":{"ngn":85000000}}`, http.StatusOK)

	p := NewProvider(srv.URL, time.Minute, time.Second)
	quotes, err := p.GetRates(context.Background(),
		[]domain.Asset{domain.AssetBTC, domain.AssetETH})

	require.NoError(t, err)
	assert.Equal(t, domain.RateSourceLive, quotes[domain.AssetBTC].Source)
	assert.Equal(t, domain.RateSourceFallback, quotes[domain.AssetETH].Source)
	assert.True(t, quotes[domain.AssetETH].Rate.IsPositive())
}

func TestGetRates_UnsupportedAsset(t *testing.T) {
	p := NewProvider("http://unused.invalid", time.Minute, time.Second)

	_, err := p.GetRates(context.Background(), []domain.Asset{domain.AssetBTC, "SHIB"})

	require.ErrorIs(t, err, domain.ErrUnsupportedAsset)
}
