package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nairex/nairex-api/internal/domain"
	"github.com/nairex/nairex-api/internal/logging"
)

// upstream ids for the fixed set of supported symbols
var assetIDs = map[domain.Asset]string{
	domain.AssetBTC:  "bitcoin",
	domain.AssetETH:  "ethereum",
	domain.AssetUSDT: "tether",
}

// Conservative static rates used when the upstream source is unreachable.
// Degraded-but-available beats failing a trade on a pricing outage; the
// quote's Source field keeps the degradation auditable.
var fallbackRates = map[domain.Asset]decimal.Decimal{
	domain.AssetBTC:  decimal.NewFromInt(92_000_000),
	domain.AssetETH:  decimal.NewFromInt(5_200_000),
	domain.AssetUSDT: decimal.NewFromInt(1_570),
}

// Provider resolves naira exchange rates for supported assets. Quotes come
// from the upstream price source, are cached for the configured TTL, and
// degrade to the static fallback table when the upstream misbehaves.
type Provider struct {
	baseURL string
	client  *http.Client
	cache   *Cache
	ttl     time.Duration
}

func NewProvider(baseURL string, cacheTTL, fetchTimeout time.Duration) *Provider {
	return &Provider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: fetchTimeout},
		cache:   NewCache(),
		ttl:     cacheTTL,
	}
}

// GetRate returns the current naira quote for one asset. Never fails for a
// supported asset: upstream errors are absorbed into the fallback table.
func (p *Provider) GetRate(ctx context.Context, asset domain.Asset) (domain.RateQuote, error) {
	asset = domain.NormalizeAsset(string(asset))
	if _, ok := assetIDs[asset]; !ok {
		return domain.RateQuote{}, fmt.Errorf("GetRate: %s: %w", asset, domain.ErrUnsupportedAsset)
	}

	if quote, hit := p.cache.Get(cacheKey(asset)); hit {
		return quote, nil
	}

	quotes := p.resolve(ctx, []domain.Asset{asset})
	return quotes[asset], nil
}

// GetRates returns quotes for a batch of assets, fetching all cache misses
// in a single upstream request.
func (p *Provider) GetRates(ctx context.Context, assets []domain.Asset) (map[domain.Asset]domain.RateQuote, error) {
	result := make(map[domain.Asset]domain.RateQuote, len(assets))
	var missing []domain.Asset

	for _, a := range assets {
		a = domain.NormalizeAsset(string(a))
		if _, ok := assetIDs[a]; !ok {
			return nil, fmt.Errorf("GetRates: %s: %w", a, domain.ErrUnsupportedAsset)
		}
		if quote, hit := p.cache.Get(cacheKey(a)); hit {
			result[a] = quote
			continue
		}
		missing = append(missing, a)
	}

	if len(missing) > 0 {
		for a, quote := range p.resolve(ctx, missing) {
			result[a] = quote
		}
	}

	return result, nil
}

// resolve fetches live quotes for the given supported assets and caches the
// outcome. Any asset the fetch could not price gets a fallback quote, which
// is cached for the same TTL so a failing upstream does not cause a request
// storm.
func (p *Provider) resolve(ctx context.Context, assets []domain.Asset) map[domain.Asset]domain.RateQuote {
	log := logging.FromContext(ctx)
	validUntil := time.Now().UTC().Add(p.ttl)

	live, err := p.fetch(ctx, assets)
	if err != nil {
		log.Warn("price source fetch failed, using fallback rates",
			"error", err,
			"assets", assets,
		)
	}

	quotes := make(map[domain.Asset]domain.RateQuote, len(assets))
	for _, a := range assets {
		quote := domain.RateQuote{
			Asset:      a,
			Currency:   domain.FiatCurrency,
			Source:     domain.RateSourceLive,
			ValidUntil: validUntil,
		}

		if rate, ok := live[a]; ok && rate.IsPositive() {
			quote.Rate = rate
		} else {
			if err == nil {
				log.Warn("price source response missing asset, using fallback rate", "asset", a)
			}
			quote.Rate = fallbackRates[a]
			quote.Source = domain.RateSourceFallback
		}

		p.cache.Put(cacheKey(a), quote, p.ttl)
		quotes[a] = quote
	}

	return quotes
}

func (p *Provider) fetch(ctx context.Context, assets []domain.Asset) (map[domain.Asset]decimal.Decimal, error) {
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = assetIDs[a]
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", strings.ToLower(domain.FiatCurrency))
	endpoint := p.baseURL + "/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch: %w: status %d: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}

	var payload map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("fetch: %w: decode: %w", domain.ErrUpstreamUnavailable, err)
	}

	currency := strings.ToLower(domain.FiatCurrency)
	rates := make(map[domain.Asset]decimal.Decimal, len(assets))
	for _, a := range assets {
		if rate, ok := payload[assetIDs[a]][currency]; ok {
			rates[a] = rate
		}
	}
	return rates, nil
}

func cacheKey(asset domain.Asset) string {
	return string(asset) + "_" + domain.FiatCurrency
}
