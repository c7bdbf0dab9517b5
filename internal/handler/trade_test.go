package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairex/nairex-api/internal/auth"
	"github.com/nairex/nairex-api/internal/domain"
	"github.com/nairex/nairex-api/internal/service/trading"
)

type mockTradingService struct {
	buyResult  *trading.BuyResult
	sellResult *trading.SellResult
	err        error
}

func (m *mockTradingService) Buy(_ context.Context, _ uuid.UUID, _ domain.Asset, _ decimal.Decimal) (*trading.BuyResult, error) {
	return m.buyResult, m.err
}

func (m *mockTradingService) Sell(_ context.Context, _ uuid.UUID, _ domain.Asset, _ decimal.Decimal) (*trading.SellResult, error) {
	return m.sellResult, m.err
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := auth.ContextWithUserID(req.Context(), uuid.New())
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestTradeBuy_MissingAuth(t *testing.T) {
	h := NewTradeHandler(&mockTradingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trade/buy", strings.NewReader(`{"asset":"BTC","amount":"50000"}`))
	rec := httptest.NewRecorder()

	h.Buy(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_TOKEN", resp.Error.Code)
}

func TestTradeBuy_MalformedBody(t *testing.T) {
	h := NewTradeHandler(&mockTradingService{})

	rec := httptest.NewRecorder()
	h.Buy(rec, authedRequest(http.MethodPost, "/api/v1/trade/buy", `{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestTradeBuy_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing asset", body: `{"amount":"50000"}`},
		{name: "zero amount", body: `{"asset":"BTC","amount":"0"}`},
		{name: "negative amount", body: `{"asset":"BTC","amount":"-5"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTradeHandler(&mockTradingService{})
			rec := httptest.NewRecorder()

			h.Buy(rec, authedRequest(http.MethodPost, "/api/v1/trade/buy", tc.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
		})
	}
}

func TestTradeBuy_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "below minimum", err: fmt.Errorf("Buy: %w", domain.ErrBelowMinimum), wantStatus: http.StatusUnprocessableEntity, wantCode: "BELOW_MINIMUM"},
		{name: "insufficient balance", err: fmt.Errorf("Buy: %w", domain.ErrInsufficientBalance), wantStatus: http.StatusUnprocessableEntity, wantCode: "INSUFFICIENT_BALANCE"},
		{name: "unsupported asset", err: fmt.Errorf("Buy: %w", domain.ErrUnsupportedAsset), wantStatus: http.StatusBadRequest, wantCode: "UNSUPPORTED_ASSET"},
		{name: "wallet missing", err: fmt.Errorf("Buy: %w", domain.ErrWalletNotFound), wantStatus: http.StatusUnprocessableEntity, wantCode: "WALLET_NOT_FOUND"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTradeHandler(&mockTradingService{err: tc.err})
			rec := httptest.NewRecorder()

			h.Buy(rec, authedRequest(http.MethodPost, "/api/v1/trade/buy", `{"asset":"BTC","amount":"50000"}`))

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestTradeBuy_Success(t *testing.T) {
	txn := &domain.Transaction{
		ID:        uuid.New(),
		Reference: "TXN_1756400000_a1b2c3",
		Type:      domain.TransactionTypeBuy,
		Asset:     "BTC",
		Amount:    decimal.RequireFromString("0.00058824"),
		Fee:       decimal.NewFromInt(500),
		Rate:      decimal.NewNullDecimal(decimal.NewFromInt(85_000_000)),
		Status:    domain.TransactionStatusCompleted,
	}
	h := NewTradeHandler(&mockTradingService{
		buyResult: &trading.BuyResult{
			Transaction:  txn,
			CryptoAmount: decimal.RequireFromString("0.00058824"),
			Rate:         decimal.NewFromInt(85_000_000),
			Fee:          decimal.NewFromInt(500),
			NewBalances: trading.Balances{
				Naira:  decimal.NewFromInt(49500),
				Crypto: decimal.RequireFromString("0.00058824"),
			},
		},
	})

	rec := httptest.NewRecorder()
	h.Buy(rec, authedRequest(http.MethodPost, "/api/v1/trade/buy", `{"asset":"BTC","amount":"50000"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0.00058824", data["crypto_amount"])
	assert.Equal(t, "85000000", data["rate"])
	assert.Equal(t, "500", data["fee"])

	balances, ok := data["new_balances"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "49500", balances["naira"])
}

func TestTradeSell_Success(t *testing.T) {
	txn := &domain.Transaction{
		ID:        uuid.New(),
		Reference: "TXN_1756400000_d4e5f6",
		Type:      domain.TransactionTypeSell,
		Asset:     "BTC",
		Amount:    decimal.RequireFromString("0.1"),
		Fee:       decimal.NewFromInt(85_000),
		Rate:      decimal.NewNullDecimal(decimal.NewFromInt(85_000_000)),
		Status:    domain.TransactionStatusCompleted,
	}
	h := NewTradeHandler(&mockTradingService{
		sellResult: &trading.SellResult{
			Transaction: txn,
			NairaValue:  decimal.NewFromInt(8_500_000),
			Rate:        decimal.NewFromInt(85_000_000),
			Fee:         decimal.NewFromInt(85_000),
			Credit:      decimal.NewFromInt(8_415_000),
			NewBalances: trading.Balances{
				Naira:  decimal.NewFromInt(8_416_000),
				Crypto: decimal.RequireFromString("0.4"),
			},
		},
	})

	rec := httptest.NewRecorder()
	h.Sell(rec, authedRequest(http.MethodPost, "/api/v1/trade/sell", `{"asset":"BTC","amount":"0.1"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "8500000", data["naira_value"])
	assert.Equal(t, "8415000", data["credit"])
}
