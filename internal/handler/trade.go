package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairex/nairex-api/internal/auth"
	"github.com/nairex/nairex-api/internal/domain"
	"github.com/nairex/nairex-api/internal/logging"
	"github.com/nairex/nairex-api/internal/service/trading"
)

type tradingService interface {
	Buy(ctx context.Context, userID uuid.UUID, asset domain.Asset, nairaAmount decimal.Decimal) (*trading.BuyResult, error)
	Sell(ctx context.Context, userID uuid.UUID, asset domain.Asset, cryptoAmount decimal.Decimal) (*trading.SellResult, error)
}

type TradeHandler struct {
	trades tradingService
}

func NewTradeHandler(trades tradingService) *TradeHandler {
	return &TradeHandler{trades: trades}
}

type tradeRequest struct {
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
}

func (r tradeRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Asset == "" {
		errs = append(errs, FieldError{Field: "asset", Message: "required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	return errs
}

type transactionDTO struct {
	ID        uuid.UUID `json:"id"`
	Reference string    `json:"reference"`
	Type      string    `json:"type"`
	Asset     string    `json:"asset"`
	Amount    string    `json:"amount"`
	Fee       string    `json:"fee"`
	Rate      *string   `json:"rate"`
	Status    string    `json:"status"`
	Metadata  any       `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	dto := transactionDTO{
		ID:        t.ID,
		Reference: t.Reference,
		Type:      string(t.Type),
		Asset:     t.Asset,
		Amount:    t.Amount.String(),
		Fee:       t.Fee.String(),
		Status:    string(t.Status),
		Metadata:  t.Metadata,
		CreatedAt: t.CreatedAt,
	}
	if t.Rate.Valid {
		rate := t.Rate.Decimal.String()
		dto.Rate = &rate
	}
	return dto
}

type balancesDTO struct {
	Naira  string `json:"naira"`
	Crypto string `json:"crypto"`
}

type buyResponse struct {
	Transaction  transactionDTO `json:"transaction"`
	CryptoAmount string         `json:"crypto_amount"`
	Rate         string         `json:"rate"`
	Fee          string         `json:"fee"`
	NewBalances  balancesDTO    `json:"new_balances"`
}

func (h *TradeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	result, err := h.trades.Buy(r.Context(), userID, domain.Asset(req.Asset), req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Warn("buy rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, buyResponse{
		Transaction:  toTransactionDTO(result.Transaction),
		CryptoAmount: result.CryptoAmount.String(),
		Rate:         result.Rate.String(),
		Fee:          result.Fee.String(),
		NewBalances: balancesDTO{
			Naira:  result.NewBalances.Naira.String(),
			Crypto: result.NewBalances.Crypto.String(),
		},
	})
}

type sellResponse struct {
	Transaction transactionDTO `json:"transaction"`
	NairaValue  string         `json:"naira_value"`
	Rate        string         `json:"rate"`
	Fee         string         `json:"fee"`
	Credit      string         `json:"credit"`
	NewBalances balancesDTO    `json:"new_balances"`
}

func (h *TradeHandler) Sell(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	result, err := h.trades.Sell(r.Context(), userID, domain.Asset(req.Asset), req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Warn("sell rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, sellResponse{
		Transaction: toTransactionDTO(result.Transaction),
		NairaValue:  result.NairaValue.String(),
		Rate:        result.Rate.String(),
		Fee:         result.Fee.String(),
		Credit:      result.Credit.String(),
		NewBalances: balancesDTO{
			Naira:  result.NewBalances.Naira.String(),
			Crypto: result.NewBalances.Crypto.String(),
		},
	})
}
