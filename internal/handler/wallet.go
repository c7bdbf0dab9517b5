package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nairex/nairex-api/internal/auth"
	"github.com/nairex/nairex-api/internal/logging"
	"github.com/nairex/nairex-api/internal/service/trading"
)

type portfolioService interface {
	Portfolio(ctx context.Context, userID uuid.UUID) (*trading.Portfolio, error)
}

type WalletHandler struct {
	portfolio portfolioService
}

func NewWalletHandler(portfolio portfolioService) *WalletHandler {
	return &WalletHandler{portfolio: portfolio}
}

type fiatHoldingDTO struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type assetHoldingDTO struct {
	Balance    string `json:"balance"`
	NairaValue string `json:"naira_value"`
}

type portfolioResponse struct {
	Naira  fiatHoldingDTO             `json:"naira"`
	Crypto map[string]assetHoldingDTO `json:"crypto"`
}

func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	p, err := h.portfolio.Portfolio(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("portfolio lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	resp := portfolioResponse{
		Naira: fiatHoldingDTO{
			Balance:  p.Naira.Balance.String(),
			Currency: p.Naira.Currency,
		},
		Crypto: make(map[string]assetHoldingDTO, len(p.Crypto)),
	}
	for asset, holding := range p.Crypto {
		resp.Crypto[string(asset)] = assetHoldingDTO{
			Balance:    holding.Balance.String(),
			NairaValue: holding.NairaValue.String(),
		}
	}

	RespondSuccess(w, http.StatusOK, resp)
}
