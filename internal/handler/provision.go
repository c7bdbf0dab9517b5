package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nairex/nairex-api/internal/logging"
	"github.com/nairex/nairex-api/internal/service/trading"
)

type provisionService interface {
	ProvisionAccount(ctx context.Context, userID uuid.UUID) (*trading.ProvisionResult, error)
}

// ProvisionHandler is called by the account-creation collaborator right
// after a user is registered, before any trade can be attempted.
type ProvisionHandler struct {
	provision provisionService
}

func NewProvisionHandler(provision provisionService) *ProvisionHandler {
	return &ProvisionHandler{provision: provision}
}

type walletDTO struct {
	ID        uuid.UUID `json:"id"`
	Currency  string    `json:"currency"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type cryptoWalletDTO struct {
	ID        uuid.UUID `json:"id"`
	Asset     string    `json:"asset"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type provisionResponse struct {
	Naira  walletDTO         `json:"naira"`
	Crypto []cryptoWalletDTO `json:"crypto"`
}

func (h *ProvisionHandler) Provision(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	result, err := h.provision.ProvisionAccount(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to provision account", "error", err)
		RespondDomainError(w, err)
		return
	}

	resp := provisionResponse{
		Naira: walletDTO{
			ID:        result.Wallet.ID,
			Currency:  result.Wallet.Currency,
			Balance:   result.Wallet.Balance.String(),
			CreatedAt: result.Wallet.CreatedAt,
		},
		Crypto: make([]cryptoWalletDTO, len(result.CryptoWallets)),
	}
	for i, cw := range result.CryptoWallets {
		resp.Crypto[i] = cryptoWalletDTO{
			ID:        cw.ID,
			Asset:     string(cw.Asset),
			Balance:   cw.Balance.String(),
			CreatedAt: cw.CreatedAt,
		}
	}

	RespondSuccess(w, http.StatusCreated, resp)
}
