package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/nairex/nairex-api/internal/domain"
	"github.com/nairex/nairex-api/internal/logging"
)

type ratesService interface {
	GetRates(ctx context.Context, assets []domain.Asset) (map[domain.Asset]domain.RateQuote, error)
}

// RatesHandler serves the public price board. No auth: these are the same
// quotes trades execute against, minus any account context.
type RatesHandler struct {
	rates  ratesService
	assets []domain.Asset
}

func NewRatesHandler(rates ratesService, assets []domain.Asset) *RatesHandler {
	return &RatesHandler{rates: rates, assets: assets}
}

type rateQuoteDTO struct {
	Rate       string    `json:"rate"`
	Currency   string    `json:"currency"`
	Source     string    `json:"source"`
	ValidUntil time.Time `json:"valid_until"`
}

func (h *RatesHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.rates.GetRates(r.Context(), h.assets)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to fetch rates", "error", err)
		RespondDomainError(w, err)
		return
	}

	resp := make(map[string]rateQuoteDTO, len(quotes))
	for asset, quote := range quotes {
		resp[string(asset)] = rateQuoteDTO{
			Rate:       quote.Rate.String(),
			Currency:   quote.Currency,
			Source:     string(quote.Source),
			ValidUntil: quote.ValidUntil,
		}
	}

	RespondSuccess(w, http.StatusOK, resp)
}
