package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/nairex/nairex-api/internal/auth"
	"github.com/nairex/nairex-api/internal/domain"
	"github.com/nairex/nairex-api/internal/logging"
	"github.com/nairex/nairex-api/internal/repository"
)

type historyService interface {
	History(ctx context.Context, userID uuid.UUID, filter repository.ListFilter) ([]domain.Transaction, int, error)
}

type TransactionHandler struct {
	history historyService
}

func NewTransactionHandler(history historyService) *TransactionHandler {
	return &TransactionHandler{history: history}
}

type listMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

type listTransactionsResponse struct {
	Transactions []transactionDTO `json:"transactions"`
	Meta         listMeta         `json:"meta"`
}

var validTypes = map[string]bool{
	string(domain.TransactionTypeBuy):     true,
	string(domain.TransactionTypeSell):    true,
	string(domain.TransactionTypeFee):     true,
	string(domain.TransactionTypeDeposit): true,
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	q := r.URL.Query()
	filter := repository.ListFilter{
		Type:    domain.TransactionType(q.Get("type")),
		Asset:   q.Get("asset"),
		Page:    1,
		PerPage: 15,
	}

	var fields []FieldError
	if filter.Type != "" && !validTypes[string(filter.Type)] {
		fields = append(fields, FieldError{Field: "type", Message: "must be buy, sell, fee, or deposit"})
	}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields = append(fields, FieldError{Field: "page", Message: "must be a positive integer"})
		} else {
			filter.Page = n
		}
	}
	if raw := q.Get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			fields = append(fields, FieldError{Field: "per_page", Message: "must be between 1 and 100"})
		} else {
			filter.PerPage = n
		}
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entries, total, err := h.history.History(r.Context(), userID, filter)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(entries))
	for i := range entries {
		dtos[i] = toTransactionDTO(&entries[i])
	}

	RespondSuccess(w, http.StatusOK, listTransactionsResponse{
		Transactions: dtos,
		Meta: listMeta{
			Page:    filter.Page,
			PerPage: filter.PerPage,
			Total:   total,
		},
	})
}
