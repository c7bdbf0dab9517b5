package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrUnsupportedAsset    = &AppError{http.StatusBadRequest, "UNSUPPORTED_ASSET", "Asset is not supported"}
	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrBelowMinimum        = &AppError{http.StatusUnprocessableEntity, "BELOW_MINIMUM", "Trade amount is below the configured minimum"}
	ErrInsufficientBalance = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", "Insufficient balance"}
	ErrWalletNotFound      = &AppError{http.StatusUnprocessableEntity, "WALLET_NOT_FOUND", "Wallet not provisioned for this user"}
	ErrWalletExists        = &AppError{http.StatusConflict, "WALLET_ALREADY_EXISTS", "Wallets already provisioned for this user"}
	ErrStorageConflict     = &AppError{http.StatusConflict, "STORAGE_CONFLICT", "Trade could not be committed, please retry"}
)
