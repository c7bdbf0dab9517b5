package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnsupportedAsset    = errors.New("unsupported asset")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrBelowMinimum        = errors.New("amount below configured minimum")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletExists        = errors.New("wallet already provisioned")
	ErrStorageConflict     = errors.New("storage conflict, please retry")
	ErrUpstreamUnavailable = errors.New("upstream price source unavailable")
)
