package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Корневые ошибки. Транспорт сопоставляет их со статусами ответа через errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrRecordNotFound    = errors.New("record not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("invalid state")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")
)

var (
	ErrUnknownPackage     = fmt.Errorf("%w: unknown goblin package", ErrValidation)
	ErrAmountBelowMinimum = fmt.Errorf("%w: minimum is 100 kg of gold", ErrValidation)
	ErrNonPositivePrice   = fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	ErrSelfTrade          = fmt.Errorf("%w: cannot buy your own listing", ErrValidation)

	ErrPlayerNotFound  = fmt.Errorf("player %w", ErrRecordNotFound)
	ErrListingNotFound = fmt.Errorf("listing %w", ErrRecordNotFound)

	ErrListingNotActive = fmt.Errorf("%w: listing is no longer active", ErrInvalidState)

	ErrNotEnoughGold = fmt.Errorf("%w: not enough gold", ErrInsufficientFunds)

	ErrRequestInProgress = fmt.Errorf("%w: request with this idempotency key is in progress", ErrInvalidState)

	ErrIdempotencyKeyReused = fmt.Errorf(
		"%w: idempotency key was already used with a different request",
		ErrValidation,
	)
)

// InsufficientFundsError сообщает сколько валюты требовалось для операции.
type InsufficientFundsError struct {
	Currency string
	Required decimal.Decimal
	Note     string
}

func NewInsufficientTonError(required decimal.Decimal, note string) error {
	return &InsufficientFundsError{Currency: "TON", Required: required, Note: note}
}

func (e *InsufficientFundsError) Error() string {
	msg := fmt.Sprintf("not enough %s, need %s %s", e.Currency, e.Required.StringFixed(4), e.Currency) //nolint:mnd
	if e.Note != "" {
		msg += " (" + e.Note + ")"
	}
	return msg
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
