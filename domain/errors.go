package domain

import (
	"fmt"

	"money-ledger/shared"
)

type DomainError struct {
	message string
}

func NewDomainError(format string, args ...interface{}) *DomainError {
	return &DomainError{message: fmt.Sprintf(format, args...)}
}

func (e *DomainError) Error() string {
	return e.message
}

var (
	ErrIncompatibleCurrency = NewDomainError("incompatible currency")
	ErrInsufficientFunds    = NewDomainError("insufficient funds")
	ErrInsufficientShares   = NewDomainError("insufficient shares")
	ErrDivisionByZero       = NewDomainError("division by zero")
	ErrInvalidType          = NewDomainError("invalid operand type")
	ErrInvalidAmount        = NewDomainError("invalid amount")
	ErrInvalidQuantity      = NewDomainError("invalid quantity")
	ErrInvalidSymbol        = NewDomainError("invalid symbol")
	ErrAccountExists        = NewDomainError("account already exists")
	ErrAccountNotFound      = NewDomainError("account not found")

	ErrInvalidCurrency = shared.ErrInvalidCurrency
)

func currencyMismatch(op string, a, b shared.Currency) error {
	return fmt.Errorf("%w: cannot %s %s and %s", ErrIncompatibleCurrency, op, a, b)
}
