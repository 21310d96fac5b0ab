package customer

import (
	"errors"
	"fmt"
)

// ErrInsufficientCredit marks credit usage beyond the available balance.
var ErrInsufficientCredit = errors.New("insufficient credit")

// InsufficientCreditError is returned when a credit usage would drive the
// customer's balance negative.
type InsufficientCreditError struct {
	Requested float64
	Available float64
}

func NewInsufficientCreditError(requested, available float64) *InsufficientCreditError {
	return &InsufficientCreditError{Requested: requested, Available: available}
}

func (e *InsufficientCreditError) Error() string {
	return fmt.Sprintf("insufficient credit: requested %.2f, available %.2f",
		e.Requested, e.Available)
}

func (e *InsufficientCreditError) Unwrap() error {
	return ErrInsufficientCredit
}
