package tariffbot

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrOrderIDConflict = errors.New("order id conflict")
	ErrOrderPaid       = errors.New("order has been paid")
	ErrNotAllowed      = errors.New("status transition not allowed")
)

// ValidationError незаполненное или некорректное поле заявки.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order field: %s", e.Field)
}
