package payment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount     = errors.New("payment: amount must be greater than zero")
	ErrInvalidPayer      = errors.New("payment: payer is required")
	ErrInvalidCardNumber = errors.New("payment: card number is required")
	ErrInvalidEmail      = errors.New("payment: email is required")
	ErrUnknownKind       = errors.New("payment: unknown payment kind")
	ErrKindRegistered    = errors.New("payment: kind already registered")
)

// ProcessingError reports a kind-specific processing failure, such as a
// declined card. Built-in kinds never return it; externally registered
// gateways use it so the dispatcher can report failure without terminating.
type ProcessingError struct {
	Kind   Kind
	Reason string
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("payment: processing %s failed: %s", e.Kind, e.Reason)
}
