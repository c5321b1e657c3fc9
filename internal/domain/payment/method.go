package payment

import (
	"context"
	"time"
)

// Kind discriminates payment methods. The set is open: external packages may
// register additional kinds through the method registry.
type Kind string

const (
	KindCreditCard Kind = "credit_card"
	KindPayPal     Kind = "paypal"
	KindCash       Kind = "cash"
)

// Label returns the human-readable name used in processing messages.
func (k Kind) Label() string {
	switch k {
	case KindCreditCard:
		return "Credit Card"
	case KindPayPal:
		return "PayPal"
	case KindCash:
		return "Cash"
	default:
		return string(k)
	}
}

// Method is one concrete payment kind. The dispatcher handles every kind
// through this interface and never branches on the concrete type.
type Method interface {
	Kind() Kind
	// Describe returns a human-readable summary including amount, payer,
	// and creation time. It is pure and never fails for a constructed method.
	Describe() string
	// Process performs the kind-specific action and reports the outcome.
	Process(ctx context.Context) (*Outcome, error)
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Outcome is the result of processing a single payment.
type Outcome struct {
	Kind        Kind
	Status      Status
	Amount      float64
	Payer       string
	Message     string
	ProcessedAt time.Time
}

// Request carries the raw attributes needed to construct any payment kind.
// Kind-specific fields are read only by the matching factory; Extra carries
// payload for externally registered kinds.
type Request struct {
	Amount     float64
	Payer      string
	CardNumber string
	Email      string
	Extra      map[string]string
}
