package payment

import "time"

// PaymentProcessedEvent is emitted after a payment method completes processing.
// It is handled outside the dispatch path (e.g. by the audit worker).
type PaymentProcessedEvent struct {
	TransactionID string
	Kind          Kind
	Amount        float64
	Payer         string
	OccurredAt    time.Time
}

func (PaymentProcessedEvent) EventName() string { return "payment.processed" }

func NewPaymentProcessedEvent(transactionID string, o *Outcome) PaymentProcessedEvent {
	return PaymentProcessedEvent{
		TransactionID: transactionID,
		Kind:          o.Kind,
		Amount:        o.Amount,
		Payer:         o.Payer,
		OccurredAt:    o.ProcessedAt,
	}
}

// PaymentFailedEvent is emitted when processing signals a failure.
type PaymentFailedEvent struct {
	TransactionID string
	Kind          Kind
	Reason        string
	OccurredAt    time.Time
}

func (PaymentFailedEvent) EventName() string { return "payment.failed" }

func NewPaymentFailedEvent(transactionID string, kind Kind, reason string) PaymentFailedEvent {
	return PaymentFailedEvent{
		TransactionID: transactionID,
		Kind:          kind,
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}
}
