package dispatch

import "context"

type IDGenerator interface {
	NewID() string
}

// Reporter receives the textual transaction markers in dispatch order.
// The console adapter renders them as the human-readable output contract.
type Reporter interface {
	TransactionStarted(ctx context.Context)
	PaymentMessage(ctx context.Context, msg string)
	TransactionCompleted(ctx context.Context)
	TransactionFailed(ctx context.Context, err error)
}
