package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	startMarker      = "Initiating transaction..."
	completionMarker = "Transaction completed."
)

// Reporter renders the transaction markers as line-formatted text:
// start marker, kind-specific message, completion marker, blank separator.
// On failure the completion marker is replaced by a failure line.
type Reporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewReporter writes to w, defaulting to stdout when w is nil.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{w: w}
}

func (r *Reporter) TransactionStarted(ctx context.Context) {
	_ = ctx
	r.println(startMarker)
}

func (r *Reporter) PaymentMessage(ctx context.Context, msg string) {
	_ = ctx
	r.println(msg)
}

func (r *Reporter) TransactionCompleted(ctx context.Context) {
	_ = ctx
	r.println(completionMarker)
	r.println("")
}

func (r *Reporter) TransactionFailed(ctx context.Context, err error) {
	_ = ctx
	r.println("Transaction failed: " + err.Error())
	r.println("")
}

func (r *Reporter) println(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.w, line)
}
