package dispatch

import (
	"context"
	"errors"
	"testing"

	domoutbox "github.com/mkwong/payflow/internal/domain/outbox"
	dompay "github.com/mkwong/payflow/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMethod struct {
	kind    dompay.Kind
	outcome *dompay.Outcome
	err     error
}

func (s stubMethod) Kind() dompay.Kind { return s.kind }
func (s stubMethod) Describe() string  { return "stub " + string(s.kind) }
func (s stubMethod) Process(context.Context) (*dompay.Outcome, error) {
	return s.outcome, s.err
}

type recordingReporter struct {
	calls []string
}

func (r *recordingReporter) TransactionStarted(context.Context) {
	r.calls = append(r.calls, "started")
}

func (r *recordingReporter) PaymentMessage(_ context.Context, msg string) {
	r.calls = append(r.calls, "message:"+msg)
}

func (r *recordingReporter) TransactionCompleted(context.Context) {
	r.calls = append(r.calls, "completed")
}

func (r *recordingReporter) TransactionFailed(_ context.Context, err error) {
	r.calls = append(r.calls, "failed:"+err.Error())
}

type recordingPublisher struct {
	events []domoutbox.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domoutbox.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

type staticIDs struct{ id string }

func (s staticIDs) NewID() string { return s.id }

func TestExecuteSuccess(t *testing.T) {
	reporter := &recordingReporter{}
	publisher := &recordingPublisher{}
	uc := NewRunTransactionUseCase(staticIDs{id: "txn-1"}, reporter, publisher, nil)

	method := stubMethod{
		kind: dompay.KindCash,
		outcome: &dompay.Outcome{
			Kind:    dompay.KindCash,
			Status:  dompay.StatusSuccess,
			Amount:  20.0,
			Payer:   "Charlie",
			Message: "Processing Cash payment of $20.0 from Charlie",
		},
	}

	result, err := uc.Execute(context.Background(), RunTransactionInput{Method: method})
	require.NoError(t, err)
	assert.Equal(t, "txn-1", result.TransactionID)
	assert.Equal(t, method.outcome, result.Outcome)

	// start marker, kind-specific message, completion marker, in that order
	assert.Equal(t, []string{
		"started",
		"message:Processing Cash payment of $20.0 from Charlie",
		"completed",
	}, reporter.calls)

	require.Len(t, publisher.events, 1)
	evt, ok := publisher.events[0].(dompay.PaymentProcessedEvent)
	require.True(t, ok)
	assert.Equal(t, "txn-1", evt.TransactionID)
	assert.Equal(t, dompay.KindCash, evt.Kind)
	assert.Equal(t, 20.0, evt.Amount)
	assert.Equal(t, "Charlie", evt.Payer)
}

func TestExecuteProcessingFailureWithholdsCompletion(t *testing.T) {
	reporter := &recordingReporter{}
	publisher := &recordingPublisher{}
	uc := NewRunTransactionUseCase(staticIDs{id: "txn-2"}, reporter, publisher, nil)

	procErr := &dompay.ProcessingError{Kind: dompay.KindCreditCard, Reason: "card declined"}
	method := stubMethod{kind: dompay.KindCreditCard, err: procErr}

	result, err := uc.Execute(context.Background(), RunTransactionInput{Method: method})
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorAs(t, err, &procErr)

	require.Len(t, reporter.calls, 2)
	assert.Equal(t, "started", reporter.calls[0])
	assert.Contains(t, reporter.calls[1], "failed:")
	assert.NotContains(t, reporter.calls, "completed")

	require.Len(t, publisher.events, 1)
	evt, ok := publisher.events[0].(dompay.PaymentFailedEvent)
	require.True(t, ok)
	assert.Equal(t, "txn-2", evt.TransactionID)
	assert.Equal(t, dompay.KindCreditCard, evt.Kind)
	assert.Contains(t, evt.Reason, "card declined")
}

func TestExecuteNilMethod(t *testing.T) {
	uc := NewRunTransactionUseCase(staticIDs{id: "txn-3"}, &recordingReporter{}, &recordingPublisher{}, nil)

	result, err := uc.Execute(context.Background(), RunTransactionInput{})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, dompay.ErrUnknownKind)
}

func TestExecutePublishFailureDoesNotFailTransaction(t *testing.T) {
	reporter := &recordingReporter{}
	publisher := &recordingPublisher{err: errors.New("bus closed")}
	uc := NewRunTransactionUseCase(staticIDs{id: "txn-4"}, reporter, publisher, nil)

	method := stubMethod{
		kind:    dompay.KindCash,
		outcome: &dompay.Outcome{Kind: dompay.KindCash, Status: dompay.StatusSuccess, Message: "m"},
	}

	result, err := uc.Execute(context.Background(), RunTransactionInput{Method: method})
	require.NoError(t, err)
	assert.Equal(t, "txn-4", result.TransactionID)
	assert.Contains(t, reporter.calls, "completed")
}
