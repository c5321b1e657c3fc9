package audit

import (
	"context"
	"testing"
	"time"

	domoutbox "github.com/mkwong/payflow/internal/domain/outbox"
	dompay "github.com/mkwong/payflow/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	handlers map[string]domoutbox.Handler
}

func (s *fakeSubscriber) Subscribe(eventName string, h domoutbox.Handler) {
	s.handlers[eventName] = h
}

func TestStartSubscribesToPaymentEvents(t *testing.T) {
	sub := &fakeSubscriber{handlers: make(map[string]domoutbox.Handler)}
	New(sub, nil).Start()

	assert.Contains(t, sub.handlers, dompay.PaymentProcessedEvent{}.EventName())
	assert.Contains(t, sub.handlers, dompay.PaymentFailedEvent{}.EventName())
}

func TestHandlersAcceptMatchingEvents(t *testing.T) {
	sub := &fakeSubscriber{handlers: make(map[string]domoutbox.Handler)}
	New(sub, nil).Start()

	ctx := context.Background()
	processed := dompay.PaymentProcessedEvent{
		TransactionID: "txn-1",
		Kind:          dompay.KindPayPal,
		Amount:        50.0,
		Payer:         "Bob",
		OccurredAt:    time.Now().UTC(),
	}
	require.NoError(t, sub.handlers[processed.EventName()](ctx, processed))

	failed := dompay.PaymentFailedEvent{
		TransactionID: "txn-2",
		Kind:          dompay.KindCreditCard,
		Reason:        "card declined",
	}
	require.NoError(t, sub.handlers[failed.EventName()](ctx, failed))
}

func TestHandlersIgnoreForeignEvents(t *testing.T) {
	sub := &fakeSubscriber{handlers: make(map[string]domoutbox.Handler)}
	New(sub, nil).Start()

	// wrong concrete type on a subscribed name is skipped, not an error
	h := sub.handlers[dompay.PaymentProcessedEvent{}.EventName()]
	assert.NoError(t, h(context.Background(), dompay.PaymentFailedEvent{}))
}
