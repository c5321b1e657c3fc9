package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	domoutbox "github.com/mkwong/payflow/internal/domain/outbox"
	dompay "github.com/mkwong/payflow/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishFansOutToSubscribers(t *testing.T) {
	bus := NewBus(nil)

	received := make(chan domoutbox.Event, 1)
	bus.Subscribe(dompay.PaymentProcessedEvent{}.EventName(), func(_ context.Context, e domoutbox.Event) error {
		received <- e
		return nil
	})

	ctx := context.Background()
	bus.Start(ctx)
	defer bus.Stop(ctx)

	evt := dompay.PaymentProcessedEvent{TransactionID: "txn-1", Kind: dompay.KindCash}
	require.NoError(t, bus.Publish(ctx, evt))

	select {
	case got := <-received:
		assert.Equal(t, evt, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestPublishWithoutSubscriberIsDropped(t *testing.T) {
	bus := NewBus(nil)

	ctx := context.Background()
	bus.Start(ctx)
	defer bus.Stop(ctx)

	assert.NoError(t, bus.Publish(ctx, dompay.PaymentFailedEvent{TransactionID: "txn-2"}))
}

func TestPublishNilEventIsNoop(t *testing.T) {
	bus := NewBus(nil)
	assert.NoError(t, bus.Publish(context.Background(), nil))
}

func TestHandlerErrorDoesNotStopFanout(t *testing.T) {
	bus := NewBus(nil)

	name := dompay.PaymentProcessedEvent{}.EventName()
	received := make(chan struct{}, 1)
	bus.Subscribe(name, func(context.Context, domoutbox.Event) error {
		return errors.New("handler boom")
	})
	bus.Subscribe(name, func(context.Context, domoutbox.Event) error {
		received <- struct{}{}
		return nil
	})

	ctx := context.Background()
	bus.Start(ctx)
	defer bus.Stop(ctx)

	require.NoError(t, bus.Publish(ctx, dompay.PaymentProcessedEvent{TransactionID: "txn-3"}))

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler was not invoked")
	}
}

func TestPublishAbortsOnCancelledContextWhenQueueFull(t *testing.T) {
	bus := NewBus(nil)
	// bus intentionally not started so nothing drains the queue
	for i := 0; i < queueCapacity; i++ {
		require.NoError(t, bus.Publish(context.Background(), dompay.PaymentFailedEvent{}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := bus.Publish(ctx, dompay.PaymentFailedEvent{})
	assert.ErrorIs(t, err, context.Canceled)
}
