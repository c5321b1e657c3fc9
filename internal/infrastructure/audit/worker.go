package audit

import (
	"context"

	domoutbox "github.com/mkwong/payflow/internal/domain/outbox"
	dompay "github.com/mkwong/payflow/internal/domain/payment"
	"github.com/mkwong/payflow/internal/observability"
	"github.com/mkwong/payflow/internal/observability/logctx"
)

const componentAudit = "audit_worker"

// Worker subscribes to payment events and records an audit trail through
// logs and metrics. Nothing is persisted; the trail is observational only.
type Worker struct {
	subscriber domoutbox.Subscriber
	log        observability.Logger
	events     observability.Counter
}

func New(subscriber domoutbox.Subscriber, tel observability.Observability) *Worker {
	baseLog := observability.NopLogger()
	metricsProvider := observability.NopMetrics()
	if tel != nil {
		baseLog = tel.Logger()
		metricsProvider = tel.Metrics()
	}
	return &Worker{
		subscriber: subscriber,
		log:        baseLog.With(observability.F("component", componentAudit)),
		events:     metricsProvider.Counter(observability.MAuditEvents),
	}
}

func (w *Worker) Start() {
	w.subscriber.Subscribe(dompay.PaymentProcessedEvent{}.EventName(), w.handleProcessed)
	w.subscriber.Subscribe(dompay.PaymentFailedEvent{}.EventName(), w.handleFailed)
}

func (w *Worker) handleProcessed(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(dompay.PaymentProcessedEvent)
	if !ok {
		return nil
	}

	w.events.Add(1,
		observability.L("event", evt.EventName()),
		observability.L("kind", string(evt.Kind)),
	)
	logctx.FromOr(ctx, w.log).Info("payment_audited",
		observability.F("transaction_id", evt.TransactionID),
		observability.F("kind", string(evt.Kind)),
		observability.F("amount", evt.Amount),
		observability.F("payer", evt.Payer),
	)
	return nil
}

func (w *Worker) handleFailed(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(dompay.PaymentFailedEvent)
	if !ok {
		return nil
	}

	w.events.Add(1,
		observability.L("event", evt.EventName()),
		observability.L("kind", string(evt.Kind)),
	)
	logctx.FromOr(ctx, w.log).Warn("payment_failure_audited",
		observability.F("transaction_id", evt.TransactionID),
		observability.F("kind", string(evt.Kind)),
		observability.F("reason", evt.Reason),
	)
	return nil
}
