package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/mkwong/payflow/internal/application"
	domoutbox "github.com/mkwong/payflow/internal/domain/outbox"
	dompay "github.com/mkwong/payflow/internal/domain/payment"
	"github.com/mkwong/payflow/internal/observability"
	"github.com/mkwong/payflow/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	dispatchService = "dispatch-service"
	useCaseRunTxn   = "payment.run_transaction"
	runTxnSpanName  = "RunTransaction"
	spanPrefix      = "UC."
)

var _ application.UseCase[RunTransactionInput, *RunTransactionResult] = (*RunTransactionUseCase)(nil)

type RunTransactionInput struct {
	Method dompay.Method
}

type RunTransactionResult struct {
	TransactionID string
	Outcome       *dompay.Outcome
}

// RunTransactionUseCase mediates a single transaction: it announces the
// start, delegates to the method's Process, and announces completion. It
// performs no inspection of the concrete kind and applies no business rule
// of its own. Each execution is independent; no state is shared across calls.
type RunTransactionUseCase struct {
	ids        IDGenerator
	reporter   Reporter
	publisher  domoutbox.Publisher
	tel        observability.Observability
	log        observability.Logger
	reqCounter observability.Counter
	durHist    observability.Histogram
	pubFailed  observability.Counter
}

func NewRunTransactionUseCase(
	ids IDGenerator,
	reporter Reporter,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *RunTransactionUseCase {
	baseLog := observability.NopLogger().With(
		observability.F("service", dispatchService),
	)
	metricsProvider := observability.NopMetrics()
	if tel != nil {
		baseLog = tel.Logger().With(
			observability.F("service", dispatchService),
		)
		metricsProvider = tel.Metrics()
	}

	return &RunTransactionUseCase{
		ids:        ids,
		reporter:   reporter,
		publisher:  publisher,
		tel:        tel,
		log:        baseLog,
		reqCounter: metricsProvider.Counter(observability.MTransactions),
		durHist:    metricsProvider.Histogram(observability.MTransactionDuration),
		pubFailed:  metricsProvider.Counter(observability.MEventPublishFailed),
	}
}

// Execute runs one transaction against the supplied payment method.
// On processing failure the completion marker is withheld and the error is
// returned to the caller after a failure report and event.
func (uc *RunTransactionUseCase) Execute(ctx context.Context, cmd RunTransactionInput) (_ *RunTransactionResult, err error) {
	if cmd.Method == nil {
		return nil, fmt.Errorf("dispatch: %w", dompay.ErrUnknownKind)
	}

	txnID := uc.ids.NewID()
	kind := cmd.Method.Kind()

	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCaseRunTxn),
		observability.F("transaction_id", txnID),
		observability.F("payment_kind", string(kind)),
	)

	tracer := observability.NopTracer()
	if uc.tel != nil {
		tracer = uc.tel.Tracer()
	}
	ctx, span := tracer.Start(ctx, spanPrefix+runTxnSpanName,
		attribute.String("use_case", useCaseRunTxn),
		attribute.String("transaction.id", txnID),
		attribute.String("payment.kind", string(kind)),
	)

	start := time.Now()
	outcomeLabel, statusText := "success", "OK"

	defer func() {
		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		latency := time.Since(start).Seconds()
		uc.reqCounter.Add(1,
			observability.L("kind", string(kind)),
			observability.L("outcome", outcomeLabel),
		)
		uc.durHist.Observe(latency,
			observability.L("kind", string(kind)),
		)

		fields := []observability.Field{
			observability.F("outcome", outcomeLabel),
			observability.F("status", statusText),
			observability.F("latency_seconds", latency),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	uc.reporter.TransactionStarted(ctx)

	outcome, err := cmd.Method.Process(ctx)
	if err != nil {
		outcomeLabel, statusText = "error", "PROCESSING_FAILED"
		uc.reporter.TransactionFailed(ctx, err)
		uc.publish(ctx, logger, dompay.NewPaymentFailedEvent(txnID, kind, err.Error()))
		return nil, fmt.Errorf("dispatch: process %s: %w", kind, err)
	}

	uc.reporter.PaymentMessage(ctx, outcome.Message)
	uc.reporter.TransactionCompleted(ctx)

	uc.publish(ctx, logger, dompay.NewPaymentProcessedEvent(txnID, outcome))

	return &RunTransactionResult{TransactionID: txnID, Outcome: outcome}, nil
}

// publish forwards an event to the bus. Publish failures never fail the
// transaction; they are logged and counted.
func (uc *RunTransactionUseCase) publish(ctx context.Context, logger observability.Logger, e domoutbox.Event) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, e); err != nil {
		uc.pubFailed.Add(1, observability.L("event", e.EventName()))
		logger.Warn("event_publish_failed",
			observability.F("event", e.EventName()),
			observability.F("error", err),
		)
	}
}
