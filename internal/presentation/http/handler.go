package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	appdispatch "github.com/mkwong/payflow/internal/application/dispatch"
	dompay "github.com/mkwong/payflow/internal/domain/payment"
	"github.com/mkwong/payflow/internal/infrastructure/registry"
	"github.com/mkwong/payflow/internal/observability"
	"github.com/mkwong/payflow/internal/observability/logctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
)

type Handler struct {
	dispatcher *appdispatch.RunTransactionUseCase
	methods    *registry.Registry
	log        observability.Logger
	tel        observability.Observability
}

func NewHandler(dispatcher *appdispatch.RunTransactionUseCase, methods *registry.Registry,
	logger observability.Logger, tel observability.Observability,
) *Handler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = observability.NopLogger()
	}
	return &Handler{
		dispatcher: dispatcher,
		methods:    methods,
		log:        baseLogger.With(observability.F("component", componentHTTPHandler)),
		tel:        tel,
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// Wire each route with middlewares:
	// Trace → ObservabilityMiddleware (request logger) → HTTP metrics → Access log → Handler
	h.muxHandle(mux, http.MethodPost, "/payments", h.handleCreatePayment)
	h.muxHandle(mux, http.MethodGet, "/payments/kinds", h.handleListKinds)
	h.muxHandle(mux, http.MethodGet, "/health", h.handleHealth)

	return mux
}

func (h *Handler) muxHandle(mux *http.ServeMux, method, route string, handler http.HandlerFunc) {
	mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		// Store stable route template for low-cardinality labels
		ctx := contextWithRoute(r.Context(), route)
		r = r.WithContext(ctx)

		wrapped := h.withTrace(
			ObservabilityMiddleware(
				logctx.FromOr(ctx, h.log),
				func(r *http.Request) string {
					return r.Header.Get(headerRequestID)
				},
			)(
				h.withAccessLog(
					h.withHTTPMetrics(http.HandlerFunc(handler)),
				),
			),
		)

		wrapped.ServeHTTP(w, r)
	})
}

type createPaymentRequest struct {
	Method     string  `json:"method"`
	Amount     float64 `json:"amount"`
	Payer      string  `json:"payer"`
	CardNumber string  `json:"card_number,omitempty"`
	Email      string  `json:"email,omitempty"`
}

type createPaymentResponse struct {
	TransactionID string        `json:"transaction_id"`
	Kind          dompay.Kind   `json:"kind"`
	Status        dompay.Status `json:"status"`
	Message       string        `json:"message"`
}

func (h *Handler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	method, err := h.methods.Create(dompay.Kind(req.Method), dompay.Request{
		Amount:     req.Amount,
		Payer:      req.Payer,
		CardNumber: req.CardNumber,
		Email:      req.Email,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.dispatcher.Execute(r.Context(), appdispatch.RunTransactionInput{Method: method})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createPaymentResponse{
		TransactionID: result.TransactionID,
		Kind:          result.Outcome.Kind,
		Status:        result.Outcome.Status,
		Message:       result.Outcome.Message,
	})
}

type listKindsResponse struct {
	Kinds []dompay.Kind `json:"kinds"`
}

func (h *Handler) handleListKinds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, listKindsResponse{Kinds: h.methods.Kinds()})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withAccessLog writes a single access log after the handler completes.
// It relies on the request-scoped logger already injected by ObservabilityMiddleware.
func (h *Handler) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		logctx.FromOr(r.Context(), h.log).Info("http_access",
			observability.F("method", r.Method),
			observability.F("route", routeFromContext(r.Context())),
			observability.F("path", r.URL.Path),
			observability.F("status", lrw.status),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		)
	})
}

// withTrace creates a server span for the request using OTel and W3C propagation.
func (h *Handler) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer("payflow.http")
		parentCtx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := routeFromContext(parentCtx)
		spanName := route
		if spanName == "unknown" {
			spanName = r.Method + " " + r.URL.Path
		}
		template := route
		if idx := strings.Index(template, " "); idx >= 0 {
			template = template[idx+1:]
		}
		if template == "unknown" || template == "" {
			template = r.URL.Path
		}

		ctxWithSpan, span := tracer.Start(parentCtx,
			spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", template),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctxWithSpan))
	})
}

// withHTTPMetrics records RED-ish HTTP metrics using the pre-registered vectors.
func (h *Handler) withHTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		if h.tel == nil {
			return
		}
		labels := []observability.Label{
			observability.L("method", r.Method),
			observability.L("route", routeFromContext(r.Context())),
			observability.L("status", strconv.Itoa(lrw.status)),
		}
		h.tel.Metrics().Counter(observability.MHTTPRequests).Add(1, labels...)
		h.tel.Metrics().Histogram(observability.MHTTPRequestDuration).Observe(time.Since(start).Seconds(), labels...)
	})
}

func decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	_ = ctx
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	var procErr *dompay.ProcessingError
	switch {
	case errors.Is(err, dompay.ErrUnknownKind):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, dompay.ErrInvalidAmount),
		errors.Is(err, dompay.ErrInvalidPayer),
		errors.Is(err, dompay.ErrInvalidCardNumber),
		errors.Is(err, dompay.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, err)
	case errors.As(err, &procErr):
		writeError(w, http.StatusBadGateway, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

type routeKey struct{}

// contextWithRoute stores the stable route template in the context so downstream
// metrics/logging can rely on low-cardinality values.
func contextWithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "unknown"
}
