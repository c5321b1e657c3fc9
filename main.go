package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appdispatch "github.com/mkwong/payflow/internal/application/dispatch"
	"github.com/mkwong/payflow/internal/infrastructure/audit"
	"github.com/mkwong/payflow/internal/infrastructure/console"
	"github.com/mkwong/payflow/internal/infrastructure/id"
	infraobs "github.com/mkwong/payflow/internal/infrastructure/observability"
	"github.com/mkwong/payflow/internal/infrastructure/observability/oteltrace"
	"github.com/mkwong/payflow/internal/infrastructure/observability/prometrics"
	"github.com/mkwong/payflow/internal/infrastructure/observability/zaplogger"
	"github.com/mkwong/payflow/internal/infrastructure/outbox"
	"github.com/mkwong/payflow/internal/infrastructure/registry"
	"github.com/mkwong/payflow/internal/observability"
	"github.com/mkwong/payflow/internal/pkg/clock"
	"github.com/mkwong/payflow/internal/pkg/logging"
	httppresentation "github.com/mkwong/payflow/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	serviceName := getenvDefault("SERVICE_NAME", "payflow")
	env := getenvDefault("ENV", "dev")
	addr := getenvDefault("ADDR", ":8080")

	baseLogger := logging.MustNewLogger(serviceName, env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	appLogger := zaplogger.Wrap(baseLogger)

	metricsRegistry := prometrics.New(serviceName, "")
	counters := map[observability.MetricKey]observability.Counter{
		observability.MTransactions: metricsRegistry.Counter(
			string(observability.MTransactions),
			"Total number of payment transactions dispatched.",
			"kind", "outcome",
		),
		observability.MAuditEvents: metricsRegistry.Counter(
			string(observability.MAuditEvents),
			"Total number of payment events audited.",
			"event", "kind",
		),
		observability.MEventPublishFailed: metricsRegistry.Counter(
			string(observability.MEventPublishFailed),
			"Count of payment event publish failures.",
			"event",
		),
		observability.MHTTPRequests: metricsRegistry.Counter(
			string(observability.MHTTPRequests),
			"Total number of HTTP requests.",
			"method", "route", "status",
		),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MTransactionDuration: metricsRegistry.Histogram(
			string(observability.MTransactionDuration),
			"Duration of payment transactions in seconds.",
			prometheus.DefBuckets,
			"kind",
		),
		observability.MHTTPRequestDuration: metricsRegistry.Histogram(
			string(observability.MHTTPRequestDuration),
			"Duration of HTTP requests in seconds.",
			prometheus.DefBuckets,
			"method", "route", "status",
		),
	}
	tel := infraobs.New(oteltrace.New(serviceName), appLogger, counters, histograms)

	bus := outbox.NewBus(appLogger)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	auditWorker := audit.New(bus, tel)
	auditWorker.Start()

	methods := registry.NewWithDefaults(clock.System())
	reporter := console.NewReporter(os.Stdout)
	dispatcher := appdispatch.NewRunTransactionUseCase(id.NewUUIDGenerator(), reporter, bus, tel)

	handler := httppresentation.NewHandler(dispatcher, methods, appLogger, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	systemLogger := appLogger.With(observability.F("component", "main"))

	go func() {
		systemLogger.Info("http_server_start",
			observability.F("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				observability.F("error", err),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			observability.F("error", err),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
