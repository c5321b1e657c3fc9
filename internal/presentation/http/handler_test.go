package httppresentation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appdispatch "github.com/mkwong/payflow/internal/application/dispatch"
	dompay "github.com/mkwong/payflow/internal/domain/payment"
	"github.com/mkwong/payflow/internal/infrastructure/console"
	"github.com/mkwong/payflow/internal/infrastructure/id"
	"github.com/mkwong/payflow/internal/infrastructure/registry"
	"github.com/mkwong/payflow/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	methods := registry.NewWithDefaults(clock.Fixed(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
	reporter := console.NewReporter(&strings.Builder{})
	dispatcher := appdispatch.NewRunTransactionUseCase(id.NewUUIDGenerator(), reporter, nil, nil)

	return NewHandler(dispatcher, methods, nil, nil)
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreatePayment(t *testing.T) {
	router := newTestHandler(t).Router()

	rec := postJSON(t, router, "/payments",
		`{"method":"credit_card","amount":100.0,"payer":"Alice","card_number":"1234-5678-9012-3456"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp createPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TransactionID)
	assert.Equal(t, dompay.KindCreditCard, resp.Kind)
	assert.Equal(t, dompay.StatusSuccess, resp.Status)
	assert.Equal(t, "Processing Credit Card payment of $100.0 from Alice", resp.Message)
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestCreatePaymentUnknownKind(t *testing.T) {
	router := newTestHandler(t).Router()

	rec := postJSON(t, router, "/payments",
		`{"method":"wire_transfer","amount":10,"payer":"Eve"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePaymentValidation(t *testing.T) {
	router := newTestHandler(t).Router()

	tests := []struct {
		name string
		body string
	}{
		{"non-positive amount", `{"method":"cash","amount":0,"payer":"Charlie"}`},
		{"blank payer", `{"method":"cash","amount":20,"payer":""}`},
		{"paypal without email", `{"method":"paypal","amount":50,"payer":"Bob"}`},
		{"unknown field", `{"method":"cash","amount":20,"payer":"Charlie","tip":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/payments", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListKinds(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/payments/kinds", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listKindsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []dompay.Kind{
		dompay.KindCash, dompay.KindCreditCard, dompay.KindPayPal,
	}, resp.Kinds)
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
