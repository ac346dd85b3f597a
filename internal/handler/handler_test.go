package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ratedash/internal/domain"
	"ratedash/internal/service"
	"ratedash/internal/store"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type stubProvider struct {
	rate    float64
	history []domain.RatePoint
	err     error
}

func (p stubProvider) FetchRate(_ context.Context, _, _ string) (float64, error) {
	return p.rate, p.err
}

func (p stubProvider) FetchHistory(_ context.Context, _, _ string, _ int) ([]domain.RatePoint, error) {
	return p.history, p.err
}

type stubAdvisor struct {
	answer string
	err    error
}

func (a stubAdvisor) Ask(_ context.Context, _ int64, _ string) (string, error) {
	return a.answer, a.err
}

func risingPoints(n int) []domain.RatePoint {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	points := make([]domain.RatePoint, n)
	for i := range points {
		points[i] = domain.RatePoint{Date: start.AddDate(0, 0, i), Rate: 1.0 + float64(i)*0.5}
	}
	return points
}

func newTestHandler(provider stubProvider) *Handler {
	tracer := trace.NewNoopTracerProvider().Tracer("handler-test")
	rates := service.NewRateService(tracer, provider, nil, nil, store.NewConversionLedger(0))
	analytics := service.NewAnalyticsService(tracer, rates, nil, nil)
	return New(tracer, rates, analytics)
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func TestConvertSuccess(t *testing.T) {
	h := newTestHandler(stubProvider{rate: 1.08})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/convert?from=EUR&to=USD&amount=100", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var conv domain.Conversion
	if err := json.Unmarshal(w.Body.Bytes(), &conv); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if conv.Rate != 1.08 || conv.Result != 108 {
		t.Fatalf("unexpected conversion: %+v", conv)
	}
}

func TestConvertRejectsUnsupportedCurrency(t *testing.T) {
	h := newTestHandler(stubProvider{rate: 1.08})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/convert?from=XXX&to=USD&amount=100", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "supported_currencies") {
		t.Fatalf("expected supported currency list in body: %s", w.Body.String())
	}
}

func TestConvertRejectsBadAmount(t *testing.T) {
	h := newTestHandler(stubProvider{rate: 1.08})
	router := newTestRouter(h)

	for _, amount := range []string{"", "abc", "-5", "0"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/convert?from=EUR&to=USD&amount="+amount, nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("amount %q: expected 400, got %d", amount, w.Code)
		}
	}
}

func TestGetConversionsReturnsRecordedOnes(t *testing.T) {
	h := newTestHandler(stubProvider{rate: 2.0})
	router := newTestRouter(h)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/convert?from=EUR&to=USD&amount=10", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("seed conversion %d failed: %d", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/conversions?limit=2", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Conversions []domain.Conversion `json:"conversions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(body.Conversions) != 2 {
		t.Fatalf("expected 2 conversions, got %d", len(body.Conversions))
	}
}

func TestGetCurrencies(t *testing.T) {
	h := newTestHandler(stubProvider{})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/currencies", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Currencies []domain.Currency `json:"currencies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(body.Currencies) != len(domain.Currencies) {
		t.Fatalf("expected %d currencies, got %d", len(domain.Currencies), len(body.Currencies))
	}
}

func TestGetForecastSuccess(t *testing.T) {
	h := newTestHandler(stubProvider{history: risingPoints(30)})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/forecast/EURUSD?days=5", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body service.ForecastResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body.Pair != "EUR/USD" {
		t.Fatalf("expected pair EUR/USD, got %q", body.Pair)
	}
	if len(body.Forecast) != 5 {
		t.Fatalf("expected 5 forecast points, got %d", len(body.Forecast))
	}
	if body.Analysis.Direction != "up" {
		t.Fatalf("expected up trend, got %q", body.Analysis.Direction)
	}
}

func TestGetForecastRejectsBadPair(t *testing.T) {
	h := newTestHandler(stubProvider{history: risingPoints(30)})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/forecast/NOTAPAIR", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetForecastRejectsBadDays(t *testing.T) {
	h := newTestHandler(stubProvider{history: risingPoints(30)})
	router := newTestRouter(h)

	for _, days := range []string{"0", "-1", "91", "abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/forecast/EURUSD?days="+days, nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("days %q: expected 400, got %d", days, w.Code)
		}
	}
}

func TestGetHistorySuccess(t *testing.T) {
	h := newTestHandler(stubProvider{history: risingPoints(10)})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rates/EURUSD/history?days=10", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body service.StatisticsResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(body.Rates) != 10 {
		t.Fatalf("expected 10 rates, got %d", len(body.Rates))
	}
	if body.Statistics.Min != 1.0 || body.Statistics.Max != 5.5 {
		t.Fatalf("unexpected statistics: %+v", body.Statistics)
	}
}

func TestGetHistoryProviderError(t *testing.T) {
	h := newTestHandler(stubProvider{err: errors.New("upstream down")})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rates/EURUSD/history", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestAskAdvisorUnavailableWithoutAdvisor(t *testing.T) {
	h := newTestHandler(stubProvider{})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/advisor/ask", strings.NewReader(`{"question":"is EUR going up?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestAskAdvisorSuccess(t *testing.T) {
	h := newTestHandler(stubProvider{})
	h.SetAdvisor(stubAdvisor{answer: "EUR/USD is trending up."})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/advisor/ask", strings.NewReader(`{"question":"is EUR going up?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body.Answer != "EUR/USD is trending up." {
		t.Fatalf("unexpected answer: %q", body.Answer)
	}
}

func TestAskAdvisorRequiresQuestion(t *testing.T) {
	h := newTestHandler(stubProvider{})
	h.SetAdvisor(stubAdvisor{answer: "ok"})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/advisor/ask", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAdvisorAPIKeyAuth(t *testing.T) {
	h := newTestHandler(stubProvider{})
	h.SetAdvisor(stubAdvisor{answer: "ok"})
	h.SetAPIKey("secret")
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/advisor/ask", strings.NewReader(`{"question":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/advisor/ask", strings.NewReader(`{"question":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "secret")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(stubProvider{})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
