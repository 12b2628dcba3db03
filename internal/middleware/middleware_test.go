package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nop "github.com/mcoot/cyberstore/internal/testutil"
)

func TestLoggingAssignsRequestID(t *testing.T) {
	var seen string
	h := Logging(nop.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
}

func TestLoggingKeepsIncomingRequestID(t *testing.T) {
	h := Logging(nop.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc", rr.Header().Get(RequestIDHeader))
}

func TestRecoveryWritesDefaultResponse(t *testing.T) {
	h := Recovery(nop.NopLogger(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRecoveryUsesCustomHandler(t *testing.T) {
	called := false
	custom := func(w http.ResponseWriter, _ *http.Request, err any) {
		called = true
		assert.Equal(t, "boom", err)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	h := Recovery(nop.NopLogger(), custom)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestInstrumentCountsByRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	route := func(*http.Request) string { return "/games/{id}" }

	h := Instrument(m, route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	for _, p := range []string{"/games/1", "/games/2", "/games/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/games/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/games/{id}", "404")))
	count, err := testutil.GatherAndCount(reg, "cyberstore_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCatalogSizeGauge(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.CatalogSize.Set(6)

	assert.Equal(t, 6.0, testutil.ToFloat64(m.CatalogSize))
}
