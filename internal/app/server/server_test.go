package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcredit/internal/platform/config"
	"hrcredit/internal/platform/lock"
	"hrcredit/internal/platform/metrics"
)

func testApp(cfg config.Config) http.Handler {
	app := &App{Config: cfg, Metrics: metrics.New()}
	return app.routes(lock.NewLocal())
}

func baseConfig() config.Config {
	return config.Config{
		Environment:        "development",
		Timezone:           "UTC",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 100,
		MetricsEnabled:     true,
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	testApp(baseConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestMetricsEndpointToggle(t *testing.T) {
	router := testApp(baseConfig())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"requestsTotal":1`)

	cfg := baseConfig()
	cfg.MetricsEnabled = false
	rec = httptest.NewRecorder()
	testApp(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComputeRequiresTokenWhenAuthRequired(t *testing.T) {
	cfg := baseConfig()
	cfg.AuthRequired = true
	cfg.JWTSecret = "secret"

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/compute", strings.NewReader(`{}`))
	testApp(cfg).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestComputeValidationReachesHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/compute", strings.NewReader(`{"employeeId":""}`))
	testApp(baseConfig()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}
