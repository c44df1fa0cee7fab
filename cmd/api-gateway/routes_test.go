package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/internal/app"
	"github.com/noah-isme/youth-activities-api/internal/service"
	"github.com/noah-isme/youth-activities-api/pkg/config"
)

func unconfiguredRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1", Cron: config.CronConfig{Secret: secret}}
	return newRouter(&app.Container{Config: cfg, Logger: zap.NewNop(), Metrics: service.NewMetricsService()})
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouterWithoutDatastore(t *testing.T) {
	r := unconfiguredRouter("")

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/ready", nil).Code)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut} {
		w := serve(r, method, "/api/cron/rsvp-reminders", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code, method)
		assert.JSONEq(t, `{"error":"Missing DATASTORE_URL or DATASTORE_SERVICE_KEY"}`, w.Body.String())
	}

	w := serve(r, http.MethodGet, "/api/v1/activities", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_CONFIGURED")

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/docs/index.html", nil).Code)
}

func TestRouterCronSecret(t *testing.T) {
	r := unconfiguredRouter("s3cret")

	w := serve(r, http.MethodGet, "/api/cron/rsvp-reminders", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/api/cron/rsvp-reminders", http.Header{"Authorization": {"Bearer s3cret"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	r := unconfiguredRouter("")
	serve(r, http.MethodGet, "/health", nil)

	w := serve(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
