package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"chat-api/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
)

// newMetricsApp mirrors how main mounts the metrics endpoint.
func newMetricsApp(key string) *echo.Echo {
	e := echo.New()
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.NewMetricsKeyMiddleware(key))
	return e
}

func getMetrics(e *echo.Echo, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func TestMetricsGate_MissingKey(t *testing.T) {
	e := newMetricsApp("metrics-secret")

	rr := getMetrics(e, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Missing or invalid API key", rr.Body.String())
}

func TestMetricsGate_WrongKey(t *testing.T) {
	e := newMetricsApp("metrics-secret")

	rr := getMetrics(e, "Bearer not-the-key")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Unauthorized API key", rr.Body.String())
}

func TestMetricsGate_ConfiguredKey(t *testing.T) {
	e := newMetricsApp("metrics-secret")

	rr := getMetrics(e, "Bearer metrics-secret")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotEmpty(t, rr.Body.String())
}
