package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp, reader
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m.Data
			}
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return nil
}

func TestHTTPMetrics(t *testing.T) {
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetrics(mp.Meter("http.server"), nil))
	router.GET("/api/v1/orders/:id", okHandler)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	t.Run("requests are counted by route pattern", func(t *testing.T) {
		sum, ok := findMetric(t, reader, "http_server_request_total").(metricdata.Sum[int64])
		require.True(t, ok)

		counts := map[string]int64{}
		for _, dp := range sum.DataPoints {
			route, _ := dp.Attributes.Value(attribute.Key("http.route"))
			counts[route.AsString()] += dp.Value
		}
		assert.Equal(t, int64(2), counts["/api/v1/orders/:id"])
		assert.Equal(t, int64(1), counts["unknown"])
	})

	t.Run("durations are recorded", func(t *testing.T) {
		hist, ok := findMetric(t, reader, "http_server_request_duration_seconds").(metricdata.Histogram[float64])
		require.True(t, ok)

		var total uint64
		for _, dp := range hist.DataPoints {
			total += dp.Count
		}
		assert.Equal(t, uint64(3), total)
	})

	t.Run("no request left in flight", func(t *testing.T) {
		sum, ok := findMetric(t, reader, "http_server_active_requests").(metricdata.Sum[int64])
		require.True(t, ok)
		for _, dp := range sum.DataPoints {
			assert.Zero(t, dp.Value)
		}
	})
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	router := gin.New()
	router.Use(HTTPMetrics(nil, nil))
	router.GET("/test", okHandler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
