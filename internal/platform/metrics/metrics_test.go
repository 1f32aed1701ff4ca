package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPaymentMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg)

	m.Observe(OutcomeCompleted, 10*time.Millisecond)
	m.Observe(OutcomeCompleted, 20*time.Millisecond)
	m.Observe(OutcomeAmountMismatch, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.processed.WithLabelValues(OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.processed.WithLabelValues(OutcomeAmountMismatch)))

	var nilMetrics *PaymentMetrics
	assert.NotPanics(t, func() { nilMetrics.Observe(OutcomeCompleted, time.Second) })
}

func TestHTTPMetrics_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/payments/booking/:bookingId", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/metrics", gin.WrapH(Handler(reg)))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/payments/booking/7", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.requests.WithLabelValues(http.MethodGet, "/payments/booking/:bookingId", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(w.Body.String(), "venue_http_requests_total"))
}
