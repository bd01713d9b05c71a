package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.ObserveLogin("success")
	m.ObserveLogin("invalid_credentials")
	m.ObserveLogin("success")

	expected := `
# HELP quotation_auth_login_attempts_total Login attempts by outcome
# TYPE quotation_auth_login_attempts_total counter
quotation_auth_login_attempts_total{outcome="invalid_credentials"} 1
quotation_auth_login_attempts_total{outcome="success"} 2
`
	if err := testutil.CollectAndCompare(m.LoginAttemptsTotal, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metric value: %v", err)
	}
}

func TestObserveNotification(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveNotification("email", nil)
	m.ObserveNotification("telegram", errors.New("down"))

	if v := testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("telegram", "failed")); v != 1 {
		t.Errorf("unexpected value: %v", v)
	}
	if v := testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("email", "sent")); v != 1 {
		t.Errorf("unexpected value: %v", v)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveLogin("success")
	m.ObservePasswordResetRequest("delivered")
	m.ObserveNotification("email", nil)
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(Handler(registry)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	if v := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "204")); v != 1 {
		t.Errorf("unexpected value: %v", v)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "quotation_auth_http_requests_total") {
		t.Error("metrics endpoint should expose request counter")
	}
}
