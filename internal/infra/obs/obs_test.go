package obs

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestNewLoggerJSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "prod").Info("hello", "k", "v")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") || !strings.Contains(buf.String(), `"k":"v"`) {
		t.Fatalf("expected JSON log line, got %q", buf.String())
	}
}

func TestMiddlewareRecordsRequestIDAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := NewMetrics()
	mw := Middleware{Metrics: metrics}
	r := gin.New()
	r.Use(mw.RequestID(), mw.LoggerMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		if RequestIDFromContext(c.Request.Context()) == "" {
			t.Errorf("request id missing from context")
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	metrics.Observe("command", "listings.create", time.Millisecond, errors.New("boom"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "req-42" {
		t.Fatalf("request id not echoed")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `rentcam_http_requests_total{method="GET",route="/ping",status="204"} 1`) {
		t.Fatalf("http counter missing:\n%s", body)
	}
	if !strings.Contains(body, `rentcam_bus_messages_total{key="listings.create",kind="command",outcome="error"} 1`) {
		t.Fatalf("bus counter missing:\n%s", body)
	}
}

func TestReadyz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := HealthHandlers{Ready: func() error { return errors.New("mongo down") }}
	r.GET("/readyz", h.Readyz)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}
