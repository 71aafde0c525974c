package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/scool-backend/internal/platform/logger"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("get", "/api/groups/:id", 200, 30*time.Millisecond)
	m.ObserveAPI("GET", "/api/groups/:id", 404, 2*time.Second)
	m.IncAPIError("not_found")
	m.IncRealtimePublished("MessageCreated", nil)
	m.IncRealtimePublished("MessageCreated", errors.New("redis down"))
	m.SSEClients(1)

	if got := m.apiRequests.Value("GET", "/api/groups/:id", "404"); got != 1 {
		t.Fatalf("404 requests: want=1 got=%v", got)
	}
	if got := m.apiLatency.Count("GET", "/api/groups/:id"); got != 2 {
		t.Fatalf("latency observations: want=2 got=%d", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`school_api_requests_total{method="GET",route="/api/groups/:id",status="200"} 1`,
		`school_api_request_duration_seconds_bucket{method="GET",route="/api/groups/:id",le="0.05"} 1`,
		`school_api_request_duration_seconds_bucket{method="GET",route="/api/groups/:id",le="+Inf"} 2`,
		`school_api_request_duration_seconds_count{method="GET",route="/api/groups/:id"} 2`,
		`school_realtime_published_total{event="MessageCreated",result="error"} 1`,
		`school_api_errors_total{code="not_found"} 1`,
		"school_sse_clients 1",
		"# TYPE school_api_request_duration_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.APIInflight(1)
	m.IncRealtimePublished("x", nil)
	m.StartDBCollector(context.Background(), logger.Nop(), nil, time.Second)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil WritePrometheus: %v", err)
	}
}

func TestCounterIgnoresNegative(t *testing.T) {
	c := NewCounterVec("c", "help", "k")
	c.Add(2, "a")
	c.Add(-5, "a")
	if got := c.Value("a"); got != 2 {
		t.Fatalf("counter: want=2 got=%v", got)
	}
	if got := labelString([]string{"k"}, []string{`x"y`}); got != `{k="x\"y"}` {
		t.Fatalf("escaped label: got=%s", got)
	}
}

func TestInitOTelDisabled(t *testing.T) {
	shutdown, err := InitOTel(context.Background(), logger.Nop(), OtelConfig{Enabled: false})
	if err != nil {
		t.Fatalf("InitOTel: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if got := (OtelConfig{SampleRatio: 3}).ratio(); got != 1 {
		t.Fatalf("ratio clamp: want=1 got=%v", got)
	}
}
