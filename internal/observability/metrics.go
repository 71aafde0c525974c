package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/platform/logger"
)

// Metrics holds the process counters exposed in Prometheus text format.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *GaugeVec
	apiErrors   *CounterVec

	realtimePublished *CounterVec
	sseClients        *GaugeVec

	dbOpen  *GaugeVec
	dbInUse *GaugeVec
	dbWait  *GaugeVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("school_api_requests_total", "API requests by method, route and status.", "method", "route", "status"),
		apiLatency: NewHistogramVec("school_api_request_duration_seconds", "API request latency by method and route.",
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			"method", "route"),
		apiInflight:       NewGaugeVec("school_api_inflight_requests", "API requests in flight."),
		apiErrors:         NewCounterVec("school_api_errors_total", "API responses by error code.", "code"),
		realtimePublished: NewCounterVec("school_realtime_published_total", "Realtime events published by event and result.", "event", "result"),
		sseClients:        NewGaugeVec("school_sse_clients", "Connected SSE clients."),
		dbOpen:            NewGaugeVec("school_db_open_connections", "Open database connections."),
		dbInUse:           NewGaugeVec("school_db_in_use_connections", "Database connections in use."),
		dbWait:            NewGaugeVec("school_db_wait_count", "Total waits for a database connection."),
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Add(1, strings.ToUpper(method), route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), strings.ToUpper(method), route)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.Add(delta)
}

func (m *Metrics) IncAPIError(code string) {
	if m == nil {
		return
	}
	m.apiErrors.Add(1, code)
}

func (m *Metrics) IncRealtimePublished(event string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.realtimePublished.Add(1, event, result)
}

func (m *Metrics) SSEClients(delta float64) {
	if m == nil {
		return
	}
	m.sseClients.Add(delta)
}

// StartDBCollector samples connection pool stats until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, every time.Duration) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("DB collector disabled", "error", err)
		return
	}
	if every <= 0 {
		every = 15 * time.Second
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			st := sqlDB.Stats()
			m.dbOpen.Set(float64(st.OpenConnections))
			m.dbInUse.Set(float64(st.InUse))
			m.dbWait.Set(float64(st.WaitCount))
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiErrors,
		m.realtimePublished, m.sseClients,
		m.dbOpen, m.dbInUse, m.dbWait,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}
