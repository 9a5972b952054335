package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// Decision outcomes tracked by RecordDecision.
const (
	OutcomeAllow           = "allow"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeForbidden       = "forbidden"
)

// Metrics holds request and authorization counters for the process.
// Thread-safe via atomics and mutex.
type Metrics struct {
	totalRequests     int64
	activeRequests    int64
	totalErrors       int64
	totalLatencyMs    int64
	maxLatencyMs      int64
	startTime         time.Time
	endpointCounts    map[string]int64
	endpointLatencies map[string]int64 // total ms per endpoint
	statusCodes       map[int]int64
	decisions         map[string]int64
	mu                sync.Mutex
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	TotalRequests  int64            `json:"total_requests"`
	ActiveRequests int64            `json:"active_requests"`
	TotalErrors    int64            `json:"total_errors"`
	ErrorRate      float64          `json:"error_rate_pct"`
	AvgLatencyMs   float64          `json:"avg_latency_ms"`
	MaxLatencyMs   int64            `json:"max_latency_ms"`
	RequestsPerSec float64          `json:"requests_per_sec"`
	UptimeSeconds  float64          `json:"uptime_seconds"`
	EndpointCounts map[string]int64 `json:"endpoint_counts"`
	EndpointAvgMs  map[string]int64 `json:"endpoint_avg_latency_ms"`
	StatusCodes    map[int]int64    `json:"status_codes"`
	Decisions      map[string]int64 `json:"authorization_decisions"`
}

// New returns an empty Metrics whose uptime starts now.
func New() *Metrics {
	m := &Metrics{}
	m.reset()
	return m
}

func (m *Metrics) reset() {
	m.startTime = time.Now()
	m.endpointCounts = make(map[string]int64)
	m.endpointLatencies = make(map[string]int64)
	m.statusCodes = make(map[int]int64)
	m.decisions = make(map[string]int64)
}

// Middleware tracks request count, latency, active connections, and error rates
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt64(&m.activeRequests, 1)
			start := time.Now()

			err := next(c)

			latencyMs := time.Since(start).Milliseconds()
			atomic.AddInt64(&m.activeRequests, -1)
			atomic.AddInt64(&m.totalRequests, 1)
			atomic.AddInt64(&m.totalLatencyMs, latencyMs)

			// lock-free max update
			for {
				current := atomic.LoadInt64(&m.maxLatencyMs)
				if latencyMs <= current {
					break
				}
				if atomic.CompareAndSwapInt64(&m.maxLatencyMs, current, latencyMs) {
					break
				}
			}

			statusCode := c.Response().Status
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			endpoint := fmt.Sprintf("%s %s", c.Request().Method, path)

			m.mu.Lock()
			m.endpointCounts[endpoint]++
			m.endpointLatencies[endpoint] += latencyMs
			m.statusCodes[statusCode]++
			m.mu.Unlock()
			if statusCode >= http.StatusBadRequest {
				atomic.AddInt64(&m.totalErrors, 1)
			}

			return err
		}
	}
}

// RecordDecision counts one authorization outcome.
func (m *Metrics) RecordDecision(outcome string) {
	m.mu.Lock()
	m.decisions[outcome]++
	m.mu.Unlock()
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	total := atomic.LoadInt64(&m.totalRequests)
	errs := atomic.LoadInt64(&m.totalErrors)
	totalLatency := atomic.LoadInt64(&m.totalLatencyMs)

	m.mu.Lock()
	defer m.mu.Unlock()

	uptime := time.Since(m.startTime).Seconds()

	var avgLatency, errorRate, rps float64
	if total > 0 {
		avgLatency = float64(totalLatency) / float64(total)
		errorRate = float64(errs) / float64(total) * 100
	}
	if uptime > 0 {
		rps = float64(total) / uptime
	}

	endpointCounts := make(map[string]int64, len(m.endpointCounts))
	endpointAvg := make(map[string]int64, len(m.endpointLatencies))
	for k, v := range m.endpointCounts {
		endpointCounts[k] = v
		if v > 0 {
			endpointAvg[k] = m.endpointLatencies[k] / v
		}
	}
	statusCodes := make(map[int]int64, len(m.statusCodes))
	for k, v := range m.statusCodes {
		statusCodes[k] = v
	}
	decisions := make(map[string]int64, len(m.decisions))
	for k, v := range m.decisions {
		decisions[k] = v
	}

	return Snapshot{
		TotalRequests:  total,
		ActiveRequests: atomic.LoadInt64(&m.activeRequests),
		TotalErrors:    errs,
		ErrorRate:      errorRate,
		AvgLatencyMs:   avgLatency,
		MaxLatencyMs:   atomic.LoadInt64(&m.maxLatencyMs),
		RequestsPerSec: rps,
		UptimeSeconds:  uptime,
		EndpointCounts: endpointCounts,
		EndpointAvgMs:  endpointAvg,
		StatusCodes:    statusCodes,
		Decisions:      decisions,
	}
}

// Reset zeroes every counter and restarts the uptime clock.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.totalRequests, 0)
	atomic.StoreInt64(&m.activeRequests, 0)
	atomic.StoreInt64(&m.totalErrors, 0)
	atomic.StoreInt64(&m.totalLatencyMs, 0)
	atomic.StoreInt64(&m.maxLatencyMs, 0)
	m.mu.Lock()
	m.reset()
	m.mu.Unlock()
}

// SnapshotHandler serves the current snapshot as JSON.
func (m *Metrics) SnapshotHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}

// ResetHandler zeroes the counters.
func (m *Metrics) ResetHandler(c echo.Context) error {
	m.Reset()
	return c.JSON(http.StatusOK, map[string]string{"status": "metrics_reset"})
}
