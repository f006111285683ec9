package metrics

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

// Outcome labels
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// CommandMetricsCollector records every request sent through the mediator,
// split by request name, kind (command or query) and outcome
type CommandMetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		// handlers run in-process against world state, so buckets start at 100µs
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Mediator request handling time",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"request", "kind"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Mediator requests by name, kind and outcome (success, rejected, error)",
			},
			[]string{"request", "kind", "outcome"},
		),
	}
}

// Register registers all command metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	return register(c.requestDuration, c.requestsTotal)
}

// RecordCommandExecution records one handled request. Validation failures
// count as rejected rather than error.
func (c *CommandMetricsCollector) RecordCommandExecution(name string, elapsed time.Duration, err error) {
	kind := requestKind(name)
	c.requestDuration.WithLabelValues(name, kind).Observe(elapsed.Seconds())
	c.requestsTotal.WithLabelValues(name, kind, outcome(err)).Inc()
}

func requestKind(name string) string {
	if strings.HasSuffix(name, "Query") {
		return "query"
	}
	return "command"
}

func outcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	var validation *shared.ValidationError
	if errors.As(err, &validation) {
		return outcomeRejected
	}
	return outcomeError
}
