package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MinigameMetricsCollector counts player actions on timing minigames
type MinigameMetricsCollector struct {
	startedTotal   *prometheus.CounterVec
	cancelledTotal *prometheus.CounterVec
}

// NewMinigameMetricsCollector creates a new minigame metrics collector
func NewMinigameMetricsCollector() *MinigameMetricsCollector {
	return &MinigameMetricsCollector{
		startedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "minigames_started_total",
				Help:      "Total cooks started by recipe",
			},
			[]string{"recipe"},
		),

		cancelledTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "minigames_cancelled_total",
				Help:      "Total cooks cancelled by recipe",
			},
			[]string{"recipe"},
		),
	}
}

// Register registers all minigame metrics with the Prometheus registry
func (c *MinigameMetricsCollector) Register() error {
	return register(c.startedTotal, c.cancelledTotal)
}

// RecordMinigameStarted counts a started cook
func (c *MinigameMetricsCollector) RecordMinigameStarted(recipeID string) {
	c.startedTotal.WithLabelValues(recipeID).Inc()
}

// RecordMinigameCancelled counts a cancelled cook
func (c *MinigameMetricsCollector) RecordMinigameCancelled(recipeID string) {
	c.cancelledTotal.WithLabelValues(recipeID).Inc()
}
