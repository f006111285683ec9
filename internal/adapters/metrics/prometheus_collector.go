package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "slotworks"
	// Subsystem for engine metrics
	subsystem = "engine"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalMinigameCollector is the singleton minigame metrics collector
	// Set by SetGlobalMinigameCollector() when metrics are enabled
	globalMinigameCollector MinigameMetricsRecorder
)

// MinigameMetricsRecorder records player-driven minigame events that do not
// pass through the world tick
type MinigameMetricsRecorder interface {
	RecordMinigameStarted(recipeID string)
	RecordMinigameCancelled(recipeID string)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalMinigameCollector sets the global minigame metrics collector
func SetGlobalMinigameCollector(collector MinigameMetricsRecorder) {
	globalMinigameCollector = collector
}

// RecordMinigameStarted records a cook start globally
func RecordMinigameStarted(recipeID string) {
	if globalMinigameCollector != nil {
		globalMinigameCollector.RecordMinigameStarted(recipeID)
	}
}

// RecordMinigameCancelled records a cancelled cook globally
func RecordMinigameCancelled(recipeID string) {
	if globalMinigameCollector != nil {
		globalMinigameCollector.RecordMinigameCancelled(recipeID)
	}
}

// register adds collectors to the global registry, skipping when disabled
func register(collectors ...prometheus.Collector) error {
	if Registry == nil {
		return nil // Metrics not enabled
	}
	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
