package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "quadrant"
	// Subsystem for daemon metrics
	subsystem = "daemon"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalCombatCollector is the singleton combat metrics collector
	// Set by SetGlobalCombatCollector() when metrics are enabled
	globalCombatCollector CombatMetricsRecorder

	// globalEventCollector is the singleton event metrics collector
	globalEventCollector EventMetricsRecorder
)

// CombatMetricsRecorder defines the interface for recording combat metrics.
// This interface is used by application code to record metrics without
// depending on Prometheus directly.
type CombatMetricsRecorder interface {
	RecordEncounterStarted(reason string)
	RecordRoundResolved(endState string, duration float64)
	RecordShipDestroyed(playerType string)
	RecordSalvageCreated()
}

// EventMetricsRecorder defines the interface for recording event emission metrics
type EventMetricsRecorder interface {
	RecordEventEmitted(eventType string, recipients int)
	RecordEventSkipped(eventType string)
}

// InitRegistry initializes the Prometheus registry.
// Should be called once at application startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry.
// Returns nil if metrics are not initialized.
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalCombatCollector sets the global combat metrics collector
func SetGlobalCombatCollector(collector CombatMetricsRecorder) {
	globalCombatCollector = collector
}

// SetGlobalEventCollector sets the global event metrics collector
func SetGlobalEventCollector(collector EventMetricsRecorder) {
	globalEventCollector = collector
}

// RecordEncounterStarted records a new encounter globally
func RecordEncounterStarted(reason string) {
	if globalCombatCollector != nil {
		globalCombatCollector.RecordEncounterStarted(reason)
	}
}

// RecordRoundResolved records one resolved round globally
func RecordRoundResolved(endState string, duration float64) {
	if globalCombatCollector != nil {
		globalCombatCollector.RecordRoundResolved(endState, duration)
	}
}

// RecordShipDestroyed records a destroyed ship globally
func RecordShipDestroyed(playerType string) {
	if globalCombatCollector != nil {
		globalCombatCollector.RecordShipDestroyed(playerType)
	}
}

// RecordSalvageCreated records a new salvage entry globally
func RecordSalvageCreated() {
	if globalCombatCollector != nil {
		globalCombatCollector.RecordSalvageCreated()
	}
}

// RecordEventEmitted records a persisted event globally
func RecordEventEmitted(eventType string, recipients int) {
	if globalEventCollector != nil {
		globalEventCollector.RecordEventEmitted(eventType, recipients)
	}
}

// RecordEventSkipped records an event skipped for lack of recipients globally
func RecordEventSkipped(eventType string) {
	if globalEventCollector != nil {
		globalEventCollector.RecordEventSkipped(eventType)
	}
}
