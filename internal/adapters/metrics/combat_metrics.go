package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CombatMetricsCollector handles all combat lifecycle metrics
type CombatMetricsCollector struct {
	encountersStarted  *prometheus.CounterVec
	roundsResolved     *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
	activeEncounters   prometheus.Gauge
	shipsDestroyed     *prometheus.CounterVec
	salvageCreated     prometheus.Counter
}

// NewCombatMetricsCollector creates a new combat metrics collector
func NewCombatMetricsCollector() *CombatMetricsCollector {
	return &CombatMetricsCollector{
		encountersStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "encounters_started_total",
				Help:      "Total number of encounters started by creation reason",
			},
			[]string{"reason"},
		),

		roundsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rounds_resolved_total",
				Help:      "Total number of combat rounds resolved by end state",
			},
			[]string{"end_state"},
		),

		resolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "round_resolution_duration_seconds",
				Help:      "Round resolution duration distribution (resolve + persist + emit)",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
			},
		),

		activeEncounters: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_encounters",
				Help:      "Number of encounters currently awaiting actions or resolution",
			},
		),

		shipsDestroyed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ships_destroyed_total",
				Help:      "Total number of ships destroyed in combat by pilot type",
			},
			[]string{"player_type"},
		),

		salvageCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "salvage_created_total",
				Help:      "Total number of salvage entries created from destroyed ships",
			},
		),
	}
}

// Register registers all combat metrics with the Prometheus registry
func (c *CombatMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.encountersStarted,
		c.roundsResolved,
		c.resolutionDuration,
		c.activeEncounters,
		c.shipsDestroyed,
		c.salvageCreated,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordEncounterStarted records a new encounter
func (c *CombatMetricsCollector) RecordEncounterStarted(reason string) {
	c.encountersStarted.WithLabelValues(reason).Inc()
	c.activeEncounters.Inc()
}

// RecordRoundResolved records one resolved round
func (c *CombatMetricsCollector) RecordRoundResolved(endState string, duration float64) {
	if endState == "" {
		endState = "continuing"
	}
	c.roundsResolved.WithLabelValues(endState).Inc()
	c.resolutionDuration.Observe(duration)
	if endState != "continuing" {
		c.activeEncounters.Dec()
	}
}

// RecordShipDestroyed records a destroyed ship
func (c *CombatMetricsCollector) RecordShipDestroyed(playerType string) {
	c.shipsDestroyed.WithLabelValues(playerType).Inc()
}

// RecordSalvageCreated records a new salvage entry
func (c *CombatMetricsCollector) RecordSalvageCreated() {
	c.salvageCreated.Inc()
}
