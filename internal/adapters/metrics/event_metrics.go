package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EventMetricsCollector handles event emission metrics
type EventMetricsCollector struct {
	eventsEmitted   *prometheus.CounterVec
	eventsSkipped   *prometheus.CounterVec
	eventRecipients *prometheus.HistogramVec
}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{
		eventsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_emitted_total",
				Help:      "Total number of events persisted by type",
			},
			[]string{"type"},
		),

		eventsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_skipped_total",
				Help:      "Total number of events skipped for an empty recipient set",
			},
			[]string{"type"},
		),

		eventRecipients: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "event_recipients",
				Help:      "Recipient set size distribution per event type",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"type"},
		),
	}
}

// Register registers all event metrics with the Prometheus registry
func (c *EventMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.eventsEmitted,
		c.eventsSkipped,
		c.eventRecipients,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordEventEmitted records one persisted event and its recipient count
func (c *EventMetricsCollector) RecordEventEmitted(eventType string, recipients int) {
	c.eventsEmitted.WithLabelValues(eventType).Inc()
	c.eventRecipients.WithLabelValues(eventType).Observe(float64(recipients))
}

// RecordEventSkipped records one event skipped for lack of recipients
func (c *EventMetricsCollector) RecordEventSkipped(eventType string) {
	c.eventsSkipped.WithLabelValues(eventType).Inc()
}
