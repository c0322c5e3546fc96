package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_bridge_events_received_total",
			Help: "Total number of raw events read from the bus",
		},
		[]string{"channel"},
	)

	DecodeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_bridge_decode_errors_total",
			Help: "Total number of bus payloads that failed to decode",
		},
	)

	// Mapping metrics
	EventsMapped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_bridge_events_mapped_total",
			Help: "Total number of raw events by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	// Unrecognized discriminators get their own counter so upstream schema
	// changes are visible before consumers notice missing events.
	UnrecognizedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_bridge_unrecognized_events_total",
			Help: "Total number of events with an unrecognized type discriminator",
		},
		[]string{"type"},
	)

	MappingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_bridge_mapping_duration_seconds",
			Help:    "Duration of event mapping in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Delivery metrics
	PublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_bridge_publish_errors_total",
			Help: "Total number of canonical event publish failures",
		},
	)

	QuarantinedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_bridge_quarantined_events_total",
			Help: "Total number of events written to the quarantine queue",
		},
		[]string{"reason"},
	)
)

// Outcome label values for EventsMapped.
const (
	OutcomeMapped      = "mapped"
	OutcomeFiltered    = "filtered"
	OutcomePassthrough = "passthrough"
	OutcomeFailed      = "failed"
)
