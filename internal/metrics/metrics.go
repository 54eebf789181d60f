package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_routed_total",
			Help: "Total number of inbound messages by matched intent",
		},
		[]string{"intent"},
	)

	Escalations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_escalations_total",
			Help: "Total number of messages forwarded to the operator",
		},
	)

	DeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_delivery_failures_total",
			Help: "Total number of outgoing actions the transport failed to deliver",
		},
		[]string{"action"},
	)

	ArchiveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_escalation_archive_failures_total",
			Help: "Total number of escalations that could not be archived",
		},
	)

	UpdateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of inbound update processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_active_sessions",
			Help: "Number of users with a stored conversation state",
		},
	)
)
