// Package metrics provides Prometheus metrics for the metas console backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequestsTotal tracks requests made to the metas API
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metas",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of requests sent to the metas API",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// UpstreamRequestDuration tracks metas API latency
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "metas",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of metas API requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// CatalogLoadsTotal tracks catalog loads by outcome
	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metas",
			Subsystem: "catalog",
			Name:      "loads_total",
			Help:      "Total number of reference catalog loads by status",
		},
		[]string{"status"},
	)

	// CatalogEntries is the size of the current catalog index
	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "metas",
			Subsystem: "catalog",
			Name:      "entries",
			Help:      "Number of entries in the current relation index",
		},
	)

	// RelationUnresolvedTotal counts relation ids that had no catalog entry
	RelationUnresolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metas",
			Subsystem: "relation",
			Name:      "unresolved_total",
			Help:      "Relation ids dropped because the catalog had no matching entry",
		},
		[]string{"relation_type"},
	)

	// ExportsTotal tracks summary exports by status
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metas",
			Subsystem: "export",
			Name:      "jobs_total",
			Help:      "Total number of area summary exports by status",
		},
		[]string{"status"},
	)

	// QueueMessagesTotal tracks worker messages by queue and outcome
	QueueMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metas",
			Subsystem: "queue",
			Name:      "messages_total",
			Help:      "Total number of queue messages processed",
		},
		[]string{"queue", "status"},
	)
)
