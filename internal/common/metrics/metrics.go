// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_queries_total",
			Help: "Total number of chat queries resolved",
		},
		[]string{"query_type", "intent"},
	)

	ChatQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chat_query_duration_seconds",
			Help: "Duration of chat query resolution in seconds",
		},
		[]string{"query_type"},
	)

	ChatCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_cache_hits_total",
			Help: "Chat responses served from the reply cache",
		},
	)

	ChatCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_cache_misses_total",
			Help: "Chat queries that missed the reply cache",
		},
	)

	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_refreshes_total",
			Help: "Total number of record store snapshot refreshes",
		},
		[]string{"status"},
	)

	SnapshotEmployees = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_employees",
			Help: "Number of employee records in the current snapshot",
		},
	)

	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_alerts_sent_total",
			Help: "Total number of high stress alerts sent",
		},
		[]string{"channel"},
	)
)
