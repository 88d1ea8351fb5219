// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_processed_total",
			Help: "Total number of slash commands processed",
		},
		[]string{"command"},
	)

	CommandsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_failed_total",
			Help: "Total number of slash commands that ended in an error reply",
		},
		[]string{"command", "error_code"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_command_duration_seconds",
			Help: "Duration of slash command handling in seconds",
		},
		[]string{"command"},
	)

	StoreReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_record_store_reads_total",
			Help: "Total number of record store sheet reads",
		},
		[]string{"store", "outcome"},
	)

	StoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_record_store_writes_total",
			Help: "Total number of record store field updates",
		},
		[]string{"store", "outcome"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_notifications_sent_total",
			Help: "Total number of direct message notifications attempted",
		},
		[]string{"kind", "outcome"},
	)

	ScheduledPosts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_scheduled_posts_total",
			Help: "Total number of scheduler-driven posts",
		},
		[]string{"job", "outcome"},
	)
)
