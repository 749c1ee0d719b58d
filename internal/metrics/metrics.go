// Package metrics 定义了绘制引擎和解答保存的 Prometheus 指标。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// engineEvents 统计会话处理的输入事件。Labels: event, state (处理后的状态)
	engineEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flow_board",
		Subsystem: "engine",
		Name:      "events_total",
		Help:      "Input events handled by drawing sessions",
	}, []string{"event", "state"})

	// engineRejections 统计被拒绝的提交。Labels: reason
	engineRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flow_board",
		Subsystem: "engine",
		Name:      "rejections_total",
		Help:      "Path commits rejected by validation",
	}, []string{"reason"})

	// pathsCommitted 统计成功提交的路径。
	pathsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "flow_board",
		Subsystem: "engine",
		Name:      "paths_committed_total",
		Help:      "Paths committed to a solution store",
	})

	// solutionSaveLatency 测量保存解答的耗时。Labels: operation (create, update), status (ok, invalid, error)
	solutionSaveLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flow_board",
		Subsystem: "solutions",
		Name:      "save_duration_seconds",
		Help:      "Time spent verifying and persisting a solution",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"operation", "status"})

	// activeSessions 当前打开的绘制会话数。
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "flow_board",
		Subsystem: "hub",
		Name:      "active_sessions",
		Help:      "Drawing sessions currently connected",
	})
)

// RecordEvent 记录一次事件处理。
func RecordEvent(event, state string) {
	engineEvents.WithLabelValues(event, state).Inc()
}

// RecordRejection 记录一次提交被拒绝。
func RecordRejection(reason string) {
	engineRejections.WithLabelValues(reason).Inc()
}

// RecordCommit 记录一次路径提交。
func RecordCommit() {
	pathsCommitted.Inc()
}

// ObserveSave 记录一次保存的耗时。
func ObserveSave(operation, status string, start time.Time) {
	solutionSaveLatency.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

// SessionOpened / SessionClosed 维护活跃会话数。
func SessionOpened() { activeSessions.Inc() }
func SessionClosed() { activeSessions.Dec() }
