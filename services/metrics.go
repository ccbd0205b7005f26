package services

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics собирает метрики операций над сеткой. Нулевой *Metrics ничего не пишет.
type Metrics struct {
	operations     *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	matchesWritten prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "debate",
			Subsystem: "bracket",
			Name:      "operations_total",
			Help:      "Bracket operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "debate",
			Subsystem: "bracket",
			Name:      "operation_duration_seconds",
			Help:      "Duration of bracket operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		matchesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "debate",
			Subsystem: "bracket",
			Name:      "matches_written_total",
			Help:      "Matches created or updated by bracket operations.",
		}),
	}
}

func (m *Metrics) observe(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) addMatches(n int) {
	if m == nil {
		return
	}
	m.matchesWritten.Add(float64(n))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBracketInconsistency):
		return "inconsistent"
	default:
		return "rejected"
	}
}
