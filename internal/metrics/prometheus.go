// Package metrics exports handler and store metrics to Prometheus.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wsdetails"

// Recorder aggregates invocation outcomes and store call latency. It
// satisfies workspace.MetricsRecorder.
type Recorder struct {
	invocations *prometheus.CounterVec
	storeCalls  *prometheus.CounterVec
	storeTime   *prometheus.HistogramVec
	archived    *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Handler invocations by calling convention, command kind and outcome.",
		}, []string{"source", "kind", "outcome"}),
		storeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_calls_total",
			Help:      "Store calls by operation and status.",
		}, []string{"operation", "status"}),
		storeTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_call_duration_seconds",
			Help:      "Store call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		archived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archived_events_total",
			Help:      "Raw events written to the archive by status.",
		}, []string{"status"}),
	}
	for _, c := range []prometheus.Collector{r.invocations, r.storeCalls, r.storeTime, r.archived} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe records a store call.
func (r *Recorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	r.storeCalls.WithLabelValues(operation, status(success)).Inc()
	r.storeTime.WithLabelValues(operation).Observe(duration.Seconds())
}

// Invocation records one handled event.
func (r *Recorder) Invocation(source, kind, outcome string) {
	if source == "" {
		source = "none"
	}
	r.invocations.WithLabelValues(source, kind, outcome).Inc()
}

// Archived records an archive attempt.
func (r *Recorder) Archived(success bool) {
	r.archived.WithLabelValues(status(success)).Inc()
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
