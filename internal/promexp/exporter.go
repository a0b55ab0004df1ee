// Package promexp adapts sched.Metrics to Prometheus collectors.
package promexp

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"corunq/internal/sched"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// Exporter implements sched.Metrics on Prometheus collectors.
type Exporter struct {
	resumeDurationSeconds prom.Histogram
	spawnTotal            prom.Counter
	failureTotal          prom.Counter
	readyQueueDepth       prom.Gauge
}

var _ sched.Metrics = (*Exporter)(nil)

// NewExporter creates and registers Prometheus collectors for sched.Metrics.
func NewExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*Exporter, error) {
	if namespace == "" {
		namespace = "corunq"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	resumeDuration := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "resume_duration_seconds",
		Help:      "Time a task body ran per resume before handing control back.",
		Buckets:   buckets,
	})
	spawnTotal := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_spawn_total",
		Help:      "Total number of spawned tasks.",
	})
	failureTotal := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_failure_total",
		Help:      "Total number of task body failures.",
	})
	readyDepth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "ready_queue_depth",
		Help:      "Ready-queue length after the most recent step.",
	})

	for _, c := range []prom.Collector{resumeDuration, spawnTotal, failureTotal, readyDepth} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return &Exporter{
		resumeDurationSeconds: resumeDuration,
		spawnTotal:            spawnTotal,
		failureTotal:          failureTotal,
		readyQueueDepth:       readyDepth,
	}, nil
}

// RecordSpawn increments the spawn counter.
func (e *Exporter) RecordSpawn(id sched.TaskID) {
	e.spawnTotal.Inc()
}

// RecordResume observes one resume duration.
func (e *Exporter) RecordResume(id sched.TaskID, d time.Duration) {
	e.resumeDurationSeconds.Observe(d.Seconds())
}

// RecordFailure increments the failure counter.
func (e *Exporter) RecordFailure(id sched.TaskID) {
	e.failureTotal.Inc()
}

// RecordQueueDepth sets the ready-queue gauge.
func (e *Exporter) RecordQueueDepth(depth int) {
	e.readyQueueDepth.Set(float64(depth))
}
