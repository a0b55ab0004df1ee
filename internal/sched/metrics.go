package sched

import "time"

// Metrics is the sink for kernel execution metrics. Implementations can
// forward to monitoring systems; methods must be fast and non-blocking.
type Metrics interface {
	// RecordSpawn is called once per spawned task.
	RecordSpawn(id TaskID)

	// RecordResume records one resume of a task and how long its body ran
	// before handing control back.
	RecordResume(id TaskID, d time.Duration)

	// RecordFailure is called when a task body fails.
	RecordFailure(id TaskID)

	// RecordQueueDepth reports the ready-queue length after a step.
	RecordQueueDepth(depth int)
}

// NilMetrics is the no-op default.
type NilMetrics struct{}

func (m *NilMetrics) RecordSpawn(id TaskID)                   {}
func (m *NilMetrics) RecordResume(id TaskID, d time.Duration) {}
func (m *NilMetrics) RecordFailure(id TaskID)                 {}
func (m *NilMetrics) RecordQueueDepth(depth int)              {}
