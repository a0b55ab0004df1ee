// internal/sched/scheduler.go

package sched

import (
	"sync"
	"time"
)

// Scheduler owns the ready-to-run queue and the notion of the currently
// running task. It performs one unit of scheduling work per Step; the kernel
// drives it in a loop.
type Scheduler struct {
	mu      sync.Mutex // protects ready and current
	ready   *WorkQueue
	current *Task

	emit    func(Event) // trace sink installed by the kernel; may be nil
	metrics Metrics
}

// NewScheduler creates a scheduler with an empty ready queue.
func NewScheduler() *Scheduler {
	return &Scheduler{
		ready:   NewWorkQueue(),
		metrics: &NilMetrics{},
	}
}

// Schedule makes t runnable: its next resume arguments become params, its
// state flips to readytorun, and it is inserted into the ready queue — at
// the front for PriorityBump, at the back otherwise. Returns t, or
// ErrNoTaskSpecified for a nil task.
func (s *Scheduler) Schedule(t *Task, params []any, priority int) (*Task, error) {
	if t == nil {
		return nil, ErrNoTaskSpecified
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.SetParams(params)
	t.SetState(StateReadyToRun)
	if priority == PriorityBump {
		s.ready.PushFront(t)
	} else {
		s.ready.Enqueue(t)
	}
	return t, nil
}

// Step runs at most one task: dequeue, validate, resume, reclassify,
// requeue-or-drop. It returns false when the ready queue was empty (an idle
// tick) and true when it consumed a queue entry, even one it only dropped.
//
// A body failure is reported through the trace sink and kills the task; it
// never stops the scheduler.
func (s *Scheduler) Step() bool {
	s.mu.Lock()
	v, err := s.ready.Dequeue()
	if err != nil {
		s.mu.Unlock()
		return false
	}
	t := v.(*Task)

	// A dead execution context must never be resumed; drop it.
	if t.Status() == StatusDead {
		s.mu.Unlock()
		s.emitEvent(Event{Kind: EventSkip, TaskID: t.ID})
		return true
	}

	// Scheduled, then suspended before its turn came. Dropped without a
	// resume; whoever wakes the task owns re-enqueueing it.
	if t.State() == StateSuspended {
		s.mu.Unlock()
		s.emitEvent(Event{Kind: EventSkip, TaskID: t.ID})
		return true
	}

	s.current = t
	s.mu.Unlock()

	s.emitEvent(Event{Kind: EventDispatch, TaskID: t.ID})

	start := time.Now()
	values, rerr := t.Resume()
	s.metrics.RecordResume(t.ID, time.Since(start))

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if rerr != nil {
		s.metrics.RecordFailure(t.ID)
		s.emitEvent(Event{Kind: EventFail, TaskID: t.ID, Err: rerr})
		return true
	}

	if t.Status() == StatusDead {
		s.emitEvent(Event{Kind: EventFinish, TaskID: t.ID})
		return true
	}

	// Only a task that plainly yielded is requeued, with the values it
	// yielded as its next resume arguments. A task that suspended or parked
	// on a signal changed its state during the resume and is skipped here.
	if t.State() == StateReadyToRun {
		s.Schedule(t, values, PriorityNormal)
		s.emitEvent(Event{Kind: EventYield, TaskID: t.ID})
	}
	return true
}

// Current returns the task executing right now, or nil between resumes.
func (s *Scheduler) Current() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SuspendCurrent marks the currently running task suspended, so the step in
// flight will not requeue it. Returns ErrNoCurrentTask when idle.
func (s *Scheduler) SuspendCurrent() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoCurrentTask
	}
	s.current.SetState(StateSuspended)
	return nil
}

// RemoveTask is a bookkeeping hook. Dropping happens implicitly by not
// requeueing, so this is a no-op and is safe on already-dropped tasks.
func (s *Scheduler) RemoveTask(t *Task) {}

// Pending reports the length of the ready queue.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready.Len()
}

func (s *Scheduler) emitEvent(ev Event) {
	if s.emit != nil {
		s.emit(ev)
	}
}
