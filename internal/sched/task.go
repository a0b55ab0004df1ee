package sched

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
)

// TaskID uniquely identifies a task for the kernel's lifetime. IDs are
// monotonic and never reused.
type TaskID uint64

// Body is a task's work function. It runs on the task's own execution
// context and may suspend itself through the Coro handle. Returning ends the
// task; a non-nil error or a panic ends it as a failure.
type Body func(co *Coro, args ...any) ([]any, error)

// Status is the execution-context state of a task.
type Status int32

const (
	StatusNotStarted Status = iota // created, body not yet entered
	StatusRunning                  // body currently executing
	StatusYielded                  // parked at a suspension point
	StatusDead                     // completed or failed; final
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not-started"
	case StatusRunning:
		return "running"
	case StatusYielded:
		return "yielded"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// State is the scheduling tag the kernel and scheduler agree on. A task that
// yields while still ReadyToRun is requeued; a Suspended task is not, and
// stays parked until something schedules it again.
type State int32

const (
	StateReadyToRun State = iota
	StateSuspended
)

func (s State) String() string {
	switch s {
	case StateReadyToRun:
		return "readytorun"
	case StateSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// Scheduling priorities. Priority selects the insertion point into the ready
// queue at schedule time and is not compared afterwards.
const (
	PriorityBump   = 0 // front of the ready queue, runs next
	PriorityNormal = 1 // back of the ready queue, runs eventually
)

// outcome is one transfer of control from a task back to its resumer.
type outcome struct {
	values []any
	err    error
	done   bool
}

// Task wraps one suspendable execution context together with the arguments
// for its next resume and its scheduling state. Exactly one task owns one
// execution context.
type Task struct {
	ID       TaskID
	Priority int

	body   Body
	params []any // next resume arguments; owned by the scheduling side

	state  atomic.Int32
	status atomic.Int32

	started  bool
	resumeCh chan []any
	outCh    chan outcome
	co       *Coro
}

// NewTask wraps body in a fresh task. The execution context is allocated
// lazily: the body does not run until the first Resume.
func NewTask(id TaskID, priority int, body Body) *Task {
	t := &Task{
		ID:       id,
		Priority: priority,
		body:     body,
		resumeCh: make(chan []any),
		outCh:    make(chan outcome),
	}
	t.co = &Coro{task: t}
	return t
}

// Status returns the execution-context state. From inside the body it
// reports StatusRunning.
func (t *Task) Status() Status { return Status(t.status.Load()) }

// State returns the scheduling tag.
func (t *Task) State() State { return State(t.state.Load()) }

// SetState replaces the scheduling tag.
func (t *Task) SetState(s State) { t.state.Store(int32(s)) }

// SetParams replaces the arguments passed on the next Resume.
func (t *Task) SetParams(args []any) { t.params = args }

// Resume transfers control into the task's execution context with the
// stored params. It returns the values the body yielded or completed with,
// or an error if the body failed during this resume. Resuming a dead task
// returns ErrDeadTask without entering the body.
func (t *Task) Resume() ([]any, error) {
	if t.Status() == StatusDead {
		return nil, fmt.Errorf("task %d: %w", t.ID, ErrDeadTask)
	}

	t.status.Store(int32(StatusRunning))
	if !t.started {
		t.started = true
		go t.main(t.params)
	} else {
		t.resumeCh <- t.params
	}

	out := <-t.outCh
	if out.done {
		// main already marked the task dead before handing back.
		if out.err != nil {
			return nil, fmt.Errorf("task %d: %w", t.ID, out.err)
		}
		return out.values, nil
	}
	t.status.Store(int32(StatusYielded))
	return out.values, nil
}

// main is the task's execution context. It runs the body to completion and
// reports the final outcome to whichever Resume call is waiting.
func (t *Task) main(args []any) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrBodyPanic, r)
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrBodyPanic, rerr)
			}
			err = fmt.Errorf("%w\n%s", err, debug.Stack())
			t.status.Store(int32(StatusDead))
			t.outCh <- outcome{err: err, done: true}
		}
	}()

	values, err := t.body(t.co, args...)
	t.status.Store(int32(StatusDead))
	t.outCh <- outcome{values: values, err: err, done: true}
}

// Coro is the handle a body uses to reach its own suspension points and, for
// kernel-owned tasks, the kernel primitives.
type Coro struct {
	task *Task
	k    *Kernel
}

// ID returns the owning task's id.
func (co *Coro) ID() TaskID { return co.task.ID }

// Kernel returns the kernel that spawned this task, or nil for a standalone
// task.
func (co *Coro) Kernel() *Kernel { return co.k }

// Yield parks the execution context at the current point, handing vals back
// to the resumer. It returns the arguments of the next Resume. If the task
// is still readytorun the scheduler requeues it, so the yielded values come
// straight back as the next resume arguments.
func (co *Coro) Yield(vals ...any) []any {
	co.task.outCh <- outcome{values: vals}
	return <-co.task.resumeCh
}

// Suspend marks the task suspended and yields. The scheduler will not
// requeue it; it stays parked until something calls Schedule on it again.
func (co *Coro) Suspend(vals ...any) []any {
	co.task.SetState(StateSuspended)
	return co.Yield(vals...)
}

// WaitForSignal registers the task as a waiter on name and suspends. It
// returns the payload of the SignalOne/SignalAll call that wakes it.
// Panics with ErrNotInTask on a task no kernel owns; the failure surfaces
// through Resume.
func (co *Coro) WaitForSignal(name string, vals ...any) []any {
	if co.k == nil {
		panic(ErrNotInTask)
	}
	co.k.addWaiter(name, co.task)
	return co.Suspend(vals...)
}
