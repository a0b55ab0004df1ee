package sched

import "errors"

var (
	// ErrEmptyQueue is returned by Dequeue on an empty work queue. The run
	// loop treats it as a normal idle outcome, not a failure.
	ErrEmptyQueue = errors.New("empty queue")

	// ErrNoTaskSpecified is returned when scheduling a nil task.
	ErrNoTaskSpecified = errors.New("no task specified")

	// ErrNotInTask is raised when a signal primitive is used by a task that
	// no kernel owns.
	ErrNotInTask = errors.New("not inside a kernel task")

	// ErrEventNotRegistered is returned when signaling a name no task has
	// ever waited on.
	ErrEventNotRegistered = errors.New("event not registered")

	// ErrNoWaiters is returned when signaling a name whose waiter list is
	// currently empty.
	ErrNoWaiters = errors.New("no waiters")

	// ErrNoCurrentTask is returned when suspending the current task while
	// the scheduler is idle.
	ErrNoCurrentTask = errors.New("no current task")

	// ErrDeadTask is returned when resuming a task whose body already ran
	// to completion or failed.
	ErrDeadTask = errors.New("cannot resume dead task")

	// ErrBodyPanic wraps the recovered value of a task body that panicked.
	ErrBodyPanic = errors.New("task body panicked")
)
