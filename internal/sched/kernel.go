package sched

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Handler consumes a signal payload inside a subscription task.
type Handler func(co *Coro, vals ...any)

// Kernel ties together task-id allocation, the scheduler, and the registry
// of tasks parked on named signals, and owns the top-level run loop. One
// kernel per process is the expected usage; nothing enforces it.
type Kernel struct {
	mu      sync.Mutex // protects waiters
	cfg     Config
	sched   *Scheduler
	waiters map[string]*WorkQueue

	nextID  atomic.Uint64
	running atomic.Bool
	tick    atomic.Int64
	wake    chan struct{}
	clock   *IdleClock

	events       chan Event
	resumeTotals map[TaskID]int64 // touched only by the trace consumer

	logger  *slog.Logger
	metrics Metrics

	csv *csvTrace
}

// New creates a kernel ready to run.
func New(cfg Config) *Kernel {
	buffer := cfg.EventBuffer
	if buffer <= 0 {
		buffer = 256
	}

	k := &Kernel{
		cfg:          cfg,
		sched:        NewScheduler(),
		waiters:      make(map[string]*WorkQueue),
		wake:         make(chan struct{}, 1),
		clock:        NewIdleClock(1),
		events:       make(chan Event, buffer),
		resumeTotals: make(map[TaskID]int64),
		logger:       slog.Default(),
		metrics:      &NilMetrics{},
	}
	k.running.Store(true)
	k.sched.emit = k.emit
	k.sched.metrics = k.metrics
	return k
}

// SetMetrics installs a metrics sink. Must be called before Run.
func (k *Kernel) SetMetrics(m Metrics) {
	if m == nil {
		m = &NilMetrics{}
	}
	k.metrics = m
	k.sched.metrics = m
}

// SetLogger replaces the diagnostic logger. Must be called before Run.
func (k *Kernel) SetLogger(l *slog.Logger) {
	if l != nil {
		k.logger = l
	}
}

// Spawn allocates a task around body, schedules it at normal priority with
// args as its first resume arguments, and returns it. The body has not run
// yet when Spawn returns.
func (k *Kernel) Spawn(body Body, args ...any) *Task {
	return k.Coop(PriorityNormal, body, args...)
}

// Coop is Spawn with a caller-chosen priority: PriorityBump runs next, any
// other value runs eventually.
func (k *Kernel) Coop(priority int, body Body, args ...any) *Task {
	id := TaskID(k.nextID.Add(1))
	t := NewTask(id, priority, body)
	t.co.k = k

	k.sched.Schedule(t, args, priority)
	k.metrics.RecordSpawn(id)
	k.emit(Event{Kind: EventSpawn, TaskID: id})
	k.notify()
	return t
}

// addWaiter appends t to the waiter list for name, creating the list on
// first use. Lists persist after draining so the kernel can distinguish a
// never-registered signal from one that is merely empty.
func (k *Kernel) addWaiter(name string, t *Task) {
	k.mu.Lock()
	q, ok := k.waiters[name]
	if !ok {
		q = NewWorkQueue()
		k.waiters[name] = q
	}
	q.Enqueue(t)
	k.mu.Unlock()

	k.emit(Event{Kind: EventWait, TaskID: t.ID, Signal: name})
}

// SignalOne wakes the single longest-waiting task registered for name and
// schedules it at normal priority with vals as its resume arguments.
func (k *Kernel) SignalOne(name string, vals ...any) error {
	k.mu.Lock()
	q, ok := k.waiters[name]
	if !ok {
		k.mu.Unlock()
		return signalErr(name, ErrEventNotRegistered)
	}
	v, err := q.Dequeue()
	k.mu.Unlock()
	if err != nil {
		return signalErr(name, ErrNoWaiters)
	}

	t := v.(*Task)
	k.sched.Schedule(t, vals, PriorityNormal)
	k.emit(Event{Kind: EventWake, TaskID: t.ID, Signal: name})
	k.notify()
	return nil
}

// SignalAll wakes every task currently waiting for name, each with the same
// vals, enqueued at the back of the ready queue in their waiting order.
func (k *Kernel) SignalAll(name string, vals ...any) error {
	return k.signalAll(name, PriorityNormal, vals)
}

// SignalAllBump wakes every waiter like SignalAll but pushes each to the
// front of the ready queue. Repeated front insertion means the last waiter
// woken ends up at the very front, so wake order is reversed relative to
// SignalAll. Long-standing behavior; callers rely on "runs before anything
// already ready", not on the relative order.
func (k *Kernel) SignalAllBump(name string, vals ...any) error {
	return k.signalAll(name, PriorityBump, vals)
}

func (k *Kernel) signalAll(name string, priority int, vals []any) error {
	k.mu.Lock()
	q, ok := k.waiters[name]
	if !ok {
		k.mu.Unlock()
		return signalErr(name, ErrEventNotRegistered)
	}
	if q.Len() == 0 {
		k.mu.Unlock()
		return signalErr(name, ErrNoWaiters)
	}
	woken := make([]*Task, 0, q.Len())
	for q.Len() > 0 {
		v, _ := q.Dequeue()
		woken = append(woken, v.(*Task))
	}
	k.mu.Unlock()

	for _, t := range woken {
		k.sched.Schedule(t, vals, priority)
		k.emit(Event{Kind: EventWake, TaskID: t.ID, Signal: name})
	}
	k.notify()
	return nil
}

// OnSignal spawns a task that waits once for name, invokes handler with the
// payload, and completes.
func (k *Kernel) OnSignal(name string, handler Handler) *Task {
	return k.Spawn(func(co *Coro, _ ...any) ([]any, error) {
		vals := co.WaitForSignal(name)
		handler(co, vals...)
		return nil, nil
	})
}

// Whenever spawns a task that waits for name and invokes handler on every
// delivery, forever. It runs until the kernel halts or the handler panics.
func (k *Kernel) Whenever(name string, handler Handler) *Task {
	return k.Spawn(func(co *Coro, _ ...any) ([]any, error) {
		for {
			vals := co.WaitForSignal(name)
			handler(co, vals...)
		}
	})
}

// Step runs one iteration of scheduling work without the idle wait: at most
// one task is resumed. Exposed for embedders and tests that pump the kernel
// manually; Run is the usual driver.
func (k *Kernel) Step() bool {
	worked := k.sched.Step()
	if worked {
		k.tick.Add(1)
		k.metrics.RecordQueueDepth(k.sched.Pending())
	}
	return worked
}

// Run seeds an initial task if body is non-nil, then steps the scheduler
// until Halt is called or ctx is cancelled. While the ready queue is empty
// the loop blocks on new work or an idle pulse instead of spinning.
func (k *Kernel) Run(ctx context.Context, body Body, args ...any) error {
	if body != nil {
		k.Spawn(body, args...)
	}

	k.clock.Start(time.Duration(k.cfg.IdleTickMS) * time.Millisecond)

	// Consume trace events off the loop thread; drained on exit.
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev := <-k.events:
				k.handleEvent(ev)
			case <-quit:
				for {
					select {
					case ev := <-k.events:
						k.handleEvent(ev)
					default:
						return
					}
				}
			}
		}
	}()
	defer func() {
		k.clock.Stop()
		close(quit)
		<-done
		k.csv.close()
	}()

	for k.running.Load() {
		if ctx.Err() != nil {
			k.running.Store(false)
			return ctx.Err()
		}
		if k.Step() {
			continue
		}

		// idle: wait for new work, a halt, or an idle pulse
		select {
		case <-k.wake:
		case <-k.clock.Ch:
			k.emit(Event{Kind: EventIdle})
		case <-ctx.Done():
			k.running.Store(false)
			return ctx.Err()
		}
	}
	return nil
}

// Halt stops the run loop. It takes effect after the step in flight
// returns, at the top of the next loop check, and only once.
func (k *Kernel) Halt() {
	if k.running.CompareAndSwap(true, false) {
		k.emit(Event{Kind: EventHalt})
		k.notify()
	}
}

// Running reports whether the run loop is still live.
func (k *Kernel) Running() bool { return k.running.Load() }

// SuspendCurrent marks the currently running task suspended.
func (k *Kernel) SuspendCurrent() error { return k.sched.SuspendCurrent() }

// TasksPending reports the ready-queue length.
func (k *Kernel) TasksPending() int { return k.sched.Pending() }

// CurrentTaskID returns the id of the task executing right now, if any.
func (k *Kernel) CurrentTaskID() (TaskID, bool) {
	if t := k.sched.Current(); t != nil {
		return t.ID, true
	}
	return 0, false
}

// Waiters reports how many tasks are parked on name.
func (k *Kernel) Waiters(name string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if q, ok := k.waiters[name]; ok {
		return q.Len()
	}
	return 0
}

// Ticks returns the number of steps that consumed a queue entry.
func (k *Kernel) Ticks() int64 { return k.tick.Load() }

// IdlePulses returns the number of idle pulses the clock has emitted.
func (k *Kernel) IdlePulses() int64 { return k.clock.Count() }

// emit stamps and publishes a trace event. The stream is best effort: when
// the buffer is full the event is dropped rather than blocking a step.
func (k *Kernel) emit(ev Event) {
	ev.Time = time.Now()
	ev.Tick = k.tick.Load()
	select {
	case k.events <- ev:
	default:
	}
}

func (k *Kernel) notify() {
	select {
	case k.wake <- struct{}{}:
	default:
	}
}
