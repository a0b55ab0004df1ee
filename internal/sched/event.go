// internal/sched/event.go

package sched

import (
	"time"
)

// EventKind represents the type of kernel trace event
type EventKind int

const (
	EventIdle EventKind = iota
	EventSpawn
	EventDispatch
	EventYield
	EventSkip
	EventFinish
	EventFail
	EventWait
	EventWake
	EventHalt
)

// Event is emitted for every scheduling decision and signal operation
type Event struct {
	Time   time.Time
	Kind   EventKind
	Tick   int64
	TaskID TaskID
	Signal string
	Err    error
}

func (ek EventKind) String() string {
	switch ek {
	case EventIdle:
		return "Idle"
	case EventSpawn:
		return "Spawn"
	case EventDispatch:
		return "Dispatch"
	case EventYield:
		return "Yield"
	case EventSkip:
		return "Skip"
	case EventFinish:
		return "Finish"
	case EventFail:
		return "Fail"
	case EventWait:
		return "Wait"
	case EventWake:
		return "Wake"
	case EventHalt:
		return "Halt"
	default:
		return "Unknown"
	}
}
