package sched

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/utils"
)

// WorkQueue is an ordered double-ended sequence. The scheduler uses one as
// its ready-to-run list and the kernel uses one per signal name for the
// tasks parked on that signal. It is owned and mutated by a single thread;
// callers that share one across goroutines must serialize access themselves.
type WorkQueue struct {
	list *arraylist.List
}

// NewWorkQueue creates an empty work queue.
func NewWorkQueue() *WorkQueue {
	return &WorkQueue{list: arraylist.New()}
}

// Enqueue appends v at the back and returns it.
func (q *WorkQueue) Enqueue(v any) any {
	q.list.Add(v)
	return v
}

// PushFront prepends v at the front.
func (q *WorkQueue) PushFront(v any) {
	q.list.Insert(0, v)
}

// Dequeue removes and returns the front element, or ErrEmptyQueue if the
// queue holds nothing.
func (q *WorkQueue) Dequeue() (any, error) {
	v, ok := q.list.Get(0)
	if !ok {
		return nil, ErrEmptyQueue
	}
	q.list.Remove(0)
	return v, nil
}

// Len reports the number of queued elements.
func (q *WorkQueue) Len() int {
	return q.list.Size()
}

// PInsert inserts v at its sorted position under cmp, keeping elements that
// compare equal in insertion order, and returns the index it landed at.
// A nil cmp falls back to ascending int ordering.
func (q *WorkQueue) PInsert(v any, cmp utils.Comparator) int {
	if cmp == nil {
		cmp = utils.IntComparator
	}

	lo, hi := 0, q.list.Size()
	for lo < hi {
		mid := (lo + hi) / 2
		cur, _ := q.list.Get(mid)
		if cmp(cur, v) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	q.list.Insert(lo, v)
	return lo
}
