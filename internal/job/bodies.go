package job

import (
	"corunq/internal/sched"
)

// CountWork returns a body that yields its step number n times and
// completes with n.
func CountWork(n int) sched.Body {
	return func(co *sched.Coro, _ ...any) ([]any, error) {
		for i := 1; i <= n; i++ {
			co.Yield(i)
		}
		return []any{n}, nil
	}
}

// Collect returns a body that waits once for name and appends the wake
// payload to sink.
func Collect(name string, sink *[]any) sched.Body {
	return func(co *sched.Coro, _ ...any) ([]any, error) {
		vals := co.WaitForSignal(name)
		*sink = append(*sink, vals...)
		return vals, nil
	}
}

// Relay returns a body that waits for from and re-publishes each payload on
// to, forever. Useful for chaining signal pipelines in demos.
func Relay(from, to string) sched.Body {
	return func(co *sched.Coro, _ ...any) ([]any, error) {
		for {
			vals := co.WaitForSignal(from)
			if err := co.Kernel().SignalOne(to, vals...); err != nil {
				return nil, err
			}
		}
	}
}
