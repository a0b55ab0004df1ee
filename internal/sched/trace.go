// internal/sched/trace.go

package sched

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func signalErr(name string, err error) error {
	return fmt.Errorf("signal %q: %w", name, err)
}

// csvTrace writes one CSV record per trace event. Nil-safe: a kernel
// without CSV tracing carries a nil *csvTrace.
type csvTrace struct {
	file   *os.File
	writer *csv.Writer
}

// EnableCSVTrace opens the given file path for CSV logging of trace events.
// Must be called before Run().
func (k *Kernel) EnableCSVTrace(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	// write header
	w.Write([]string{"timestamp", "tick", "event", "task_id", "signal", "error"})
	w.Flush()
	k.csv = &csvTrace{file: f, writer: w}
	return nil
}

func (c *csvTrace) record(ev Event) {
	if c == nil {
		return
	}
	errText := ""
	if ev.Err != nil {
		errText = ev.Err.Error()
	}
	rec := []string{
		ev.Time.Format(time.RFC3339Nano),
		strconv.FormatInt(ev.Tick, 10),
		ev.Kind.String(),
		strconv.FormatUint(uint64(ev.TaskID), 10),
		ev.Signal,
		errText,
	}
	c.writer.Write(rec)
	c.writer.Flush()
}

func (c *csvTrace) close() {
	if c == nil {
		return
	}
	c.writer.Flush()
	c.file.Close()
}

// handleEvent runs on the trace consumer goroutine only.
func (k *Kernel) handleEvent(ev Event) {
	if ev.Kind == EventIdle && k.cfg.QuietIdle {
		return
	}
	if ev.Kind == EventDispatch {
		k.resumeTotals[ev.TaskID]++
	}

	// an auxiliary function to center the event kind in the output
	center := func(str string, width int) string {
		spaces := int(float64(width-len(str)) / 2)
		return strings.Repeat(" ", spaces) + str + strings.Repeat(" ", width-(spaces+len(str)))
	}

	msg := fmt.Sprintf("%s = Tick: %07d [%s] => Task: %04d, Resumes: %04d",
		ev.Time.Format("Jan 02 15:04:05.000"),
		ev.Tick,
		center(ev.Kind.String(), 16),
		ev.TaskID,
		k.resumeTotals[ev.TaskID],
	)
	if ev.Signal != "" {
		msg += fmt.Sprintf(", Signal: %q", ev.Signal)
	}
	fmt.Println(msg)

	if ev.Kind == EventFail {
		k.logger.Error("task body failed", "task", uint64(ev.TaskID), "err", ev.Err)
	}

	k.csv.record(ev)
}
