// Package status holds lock-free runtime counters for the render loop.
// Writers cache metric pointers once; readers snapshot from any goroutine.
package status

import (
	"strconv"
	"sync/atomic"
)

// Metric names published by the window controller
const (
	Frames    = "frames"     // frames flushed
	Settles   = "settles"    // settled redraws after a resize
	Resizes   = "resizes"    // loop iterations that found a new size
	Keys      = "keys"       // non-quit keys dispatched
	Tasks     = "tasks"      // posted tasks run
	LoopState = "loop_state" // current controller state name
)

// Registry groups the counter and label maps
type Registry struct {
	Counters *MetricMap[atomic.Int64]
	Labels   *MetricMap[AtomicString]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Counters: NewMetricMap[atomic.Int64](),
		Labels:   NewMetricMap[AtomicString](),
	}
}

// Counter returns the counter for name, creating it at zero
func (r *Registry) Counter(name string) *atomic.Int64 {
	return r.Counters.Get(name)
}

// Label returns the label for name, creating it empty
func (r *Registry) Label(name string) *AtomicString {
	return r.Labels.Get(name)
}

// Snapshot flattens every metric into slog-ready key/value pairs, sorted by
// kind then name
func (r *Registry) Snapshot() []any {
	attrs := make([]any, 0, 2*(r.Counters.Count()+r.Labels.Count()))
	r.Counters.Range(func(k string, v *atomic.Int64) {
		attrs = append(attrs, k, v.Load())
	})
	r.Labels.Range(func(k string, v *AtomicString) {
		attrs = append(attrs, k, v.Load())
	})
	return attrs
}

// String renders the snapshot as "k=v" pairs
func (r *Registry) String() string {
	attrs := r.Snapshot()
	var b []byte
	for i := 0; i+1 < len(attrs); i += 2 {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, attrs[i].(string)...)
		b = append(b, '=')
		switch v := attrs[i+1].(type) {
		case int64:
			b = strconv.AppendInt(b, v, 10)
		case string:
			b = append(b, v...)
		}
	}
	return string(b)
}
