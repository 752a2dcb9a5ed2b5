package metrics

import "sync/atomic"

// Counter counts occurrences of an event.
type Counter struct {
	name  string
	count atomic.Int64
}

func newCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc adds one.
func (c *Counter) Inc() {
	if Enabled() {
		c.count.Add(1)
	}
}

// Name returns the counter name.
func (c *Counter) Name() string { return c.name }

// Count returns the current value.
func (c *Counter) Count() int64 { return c.count.Load() }

// Reset sets the counter to zero.
func (c *Counter) Reset() { c.count.Store(0) }

// Navigation outcome counters.
var (
	EndOfSequence   = newCounter("end_of_sequence")
	StartOfSequence = newCounter("start_of_sequence")
	ContentNotFound = newCounter("content_not_found")
	BridgeErrors    = newCounter("bridge_errors")
)

// AllCounters returns all registered counters.
func AllCounters() []*Counter {
	return []*Counter{EndOfSequence, StartOfSequence, ContentNotFound, BridgeErrors}
}

// CounterStats returns the non-zero counters by name.
func CounterStats() map[string]int64 {
	out := make(map[string]int64)
	for _, c := range AllCounters() {
		if n := c.Count(); n > 0 {
			out[c.name] = n
		}
	}
	return out
}
