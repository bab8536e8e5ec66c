package bagz

import (
	"sync/atomic"
	"time"
)

// Metrics provides observability data for a bag. All counters are cumulative
// over the bag's lifetime and read atomically; Registered is the current
// handler count read under the bag's lock.
type Metrics struct {
	Registered int64     // Currently registered handlers
	Added      int64     // Total registrations
	Removed    int64     // Handlers removed via HandlerID (explicit or GC-driven)
	Drained    int64     // Handlers consumed by BagOnce calls (always 0 for Bag)
	Calls      int64     // Total Call invocations
	LastCall   time.Time // When the most recent call started; zero if never called
}

// counters is the internal mutable form of Metrics, updated with atomic
// operations so metric writes never contend with the bag's lock.
type counters struct {
	added    int64
	removed  int64
	drained  int64
	calls    int64
	lastCall int64 // unix nanoseconds; 0 means never called
}

func (c *counters) snapshot(registered int) Metrics {
	m := Metrics{
		Registered: int64(registered),
		Added:      atomic.LoadInt64(&c.added),
		Removed:    atomic.LoadInt64(&c.removed),
		Drained:    atomic.LoadInt64(&c.drained),
		Calls:      atomic.LoadInt64(&c.calls),
	}
	if nanos := atomic.LoadInt64(&c.lastCall); nanos != 0 {
		m.LastCall = time.Unix(0, nanos)
	}
	return m
}
