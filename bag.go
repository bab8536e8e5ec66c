package bagz

import (
	"sync"
	"sync/atomic"
	"weak"

	"github.com/zoobzio/clockz"
)

// Bag holds handlers that fire repeatedly: a handler added to a Bag is
// invoked by every call until it is individually removed.
//
// H is the handler type, typically a func type such as func(Event). Handlers
// are stored by pointer, so calls hand each handler to the applicator without
// copying it and AddShared can register one handler value with several bags.
//
// All methods are safe for concurrent use. The internal lock is held only for
// map mutation or a snapshot, never while handler code runs.
type Bag[H any] struct {
	clock    clockz.Clock
	mu       sync.Mutex
	handlers map[uint64]*H
	nextKey  uint64
	metrics  counters
}

// New creates an empty repeating bag.
//
// Example:
//
//	onChange := bagz.New[func(old, new State)]()
func New[H any](opts ...Option) *Bag[H] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Bag[H]{
		clock:    cfg.clock,
		handlers: make(map[uint64]*H, cfg.sizeHint),
	}
}

// Add registers a handler and returns its HandlerID. The handler stays
// registered as long as the HandlerID (or a copy of it) is held, or forever
// if the ID is detached.
func (b *Bag[H]) Add(handler H) HandlerID {
	return b.AddShared(&handler)
}

// AddShared registers a handler through a pointer the caller already holds,
// avoiding re-wrapping when the same handler is shared across several bags.
// The contract is otherwise identical to Add.
func (b *Bag[H]) AddShared(handler *H) HandlerID {
	b.mu.Lock()
	key := b.nextKey
	b.nextKey++
	b.handlers[key] = handler
	b.mu.Unlock()

	atomic.AddInt64(&b.metrics.added, 1)

	// The removal closure reaches the bag weakly: an outstanding HandlerID
	// must never keep the bag alive, and removal after the bag is gone is a
	// no-op.
	ref := weak.Make(b)
	return newHandlerID(func() {
		bag := ref.Value()
		if bag == nil {
			return
		}
		bag.mu.Lock()
		_, present := bag.handlers[key]
		delete(bag.handlers, key)
		bag.mu.Unlock()
		if present {
			atomic.AddInt64(&bag.metrics.removed, 1)
		}
	})
}

// Call invokes apply once per currently registered handler. Handlers remain
// registered afterwards.
//
// The handler set is snapshotted under the lock and the lock is released
// before apply runs, so a handler may add, remove (including itself), or call
// back into this bag without deadlocking. Handlers added or removed by
// another goroutine while Call is running may or may not be observed by this
// call. Iteration order is unspecified.
func (b *Bag[H]) Call(apply func(*H)) {
	b.mu.Lock()
	snapshot := make([]*H, 0, len(b.handlers))
	for _, handler := range b.handlers {
		snapshot = append(snapshot, handler)
	}
	b.mu.Unlock()

	atomic.AddInt64(&b.metrics.calls, 1)
	atomic.StoreInt64(&b.metrics.lastCall, b.clock.Now().UnixNano())

	for _, handler := range snapshot {
		apply(handler)
	}
}

// Len reports the number of currently registered handlers.
func (b *Bag[H]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// Metrics returns current bag metrics. Counters are read atomically;
// Registered is consistent with Add/Remove ordering.
func (b *Bag[H]) Metrics() Metrics {
	b.mu.Lock()
	registered := len(b.handlers)
	b.mu.Unlock()
	return b.metrics.snapshot(registered)
}

// Call0 through Call5 invoke every registered handler directly with the given
// arguments. They are convenience wrappers over Call for the common handler
// shapes func() through func(A1, ..., A5); every handler in a round receives
// identical argument values. Use a pointer argument type when handlers should
// share one object.

// Call0 invokes every registered handler with no arguments.
func Call0[H ~func()](b *Bag[H]) {
	b.Call(func(h *H) { (*h)() })
}

// Call1 invokes every registered handler with one argument.
func Call1[H ~func(A1), A1 any](b *Bag[H], a1 A1) {
	b.Call(func(h *H) { (*h)(a1) })
}

// Call2 invokes every registered handler with two arguments.
func Call2[H ~func(A1, A2), A1, A2 any](b *Bag[H], a1 A1, a2 A2) {
	b.Call(func(h *H) { (*h)(a1, a2) })
}

// Call3 invokes every registered handler with three arguments.
func Call3[H ~func(A1, A2, A3), A1, A2, A3 any](b *Bag[H], a1 A1, a2 A2, a3 A3) {
	b.Call(func(h *H) { (*h)(a1, a2, a3) })
}

// Call4 invokes every registered handler with four arguments.
func Call4[H ~func(A1, A2, A3, A4), A1, A2, A3, A4 any](b *Bag[H], a1 A1, a2 A2, a3 A3, a4 A4) {
	b.Call(func(h *H) { (*h)(a1, a2, a3, a4) })
}

// Call5 invokes every registered handler with five arguments.
func Call5[H ~func(A1, A2, A3, A4, A5), A1, A2, A3, A4, A5 any](b *Bag[H], a1 A1, a2 A2, a3 A3, a4 A4, a5 A5) {
	b.Call(func(h *H) { (*h)(a1, a2, a3, a4, a5) })
}
