package bagz

import (
	"sync"
	"sync/atomic"
	"weak"

	"github.com/zoobzio/clockz"
)

// BagOnce holds handlers that fire at most once. Calling the bag drains
// every currently registered handler in a single atomic swap and hands each
// one to the applicator by value; a drained handler is gone and can never be
// invoked again. Handlers can be cancelled before they fire by removing
// their HandlerID.
//
// All methods are safe for concurrent use. The internal lock is held only
// for map mutation or the drain swap, never while handler code runs.
type BagOnce[H any] struct {
	clock    clockz.Clock
	mu       sync.Mutex
	handlers map[uint64]H
	nextKey  uint64
	metrics  counters
}

// NewOnce creates an empty single-shot bag.
//
// Example:
//
//	onClose := bagz.NewOnce[func(reason error)]()
func NewOnce[H any](opts ...Option) *BagOnce[H] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &BagOnce[H]{
		clock:    cfg.clock,
		handlers: make(map[uint64]H, cfg.sizeHint),
	}
}

// Add registers a handler and returns its HandlerID. The contract matches
// Bag.Add: the handler stays registered while the ID is held or after
// Detach, and may be cancelled via Remove at any point before it fires.
func (b *BagOnce[H]) Add(handler H) HandlerID {
	b.mu.Lock()
	key := b.nextKey
	b.nextKey++
	b.handlers[key] = handler
	b.mu.Unlock()

	atomic.AddInt64(&b.metrics.added, 1)

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

// Call drains the bag and invokes apply once per drained handler, passing
// each handler by value.
//
// The entire handler map is swapped for an empty one under the lock, then
// the lock is released before any handler runs. The swap is what makes the
// at-most-once guarantee cheap: a second Call finds an empty map, and a
// HandlerID removal racing the drain targets a key that is already absent
// and no-ops. Iteration order is unspecified.
func (b *BagOnce[H]) Call(apply func(H)) {
	b.mu.Lock()
	drained := b.handlers
	b.handlers = make(map[uint64]H)
	b.mu.Unlock()

	atomic.AddInt64(&b.metrics.calls, 1)
	atomic.StoreInt64(&b.metrics.lastCall, b.clock.Now().UnixNano())
	if len(drained) > 0 {
		atomic.AddInt64(&b.metrics.drained, int64(len(drained)))
	}

	for _, handler := range drained {
		apply(handler)
	}
}

// Len reports the number of handlers registered and not yet drained.
func (b *BagOnce[H]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// Metrics returns current bag metrics.
func (b *BagOnce[H]) Metrics() Metrics {
	b.mu.Lock()
	registered := len(b.handlers)
	b.mu.Unlock()
	return b.metrics.snapshot(registered)
}

// Drain0 through Drain5 drain the bag and invoke each drained handler
// directly with the given arguments, for the common handler shapes func()
// through func(A1, ..., A5). Consumption semantics are those of Call.

// Drain0 drains the bag, invoking each handler with no arguments.
func Drain0[H ~func()](b *BagOnce[H]) {
	b.Call(func(h H) { h() })
}

// Drain1 drains the bag, invoking each handler with one argument.
func Drain1[H ~func(A1), A1 any](b *BagOnce[H], a1 A1) {
	b.Call(func(h H) { h(a1) })
}

// Drain2 drains the bag, invoking each handler with two arguments.
func Drain2[H ~func(A1, A2), A1, A2 any](b *BagOnce[H], a1 A1, a2 A2) {
	b.Call(func(h H) { h(a1, a2) })
}

// Drain3 drains the bag, invoking each handler with three arguments.
func Drain3[H ~func(A1, A2, A3), A1, A2, A3 any](b *BagOnce[H], a1 A1, a2 A2, a3 A3) {
	b.Call(func(h H) { h(a1, a2, a3) })
}

// Drain4 drains the bag, invoking each handler with four arguments.
func Drain4[H ~func(A1, A2, A3, A4), A1, A2, A3, A4 any](b *BagOnce[H], a1 A1, a2 A2, a3 A3, a4 A4) {
	b.Call(func(h H) { h(a1, a2, a3, a4) })
}

// Drain5 drains the bag, invoking each handler with five arguments.
func Drain5[H ~func(A1, A2, A3, A4, A5), A1, A2, A3, A4, A5 any](b *BagOnce[H], a1 A1, a2 A2, a3 A3, a4 A4, a5 A5) {
	b.Call(func(h H) { h(a1, a2, a3, a4, a5) })
}
