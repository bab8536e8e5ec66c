package bagz

import (
	"runtime"
	"sync"
)

// removal holds the deferred unregistration action shared by every copy of a
// HandlerID. The action is taken under the mutex so that explicit Remove
// calls, Detach, and the garbage-collector cleanup race safely to at most one
// execution.
type removal struct {
	mu sync.Mutex
	fn func()
}

// take returns the stored action and clears it. Every take after the first
// returns nil.
func (r *removal) take() func() {
	r.mu.Lock()
	fn := r.fn
	r.fn = nil
	r.mu.Unlock()
	return fn
}

// idState is a separate allocation from the removal so the GC cleanup can
// track reachability of the HandlerID copies while the cleanup argument (the
// removal) stays collectable. The cleanup never runs as long as any copy of
// the HandlerID is still reachable.
type idState struct {
	remove *removal
}

// HandlerID keeps a registered handler in place. When every copy of a
// HandlerID has been discarded without Detach being called, the handler is
// removed from its bag automatically during a later garbage collection.
//
// HandlerID is a small value; copies are cheap and all refer to the same
// registration. The removal runs at most once no matter how many copies
// exist or how many goroutines race to trigger it.
//
// A HandlerID holds only a weak reference to its bag: outstanding IDs never
// keep a bag alive, and removal after the bag itself has been collected is a
// silent no-op.
//
// The zero value is inert; Remove and Detach on it do nothing.
type HandlerID struct {
	state *idState
}

// newHandlerID wraps a removal action in a HandlerID and arms the GC-driven
// automatic removal.
func newHandlerID(fn func()) HandlerID {
	rem := &removal{fn: fn}
	state := &idState{remove: rem}
	runtime.AddCleanup(state, func(r *removal) {
		if fn := r.take(); fn != nil {
			fn()
		}
	}, rem)
	return HandlerID{state: state}
}

// Remove unregisters the handler now. It is idempotent: removing an already
// removed, already drained, or detached handler does nothing, as does
// removing from a bag that no longer exists.
func (id HandlerID) Remove() {
	if id.state == nil {
		return
	}
	if fn := id.state.remove.take(); fn != nil {
		fn()
	}
}

// Detach permanently disarms automatic removal, keeping the handler
// registered for the life of its bag. Idempotent; calling Detach after
// Remove (or the reverse) has no additional effect.
func (id HandlerID) Detach() {
	if id.state == nil {
		return
	}
	id.state.remove.take()
}
