package bagz

import (
	"sync/atomic"
	"testing"
)

func TestOnceDrainFiresEachHandlerOnce(t *testing.T) {
	bag := NewOnce[func()]()

	var calls int32
	bag.Add(func() { atomic.AddInt32(&calls, 1) }).Detach()
	bag.Add(func() { atomic.AddInt32(&calls, 1) }).Detach()

	Drain0(bag)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected both handlers to fire once, got %d", got)
	}

	Drain0(bag)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("second drain must invoke zero handlers, counter moved to %d", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("expected empty bag after drain, got %d", bag.Len())
	}
}

func TestOnceRemovedHandlerNeverFires(t *testing.T) {
	bag := NewOnce[func()]()

	var calls int32
	bag.Add(func() { atomic.AddInt32(&calls, 1) }).Detach()
	id := bag.Add(func() { atomic.AddInt32(&calls, 1) })
	id.Remove()

	bag.Call(func(h func()) {
		h()
	})

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("cancelled handler must not fire, got %d calls", got)
	}

	// The bag is reusable after a drain: new registrations fire on the next
	// call.
	bag.Add(func() { atomic.AddInt32(&calls, 1) }).Detach()
	Drain0(bag)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("re-added handler should fire, got %d calls", got)
	}
}

func TestOnceDetachDoesNotSurviveDrain(t *testing.T) {
	bag := NewOnce[func()]()

	var calls int32
	bag.Add(func() { atomic.AddInt32(&calls, 1) }).Detach()

	Drain0(bag)
	Drain0(bag)

	// Detach keeps a handler registered until it fires; it does not make a
	// single-shot handler repeat.
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("detached single-shot handler must still fire only once, got %d", got)
	}
}

func TestOnceRemoveAfterDrainIsNoop(t *testing.T) {
	bag := NewOnce[func()]()

	var calls int32
	id := bag.Add(func() { atomic.AddInt32(&calls, 1) })

	Drain0(bag)
	id.Remove()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one call, got %d", got)
	}
	if got := bag.Metrics().Removed; got != 0 {
		t.Fatalf("removing an already-drained handler must not count as a removal, got %d", got)
	}
}

func TestOnceDrainArguments(t *testing.T) {
	bag := NewOnce[func(v int)]()

	var got int32
	bag.Add(func(v int) { atomic.StoreInt32(&got, int32(v)) }).Detach()

	Drain1(bag, 42)
	if atomic.LoadInt32(&got) != 42 {
		t.Fatalf("expected argument 42, got %d", got)
	}

	five := NewOnce[func(a1, a2, a3, a4, a5 int)]()
	var sum int32
	five.Add(func(a1, a2, a3, a4, a5 int) {
		atomic.StoreInt32(&sum, int32(a1+a2+a3+a4+a5))
	}).Detach()

	Drain5(five, 1, 2, 3, 4, 5)
	if atomic.LoadInt32(&sum) != 15 {
		t.Fatalf("expected argument sum 15, got %d", sum)
	}
}

// Removing a handle on another goroutine while the drain is mid-flight must
// terminate regardless of interleaving: the drain already consumed the key,
// so the removal is a no-op rather than a lock fight.
func TestOnceRemoveDuringDrain(t *testing.T) {
	bag := NewOnce[func()]()

	started := make(chan struct{})
	release := make(chan struct{})
	id := bag.Add(func() {
		close(started)
		<-release
	})

	done := make(chan struct{})
	go func() {
		<-started
		id.Remove()
		close(release)
		close(done)
	}()

	Drain0(bag)
	<-done
}

// A handler registering its replacement on the same bag mid-drain must not
// deadlock, and the replacement belongs to the next drain.
func TestOnceReentrantAdd(t *testing.T) {
	bag := NewOnce[func()]()

	var second int32
	bag.Add(func() {
		bag.Add(func() { atomic.AddInt32(&second, 1) }).Detach()
	}).Detach()

	Drain0(bag)
	if got := atomic.LoadInt32(&second); got != 0 {
		t.Fatalf("handler added mid-drain must not fire in the same drain, got %d", got)
	}
	if bag.Len() != 1 {
		t.Fatalf("expected replacement handler to be registered, got %d", bag.Len())
	}

	Drain0(bag)
	if got := atomic.LoadInt32(&second); got != 1 {
		t.Fatalf("replacement handler should fire on the next drain, got %d", got)
	}
}
