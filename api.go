// Package bagz provides thread-safe event handler bags: small concurrent
// containers a host object composes to expose subscribe points, with
// handle-based automatic unregistration.
//
// Two container flavors exist:
//   - Bag holds handlers that fire on every call until individually removed.
//   - BagOnce holds handlers that fire at most once; calling it drains every
//     registered handler in a single atomic swap.
//
// Registration returns a HandlerID. Keeping the HandlerID keeps the handler
// registered; discarding every copy of it removes the handler automatically
// once the garbage collector notices. Call HandlerID.Remove for deterministic
// removal, or HandlerID.Detach to keep the handler registered for the life of
// the bag.
//
// Basic Usage:
//
//	onMessage := bagz.New[func(msg string)]()
//
//	id := onMessage.Add(func(msg string) {
//		fmt.Println("received:", msg)
//	})
//
//	// Fire the event. Every registered handler runs on this goroutine.
//	bagz.Call1(onMessage, "hello")
//
//	// Unregister explicitly, or just let id go out of scope.
//	id.Remove()
//
// Single-shot events use BagOnce:
//
//	onClose := bagz.NewOnce[func()]()
//	onClose.Add(func() { fmt.Println("closed") }).Detach()
//
//	bagz.Drain0(onClose) // fires every handler exactly once
//	bagz.Drain0(onClose) // no handlers left, does nothing
//
// Service Integration:
//
// Compose one bag per event inside the host type and expose typed subscribe
// methods. The bags stay private; subscribers only see HandlerIDs:
//
//	type Conn struct {
//		onMessage *bagz.Bag[func(payload []byte)]
//		onClose   *bagz.BagOnce[func()]
//	}
//
//	func (c *Conn) OnMessage(f func([]byte)) bagz.HandlerID {
//		return c.onMessage.Add(f)
//	}
//
//	func (c *Conn) OnClose(f func()) bagz.HandlerID {
//		return c.onClose.Add(f)
//	}
//
// Concurrency Model:
//
// All operations are synchronous and safe for concurrent use. A bag's
// internal lock is held only for map mutation or a snapshot, never while
// handler code runs, so handlers may freely add handlers, remove themselves
// or others, or call back into the same bag without deadlocking. Handlers
// added or removed while a call is in flight may or may not be observed by
// that call (snapshot semantics).
//
// No operation in this package returns an error: registration cannot fail,
// and removing an already-removed handler is a silent no-op. A panic in a
// handler propagates to the caller of Call/Drain; the bag does not recover
// it.
package bagz
