// Package delta implements the tick-driven timer domains of the discovery
// engine.
//
// A Domain tracks only the smallest pending deadline of a group of timers.
// Each tick decrements that single countdown; when it reaches zero the owner
// walks its timers once and subtracts the elapsed step from every active
// timer. Timers with larger remaining time carry the unconsumed part forward,
// so a tick with nothing due costs O(1) and a due tick costs O(active timers).
//
// Timer values live in the owning records, not in the Domain. A value of zero
// means the timer is stopped and Forever means it never expires; neither is
// ever counted down.
//
// # Walking a domain
//
//	if step, due := d.Tick(); due {
//	    var fired []int
//	    for i := range timers {
//	        if d.Expire(&timers[i], step) {
//	            fired = append(fired, i)
//	        }
//	    }
//	    for _, i := range fired {
//	        handle(i) // may call d.Arm
//	    }
//	}
//
// Subtraction and firing are kept in separate passes so that a handler
// re-arming any timer never sees a half-updated domain.
package delta
