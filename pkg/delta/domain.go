package delta

import (
	"math"
	"time"
)

// Ticks counts main-function periods.
type Ticks uint32

const (
	// Stopped is the value of a timer that is not running.
	Stopped Ticks = 0

	// Forever is the value of a timer that never expires.
	Forever Ticks = math.MaxUint32
)

// Active reports whether the timer takes part in countdown.
func (t Ticks) Active() bool {
	return t != Stopped && t != Forever
}

// FromDuration converts d to ticks of the given period, rounding up.
// Results saturate below Forever.
func FromDuration(d, period time.Duration) Ticks {
	if d <= 0 || period <= 0 {
		return 0
	}
	n := (d + period - 1) / period
	if n >= time.Duration(Forever) {
		return Forever - 1
	}
	return Ticks(n)
}

// FromSeconds converts a protocol TTL in seconds to ticks of the given
// period. Results saturate below Forever.
func FromSeconds(s uint32, period time.Duration) Ticks {
	perSecond := FromDuration(time.Second, period)
	n := uint64(s) * uint64(perSecond)
	if n >= uint64(Forever) {
		return Forever - 1
	}
	return Ticks(n)
}

// Domain is the shared countdown of one timer domain of one instance.
// The zero value is an idle domain. A Domain is not safe for concurrent use;
// the engine serializes all access.
type Domain struct {
	// step is the value the running countdown started from.
	step Ticks

	// countdown is the number of ticks until the next deadline.
	countdown Ticks
}

// Arm starts *t so that it expires after v ticks and adjusts the countdown
// if the new deadline comes first. Arming with Stopped stops the timer and
// arming with Forever parks it.
func (d *Domain) Arm(t *Ticks, v Ticks) {
	if !v.Active() {
		*t = v
		return
	}

	// Timers store their value relative to the start of the running step,
	// so add what has already elapsed of it.
	elapsed := d.step - d.countdown
	if v > Forever-1-elapsed {
		v = Forever - 1 - elapsed
	}
	*t = v + elapsed

	if d.countdown == 0 || v < d.countdown {
		d.step = elapsed + v
		d.countdown = v
	}
}

// Stop stops *t. The countdown is left alone; a step that finds no expired
// timer simply restarts from the remaining minimum.
func (d *Domain) Stop(t *Ticks) {
	*t = Stopped
}

// Tick advances the domain by one period. It reports true together with the
// elapsed step when the smallest deadline has been reached; the caller must
// then call Expire on every timer of the domain.
func (d *Domain) Tick() (Ticks, bool) {
	if d.countdown == 0 {
		return 0, false
	}
	d.countdown--
	if d.countdown > 0 {
		return 0, false
	}
	step := d.step
	d.step = 0
	return step, true
}

// Expire subtracts step from *t. It returns true if the timer expired, in
// which case *t is Stopped. Timers that keep running take part in the next
// countdown.
func (d *Domain) Expire(t *Ticks, step Ticks) bool {
	if !t.Active() {
		return false
	}
	if *t <= step {
		*t = Stopped
		return true
	}
	*t -= step
	d.consider(*t)
	return false
}

// consider makes remaining a candidate for the next countdown.
func (d *Domain) consider(remaining Ticks) {
	if d.countdown == 0 || remaining < d.countdown {
		d.step = remaining
		d.countdown = remaining
	}
}

// Remaining returns the ticks until the domain's next deadline, zero when
// idle.
func (d *Domain) Remaining() Ticks {
	return d.countdown
}

// Left returns the ticks until t expires. Stopped and Forever are returned
// unchanged.
func (d *Domain) Left(t Ticks) Ticks {
	if !t.Active() {
		return t
	}
	return t - (d.step - d.countdown)
}

// Pending reports whether any deadline is scheduled.
func (d *Domain) Pending() bool {
	return d.countdown != 0
}

// Reset idles the domain. Callers must stop the timers they own.
func (d *Domain) Reset() {
	d.step = 0
	d.countdown = 0
}
