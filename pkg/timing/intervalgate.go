package timing

import "time"

// IntervalGate is a callable gate: invoking it returns true iff periodMs
// has elapsed since the last true, and updates the internal reference stamp
// when it fires.
type IntervalGate struct {
	period time.Duration
	timer  *MonoTimer
	last   float64
}

// NewIntervalGate returns a gate armed so that the first call fires
// immediately.
func NewIntervalGate(periodMs int64) *IntervalGate {
	g := &IntervalGate{
		period: time.Duration(periodMs) * time.Millisecond,
		timer:  NewMonoTimer(),
	}
	g.last = -g.period.Seconds()
	return g
}

// Fire reports whether the period has elapsed, resetting the internal
// reference on a true result.
func (g *IntervalGate) Fire() bool {
	now := g.timer.Interval()
	if now >= g.last+g.period.Seconds() {
		g.last = now
		return true
	}
	return false
}

// UntilNextMs returns the milliseconds remaining before the gate would next
// fire, floored at zero.
func (g *IntervalGate) UntilNextMs() float64 {
	now := g.timer.Interval()
	remaining := (g.last + g.period.Seconds() - now) * 1000.0
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset restarts the reference clock and rearms the gate so that the next
// call fires immediately.
func (g *IntervalGate) Reset() {
	g.timer.Start()
	g.last = g.timer.Interval() - g.period.Seconds()
}
