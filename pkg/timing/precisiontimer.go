package timing

import "sync"

// PrecisionTimer is the logical clock driven by the clock synchronizer.
// count advances by caller-supplied increments; AsTime = offset +
// count/samplingRate. monotonicCount resets to zero whenever a Progress
// step would make AsTime non-increasing, and otherwise accrues the step —
// consumers use MonotonicTime to detect a recent non-monotonic adjustment.
//
// offset, count and the filter are mutated only from the driver thread and
// from the unique dialer's on-data handler, which serialize by
// construction for a single dialer link (spec.md §5). The mutex here is
// cheap insurance for callers that also want to read AsTime/MonotonicTime
// from other goroutines (e.g. metrics export).
type PrecisionTimer struct {
	mu             sync.Mutex
	count          uint64
	monotonicCount uint64
	offset         TimeStamp
	last           TimeStamp
	samplingRate   float64
	filter         *MedianWindow
}

// NewPrecisionTimer returns a timer at the given sampling rate (in Hz),
// with count and offset at zero.
func NewPrecisionTimer(samplingRate float64) *PrecisionTimer {
	return &PrecisionTimer{
		samplingRate: samplingRate,
		filter:       NewMedianWindow(),
	}
}

// Reset rewinds the timer to the given count, clearing offset, the
// monotonicity watchdog, and the median filter.
func (t *PrecisionTimer) Reset(count uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count = count
	t.monotonicCount = 0
	t.offset = 0
	t.last = 0
	t.filter.Reset()
}

// Progress advances count by the given number of samples and updates the
// monotonicity watchdog.
func (t *PrecisionTimer) Progress(count uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count += count
	now := t.asTimeLocked()

	if now <= t.last {
		t.monotonicCount = 0
	} else {
		t.monotonicCount += count
	}
	t.last = now
}

// Count returns the raw sample count.
func (t *PrecisionTimer) Count() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// AsTime returns the current logical time (offset + count/samplingRate).
func (t *PrecisionTimer) AsTime() TimeStamp {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.asTimeLocked()
}

func (t *PrecisionTimer) asTimeLocked() TimeStamp {
	return t.offset.Add(AsTime(t.count, t.samplingRate))
}

// AsSamples returns the current logical time expressed as a rounded sample
// count at the timer's sampling rate.
func (t *PrecisionTimer) AsSamples() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset.AsSamples(t.samplingRate) + int64(t.count)
}

// MonotonicTime returns the number of seconds accrued since the last
// non-monotonic adjustment to AsTime.
func (t *PrecisionTimer) MonotonicTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.monotonicCount) / t.samplingRate
}

// SetSamplingRate updates the sampling rate used to convert count to time.
func (t *PrecisionTimer) SetSamplingRate(sr float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samplingRate = sr
}

// AddOffset is, apart from Reset, the only site that mutates the clock
// offset — called by the clock synchronizer's estimator after computing a
// bounded, damped correction.
func (t *PrecisionTimer) AddOffset(delta TimeStamp) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset = t.offset.Add(delta)
}

// PushMedian feeds a new damped offset sample into the timer's 5-wide
// median filter and returns the resulting median.
func (t *PrecisionTimer) PushMedian(v TimeStamp) TimeStamp {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter.Push(v)
}
