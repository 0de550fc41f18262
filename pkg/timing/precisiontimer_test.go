package timing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrecisionTimer_ProgressAccrues(t *testing.T) {
	pt := NewPrecisionTimer(1000)
	pt.Progress(500)
	require.InDelta(t, 0.5, pt.AsTime().Seconds(), 1e-9)
	require.InDelta(t, 0.5, pt.MonotonicTime(), 1e-9)
}

func TestPrecisionTimer_MonotonicityWatchdog(t *testing.T) {
	pt := NewPrecisionTimer(1000)
	pt.Progress(1000) // as_time = 1.0, monotonic = 1.0
	require.InDelta(t, 1.0, pt.MonotonicTime(), 1e-9)

	// A negative offset adjustment that drags as_time back below last
	// should zero the monotonicity watchdog on the next Progress call.
	pt.AddOffset(-2)
	pt.Progress(0) // as_time = -1.0 <= last(1.0) -> reset
	require.Equal(t, 0.0, pt.MonotonicTime())

	pt.Progress(10)
	require.Greater(t, pt.MonotonicTime(), 0.0)
}

func TestPrecisionTimer_Reset(t *testing.T) {
	pt := NewPrecisionTimer(1000)
	pt.Progress(1000)
	pt.AddOffset(5)
	pt.Reset(0)
	require.Equal(t, TimeStamp(0), pt.AsTime())
	require.Equal(t, uint64(0), pt.Count())
}
