package timing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMedianWindow_AfterFivePushes(t *testing.T) {
	m := NewMedianWindow()

	values := []TimeStamp{5, 1, 4, 2, 3}
	var last TimeStamp
	for _, v := range values {
		last = m.Push(v)
	}

	require.Equal(t, TimeStamp(3), last, "median of the last 5 pushes should be the 3rd-smallest value")
}

func TestMedianWindow_SlidingWindow(t *testing.T) {
	m := NewMedianWindow()

	for _, v := range []TimeStamp{0, 0, 0, 0, 0} {
		m.Push(v)
	}
	// window is now all zero; push one large outlier in
	med := m.Push(100)
	require.Equal(t, TimeStamp(0), med, "a single outlier among 5 should not move the median")
}

func TestMedianWindow_Reset(t *testing.T) {
	m := NewMedianWindow()
	for _, v := range []TimeStamp{5, 5, 5, 5, 5} {
		m.Push(v)
	}
	m.Reset()
	med := m.Push(9)
	require.Equal(t, TimeStamp(0), med, "reset should clear prior history back to zero fill")
}
