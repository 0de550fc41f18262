// Package timing provides the monotonic scalar clock, median filter, and
// interval helpers shared by the coordinator and clock synchronizer.
package timing

import "math"

// TimeStamp is a real-valued logical time in seconds. It is not tied to
// wall-clock time; it serves as the monotonic scalar of the sync protocol.
type TimeStamp float64

// Add returns a+b.
func (a TimeStamp) Add(b TimeStamp) TimeStamp { return a + b }

// Sub returns a-b.
func (a TimeStamp) Sub(b TimeStamp) TimeStamp { return a - b }

// Less reports whether a < b.
func (a TimeStamp) Less(b TimeStamp) bool { return a < b }

// Half returns t*0.5.
func Half(t TimeStamp) TimeStamp { return t * 0.5 }

// Abs returns the absolute value of t.
func (a TimeStamp) Abs() TimeStamp {
	return TimeStamp(math.Abs(float64(a)))
}

// AsTime converts a sample count at the given rate to a TimeStamp.
func AsTime(count uint64, sampleRate float64) TimeStamp {
	return TimeStamp(float64(count) / sampleRate)
}

// AsSamples converts a TimeStamp to a rounded sample count at the given rate.
func (a TimeStamp) AsSamples(sampleRate float64) int64 {
	return int64(math.Round(float64(a) * sampleRate))
}

// Seconds returns the underlying float64 value.
func (a TimeStamp) Seconds() float64 { return float64(a) }
