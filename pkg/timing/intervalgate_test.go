package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIntervalGate_FiresImmediatelyThenWaits(t *testing.T) {
	g := NewIntervalGate(50)
	require.True(t, g.Fire(), "gate should fire on first call")
	require.False(t, g.Fire(), "gate should not fire again immediately")

	time.Sleep(60 * time.Millisecond)
	require.True(t, g.Fire(), "gate should fire again after the period elapses")
}

func TestIntervalGate_Reset(t *testing.T) {
	g := NewIntervalGate(1000)
	g.Fire()
	g.Reset()
	require.True(t, g.Fire(), "gate should fire immediately after reset")
}
