package clocksync

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shuliakovsky/peersync/pkg/timing"
	"github.com/shuliakovsky/peersync/pkg/wire"
)

func TestRoundTrip_Sync(t *testing.T) {
	frame := EncodeSync(timing.TimeStamp(1.5))
	s := wire.NewStream(frame)
	require.True(t, s.PeekTag(wire.FamilyPayload))
	require.True(t, s.PeekTag(wire.SubSync))
	msg, err := decodeSync(s)
	require.NoError(t, err)
	require.Equal(t, timing.TimeStamp(1.5), msg.T1)
}

func TestRoundTrip_Respond(t *testing.T) {
	frame := EncodeRespond(timing.TimeStamp(1.5), timing.TimeStamp(2.25))
	s := wire.NewStream(frame)
	require.True(t, s.PeekTag(wire.FamilyPayload))
	require.True(t, s.PeekTag(wire.SubRespond))
	msg, err := decodeRespond(s)
	require.NoError(t, err)
	require.Equal(t, timing.TimeStamp(1.5), msg.T1)
	require.Equal(t, timing.TimeStamp(2.25), msg.T2)
}
