// Package clocksync implements the Sync/Respond probe protocol and the
// damped, median-filtered, bounded-slew offset estimator layered atop the
// coordinator's transport (spec.md §4.7).
package clocksync

import (
	"github.com/shuliakovsky/peersync/pkg/timing"
	"github.com/shuliakovsky/peersync/pkg/wire"
)

// EncodeSync frames a client→server probe carrying the client's current
// logical time.
func EncodeSync(t1 timing.TimeStamp) []byte {
	c := wire.NewChunk(wire.FamilyPayload, wire.SubSync, t1)
	return c.Bytes()
}

// EncodeRespond frames a server→client reply echoing t1 and adding the
// server's logical time at reception.
func EncodeRespond(t1, t2 timing.TimeStamp) []byte {
	c := wire.NewChunk(wire.FamilyPayload, wire.SubRespond, t1, t2)
	return c.Bytes()
}

// syncMsg is the decoded client→server probe.
type syncMsg struct {
	T1 timing.TimeStamp
}

// respondMsg is the decoded server→client reply.
type respondMsg struct {
	T1, T2 timing.TimeStamp
}

func decodeSync(s *wire.Stream) (syncMsg, error) {
	t1, err := s.GetTimeStamp()
	if err != nil {
		return syncMsg{}, err
	}
	return syncMsg{T1: t1}, nil
}

func decodeRespond(s *wire.Stream) (respondMsg, error) {
	t1, err := s.GetTimeStamp()
	if err != nil {
		return respondMsg{}, err
	}
	t2, err := s.GetTimeStamp()
	if err != nil {
		return respondMsg{}, err
	}
	return respondMsg{T1: t1, T2: t2}, nil
}
