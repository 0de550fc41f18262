package clocksync

import (
	"math"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peersync/pkg/timing"
	"github.com/shuliakovsky/peersync/pkg/transport"
	"github.com/shuliakovsky/peersync/pkg/wire"
)

// clampFloat bounds v to [lo, hi].
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sender is the transport capability the synchronizer needs: reply to one
// specific client when acting as coordinator, or send to the coordinator
// when acting as a client. *coordinator.Coordinator satisfies this.
type Sender interface {
	Send(data []byte) bool
	SendToClient(id transport.ConnectionID, data []byte) bool
}

// Synchronizer implements the Sync/Respond probe protocol and offset
// estimator (spec.md §4.7). It is wired into a coordinator.Coordinator as
// its PayloadHandler.
type Synchronizer struct {
	logger    *zap.Logger
	sender    Sender
	timer     *timing.PrecisionTimer
	connected func() bool
}

// New returns a Synchronizer driving timer at the given sampling rate.
// connected reports whether this node is currently a confirmed client of
// some coordinator — sync_tick is a no-op otherwise (spec.md §4.7: "only
// active when the node is a confirmed client").
func New(sender Sender, samplingRate float64, connected func() bool, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		logger:    logger,
		sender:    sender,
		timer:     timing.NewPrecisionTimer(samplingRate),
		connected: connected,
	}
}

// Timer exposes the underlying logical clock for callers (e.g. metrics).
func (s *Synchronizer) Timer() *timing.PrecisionTimer { return s.timer }

// SyncTick sends a Sync probe if this node is currently a confirmed
// client. Driven by the caller at an interval independent of Discover.
func (s *Synchronizer) SyncTick() {
	if !s.connected() {
		return
	}
	t1 := s.timer.AsTime()
	s.sender.Send(EncodeSync(t1))
}

// OnServerPayload handles an inbound Sync probe while acting as
// coordinator: it echoes t1 and its own logical time at reception.
func (s *Synchronizer) OnServerPayload(from transport.ConnectionID, data []byte) {
	stream := wire.NewStream(data)
	if !stream.PeekTag(wire.FamilyPayload) {
		return
	}
	if !stream.PeekTag(wire.SubSync) {
		s.logger.Debug("clocksync_unexpected_server_tag")
		return
	}
	msg, err := decodeSync(stream)
	if err != nil {
		s.logger.Debug("clocksync_malformed_sync", zap.Error(err))
		return
	}
	t2 := s.timer.AsTime()
	s.sender.SendToClient(from, EncodeRespond(msg.T1, t2))
}

// OnClientPayload handles an inbound Respond while acting as a client,
// running the damped/median-filtered/bounded-slew estimator.
func (s *Synchronizer) OnClientPayload(data []byte) {
	stream := wire.NewStream(data)
	if !stream.PeekTag(wire.FamilyPayload) {
		return
	}
	if !stream.PeekTag(wire.SubRespond) {
		s.logger.Debug("clocksync_unexpected_client_tag")
		return
	}
	msg, err := decodeRespond(stream)
	if err != nil {
		s.logger.Debug("clocksync_malformed_respond", zap.Error(err))
		return
	}
	s.applyEstimate(msg.T1, msg.T2)
}

// applyEstimate implements the estimator in spec.md §4.7.
func (s *Synchronizer) applyEstimate(t1, t2 timing.TimeStamp) {
	t3 := s.timer.AsTime()

	raw := timing.Half((t2.Sub(t1)).Add(t2.Sub(t3)))
	rawAbs := raw.Abs().Seconds()
	scale := clampFloat(rawAbs, 0.1, 1.0)
	damped := timing.TimeStamp(raw.Seconds() * scale)

	median := s.timer.PushMedian(damped)
	bound := math.Abs(median.Seconds()) * 8.0

	applied := timing.TimeStamp(clampFloat(damped.Seconds(), -bound, bound))
	s.timer.AddOffset(applied)
}
