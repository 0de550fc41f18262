package metrics

import (
	"github.com/shuliakovsky/peersync/pkg/clocksync"
	"github.com/shuliakovsky/peersync/pkg/coordinator"
	"github.com/shuliakovsky/peersync/pkg/discovery"
)

// Source is the set of subsystems a report cycle reads from. Synchronizer
// and Discovery are optional (nil is skipped).
type Source struct {
	Coordinator  *coordinator.Coordinator
	Synchronizer *clocksync.Synchronizer
	Discovery    discovery.Source
}

// Report samples the coordinator, synchronizer, and discovery adapter once
// and updates every gauge. The caller drives the cadence (e.g. on every
// Discover tick).
func Report(src Source) {
	PeerCount.Set(float64(len(src.Coordinator.Snapshot())))
	ClientState.Set(float64(src.Coordinator.ClientState()))
	ConfirmedClients.Set(float64(src.Coordinator.ConfirmedCount()))

	if src.Synchronizer != nil {
		timer := src.Synchronizer.Timer()
		ClockOffsetSeconds.Set(timer.AsTime().Seconds())
		ClockMonotonicSeconds.Set(timer.MonotonicTime())
	}

	if src.Discovery != nil {
		DiscoveryPeers.Set(float64(len(src.Discovery.ListPeers())))
	}
}
