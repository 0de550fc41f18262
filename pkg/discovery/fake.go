package discovery

import (
	"context"
	"sync"
)

// Fake is an in-memory Adapter for driving coordinator tests without real
// mDNS traffic. Tests populate it directly via Set/Remove.
type Fake struct {
	mu      sync.Mutex
	peers   map[string]Peer
	running bool
}

// NewFake returns an empty Fake discovery adapter.
func NewFake() *Fake {
	return &Fake{peers: make(map[string]Peer)}
}

// Start marks the fake as running; it advertises nothing for real.
func (f *Fake) Start(_ context.Context, _ string, _ uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
	return nil
}

// Stop marks the fake as stopped and clears the cached peer set, mirroring
// the real adapter's stop() contract (spec.md §4.3).
func (f *Fake) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	f.peers = make(map[string]Peer)
}

// Running reports whether Start has been called more recently than Stop.
func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Set registers or updates a discoverable peer.
func (f *Fake) Set(hostName string, port uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.peers[ConformHostName(hostName)] = Peer{HostName: hostName, Port: port}
}

// Remove withdraws a peer, simulating it leaving the group.
func (f *Fake) Remove(hostName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.peers, ConformHostName(hostName))
}

// ListPeers implements Source.
func (f *Fake) ListPeers() []Peer {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Peer, 0, len(f.peers))
	for _, p := range f.peers {
		out = append(out, p)
	}
	return out
}

// Resolve implements Source. The fake has no real network to resolve
// against, so it is a no-op: tests populate resolvable peers directly via
// Set, the same way a real resolution would land in the cache.
func (f *Fake) Resolve(_ context.Context, _ string) {}
