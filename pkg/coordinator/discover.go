package coordinator

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peersync/pkg/registry"
)

// confirmationDrainDelay is the upper bound the finalization step sleeps
// for after broadcasting Switch, giving it time to reach the wire before
// the listener is torn down (spec.md §9: kept as a documented bound since
// pkg/transport has no flush primitive).
const confirmationDrainDelay = 500 * time.Millisecond

// Discover executes one step of the coordinator state machine. Branch 1
// (already client) and branch 2 (directed reconnect) return early;
// otherwise steps 3 to 7 run in order. Every call ends by advancing and
// pruning the registry.
func (c *Coordinator) Discover(ctx context.Context, tickMs, maxPeerAgeMs uint32) {
	defer func() {
		c.registry.Advance(tickMs)
		c.registry.Prune(maxPeerAgeMs)
	}()

	c.transportMu.RLock()
	dialerConnected := c.dialer.Connected()
	c.transportMu.RUnlock()

	// 1. Already client.
	if dialerConnected {
		switch c.clientState.Load() {
		case registry.Failed:
			c.transportMu.Lock()
			c.dialer.Disconnect()
			c.transportMu.Unlock()
		case registry.Confirmed:
			c.finalizeConfirmation(ctx)
			c.recordServerPeer()
			return
		default:
			c.recordServerPeer()
			return
		}
	}

	// 2. Directed reconnect.
	if host := c.nextServer.Get(); !host.Empty() {
		c.tryConnect(host.Name(), host.Port(), true)
		return
	}

	// 3. Self-host bootstrap.
	c.transportMu.Lock()
	if !c.listener.Running() {
		c.listener.Start(c.port)
	}
	c.transportMu.Unlock()
	c.ensureDiscoveryRunning(ctx)

	// 4. Peer ingest.
	for _, p := range c.discovery.ListPeers() {
		name := p.HostName
		if p.Port == 0 {
			if strings.HasSuffix(name, "-local") {
				name = strings.TrimSuffix(name, "-local") + ".local."
			}
			c.registry.Add(registry.Peer{
				Host:   registry.NewHost(name, 0),
				Source: registry.Unresolved,
			})
			continue
		}
		c.registry.Add(registry.Peer{
			Host:   registry.NewHost(name, p.Port),
			Source: registry.Discovered,
		})
	}

	// 5. Outbound attempt.
	for _, p := range c.registry.Snapshot() {
		if p.Source == registry.Client || p.Source == registry.Unresolved {
			continue
		}
		if registry.CanonicalHostName(p.Host.Name()) == c.hostName {
			continue
		}
		if c.tryConnect(p.Host.Name(), p.Host.Port(), false) {
			break
		}
		c.discovery.Resolve(ctx, p.Host.Name())
	}

	// 6. Discovery-refresh timer.
	c.discoveryMu.Lock()
	if c.discoveryRunning && c.discoveryUptime.Interval() > c.discoveryRefresh {
		c.discoveryRunning = false
		c.discoveryMu.Unlock()
		c.discovery.Stop()
	} else {
		c.discoveryMu.Unlock()
	}

	// 7. Coordinator maintenance.
	c.transportMu.RLock()
	clientCount := c.listener.ClientCount()
	c.transportMu.RUnlock()
	if clientCount >= 1 {
		c.broadcastPeerList()
		c.transportMu.RLock()
		c.listener.Broadcast(EncodePingRequest())
		c.transportMu.RUnlock()
	}
}

func (c *Coordinator) ensureDiscoveryRunning(ctx context.Context) {
	c.discoveryMu.Lock()
	defer c.discoveryMu.Unlock()
	if c.discoveryRunning {
		return
	}
	if err := c.discovery.Start(ctx, c.hostName, c.port); err != nil {
		c.logger.Warn("discovery_start_failed", zap.Error(err))
		return
	}
	c.discoveryRunning = true
	c.discoveryUptime.Start()
}

func (c *Coordinator) recordServerPeer() {
	c.transportMu.RLock()
	name := c.dialer.ServerName()
	port := c.dialer.Port()
	c.transportMu.RUnlock()
	if name == "" {
		return
	}
	c.registry.Add(registry.Peer{
		Host:   registry.NewHost(name, port),
		Source: registry.Server,
	})
}

func (c *Coordinator) broadcastPeerList() {
	peers := c.registry.Snapshot()
	entries := make([]PeerEntry, 0, len(peers))
	for _, p := range peers {
		entries = append(entries, PeerEntry{Name: p.Host.Name(), Port: p.Host.Port(), Age: p.AgeMs})
	}
	c.transportMu.RLock()
	c.listener.Broadcast(EncodePeers(entries))
	c.transportMu.RUnlock()
}

// tryConnect dials host:port. direct=true skips negotiation (used for
// pre-negotiated Switch-directed reconnects); direct=false sends Negotiate
// and waits for the server's Confirm decision on a later Discover tick.
func (c *Coordinator) tryConnect(host string, port uint16, direct bool) bool {
	c.transportMu.Lock()
	ok := c.dialer.Connect(host, port)
	c.transportMu.Unlock()
	if !ok {
		return false
	}

	c.clientState.Store(registry.Unconfirmed)

	if direct {
		c.finalizeConfirmation(context.Background())
		return true
	}

	numClients := int32(c.confirmed.size())
	c.transportMu.RLock()
	c.dialer.Send(EncodeNegotiate(c.hostName, c.port, numClients))
	c.transportMu.RUnlock()
	return true
}
