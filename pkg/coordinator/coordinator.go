// Package coordinator implements the election/reconnection/gossip state
// machine (spec.md §4.6) atop pkg/transport, pkg/discovery and
// pkg/registry.
package coordinator

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peersync/pkg/discovery"
	"github.com/shuliakovsky/peersync/pkg/registry"
	"github.com/shuliakovsky/peersync/pkg/timing"
	"github.com/shuliakovsky/peersync/pkg/transport"
	"github.com/shuliakovsky/peersync/pkg/wire"
)

const discoveryRefreshSeconds = 15.0

// PayloadHandler is the capability a collaborator implements to receive
// application-payload ("-") frames demultiplexed by the coordinator. This
// replaces the ReceiveAsServer/ReceiveAsClient override points of the
// reference design with an owned, typed collaborator (spec.md §9).
type PayloadHandler interface {
	OnServerPayload(from transport.ConnectionID, data []byte)
	OnClientPayload(data []byte)
}

// Coordinator is one node's peer-group state machine: it is simultaneously
// a Listener (potential coordinator role) and a Dialer (potential client
// role), never confirmed in both roles at once except transiently during
// finalization.
type Coordinator struct {
	logger   *zap.Logger
	regName  string
	hostName string // canonical, per registry.CanonicalHostName
	port     uint16

	discovery        discovery.Adapter
	discoveryMu      sync.Mutex
	discoveryRunning bool
	discoveryUptime  *timing.MonoTimer
	discoveryRefresh float64

	transportMu sync.RWMutex
	listener    *transport.Listener
	dialer      *transport.Dialer

	registry   *registry.PeerRegistry
	confirmed  *confirmedClients
	nextServer *registry.NextServer

	clientState *registry.AtomicClientState

	payloadMu      sync.RWMutex
	payloadHandler PayloadHandler
}

// New builds a Coordinator advertised as hostName:port under service
// registration regName. disc is the discovery adapter to drive (a real
// *discovery.Discovery in production, a *discovery.Fake in tests).
func New(regName, hostName string, port uint16, disc discovery.Adapter, logger *zap.Logger) *Coordinator {
	c := &Coordinator{
		logger:           logger,
		regName:          regName,
		hostName:         registry.CanonicalHostName(hostName),
		port:             port,
		discovery:        disc,
		discoveryUptime:  timing.NewMonoTimer(),
		discoveryRefresh: discoveryRefreshSeconds,
		registry:         registry.New(),
		confirmed:        newConfirmedClients(),
		nextServer:       registry.NewNextServer(),
		clientState:      registry.NewAtomicClientState(),
	}

	c.listener = transport.NewListener(transport.ListenerHandlers{
		OnConnect: c.onListenerConnect,
		OnReady:   c.onListenerReady,
		OnData:    c.onListenerData,
		OnClose:   c.onListenerClose,
	}, logger)

	c.dialer = transport.NewDialer(transport.DialerHandlers{
		OnData:  c.onDialerData,
		OnClose: c.onDialerClose,
	}, logger)

	return c
}

// SetPayloadHandler wires the application-payload collaborator (typically
// the clock synchronizer). It may be set once before Discover is first
// called.
func (c *Coordinator) SetPayloadHandler(h PayloadHandler) {
	c.payloadMu.Lock()
	defer c.payloadMu.Unlock()
	c.payloadHandler = h
}

func (c *Coordinator) payload() PayloadHandler {
	c.payloadMu.RLock()
	defer c.payloadMu.RUnlock()
	return c.payloadHandler
}

// HostName returns this node's canonical advertised hostname.
func (c *Coordinator) HostName() string { return c.hostName }

// Port returns this node's advertised listener port.
func (c *Coordinator) Port() uint16 { return c.port }

// ClientState returns the current dialer handshake state.
func (c *Coordinator) ClientState() registry.ClientState {
	return c.clientState.Load()
}

// ConfirmedCount returns the number of clients currently confirmed while
// acting as coordinator.
func (c *Coordinator) ConfirmedCount() int {
	return c.confirmed.size()
}

// Registry exposes the peer registry so callers such as pkg/seed can seed
// statically configured peers before discovery ticks begin.
func (c *Coordinator) Registry() *registry.PeerRegistry {
	return c.registry
}

// Send transmits an application-payload frame over the active link: if
// connected as a client, to the coordinator; the server-side equivalent is
// SendToClient.
func (c *Coordinator) Send(data []byte) bool {
	c.transportMu.RLock()
	defer c.transportMu.RUnlock()
	return c.dialer.Send(data)
}

// Broadcast transmits an application-payload frame to every connected
// client, when acting as coordinator.
func (c *Coordinator) Broadcast(data []byte) {
	c.transportMu.RLock()
	defer c.transportMu.RUnlock()
	c.listener.Broadcast(data)
}

// SendToClient transmits an application-payload frame to one specific
// inbound connection.
func (c *Coordinator) SendToClient(id transport.ConnectionID, data []byte) bool {
	c.transportMu.RLock()
	defer c.transportMu.RUnlock()
	return c.listener.SendTo(id, data)
}

// Status renders a one-line summary of this node's role, in the style of
// the reference implementation's GetServerName diagnostic.
func (c *Coordinator) Status() string {
	c.transportMu.RLock()
	dialerConnected := c.dialer.Connected()
	serverName := c.dialer.ServerName()
	clientCount := c.listener.ClientCount()
	listening := c.listener.Running()
	c.transportMu.RUnlock()

	if dialerConnected && c.clientState.Load() == registry.Connected {
		return fmt.Sprintf("%s [%s]", c.hostName, serverName)
	}
	if listening {
		return fmt.Sprintf("%s [%d/%d]", c.hostName, c.confirmed.size(), clientCount)
	}
	return "Disconnected"
}

// PeerView is one row of a coordinator diagnostic snapshot.
type PeerView struct {
	Name   string
	Port   uint16
	Source string
	AgeMs  uint32
}

// Snapshot renders the registry for the /peers debug route, in the style
// of the reference implementation's PeerNames diagnostic.
func (c *Coordinator) Snapshot() []PeerView {
	peers := c.registry.Snapshot()
	out := make([]PeerView, 0, len(peers))
	for _, p := range peers {
		out = append(out, PeerView{
			Name:   p.Host.Name(),
			Port:   p.Host.Port(),
			Source: p.Source.String(),
			AgeMs:  p.AgeMs,
		})
	}
	return out
}

// decodeFrame demultiplexes a raw frame by its outer family tag.
func decodeFrame(data []byte) (family string, s *wire.Stream, err error) {
	s = wire.NewStream(data)
	switch {
	case s.PeekTag(wire.FamilyControl):
		return wire.FamilyControl, s, nil
	case s.PeekTag(wire.FamilyPayload):
		return wire.FamilyPayload, s, nil
	default:
		return "", nil, fmt.Errorf("coordinator: %w", wire.ErrUnknownTag)
	}
}
