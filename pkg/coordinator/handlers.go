package coordinator

import (
	"go.uber.org/zap"

	"github.com/shuliakovsky/peersync/pkg/registry"
	"github.com/shuliakovsky/peersync/pkg/transport"
	"github.com/shuliakovsky/peersync/pkg/wire"
)

func (c *Coordinator) onListenerConnect(id transport.ConnectionID) {
	c.logger.Debug("peer_connected", zap.String("conn", string(id)))
}

func (c *Coordinator) onListenerReady(id transport.ConnectionID) {
	c.logger.Debug("peer_ready", zap.String("conn", string(id)))
}

func (c *Coordinator) onListenerClose(id transport.ConnectionID) {
	c.confirmed.remove(id)
	c.logger.Debug("peer_closed", zap.String("conn", string(id)))
}

func (c *Coordinator) onListenerData(id transport.ConnectionID, data []byte) {
	family, s, err := decodeFrame(data)
	if err != nil {
		c.logger.Debug("unknown_tag", zap.Error(err))
		return
	}
	if family == wire.FamilyPayload {
		if h := c.payload(); h != nil {
			h.OnServerPayload(id, data)
		}
		return
	}

	msg, err := DecodeControl(s)
	if err != nil {
		c.logger.Debug("malformed_frame", zap.Error(err))
		return
	}

	switch m := msg.(type) {
	case Negotiate:
		c.handleNegotiate(id, m)
	case ConfirmAck:
		c.confirmed.add(id)
	case PingResponse:
		c.registry.Add(registry.Peer{
			Host:   registry.NewHost(m.Name, m.Port),
			Source: registry.Client,
		})
	default:
		c.logger.Debug("unexpected_server_side_message", zap.String("conn", string(id)))
	}
}

// handleNegotiate implements the election rule (spec.md §4.6).
func (c *Coordinator) handleNegotiate(id transport.ConnectionID, m Negotiate) {
	local := c.confirmed.size()
	remote := int(m.NumClients)

	preferLocal := remote == local && c.hostName < registry.CanonicalHostName(m.Name)
	confirm := remote < local || preferLocal

	c.transportMu.RLock()
	c.listener.SendTo(id, EncodeConfirmDecision(confirm))
	c.transportMu.RUnlock()

	if !confirm && registry.CanonicalHostName(m.Name) != c.hostName {
		c.nextServer.Set(registry.NewHost(m.Name, m.Port))
	}
}

func (c *Coordinator) onDialerClose() {
	state := c.clientState.Load()
	if state == registry.Unconfirmed || state == registry.Confirmed || state == registry.Connected {
		c.logger.Debug("lost_coordinator")
	}
}

func (c *Coordinator) onDialerData(data []byte) {
	family, s, err := decodeFrame(data)
	if err != nil {
		c.logger.Debug("unknown_tag", zap.Error(err))
		return
	}
	if family == wire.FamilyPayload {
		if h := c.payload(); h != nil {
			h.OnClientPayload(data)
		}
		return
	}

	msg, err := DecodeControl(s)
	if err != nil {
		c.logger.Debug("malformed_frame", zap.Error(err))
		return
	}

	switch m := msg.(type) {
	case ConfirmDecision:
		if m.Accepted {
			c.clientState.Store(registry.Confirmed)
		} else {
			c.clientState.Store(registry.Failed)
		}
	case Switch:
		if registry.CanonicalHostName(m.Host) != c.hostName {
			c.nextServer.Set(registry.NewHost(m.Host, m.Port))
		}
	case PingRequest:
		c.transportMu.RLock()
		c.dialer.Send(EncodePingResponse(c.hostName, c.port))
		c.transportMu.RUnlock()
	case Peers:
		for _, e := range m.Entries {
			c.registry.Add(registry.Peer{
				Host:   registry.NewHost(e.Name, e.Port),
				Source: registry.Remote,
				AgeMs:  e.Age,
			})
		}
	default:
		c.logger.Debug("unexpected_client_side_message")
	}
}
