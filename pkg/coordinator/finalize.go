package coordinator

import (
	"context"
	"time"

	"github.com/shuliakovsky/peersync/pkg/registry"
)

// finalizeConfirmation runs the confirmation finalization sequence
// (spec.md §4.6): acknowledge the server, redirect our own prior clients,
// transition to Connected, give the redirect a bounded time to drain, then
// shed the coordinator role entirely.
func (c *Coordinator) finalizeConfirmation(ctx context.Context) {
	c.transportMu.RLock()
	c.dialer.Send(EncodeConfirmAck())
	c.listener.Broadcast(EncodeSwitch(c.dialer.ServerName(), c.dialer.Port()))
	c.transportMu.RUnlock()

	c.clientState.Store(registry.Connected)

	select {
	case <-time.After(confirmationDrainDelay):
	case <-ctx.Done():
	}

	c.discoveryMu.Lock()
	running := c.discoveryRunning
	c.discoveryRunning = false
	c.discoveryMu.Unlock()
	if running {
		c.discovery.Stop()
	}

	c.transportMu.Lock()
	c.listener.Stop()
	c.transportMu.Unlock()

	c.confirmed.clear()
}
