package coordinator

import (
	"sync"

	"github.com/shuliakovsky/peersync/pkg/transport"
)

// confirmedClients is the set of live inbound links that have acknowledged
// the election handshake (spec.md §3 ConfirmedClients). It sits below the
// registry lock and above the next-server lock in the acquisition order
// (spec.md §9).
type confirmedClients struct {
	mu  sync.Mutex
	ids map[transport.ConnectionID]struct{}
}

func newConfirmedClients() *confirmedClients {
	return &confirmedClients{ids: make(map[transport.ConnectionID]struct{})}
}

func (c *confirmedClients) add(id transport.ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[id] = struct{}{}
}

func (c *confirmedClients) remove(id transport.ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ids, id)
}

func (c *confirmedClients) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids)
}

func (c *confirmedClients) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = make(map[transport.ConnectionID]struct{})
}
