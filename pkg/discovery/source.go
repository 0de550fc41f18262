package discovery

import "context"

// Peer is one resolved service instance: a host name and the port its
// Listener is bound to.
type Peer struct {
	HostName string
	Port     uint16
}

// Source is the discovery capability the coordinator depends on. The
// production implementation is *Discovery (zeroconf-backed); tests inject
// a fake so the coordinator's election/reconnection logic can be driven
// deterministically without real mDNS traffic (spec.md "Testable
// Properties" note on fake discovery sources).
//
// Resolve is asynchronous: it requests resolution of hostName and returns
// immediately; a successful lookup becomes visible on a later ListPeers
// call (spec.md:86). Callers must not block waiting on it.
type Source interface {
	ListPeers() []Peer
	Resolve(ctx context.Context, hostName string)
}

// Adapter is the full discovery capability, including the lifecycle the
// coordinator's self-host bootstrap branch drives (spec.md §4.6 step 3).
type Adapter interface {
	Source
	Start(ctx context.Context, hostName string, port uint16) error
	Stop()
}
