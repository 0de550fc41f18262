package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	mdnsDomain      = "local."
	browseTimeout   = 3 * time.Second
	resolveAttempts = 2
)

// Discovery advertises this peer's Listener over mDNS/DNS-SD and browses
// for the rest of the group. regName scopes the service type so unrelated
// peer groups on the same LAN segment do not see each other
// (spec.md §4.3).
type Discovery struct {
	regName     string
	serviceType string
	logger      *zap.Logger

	mu       sync.RWMutex
	server   *zeroconf.Server
	resolver *zeroconf.Resolver
	hostName string
	port     uint16
	peers    map[string]Peer
}

// New returns a Discovery scoped to regName. Start must be called before
// ListPeers/Resolve return anything useful.
func New(regName string, logger *zap.Logger) *Discovery {
	return &Discovery{
		regName:     regName,
		serviceType: fmt.Sprintf("_%s._tcp", regName),
		logger:      logger,
		peers:       make(map[string]Peer),
	}
}

// Start registers hostName:port as a DNS-SD instance and launches a
// background browse loop that refreshes the peer cache until ctx is
// cancelled or Stop is called.
func (d *Discovery) Start(ctx context.Context, hostName string, port uint16) error {
	instance := ConformHostName(hostName)

	server, err := zeroconf.Register(instance, d.serviceType, mdnsDomain, int(port), nil, nil)
	if err != nil {
		return fmt.Errorf("discovery: register %s: %w", instance, err)
	}

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		server.Shutdown()
		return fmt.Errorf("discovery: new resolver: %w", err)
	}

	d.mu.Lock()
	d.server = server
	d.resolver = resolver
	d.hostName = hostName
	d.port = port
	d.mu.Unlock()

	go d.browseLoop(ctx)

	d.logger.Info("discovery_started",
		zap.String("instance", instance),
		zap.String("service_type", d.serviceType),
		zap.Uint16("port", port))

	return nil
}

// Stop withdraws the mDNS registration and clears the cached peer set
// (spec.md §4.3).
func (d *Discovery) Stop() {
	d.mu.Lock()
	server := d.server
	d.server = nil
	d.peers = make(map[string]Peer)
	d.mu.Unlock()

	if server != nil {
		server.Shutdown()
	}
	d.logger.Info("discovery_stopped")
}

func (d *Discovery) browseLoop(ctx context.Context) {
	d.mu.RLock()
	owner := d.server
	d.mu.RUnlock()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.mu.RLock()
		current := d.server
		d.mu.RUnlock()
		if current == nil || current != owner {
			return
		}
		d.browseOnce(ctx)
		time.Sleep(browseTimeout)
	}
}

func (d *Discovery) browseOnce(ctx context.Context) {
	d.mu.RLock()
	resolver := d.resolver
	self := ConformHostName(d.hostName)
	d.mu.RUnlock()
	if resolver == nil {
		return
	}

	browseCtx, cancel := context.WithTimeout(ctx, browseTimeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	fresh := make(map[string]Peer)
	var mu sync.Mutex

	go func() {
		for e := range entries {
			if e.Instance == self {
				continue
			}
			mu.Lock()
			fresh[e.Instance] = Peer{HostName: e.Instance, Port: uint16(e.Port)}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(browseCtx, d.serviceType, mdnsDomain, entries); err != nil {
		d.logger.Debug("discovery_browse_failed", zap.Error(err))
		return
	}
	<-browseCtx.Done()

	d.mu.Lock()
	d.peers = fresh
	d.mu.Unlock()
}

// ListPeers returns the most recently discovered set of peers.
func (d *Discovery) ListPeers() []Peer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Peer, 0, len(d.peers))
	for _, p := range d.peers {
		out = append(out, p)
	}
	return out
}

// Resolve requests asynchronous resolution of a specific host name:
// resolveAttempts parallel lookup passes run in the background and, on the
// first hit, the result is folded into the peer cache for a later
// ListPeers call to pick up. Resolve itself never blocks on mDNS traffic
// (spec.md:86) — the per-tick coordinator loop that calls it must not
// stall waiting on the network.
func (d *Discovery) Resolve(ctx context.Context, hostName string) {
	want := ConformHostName(hostName)

	d.mu.RLock()
	_, already := d.peers[want]
	resolver := d.resolver
	d.mu.RUnlock()
	if already || resolver == nil {
		return
	}

	go func() {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < resolveAttempts; i++ {
			g.Go(func() error {
				p, ok := d.resolveOnce(gctx, want)
				if !ok {
					return nil
				}
				d.mu.Lock()
				if _, exists := d.peers[want]; !exists {
					d.peers[want] = p
				}
				d.mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func (d *Discovery) resolveOnce(ctx context.Context, want string) (Peer, bool) {
	browseCtx, cancel := context.WithTimeout(ctx, browseTimeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	result := make(chan Peer, 1)

	go func() {
		for e := range entries {
			if e.Instance == want {
				select {
				case result <- Peer{HostName: e.Instance, Port: uint16(e.Port)}:
				default:
				}
			}
		}
	}()

	if err := d.resolver.Browse(browseCtx, d.serviceType, mdnsDomain, entries); err != nil {
		return Peer{}, false
	}

	select {
	case p := <-result:
		return p, true
	case <-browseCtx.Done():
		return Peer{}, false
	}
}

// HostName returns the host name passed to Start; the advertised instance
// name is its ConformHostName form.
func (d *Discovery) HostName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hostName
}

// Port returns the port this instance advertised.
func (d *Discovery) Port() uint16 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.port
}
