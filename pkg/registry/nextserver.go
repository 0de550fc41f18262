package registry

import (
	"sync"

	"github.com/shuliakovsky/peersync/pkg/timing"
)

// nextServerTimeoutSeconds is how long a NextServer hint remains valid
// after it is set (spec.md §3/§4.6).
const nextServerTimeoutSeconds = 4.0

// NextServer is a transient redirection hint installed by coordinator-
// control messages (Negotiate rejection, Switch). It expires 4s after it
// was set.
type NextServer struct {
	mu      sync.Mutex
	host    Host
	timer   *timing.MonoTimer
	timeout float64
}

// NewNextServer returns an empty hint with the spec's 4s validity window.
func NewNextServer() *NextServer {
	return NewNextServerWithTimeout(nextServerTimeoutSeconds)
}

// NewNextServerWithTimeout returns an empty hint with a custom validity
// window, primarily for tests that cannot wait out the real 4s timeout.
func NewNextServerWithTimeout(timeoutSeconds float64) *NextServer {
	return &NextServer{timer: timing.NewMonoTimer(), timeout: timeoutSeconds}
}

// Set installs host as the next-server hint and restarts its timeout.
func (n *NextServer) Set(host Host) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.host = host
	n.timer.Start()
}

// Get returns the installed host if it is still within its validity
// window, or the empty Host otherwise.
func (n *NextServer) Get() Host {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer.Interval() > n.timeout {
		return Host{}
	}
	return n.host
}
