// Package metrics exposes the Prometheus series describing this node's
// peer-group and clock-sync state.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PeerCount = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "peersync_peers_total", Help: "Known peers in the registry"},
	)
	ConfirmedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "peersync_confirmed_clients", Help: "Clients confirmed while acting as coordinator"},
	)
	ClientState = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "peersync_client_state", Help: "Dialer handshake state (0=Unconfirmed,1=Confirmed,2=Failed,3=Connected)"},
	)
	ClockOffsetSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "peersync_clock_offset_seconds", Help: "Current logical clock offset from the coordinator"},
	)
	ClockMonotonicSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "peersync_clock_monotonic_seconds", Help: "Seconds accrued since the last non-monotonic clock adjustment"},
	)
	DiscoveryPeers = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "peersync_discovery_peers", Help: "Peers currently visible to the discovery adapter"},
	)
)

// Init registers every series with the default Prometheus registry. Call
// once during process startup.
func Init() {
	prometheus.MustRegister(
		PeerCount,
		ConfirmedClients,
		ClientState,
		ClockOffsetSeconds,
		ClockMonotonicSeconds,
		DiscoveryPeers,
	)
}

// Handler returns the Prometheus exposition HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
