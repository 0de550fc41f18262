// Package api exposes the read-only introspection HTTP surface: /status,
// /peers, /metrics, and a Swagger UI documenting them. None of these
// routes participate in election, gossip, or sync (SPEC_FULL.md §8).
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peersync/pkg/coordinator"
)

// Introspection serves the debug routes backed by a single Coordinator.
type Introspection struct {
	coord  *coordinator.Coordinator
	logger *zap.Logger
}

// NewIntrospection returns an Introspection bound to coord.
func NewIntrospection(coord *coordinator.Coordinator, logger *zap.Logger) *Introspection {
	return &Introspection{coord: coord, logger: logger}
}

// Status godoc
// @Summary Report this node's role and peer status
// @Success 200 {object} map[string]string
// @Router /status [get]
func (i *Introspection) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, i.logger, map[string]string{"status": i.coord.Status()})
}

// Peers godoc
// @Summary Dump the peer registry
// @Success 200 {array} coordinator.PeerView
// @Router /peers [get]
func (i *Introspection) Peers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, i.logger, i.coord.Snapshot())
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("api_encode_failed", zap.Error(err))
	}
}
