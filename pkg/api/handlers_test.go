package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuliakovsky/peersync/pkg/coordinator"
	"github.com/shuliakovsky/peersync/pkg/discovery"
)

func TestStatus_ReturnsDisconnectedForIdleCoordinator(t *testing.T) {
	coord := coordinator.New("peersynctest", "hosta", 19601, discovery.NewFake(), zap.NewNop())
	intro := NewIntrospection(coord, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	intro.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Disconnected", body["status"])
}

func TestPeers_ReturnsEmptyArrayInitially(t *testing.T) {
	coord := coordinator.New("peersynctest", "hosta", 19602, discovery.NewFake(), zap.NewNop())
	intro := NewIntrospection(coord, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/peers", nil)
	rec := httptest.NewRecorder()
	intro.Peers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []coordinator.PeerView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Empty(t, body)
}

func TestRegisterRoutes_MountsExpectedPaths(t *testing.T) {
	coord := coordinator.New("peersynctest", "hosta", 19603, discovery.NewFake(), zap.NewNop())
	mux := http.NewServeMux()
	RegisterRoutes(mux, coord, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
