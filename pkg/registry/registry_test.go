package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd_OrderingAndDedup(t *testing.T) {
	r := New()
	r.Add(Peer{Host: NewHost("charlie", 1), Source: Discovered, AgeMs: 0})
	r.Add(Peer{Host: NewHost("alpha", 2), Source: Discovered, AgeMs: 0})
	r.Add(Peer{Host: NewHost("bravo", 3), Source: Discovered, AgeMs: 0})

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	require.Equal(t, []string{"alpha", "bravo", "charlie"}, names(snap))
}

func TestAdd_UpdateExisting_MinAge(t *testing.T) {
	r := New()
	r.Add(Peer{Host: NewHost("alpha", 1), Source: Discovered, AgeMs: 500})
	r.Add(Peer{Host: NewHost("alpha", 2), Source: Remote, AgeMs: 10})

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, uint16(2), snap[0].Host.Port())
	require.Equal(t, Remote, snap[0].Source)
	require.Equal(t, uint32(10), snap[0].AgeMs, "age should take the minimum of existing and incoming")
}

func TestAdd_NoDuplicateOnRepeatedIdenticalAdd(t *testing.T) {
	r := New()
	p := Peer{Host: NewHost("alpha", 1), Source: Discovered, AgeMs: 5}
	r.Add(p)
	r.Add(p)
	require.Equal(t, 1, r.Len())
}

func TestAdvanceThenPrune_RemovesExpired(t *testing.T) {
	r := New()
	r.Add(Peer{Host: NewHost("alpha", 1), Source: Discovered, AgeMs: 0})
	r.Add(Peer{Host: NewHost("bravo", 1), Source: Discovered, AgeMs: 9000})

	r.Advance(500)
	r.Advance(600)
	r.Prune(10000)

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "alpha", snap[0].Host.Name())
}

func TestAdvance_ExactBoundaryIsPruned(t *testing.T) {
	r := New()
	r.Add(Peer{Host: NewHost("alpha", 1), Source: Discovered, AgeMs: 0})

	r.Advance(1000)
	r.Prune(1000)

	require.Equal(t, 0, r.Len(), "age_ms >= max_age must be pruned")
}

func names(peers []Peer) []string {
	out := make([]string, len(peers))
	for i, p := range peers {
		out[i] = p.Host.Name()
	}
	return out
}
