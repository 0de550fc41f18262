package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFake_SetListResolveRemove(t *testing.T) {
	var s Source = NewFake()
	f := s.(*Fake)

	f.Set("peer-b", 9001)
	f.Set("peer.c", 9002)

	require.Len(t, s.ListPeers(), 2)

	// Resolve is a no-op on the fake; resolved peers are already visible
	// via ListPeers once Set'd.
	s.Resolve(context.Background(), "peer.c")

	f.Remove("peer.c")
	require.Len(t, s.ListPeers(), 1)
}
