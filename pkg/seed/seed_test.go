package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuliakovsky/peersync/pkg/registry"
)

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	f, err := Load("", zap.NewNop())
	require.NoError(t, err)
	require.Empty(t, f.Peers)

	f, err = Load(filepath.Join(t.TempDir(), "absent.yaml"), zap.NewNop())
	require.NoError(t, err)
	require.Empty(t, f.Peers)
}

func TestLoad_ParsesPeerList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	content := "peers:\n  - host: peer-a\n    port: 9001\n  - host: peer-b\n    port: 9002\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, f.Peers, 2)
	require.Equal(t, "peer-a", f.Peers[0].Host)
	require.Equal(t, uint16(9001), f.Peers[0].Port)
}

func TestApply_InsertsAsRemoteSource(t *testing.T) {
	reg := registry.New()
	Apply(File{Peers: []Entry{{Host: "peer-a", Port: 9001}}}, reg, zap.NewNop())

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, registry.Remote, snap[0].Source)
}
