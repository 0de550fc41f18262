// Package seed optionally loads a static list of seed peers from a YAML
// file, supplementing mDNS discovery on networks where multicast is
// blocked (SPEC_FULL.md §6).
package seed

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/shuliakovsky/peersync/pkg/registry"
)

// Entry is one statically configured peer.
type Entry struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`
}

// File is the top-level shape of a seed-peer YAML document.
type File struct {
	Peers []Entry `yaml:"peers"`
}

// Load reads and parses path. A missing path is not an error — seeding is
// entirely optional (spec_full §6: "skipped entirely when no seed file is
// configured").
func Load(path string, logger *zap.Logger) (File, error) {
	if path == "" {
		return File{}, nil
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug("seed_file_absent", zap.String("path", path))
		return File{}, nil
	}
	if err != nil {
		return File{}, fmt.Errorf("seed: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("seed: parse %s: %w", path, err)
	}
	return f, nil
}

// Apply inserts every entry into reg with PeerSource Remote, as a
// bootstrap hint that expires the same way any other Remote peer would
// (spec_full §6).
func Apply(f File, reg *registry.PeerRegistry, logger *zap.Logger) {
	for _, e := range f.Peers {
		if e.Host == "" {
			continue
		}
		reg.Add(registry.Peer{
			Host:   registry.NewHost(e.Host, e.Port),
			Source: registry.Remote,
		})
		logger.Debug("seed_peer_applied", zap.String("host", e.Host), zap.Uint16("port", e.Port))
	}
}
