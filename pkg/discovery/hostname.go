// Package discovery advertises and browses the local peer group over
// mDNS/DNS-SD (spec.md §4.3), wrapping github.com/grandcat/zeroconf.
package discovery

import "strings"

// ConformHostName rewrites a hostname into a form that is safe to embed as
// a DNS-SD service instance name: dots and underscores become hyphens, and
// any trailing hyphen left by that substitution is trimmed.
func ConformHostName(name string) string {
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '.', '_':
			return '-'
		default:
			return r
		}
	}, name)
	return strings.TrimRight(replaced, "-")
}
