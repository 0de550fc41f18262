package registry

import "strings"

// CanonicalHostName lowercases and trims a trailing '.' so that two
// representations of the same hostname compare equal regardless of case
// or FQDN trailing-dot conventions (spec.md §9 redesign: self-connection
// guard canonicalization).
func CanonicalHostName(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".")
}
