package reconcile

import (
	"net/netip"
	"strings"
)

// NoHostname is what NormalizeHostname returns for input without a usable
// name. It never takes part in matching.
const NoHostname = "<no-hostname>"

// NormalizeHostname returns the canonical short hostname for raw:
// trimmed, lowercased and cut at the first dot, so "Server-001.corp.local"
// and "server-001" compare equal. Names that are IP literals are kept
// whole in canonical IP form.
func NormalizeHostname(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return NoHostname
	}

	if ip, ok := NormalizeIP(name); ok {
		return ip
	}

	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return NoHostname
	}
	// a non-canonical IPv6 literal may survive the cut
	if ip, ok := NormalizeIP(name); ok {
		return ip
	}
	return name
}

// NormalizeIP parses raw as an IPv4 or IPv6 address, dropping any CIDR
// suffix, and returns its canonical text. IPv4-mapped IPv6 addresses are
// reduced to IPv4. The second result is false for malformed input.
func NormalizeIP(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "", false
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}
