package proxytrust

import (
	"net"
	"net/netip"
	"strings"
)

// typicalChainCapacity is the initial capacity used when splitting header
// chains. Most deployments forward through one to five hops.
const typicalChainCapacity = 8

// parseIP extracts an address from a header entry or a socket peer string.
// It tolerates surrounding whitespace, a port suffix ("10.0.0.1:8080"),
// matched quotes and IPv6 brackets. IPv4-mapped IPv6 addresses are unmapped.
//
// Returns an invalid netip.Addr when parsing fails.
func parseIP(s string) netip.Addr {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}
	}

	s = trimMatchedPair(s, '"', '"')
	s = trimMatchedPair(s, '\'', '\'')
	if s == "" {
		return netip.Addr{}
	}

	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	s = trimMatchedPair(s, '[', ']')

	ip, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}
	}
	return ip.Unmap()
}

// trimMatchedPair removes one leading and trailing delimiter when both match.
func trimMatchedPair(s string, start, end byte) string {
	if len(s) < 2 || s[0] != start || s[len(s)-1] != end {
		return s
	}
	return s[1 : len(s)-1]
}

// splitHeaderList joins repeated header lines with "," and returns the
// trimmed entries in wire order. The first entry is the originating client
// and is kept even when empty; later empty entries are dropped. A header
// whose joined value is empty yields nil.
func splitHeaderList(values []string) []string {
	joined := strings.Join(values, ",")
	if joined == "" {
		return nil
	}

	entries := make([]string, 0, typicalChainCapacity)
	for part := range strings.SplitSeq(joined, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" && len(entries) > 0 {
			continue
		}
		entries = append(entries, trimmed)
	}
	return entries
}

// firstHeaderEntry returns the trimmed left-most entry of a header list,
// which may be empty. ok is false only when the header is absent.
func firstHeaderEntry(values []string) (entry string, ok bool) {
	if len(values) == 0 {
		return "", false
	}

	first, _, _ := strings.Cut(values[0], ",")
	return strings.TrimSpace(first), true
}
