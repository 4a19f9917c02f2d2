package proxytrust

import (
	"fmt"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
)

// DefaultTrustedCIDR is the trusted range used when none is configured or the
// configured value does not parse.
const DefaultTrustedCIDR = "127.0.0.1"

// rangePattern accepts a dotted-quad IPv4 address with an optional /0-/32
// prefix length. Octets and prefix lengths with leading zeros are rejected.
var rangePattern = regexp.MustCompile(
	`^((?:(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\.){3}(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9]))(?:/(3[0-2]|[12]?[0-9]))?$`,
)

// TrustedRange is an inclusive octet-wise IPv4 range. Min[i] <= Max[i] holds
// for every octet of a range returned by ParseRange.
//
// TrustedRange values are immutable and safe for concurrent use.
type TrustedRange struct {
	Min [4]uint8
	Max [4]uint8
}

// DefaultTrustedRange returns the loopback-only range 127.0.0.1/32.
func DefaultTrustedRange() TrustedRange {
	return MustParseRange(DefaultTrustedCIDR)
}

// ValidRange reports whether s is an IPv4 address with an optional prefix
// length in the form a.b.c.d[/bits].
func ValidRange(s string) bool {
	return rangePattern.MatchString(s)
}

// ParseRange converts "a.b.c.d" or "a.b.c.d/bits" into a TrustedRange.
//
// A bare address is treated as a /32. Host bits set in the address are
// ignored, so "10.0.0.7/24" and "10.0.0.0/24" yield the same range.
func ParseRange(s string) (TrustedRange, error) {
	match := rangePattern.FindStringSubmatch(s)
	if match == nil {
		return TrustedRange{}, &RangeError{Input: s, Err: ErrInvalidRange}
	}

	octets := splitOctets(match[1])
	if match[2] == "" {
		return TrustedRange{Min: octets, Max: octets}, nil
	}

	bits, err := strconv.Atoi(match[2])
	if err != nil {
		return TrustedRange{}, &RangeError{Input: s, Err: fmt.Errorf("%w: %w", ErrInvalidRange, err)}
	}

	return rangeFromMask(octets, subnetMask(bits)), nil
}

// MustParseRange is like ParseRange but panics on malformed input.
func MustParseRange(s string) TrustedRange {
	r, err := ParseRange(s)
	if err != nil {
		panic(fmt.Sprintf("invalid trusted range %q: %v", s, err))
	}
	return r
}

// parseRangeOrDefault returns the parsed range for s, or the loopback range
// and false when s is malformed.
func parseRangeOrDefault(s string) (TrustedRange, bool) {
	r, err := ParseRange(s)
	if err != nil {
		return DefaultTrustedRange(), false
	}
	return r, true
}

// splitOctets converts a dotted quad that already matched rangePattern.
func splitOctets(addr string) [4]uint8 {
	var octets [4]uint8
	i := 0
	for part := range strings.SplitSeq(addr, ".") {
		n, _ := strconv.Atoi(part)
		octets[i] = uint8(n)
		i++
	}
	return octets
}

// subnetMask builds a 4-octet mask with the high-order bits set.
func subnetMask(bits int) [4]uint8 {
	var mask [4]uint8
	for i := range mask {
		switch {
		case bits >= 8:
			mask[i] = 0xff
			bits -= 8
		case bits > 0:
			mask[i] = uint8(0xff << (8 - bits))
			bits = 0
		}
	}
	return mask
}

func rangeFromMask(octets, mask [4]uint8) TrustedRange {
	var r TrustedRange
	for i := range octets {
		r.Min[i] = octets[i] & mask[i]
		r.Max[i] = octets[i] | ^mask[i]
	}
	return r
}

// Contains reports whether addr lies within r. IPv4-mapped IPv6 addresses are
// unmapped first; any other non-IPv4 address is never contained.
func (r TrustedRange) Contains(addr netip.Addr) bool {
	if !addr.IsValid() {
		return false
	}

	addr = addr.Unmap()
	if !addr.Is4() {
		return false
	}

	return r.containsOctets(addr.As4())
}

// ContainsString parses s leniently (whitespace, port, quotes and brackets
// are stripped) and reports whether it lies within r.
func (r TrustedRange) ContainsString(s string) bool {
	return r.Contains(parseIP(s))
}

func (r TrustedRange) containsOctets(octets [4]uint8) bool {
	for i, octet := range octets {
		if octet < r.Min[i] || octet > r.Max[i] {
			return false
		}
	}
	return true
}

// Size returns the number of addresses covered by r.
func (r TrustedRange) Size() uint64 {
	size := uint64(1)
	for i := range r.Min {
		if r.Max[i] < r.Min[i] {
			return 0
		}
		size *= uint64(r.Max[i]-r.Min[i]) + 1
	}
	return size
}

// String returns r in CIDR notation when it is a single prefix, and as
// "min-max" otherwise.
func (r TrustedRange) String() string {
	lo := netip.AddrFrom4(r.Min)
	if r.Min == r.Max {
		return lo.String()
	}

	size := r.Size()
	if size != 0 && size&(size-1) == 0 {
		bits := 32
		for s := size; s > 1; s >>= 1 {
			bits--
		}
		prefix := netip.PrefixFrom(lo, bits).String()
		if parsed, err := ParseRange(prefix); err == nil && parsed == r {
			return prefix
		}
	}

	return lo.String() + "-" + netip.AddrFrom4(r.Max).String()
}
