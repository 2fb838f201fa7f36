// Fichier: address/address.go

package address

import (
	"net/netip"
	"strconv"
)

// Octets is the number of 8-bit components in an IPv4 address.
const Octets = 4

// Address is a parsed IPv4 address. It is immutable once built.
type Address struct {
	// octets as written in the source text, most significant first.
	octets [Octets]uint8
	// packed is octets[0]<<24 | octets[1]<<16 | octets[2]<<8 | octets[3].
	packed uint32
	// canonical is the dot-joined decimal form rebuilt from octets.
	canonical string
}

// FromOctets builds an Address from four octets.
func FromOctets(o0, o1, o2, o3 uint8) Address {
	a := Address{octets: [Octets]uint8{o0, o1, o2, o3}}
	a.packed = uint32(o0)<<24 | uint32(o1)<<16 | uint32(o2)<<8 | uint32(o3)
	a.canonical = canonicalize(a.octets)
	return a
}

// FromPacked rebuilds an Address from its packed 32-bit value.
// Octets are extracted with shifts so the result does not depend on host byte order.
func FromPacked(packed uint32) Address {
	return FromOctets(
		uint8(packed>>24),
		uint8(packed>>16),
		uint8(packed>>8),
		uint8(packed),
	)
}

// Octet returns the octet at position i (0 is the first octet written).
func (a Address) Octet(i int) uint8 {
	return a.octets[i]
}

// Octets returns a copy of the four octets.
func (a Address) Octets() [Octets]uint8 {
	return a.octets
}

// Packed returns the 32-bit packed value.
func (a Address) Packed() uint32 {
	return a.packed
}

// String returns the canonical dotted decimal form.
func (a Address) String() string {
	return a.canonical
}

// Addr converts the address to a netip.Addr.
func (a Address) Addr() netip.Addr {
	return netip.AddrFrom4(a.octets)
}

func canonicalize(octets [Octets]uint8) string {
	buf := make([]byte, 0, len("255.255.255.255"))
	for i, o := range octets {
		if i > 0 {
			buf = append(buf, '.')
		}
		buf = strconv.AppendUint(buf, uint64(o), 10)
	}
	return string(buf)
}
