// Fichier: address/catalog.go

package address

import (
	"net/netip"
	"slices"

	"go4.org/netipx"
)

// Catalog is the ordered collection of addresses accepted during one run.
// It keeps input order until SortDescending is called. Duplicates are kept.
type Catalog struct {
	addrs []Address
}

// NewCatalog creates a Catalog holding the given addresses in order.
func NewCatalog(addrs ...Address) *Catalog {
	return &Catalog{addrs: slices.Clone(addrs)}
}

// Append adds an address at the end of the catalog.
func (c *Catalog) Append(a Address) {
	c.addrs = append(c.addrs, a)
}

// Len returns the number of addresses in the catalog.
func (c *Catalog) Len() int {
	return len(c.addrs)
}

// Address returns the address at position i.
func (c *Catalog) Address(i int) Address {
	return c.addrs[i]
}

// Text returns the canonical form of the address at position i.
func (c *Catalog) Text(i int) string {
	return c.addrs[i].String()
}

// Addresses returns a copy of the catalog contents in current order.
func (c *Catalog) Addresses() []Address {
	return slices.Clone(c.addrs)
}

// SortDescending reorders the catalog by descending packed value.
func (c *Catalog) SortDescending() {
	SortDescending(c.addrs)
}

// Span returns the range between the lowest and the highest address of the
// catalog. The zero IPRange is returned for an empty catalog.
func (c *Catalog) Span() netipx.IPRange {
	if len(c.addrs) == 0 {
		return netipx.IPRange{}
	}
	lo, hi := c.addrs[0].Packed(), c.addrs[0].Packed()
	for _, a := range c.addrs[1:] {
		lo = min(lo, a.Packed())
		hi = max(hi, a.Packed())
	}
	return netipx.IPRangeFrom(addrOf(lo), addrOf(hi))
}

func addrOf(packed uint32) netip.Addr {
	return FromPacked(packed).Addr()
}
