package ipfilter

import (
	"sort"

	"project/ip-filter/address"
)

// legacyRecord is the historical pairing of an address string with its
// packed value.
type legacyRecord struct {
	text   string
	packed uint32
}

// legacyTable is a projection of a Catalog onto legacy records.
type legacyTable []legacyRecord

func projectLegacy(c *address.Catalog) legacyTable {
	t := make(legacyTable, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		a := c.Address(i)
		t = append(t, legacyRecord{text: a.String(), packed: a.Packed()})
	}
	return t
}

func (t legacyTable) sortDescending() {
	sort.SliceStable(t, func(i, j int) bool {
		return t[j].packed < t[i].packed
	})
}

func (t legacyTable) Len() int { return len(t) }

// Address rebuilds the octets from the packed value.
func (t legacyTable) Address(i int) address.Address {
	return address.FromPacked(t[i].packed)
}

func (t legacyTable) Text(i int) string { return t[i].text }
