// Fichier: address/sort.go

package address

import (
	"cmp"
	"slices"
)

// SortDescending sorts addresses by descending packed value.
// Equal addresses keep their relative order.
func SortDescending(addrs []Address) {
	slices.SortStableFunc(addrs, CompareDescending)
}

// CompareDescending orders a before b when a has the larger packed value.
func CompareDescending(a, b Address) int {
	return cmp.Compare(b.packed, a.packed)
}
