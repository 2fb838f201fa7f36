package filter

import (
	"fmt"

	"project/ip-filter/address"
)

// Predicate is a named octet test applied to every address of a catalog.
type Predicate struct {
	Name  string
	Match func(address.Address) bool
}

// AcceptAll matches every address.
func AcceptAll() Predicate {
	return Predicate{
		Name:  "accept-all",
		Match: func(address.Address) bool { return true },
	}
}

// LastOctetIs matches addresses whose last written octet equals v.
func LastOctetIs(v uint8) Predicate {
	return Predicate{
		Name: fmt.Sprintf("last-octet-is-%d", v),
		Match: func(a address.Address) bool {
			return a.Octet(3) == v
		},
	}
}

// FirstTwoOctetsMatch matches addresses starting with first.second.
func FirstTwoOctetsMatch(first, second uint8) Predicate {
	return Predicate{
		Name: fmt.Sprintf("first-two-octets-%d.%d", first, second),
		Match: func(a address.Address) bool {
			return a.Octet(0) == first && a.Octet(1) == second
		},
	}
}

// ContainsOctetValue matches addresses with at least one octet equal to v.
func ContainsOctetValue(v uint8) Predicate {
	return Predicate{
		Name: fmt.Sprintf("contains-octet-%d", v),
		Match: func(a address.Address) bool {
			for _, o := range a.Octets() {
				if o == v {
					return true
				}
			}
			return false
		},
	}
}

// Defaults returns the four reports produced by a run, in emission order.
func Defaults() []Predicate {
	return []Predicate{
		AcceptAll(),
		LastOctetIs(1),
		FirstTwoOctetsMatch(46, 70),
		ContainsOctetValue(46),
	}
}
