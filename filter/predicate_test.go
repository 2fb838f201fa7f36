package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"project/ip-filter/address"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		pred Predicate
		addr address.Address
		want bool
	}{
		{"accept all", AcceptAll(), address.FromOctets(0, 0, 0, 0), true},
		{"last octet one", LastOctetIs(1), address.FromOctets(10, 0, 0, 1), true},
		{"first octet one is not last", LastOctetIs(1), address.FromOctets(1, 0, 0, 10), false},
		{"first two match", FirstTwoOctetsMatch(46, 70), address.FromOctets(46, 70, 3, 4), true},
		{"first two swapped", FirstTwoOctetsMatch(46, 70), address.FromOctets(70, 46, 3, 4), false},
		{"first two only first", FirstTwoOctetsMatch(46, 70), address.FromOctets(46, 71, 70, 4), false},
		{"contains first", ContainsOctetValue(46), address.FromOctets(46, 1, 2, 3), true},
		{"contains last", ContainsOctetValue(46), address.FromOctets(1, 2, 3, 46), true},
		{"contains none", ContainsOctetValue(46), address.FromOctets(1, 2, 3, 4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred.Match(tt.addr))
		})
	}
}

func TestDefaultsOrder(t *testing.T) {
	var names []string
	for _, p := range Defaults() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"accept-all",
		"last-octet-is-1",
		"first-two-octets-46.70",
		"contains-octet-46",
	}, names)
}
