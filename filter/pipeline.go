package filter

import (
	"slices"

	"project/ip-filter/address"
)

// Source is a sorted sequence of addresses. Text is what gets reported for
// the i-th element.
type Source interface {
	Len() int
	Address(i int) address.Address
	Text(i int) string
}

// Sink receives the text of every matching address.
type Sink interface {
	Report(text string)
}

// Pipeline applies an ordered list of predicates to a Source.
type Pipeline struct {
	predicates []Predicate
}

// New creates a Pipeline. Without predicates the default four are used.
func New(predicates ...Predicate) *Pipeline {
	if len(predicates) == 0 {
		predicates = Defaults()
	}
	return &Pipeline{predicates: slices.Clone(predicates)}
}

// Predicates returns the predicates in the order they run.
func (p *Pipeline) Predicates() []Predicate {
	return slices.Clone(p.predicates)
}

// Run scans src once per predicate, in order, reporting every match to sink
// before moving on to the next predicate. It returns the number of matches
// per predicate.
func (p *Pipeline) Run(src Source, sink Sink) []int {
	matches := make([]int, len(p.predicates))
	for pi, pred := range p.predicates {
		for i := 0; i < src.Len(); i++ {
			if pred.Match(src.Address(i)) {
				sink.Report(src.Text(i))
				matches[pi]++
			}
		}
	}
	return matches
}
