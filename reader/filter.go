package reader

import "github.com/traildb/tdb-go/item"

// Term is one disjunct of a Clause: a match against a single field's
// current item, optionally negated (§4.8 "Filter model").
type Term struct {
	Item    item.Item
	Negated bool
}

// MatchTerm builds a term that matches (or, negated, does not match) field's
// current value against it. The zero item (field 0, value 0) is the special
// "null" term: it matches nothing, and negated matches everything, per
// §4.8.
func MatchTerm(it item.Item, negated bool) Term {
	return Term{Item: it, Negated: negated}
}

func (t Term) matches(tuple map[item.Field]item.Item) bool {
	if t.Item == 0 {
		return t.Negated
	}
	actual, ok := tuple[t.Item.Field()]
	if !ok {
		actual = item.Zero(t.Item.Field())
	}
	eq := actual == t.Item
	if t.Negated {
		return !eq
	}
	return eq
}

// TimeRange is a [Start, End) disjunct over the event timestamp, inclusive
// start, exclusive end.
type TimeRange struct {
	Start, End uint64
}

func (tr TimeRange) matches(ts uint64) bool {
	return ts >= tr.Start && ts < tr.End
}

// Clause is the OR of its match terms and time-range terms. A clause with
// no terms at all matches nothing.
type Clause struct {
	Terms      []Term
	TimeRanges []TimeRange
}

// NewClause builds a clause that matches if any of terms or ranges match.
func NewClause(terms []Term, ranges []TimeRange) Clause {
	return Clause{Terms: terms, TimeRanges: ranges}
}

func (c Clause) matches(ts uint64, tuple map[item.Field]item.Item) bool {
	for _, t := range c.Terms {
		if t.matches(tuple) {
			return true
		}
	}
	for _, tr := range c.TimeRanges {
		if tr.matches(ts) {
			return true
		}
	}
	return false
}

// Filter is a CNF (AND of ORs) over an event's fully-assembled item tuple
// and timestamp (§4.8 "Filter model"). The zero Filter (no clauses, not
// constructed via All) matches nothing, per spec: "an empty filter...
// matches nothing."
type Filter struct {
	clauses  []Clause
	allMatch bool
}

// NewFilter builds a filter requiring every clause to match (AND
// semantics). Zero clauses is the explicit "matches nothing" filter.
func NewFilter(clauses ...Clause) *Filter {
	return &Filter{clauses: clauses}
}

// All returns a filter that matches every event, bypassing the "zero
// clauses matches nothing" rule via an explicit always-true flag.
func All() *Filter {
	return &Filter{allMatch: true}
}

// None returns a filter that matches no event. Equivalent to NewFilter()
// with no clauses, spelled out for callers who want the intent explicit.
func None() *Filter {
	return &Filter{}
}

// Matches reports whether tuple (the fully-assembled current item tuple)
// and ts satisfy f. A nil Filter matches everything: "no filter installed"
// and "All()" are both full-match, but distinguishable (a nil *Filter vs. a
// non-nil always-true one) so a Reader/Cursor can tell "no filter was set"
// from "a filter matching everything was set" when reasoning about
// precedence.
func (f *Filter) Matches(ts uint64, tuple map[item.Field]item.Item) bool {
	if f == nil {
		return true
	}
	if f.allMatch {
		return true
	}
	if len(f.clauses) == 0 {
		return false
	}
	for _, c := range f.clauses {
		if !c.matches(ts, tuple) {
			return false
		}
	}
	return true
}
