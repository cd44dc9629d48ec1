// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tupledomain

import (
	"sort"
	"strings"
)

// Bound is one end of a Range. An unbounded low end extends to -inf and an
// unbounded high end to +inf.
type Bound struct {
	value     Value
	inclusive bool
	unbounded bool
}

// Range is a contiguous interval of values.
//
//   - [1, 10]   : 1 <= x <= 10
//   - (1, +inf) : x > 1
//   - 'abc'     : x = 'abc'
type Range struct {
	low, high Bound
}

var unbounded = Bound{unbounded: true}

// AllValues returns the range that contains every value.
func AllValues() Range { return Range{low: unbounded, high: unbounded} }

// Equal returns the range containing only v.
func Equal(v Value) Range {
	b := Bound{value: v, inclusive: true}
	return Range{low: b, high: b}
}

// GreaterThan returns the range x > v.
func GreaterThan(v Value) Range {
	return Range{low: Bound{value: v}, high: unbounded}
}

// GreaterThanOrEqual returns the range x >= v.
func GreaterThanOrEqual(v Value) Range {
	return Range{low: Bound{value: v, inclusive: true}, high: unbounded}
}

// LessThan returns the range x < v.
func LessThan(v Value) Range {
	return Range{low: unbounded, high: Bound{value: v}}
}

// LessThanOrEqual returns the range x <= v.
func LessThanOrEqual(v Value) Range {
	return Range{low: unbounded, high: Bound{value: v, inclusive: true}}
}

// Between returns the closed range lo <= x <= hi.
func Between(lo, hi Value) Range {
	return Range{low: Bound{value: lo, inclusive: true}, high: Bound{value: hi, inclusive: true}}
}

// IsAll returns true if the range is unbounded on both ends.
func (r Range) IsAll() bool { return r.low.unbounded && r.high.unbounded }

// IsSingleValue returns true if the range contains exactly one value.
func (r Range) IsSingleValue() bool {
	return !r.low.unbounded && !r.high.unbounded && r.low.inclusive && r.high.inclusive &&
		r.low.value.Compare(r.high.value) == 0
}

func (r Range) isEmpty() bool {
	if r.low.unbounded || r.high.unbounded {
		return false
	}
	c := r.low.value.Compare(r.high.value)
	return c > 0 || (c == 0 && !(r.low.inclusive && r.high.inclusive))
}

// contains returns true if v is inside the range.
func (r Range) contains(v Value) bool {
	if !r.low.unbounded {
		c := r.low.value.Compare(v)
		if c > 0 || (c == 0 && !r.low.inclusive) {
			return false
		}
	}
	if !r.high.unbounded {
		c := v.Compare(r.high.value)
		if c > 0 || (c == 0 && !r.high.inclusive) {
			return false
		}
	}
	return true
}

// compareLow orders low bounds; an inclusive bound starts before an exclusive
// bound on the same value.
func compareLow(a, b Bound) int {
	switch {
	case a.unbounded && b.unbounded:
		return 0
	case a.unbounded:
		return -1
	case b.unbounded:
		return 1
	}
	if c := a.value.Compare(b.value); c != 0 {
		return c
	}
	switch {
	case a.inclusive == b.inclusive:
		return 0
	case a.inclusive:
		return -1
	}
	return 1
}

// compareHigh orders high bounds; an exclusive bound ends before an inclusive
// bound on the same value.
func compareHigh(a, b Bound) int {
	switch {
	case a.unbounded && b.unbounded:
		return 0
	case a.unbounded:
		return 1
	case b.unbounded:
		return -1
	}
	if c := a.value.Compare(b.value); c != 0 {
		return c
	}
	switch {
	case a.inclusive == b.inclusive:
		return 0
	case a.inclusive:
		return 1
	}
	return -1
}

func (r Range) intersect(other Range) (Range, bool) {
	res := r
	if compareLow(other.low, res.low) > 0 {
		res.low = other.low
	}
	if compareHigh(other.high, res.high) < 0 {
		res.high = other.high
	}
	if res.isEmpty() {
		return Range{}, false
	}
	return res, true
}

// touches returns true if next, which must not start before r, overlaps or
// is adjacent to r so that the two can be merged into one range.
func (r Range) touches(next Range) bool {
	if r.high.unbounded || next.low.unbounded {
		return true
	}
	c := r.high.value.Compare(next.low.value)
	return c > 0 || (c == 0 && (r.high.inclusive || next.low.inclusive))
}

func (b Bound) lowString() string {
	if b.unbounded {
		return "(-inf"
	}
	if b.inclusive {
		return "[" + b.value.String()
	}
	return "(" + b.value.String()
}

func (b Bound) highString() string {
	if b.unbounded {
		return "+inf)"
	}
	if b.inclusive {
		return b.value.String() + "]"
	}
	return b.value.String() + ")"
}

func (r Range) String() string {
	if r.IsSingleValue() {
		return r.low.value.String()
	}
	return r.low.lowString() + ", " + r.high.highString()
}

// Domain is the set of values a single column may take: a sorted list of
// non-empty, disjoint, non-adjacent ranges. A Domain with no ranges is NONE;
// a Domain with a single unbounded range is ALL. The zero Domain is NONE.
// Domains are immutable.
type Domain struct {
	ranges []Range
}

// DomainAll returns the unconstrained domain.
func DomainAll() Domain { return Domain{ranges: []Range{AllValues()}} }

// DomainNone returns the empty domain.
func DomainNone() Domain { return Domain{} }

// SingleValue returns the domain containing only v.
func SingleValue(v Value) Domain { return Domain{ranges: []Range{Equal(v)}} }

// DomainOf returns the union of the given ranges.
func DomainOf(ranges ...Range) Domain {
	rs := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if !r.isEmpty() {
			rs = append(rs, r)
		}
	}
	return Domain{ranges: normalize(rs)}
}

// normalize sorts the ranges and merges any that overlap or touch. It takes
// ownership of rs.
func normalize(rs []Range) []Range {
	if len(rs) <= 1 {
		return rs
	}
	sort.SliceStable(rs, func(i, j int) bool {
		return compareLow(rs[i].low, rs[j].low) < 0
	})
	out := rs[:1]
	for _, r := range rs[1:] {
		cur := &out[len(out)-1]
		if cur.touches(r) {
			if compareHigh(r.high, cur.high) > 0 {
				cur.high = r.high
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// IsAll returns true if the domain places no restriction on the column.
func (d Domain) IsAll() bool { return len(d.ranges) == 1 && d.ranges[0].IsAll() }

// IsNone returns true if no value satisfies the domain.
func (d Domain) IsNone() bool { return len(d.ranges) == 0 }

// SingleValue returns the only value of the domain, if it has exactly one.
func (d Domain) SingleValue() (Value, bool) {
	if len(d.ranges) == 1 && d.ranges[0].IsSingleValue() {
		return d.ranges[0].low.value, true
	}
	return Value{}, false
}

// RangeCount returns the number of disjoint ranges in the domain.
func (d Domain) RangeCount() int { return len(d.ranges) }

// Range returns the nth range of the domain in ascending order.
func (d Domain) Range(nth int) Range { return d.ranges[nth] }

// Contains returns true if v is a member of the domain.
func (d Domain) Contains(v Value) bool {
	for _, r := range d.ranges {
		if r.contains(v) {
			return true
		}
	}
	return false
}

// Intersect returns the values that are members of both domains.
func (d Domain) Intersect(other Domain) Domain {
	var out []Range
	for _, a := range d.ranges {
		for _, b := range other.ranges {
			if r, ok := a.intersect(b); ok {
				out = append(out, r)
			}
		}
	}
	return Domain{ranges: normalize(out)}
}

// Union returns the values that are members of either domain.
func (d Domain) Union(other Domain) Domain {
	out := make([]Range, 0, len(d.ranges)+len(other.ranges))
	out = append(out, d.ranges...)
	out = append(out, other.ranges...)
	return Domain{ranges: normalize(out)}
}

// Equal returns true if both domains contain the same values.
func (d Domain) Equal(other Domain) bool {
	if len(d.ranges) != len(other.ranges) {
		return false
	}
	for i := range d.ranges {
		a, b := d.ranges[i], other.ranges[i]
		if compareLow(a.low, b.low) != 0 || compareHigh(a.high, b.high) != 0 {
			return false
		}
	}
	return true
}

func (d Domain) String() string {
	switch {
	case d.IsNone():
		return "NONE"
	case d.IsAll():
		return "ALL"
	}
	var buf strings.Builder
	for i, r := range d.ranges {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(r.String())
	}
	return buf.String()
}
