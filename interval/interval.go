// Copyright ©2012 Dan Kortschak <dan.kortschak@adelaide.edu.au>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package interval defines the interval model shared by the stab index
// structures: intervals over a totally ordered endpoint domain with
// independently open or closed endpoints, the relational algebra over
// them, and collection-wide utilities.
package interval

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid is returned when an interval's low endpoint is greater
	// than its high endpoint, or equal with an excluded endpoint.
	ErrInvalid = errors.New("interval: invalid interval")
	// ErrEmpty is returned by operations that are undefined on an empty
	// collection.
	ErrEmpty = errors.New("interval: empty collection")
)

// A Comparable is a type that describes an interval endpoint.
type Comparable interface {
	// Compare returns a value indicating the sort order relationship between the
	// receiver and the parameter.
	//
	// Given c = a.Compare(b):
	//  c < 0 if a < b;
	//  c == 0 if a == b; and
	//  c > 0 if a > b.
	//
	Compare(Comparable) int
}

// An Interface is a type that can be stored in an index. Stored
// intervals are distinguished by the identity returned from ID, not by
// value; two stored intervals with equal endpoints and distinct IDs are
// reference duplicates.
type Interface interface {
	// Low and High return the interval's endpoints.
	Low() Comparable
	High() Comparable
	// LowIncluded and HighIncluded report whether the corresponding
	// endpoint is part of the interval.
	LowIncluded() bool
	HighIncluded() bool
	// ID returns a unique ID for the element.
	ID() uintptr
}

// A Span is a concrete interval. It is the type of computed intervals
// such as intersections, hulls, gaps and max-depth witnesses, and a
// convenient query literal. A Span has no identity; its ID is always
// zero.
type Span struct {
	L, H         Comparable
	LIncl, HIncl bool
}

// NewSpan returns the closed span [low, high].
func NewSpan(low, high Comparable) Span {
	return Span{L: low, H: high, LIncl: true, HIncl: true}
}

// Point returns the degenerate span [v, v].
func Point(v Comparable) Span {
	return Span{L: v, H: v, LIncl: true, HIncl: true}
}

func (s Span) Low() Comparable    { return s.L }
func (s Span) High() Comparable   { return s.H }
func (s Span) LowIncluded() bool  { return s.LIncl }
func (s Span) HighIncluded() bool { return s.HIncl }
func (s Span) ID() uintptr        { return 0 }

// String returns the span in mathematical notation, brackets for
// included endpoints and parentheses for excluded ones.
func (s Span) String() string {
	lb, hb := "(", ")"
	if s.LIncl {
		lb = "["
	}
	if s.HIncl {
		hb = "]"
	}
	return fmt.Sprintf("%s%v,%v%s", lb, s.L, s.H, hb)
}

// An Int is an int type satisfying the Comparable interface.
type Int int

// Compare returns the sort order relationship between i and c. Compare
// assumes the underlying type of c is Int.
func (i Int) Compare(c Comparable) int { return int(i - c.(Int)) }

// A Float is a float64 type satisfying the Comparable interface.
type Float float64

// Compare returns the sort order relationship between f and c. Compare
// assumes the underlying type of c is Float.
func (f Float) Compare(c Comparable) int {
	switch d := f - c.(Float); {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

// Valid returns whether i is a valid interval: low less than high, or a
// point with both endpoints included.
func Valid(i Interface) bool {
	c := i.Low().Compare(i.High())
	return c < 0 || (c == 0 && i.LowIncluded() && i.HighIncluded())
}

// CompareLow returns the sort order relationship between the low
// endpoints of a and b. Ties on value are broken by inclusion: an
// included low endpoint precedes an excluded one.
func CompareLow(a, b Interface) int {
	if c := a.Low().Compare(b.Low()); c != 0 {
		return c
	}
	switch {
	case a.LowIncluded() == b.LowIncluded():
		return 0
	case a.LowIncluded():
		return -1
	}
	return 1
}

// CompareHigh returns the sort order relationship between the high
// endpoints of a and b. Ties on value are broken by inclusion: an
// excluded high endpoint precedes an included one.
func CompareHigh(a, b Interface) int {
	if c := a.High().Compare(b.High()); c != 0 {
		return c
	}
	switch {
	case a.HighIncluded() == b.HighIncluded():
		return 0
	case b.HighIncluded():
		return -1
	}
	return 1
}

// CompareLowHigh returns the sort order relationship between the low
// endpoint of a and the high endpoint of b. A tie on value collapses by
// overlap: the meeting point is shared only if both meeting endpoints
// are included, in which case the result is zero; otherwise a's low is
// after b's high.
func CompareLowHigh(a, b Interface) int {
	if c := a.Low().Compare(b.High()); c != 0 {
		return c
	}
	if a.LowIncluded() && b.HighIncluded() {
		return 0
	}
	return 1
}

// CompareHighLow returns the sort order relationship between the high
// endpoint of a and the low endpoint of b. A tie on value collapses by
// overlap: the meeting point is shared only if both meeting endpoints
// are included, in which case the result is zero; otherwise a's high is
// before b's low.
func CompareHighLow(a, b Interface) int {
	if c := a.High().Compare(b.Low()); c != 0 {
		return c
	}
	if a.HighIncluded() && b.LowIncluded() {
		return 0
	}
	return -1
}

// Compare returns the sort order relationship between a and b: by low
// endpoint, ties broken by high endpoint.
func Compare(a, b Interface) int {
	if c := CompareLow(a, b); c != 0 {
		return c
	}
	return CompareHigh(a, b)
}

// Equal returns whether a and b agree on both endpoint values and both
// inclusion flags.
func Equal(a, b Interface) bool { return Compare(a, b) == 0 }

// Overlap returns whether a and b share at least one point.
func Overlap(a, b Interface) bool {
	return CompareLowHigh(a, b) <= 0 && CompareLowHigh(b, a) <= 0
}

// OverlapPoint returns whether i overlaps the point p.
func OverlapPoint(i Interface, p Comparable) bool {
	if c := i.Low().Compare(p); c > 0 || (c == 0 && !i.LowIncluded()) {
		return false
	}
	if c := i.High().Compare(p); c < 0 || (c == 0 && !i.HighIncluded()) {
		return false
	}
	return true
}

// Contains returns whether a contains every point of b.
func Contains(a, b Interface) bool {
	return CompareLow(a, b) <= 0 && CompareHigh(b, a) <= 0
}

// StrictContains returns whether a strictly contains b: a's low is
// before b's low and b's high is before a's high, with the inclusion
// tie-breaks of CompareLow and CompareHigh.
func StrictContains(a, b Interface) bool {
	return CompareLow(a, b) < 0 && CompareHigh(b, a) < 0
}

// Intersection returns the intersection of a and b using the stricter
// inclusion at shared endpoint values. The second return value is false
// if a and b do not overlap.
func Intersection(a, b Interface) (Span, bool) {
	if !Overlap(a, b) {
		return Span{}, false
	}
	s := Span{}
	if CompareLow(a, b) >= 0 {
		s.L, s.LIncl = a.Low(), a.LowIncluded()
	} else {
		s.L, s.LIncl = b.Low(), b.LowIncluded()
	}
	if CompareHigh(a, b) <= 0 {
		s.H, s.HIncl = a.High(), a.HighIncluded()
	} else {
		s.H, s.HIncl = b.High(), b.HighIncluded()
	}
	return s, true
}

// JoinedSpan returns the hull of a and b: the smallest interval
// containing both.
func JoinedSpan(a, b Interface) Span {
	s := Span{}
	if CompareLow(a, b) <= 0 {
		s.L, s.LIncl = a.Low(), a.LowIncluded()
	} else {
		s.L, s.LIncl = b.Low(), b.LowIncluded()
	}
	if CompareHigh(a, b) >= 0 {
		s.H, s.HIncl = a.High(), a.HighIncluded()
	} else {
		s.H, s.HIncl = b.High(), b.HighIncluded()
	}
	return s
}
