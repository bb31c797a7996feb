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

package interval

import (
	"container/heap"
	"sort"
)

// byInterval sorts a slice of intervals by the interval total order.
type byInterval []Interface

func (s byInterval) Len() int           { return len(s) }
func (s byInterval) Less(i, j int) bool { return Compare(s[i], s[j]) < 0 }
func (s byInterval) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// byValue sorts a slice of endpoint values.
type byValue []Comparable

func (s byValue) Len() int           { return len(s) }
func (s byValue) Less(i, j int) bool { return s[i].Compare(s[j]) < 0 }
func (s byValue) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Sort sorts ivs in place by the interval total order.
func Sort(ivs []Interface) { sort.Sort(byInterval(ivs)) }

// sortedCopy returns ivs in interval order, copying unless the caller
// asserts the slice is already sorted.
func sortedCopy(ivs []Interface, sorted bool) []Interface {
	if sorted {
		return ivs
	}
	c := make([]Interface, len(ivs))
	copy(c, ivs)
	sort.Sort(byInterval(c))
	return c
}

// SpanOf returns the hull of all intervals in ivs. It returns ErrEmpty
// if ivs is empty.
func SpanOf(ivs []Interface) (Span, error) {
	if len(ivs) == 0 {
		return Span{}, ErrEmpty
	}
	s := Span{L: ivs[0].Low(), H: ivs[0].High(), LIncl: ivs[0].LowIncluded(), HIncl: ivs[0].HighIncluded()}
	for _, iv := range ivs[1:] {
		s = JoinedSpan(s, iv)
	}
	return s, nil
}

// UniqueEndpoints returns the distinct endpoint values occurring in ivs,
// low and high alike, in sorted order.
func UniqueEndpoints(ivs []Interface) []Comparable {
	if len(ivs) == 0 {
		return nil
	}
	vs := make([]Comparable, 0, 2*len(ivs))
	for _, iv := range ivs {
		vs = append(vs, iv.Low(), iv.High())
	}
	sort.Sort(byValue(vs))
	u := vs[:1]
	for _, v := range vs[1:] {
		if v.Compare(u[len(u)-1]) != 0 {
			u = append(u, v)
		}
	}
	return u
}

// A highHeap is a min-heap of intervals keyed on the high endpoint.
type highHeap []Interface

func (h highHeap) Len() int           { return len(h) }
func (h highHeap) Less(i, j int) bool { return CompareHigh(h[i], h[j]) < 0 }
func (h highHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *highHeap) Push(x interface{}) { *h = append(*h, x.(Interface)) }

func (h *highHeap) Pop() interface{} {
	old := *h
	n := len(old) - 1
	x := old[n]
	old[n] = nil
	*h = old[:n]
	return x
}

// MaximumDepth returns the maximum number of intervals in ivs that
// simultaneously cover a single point, and a witness span over which
// that depth is attained. The depth of an empty collection is zero.
// If sorted is true the input is assumed to be in interval order.
func MaximumDepth(ivs []Interface, sorted bool) (int, Span) {
	ivs = sortedCopy(ivs, sorted)
	var (
		depth int
		at    Span
		h     highHeap
	)
	heap.Init(&h)
	for _, iv := range ivs {
		for len(h) > 0 && CompareHighLow(h[0], iv) < 0 {
			heap.Pop(&h)
		}
		heap.Push(&h, iv)
		if len(h) > depth {
			depth = len(h)
			at = Span{
				L: iv.Low(), LIncl: iv.LowIncluded(),
				H: h[0].High(), HIncl: h[0].HighIncluded(),
			}
		}
	}
	return depth, at
}

// highAfter returns whether the high endpoint (h, incl) sorts after the
// high endpoint (fh, fincl).
func highAfter(h Comparable, incl bool, fh Comparable, fincl bool) bool {
	if c := h.Compare(fh); c != 0 {
		return c > 0
	}
	return incl && !fincl
}

// Gaps returns the maximal intervals lying between the intervals of ivs
// and overlapping none of them, in sorted order. Each gap endpoint meets
// an endpoint of ivs with inverted inclusion. If sorted is true the
// input is assumed to be in interval order.
func Gaps(ivs []Interface, sorted bool) []Span {
	ivs = sortedCopy(ivs, sorted)
	var (
		gaps  []Span
		fH    Comparable
		fIncl bool
	)
	for k, iv := range ivs {
		if k > 0 {
			g := Span{L: fH, LIncl: !fIncl, H: iv.Low(), HIncl: !iv.LowIncluded()}
			if Valid(g) {
				gaps = append(gaps, g)
			}
		}
		if k == 0 || highAfter(iv.High(), iv.HighIncluded(), fH, fIncl) {
			fH, fIncl = iv.High(), iv.HighIncluded()
		}
	}
	return gaps
}

// GapsWithin returns the gaps of ivs clipped to the window span. The
// leading and trailing uncovered parts of the window are reported, so an
// empty collection yields the window itself. If sorted is true the input
// is assumed to be in interval order.
func GapsWithin(ivs []Interface, span Interface, sorted bool) []Span {
	ivs = sortedCopy(ivs, sorted)
	var gaps []Span
	// A pseudo-frontier ending at the window's low endpoint makes the
	// leading gap fall out of the inversion rule.
	fH, fIncl := span.Low(), !span.LowIncluded()
	for _, iv := range ivs {
		if CompareHighLow(iv, span) < 0 {
			continue
		}
		if CompareLowHigh(iv, span) > 0 {
			break
		}
		g := Span{L: fH, LIncl: !fIncl, H: iv.Low(), HIncl: !iv.LowIncluded()}
		if Valid(g) {
			gaps = append(gaps, g)
		}
		if highAfter(iv.High(), iv.HighIncluded(), fH, fIncl) {
			fH, fIncl = iv.High(), iv.HighIncluded()
		}
	}
	g := Span{L: fH, LIncl: !fIncl, H: span.High(), HIncl: span.HighIncluded()}
	if Valid(g) {
		gaps = append(gaps, g)
	}
	return gaps
}
