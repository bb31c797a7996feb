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

// Package ncl implements a static interval index as a nested
// containment list: intervals are laid out by strict containment into a
// forest of sublists packed into a single flat, pointer-free array, so
// a stabbing query is a binary search and a forward scan per visited
// sublist.
package ncl

import (
	"errors"
	"sort"

	"github.com/biogo/stab/interval"
)

// ErrInvalidInterval is returned by New when an input interval's low
// endpoint is greater than its high endpoint, or equal with an excluded
// endpoint.
var ErrInvalidInterval = errors.New("ncl: invalid interval")

// ErrEmpty is returned by operations that are undefined on an empty
// list.
var ErrEmpty = errors.New("ncl: empty list")

// An Operation is a function that operates on an Interface. If done is
// returned true, the Operation is indicating that no further work needs
// to be done and so the calling function should traverse no further.
type Operation func(interval.Interface) (done bool)

// A record is one array slot: an interval and the location of the
// sublist holding the intervals it strictly contains.
type record struct {
	iv  interval.Interface
	off int
	n   int
}

// A List is a nested containment list over a fixed set of intervals.
// The zero List is empty; non-empty Lists are built with New.
type List struct {
	recs []record
	top  int // length of the outermost sublist, laid out at recs[:top].
}

// New returns a List indexing ivs. The input slice is not retained. If
// sorted is true the input is assumed to be in interval order and is
// not re-sorted. New returns ErrInvalidInterval if any input interval
// is invalid.
func New(ivs []interval.Interface, sorted bool) (*List, error) {
	for _, iv := range ivs {
		if !interval.Valid(iv) {
			return nil, ErrInvalidInterval
		}
	}
	s := make([]interval.Interface, len(ivs))
	copy(s, ivs)
	if !sorted {
		interval.Sort(s)
	}

	// In interval order an interval's container, if any, is the nearest
	// preceding interval still open on a containment stack.
	children := make([][]int, len(s))
	var roots, stack []int
	for k, iv := range s {
		for len(stack) > 0 && !interval.StrictContains(s[stack[len(stack)-1]], iv) {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, k)
		} else {
			p := stack[len(stack)-1]
			children[p] = append(children[p], k)
		}
		stack = append(stack, k)
	}

	l := &List{recs: make([]record, len(s)), top: len(roots)}
	pos := 0
	var place func(ids []int) int
	place = func(ids []int) int {
		off := pos
		pos += len(ids)
		for j, id := range ids {
			l.recs[off+j].iv = s[id]
		}
		for j, id := range ids {
			if sub := children[id]; len(sub) > 0 {
				l.recs[off+j].off = place(sub)
				l.recs[off+j].n = len(sub)
			}
		}
		return off
	}
	place(roots)
	return l, nil
}

// Len returns the number of intervals stored in the List.
func (self *List) Len() int { return len(self.recs) }

// doMatch scans the sublist at [off, off+n) for overlaps with q,
// recursing into the sublists of hits. Within a sublist low and high
// endpoints are both nondecreasing, so the first possible overlap is
// found by binary search and the scan stops at the first interval
// starting beyond q.
func (self *List) doMatch(fn Operation, q interval.Interface, off, n int) (done bool) {
	sub := self.recs[off : off+n]
	first := sort.Search(n, func(k int) bool { return interval.CompareHighLow(sub[k].iv, q) >= 0 })
	for k := first; k < n; k++ {
		if interval.CompareLowHigh(sub[k].iv, q) > 0 {
			break
		}
		if fn(sub[k].iv) {
			return true
		}
		if sub[k].n > 0 && self.doMatch(fn, q, sub[k].off, sub[k].n) {
			return true
		}
	}
	return false
}

// DoMatching performs fn on all stored intervals overlapping the query
// q, in interval order. A boolean is returned indicating whether the
// traversal was interrupted by an Operation returning true.
func (self *List) DoMatching(fn Operation, q interval.Interface) bool {
	if self.top == 0 {
		return false
	}
	return self.doMatch(fn, q, 0, self.top)
}

// Get returns all stored intervals overlapping q.
func (self *List) Get(q interval.Interface) []interval.Interface {
	var o []interval.Interface
	self.DoMatching(func(i interval.Interface) bool { o = append(o, i); return false }, q)
	return o
}

// DoStab performs fn on all stored intervals overlapping the point p.
func (self *List) DoStab(fn Operation, p interval.Comparable) bool {
	return self.DoMatching(fn, interval.Point(p))
}

// Stab returns all stored intervals overlapping the point p.
func (self *List) Stab(p interval.Comparable) []interval.Interface {
	return self.Get(interval.Point(p))
}

// First returns the first stored interval overlapping q in interval
// order, and whether one exists.
func (self *List) First(q interval.Interface) (interval.Interface, bool) {
	var o interval.Interface
	self.DoMatching(func(i interval.Interface) bool { o = i; return true }, q)
	return o, o != nil
}

// Count returns the number of stored intervals overlapping q.
func (self *List) Count(q interval.Interface) int {
	var n int
	self.DoMatching(func(interval.Interface) bool { n++; return false }, q)
	return n
}

// Span returns the hull of the stored intervals. It returns ErrEmpty on
// an empty list.
func (self *List) Span() (interval.Span, error) {
	if self.top == 0 {
		return interval.Span{}, ErrEmpty
	}
	lo, hi := self.recs[0].iv, self.recs[self.top-1].iv
	return interval.Span{
		L: lo.Low(), LIncl: lo.LowIncluded(),
		H: hi.High(), HIncl: hi.HighIncluded(),
	}, nil
}

// Choose returns an arbitrary stored interval. It returns ErrEmpty on
// an empty list.
func (self *List) Choose() (interval.Interface, error) {
	if len(self.recs) == 0 {
		return nil, ErrEmpty
	}
	return self.recs[0].iv, nil
}

// Do performs fn on all stored intervals in interval order. A boolean
// is returned indicating whether the traversal was interrupted by an
// Operation returning true.
func (self *List) Do(fn Operation) bool {
	if self.top == 0 {
		return false
	}
	return self.do(fn, 0, self.top)
}

func (self *List) do(fn Operation, off, n int) (done bool) {
	for k := off; k < off+n; k++ {
		if fn(self.recs[k].iv) {
			return true
		}
		if self.recs[k].n > 0 && self.do(fn, self.recs[k].off, self.recs[k].n) {
			return true
		}
	}
	return false
}
