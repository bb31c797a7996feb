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

// Package lcl implements a static interval index as a layered
// containment list: each layer is the maximal antichain under strict
// containment remaining after the layers above it, so within a layer
// both endpoints are nondecreasing and a query descends one layer at a
// time between two binary searches. A trailing sentinel per layer keeps
// the descent pointers total.
package lcl

import (
	"errors"
	"sort"

	"github.com/biogo/stab/interval"
)

// ErrInvalidInterval is returned by New when an input interval's low
// endpoint is greater than its high endpoint, or equal with an excluded
// endpoint.
var ErrInvalidInterval = errors.New("lcl: invalid interval")

// ErrEmpty is returned by operations that are undefined on an empty
// list.
var ErrEmpty = errors.New("lcl: empty list")

// An Operation is a function that operates on an Interface. If done is
// returned true, the Operation is indicating that no further work needs
// to be done and so the calling function should traverse no further.
type Operation func(interval.Interface) (done bool)

// An entry is one layer slot: an interval and the index in the next
// layer at which its strictly contained descendants begin. The sentinel
// closing each layer has a nil interval and points one past the next
// layer's last real entry.
type entry struct {
	iv  interval.Interface
	ptr int
}

// A List is a layered containment list over a fixed set of intervals.
// The zero List is empty; non-empty Lists are built with New.
type List struct {
	layers [][]entry
	all    []interval.Interface // interval order, for iteration.
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

	l := &List{all: s}
	for _, iv := range s {
		// The layer tails are the open containers; the interval
		// descends while the tail strictly contains it.
		k := 0
		for k < len(l.layers) && interval.StrictContains(l.layers[k][len(l.layers[k])-1].iv, iv) {
			k++
		}
		if k == len(l.layers) {
			l.layers = append(l.layers, nil)
		}
		var ptr int
		if k+1 < len(l.layers) {
			ptr = len(l.layers[k+1])
		}
		l.layers[k] = append(l.layers[k], entry{iv: iv, ptr: ptr})
	}
	for k := range l.layers {
		var ptr int
		if k+1 < len(l.layers) {
			ptr = len(l.layers[k+1])
		}
		l.layers[k] = append(l.layers[k], entry{ptr: ptr})
	}
	return l, nil
}

// Len returns the number of intervals stored in the List.
func (self *List) Len() int { return len(self.all) }

// match reports the overlapping run [first, last) of each layer to fn,
// descending between the forward pointers of the run's bounds. Layer
// runs are found with two binary searches: the first entry whose high
// endpoint reaches the query, then the first entry starting beyond it.
func (self *List) match(fn func(layer, first, last int) (done bool), q interval.Interface) {
	if len(self.layers) == 0 {
		return
	}
	lower, upper := 0, len(self.layers[0])-1
	for layer := 0; layer < len(self.layers) && lower < upper; layer++ {
		row := self.layers[layer]
		first := lower
		if interval.CompareHighLow(row[first].iv, q) < 0 {
			first += sort.Search(upper-first, func(k int) bool {
				return interval.CompareHighLow(row[first+k].iv, q) >= 0
			})
			if first == upper {
				return
			}
		}
		last := first + sort.Search(upper-first, func(k int) bool {
			return interval.CompareLowHigh(row[first+k].iv, q) > 0
		})
		if last == first {
			return
		}
		if fn(layer, first, last) {
			return
		}
		lower, upper = row[first].ptr, row[last].ptr
	}
}

// DoMatching performs fn on all stored intervals overlapping the query
// q, layer by layer. A boolean is returned indicating whether the
// traversal was interrupted by an Operation returning true.
func (self *List) DoMatching(fn Operation, q interval.Interface) bool {
	var done bool
	self.match(func(layer, first, last int) bool {
		for k := first; k < last; k++ {
			if fn(self.layers[layer][k].iv) {
				done = true
				return true
			}
		}
		return false
	}, q)
	return done
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

// Count returns the number of stored intervals overlapping q. Only the
// two binary searches per layer are paid; the hits are not enumerated.
func (self *List) Count(q interval.Interface) int {
	var n int
	self.match(func(_, first, last int) bool {
		n += last - first
		return false
	}, q)
	return n
}

// First returns the first interval of the outermost layer overlapping
// q, and whether one exists, with a single binary search.
func (self *List) First(q interval.Interface) (interval.Interface, bool) {
	if len(self.layers) == 0 {
		return nil, false
	}
	row := self.layers[0]
	n := len(row) - 1
	first := sort.Search(n, func(k int) bool { return interval.CompareHighLow(row[k].iv, q) >= 0 })
	if first == n || interval.CompareLowHigh(row[first].iv, q) > 0 {
		return nil, false
	}
	return row[first].iv, true
}

// Span returns the hull of the stored intervals. It returns ErrEmpty on
// an empty list.
func (self *List) Span() (interval.Span, error) {
	if len(self.layers) == 0 {
		return interval.Span{}, ErrEmpty
	}
	row := self.layers[0]
	lo, hi := row[0].iv, row[len(row)-2].iv
	return interval.Span{
		L: lo.Low(), LIncl: lo.LowIncluded(),
		H: hi.High(), HIncl: hi.HighIncluded(),
	}, nil
}

// Choose returns an arbitrary stored interval. It returns ErrEmpty on
// an empty list.
func (self *List) Choose() (interval.Interface, error) {
	if len(self.all) == 0 {
		return nil, ErrEmpty
	}
	return self.all[0], nil
}

// Do performs fn on all stored intervals in interval order. A boolean
// is returned indicating whether the traversal was interrupted by an
// Operation returning true.
func (self *List) Do(fn Operation) bool {
	for _, i := range self.all {
		if fn(i) {
			return true
		}
	}
	return false
}
