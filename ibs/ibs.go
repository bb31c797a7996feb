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

// Package ibs implements a dynamic interval index based on the interval
// binary search tree of Hanson and Chaabouni, balanced as an AVL tree.
// Each node carries an endpoint key and three interval sets partitioned
// by position relative to the key, plus per-node coverage aggregates
// that expose the maximum overlap of the whole collection at the root
// in constant time.
package ibs

import (
	"errors"
	"sort"

	"github.com/biogo/stab/interval"
)

// ErrInvalidInterval is returned when an interval's low endpoint is
// greater than its high endpoint, or equal with an excluded endpoint.
var ErrInvalidInterval = errors.New("ibs: invalid interval")

// ErrEmpty is returned by operations that are undefined on an empty
// tree.
var ErrEmpty = errors.New("ibs: empty tree")

// An Event describes a mutation of a Tree.
type Event int

const (
	Added Event = iota
	Removed
	Cleared
)

// String returns a string representation of an Event.
func (e Event) String() string {
	switch e {
	case Added:
		return "Added"
	case Removed:
		return "Removed"
	case Cleared:
		return "Cleared"
	}
	return "unknown"
}

// An Operation is a function that operates on an Interface. If done is
// returned true, the Operation is indicating that no further work needs
// to be done and so the calling function should traverse no further.
type Operation func(interval.Interface) (done bool)

// A Node represents a node in the IBS tree. The node key is an interval
// endpoint; Less, Equal and Greater hold the intervals guaranteed to
// overlap, relative to the key, the span below the key down to the
// nearest lesser ancestor key, the key itself, and the span above the
// key up to the nearest greater ancestor key. DAt and DAfter are the
// coverage deltas contributed by interval endpoints at the key and just
// after it; Sum and Max aggregate them over the subtree.
type Node struct {
	K                    interval.Comparable
	Less, Equal, Greater set
	Left, Right          *Node
	B                    int8
	Ending               int
	DAt, DAfter          int
	Sum, Max             int
}

// A Tree manages the root node of an IBS tree. Public methods are
// exposed through this type.
type Tree struct {
	Root *Node // Root node of the tree.

	elems    map[uintptr]interval.Interface
	watchers []func(Event, interval.Interface)
}

// Helper methods

// reaggregate recomputes the node's Sum and Max from its children and
// its own deltas.
func (self *Node) reaggregate() {
	var ls, lm, rs, rm int
	if self.Left != nil {
		ls, lm = self.Left.Sum, self.Left.Max
	}
	if self.Right != nil {
		rs, rm = self.Right.Sum, self.Right.Max
	}
	self.Sum = ls + self.DAt + self.DAfter + rs
	max := lm
	if v := ls + self.DAt; v > max {
		max = v
	}
	if v := ls + self.DAt + self.DAfter; v > max {
		max = v
	}
	if v := ls + self.DAt + self.DAfter + rm; v > max {
		max = v
	}
	self.Max = max
}

// (a,(b,c)y)x -rotL-> ((a,b)x,c)y
//
// The interval sets of the two nodes are reconciled so that the set
// placement invariants hold with y above x: intervals known to cover
// x's upper span also cover y's key and upper span; intervals of y's
// lower set that do not extend below x's span move to x's upper set;
// intervals remaining in y's lower set are no longer x's to report.
func (self *Node) rotateLeft() (root *Node) {
	root = self.Right
	root.Greater.union(self.Greater)
	root.Equal.union(self.Greater)
	between := diff(root.Less, self.Less)
	self.Greater.union(between)
	root.Less.subtract(between)
	self.Equal.subtract(root.Less)
	self.Less.subtract(root.Less)
	self.Right = root.Left
	root.Left = self
	self.reaggregate()
	root.reaggregate()
	return
}

// ((a,b)x,c)y -rotR-> (a,(b,c)y)x
func (self *Node) rotateRight() (root *Node) {
	root = self.Left
	root.Less.union(self.Less)
	root.Equal.union(self.Less)
	between := diff(root.Greater, self.Greater)
	self.Less.union(between)
	root.Greater.subtract(between)
	self.Equal.subtract(root.Greater)
	self.Greater.subtract(root.Greater)
	self.Left = root.Right
	root.Right = self
	self.reaggregate()
	root.reaggregate()
	return
}

// fixRightHeavy restores the AVL invariant at a node whose balance has
// reached +2, returning the new subtree root and whether the subtree
// height was reduced.
func fixRightHeavy(n *Node) (*Node, bool) {
	r := n.Right
	if r.B >= 0 {
		root := n.rotateLeft()
		if r.B == 0 {
			n.B, root.B = 1, -1
			return root, false
		}
		n.B, root.B = 0, 0
		return root, true
	}
	rl := r.Left
	n.Right = r.rotateRight()
	root := n.rotateLeft()
	switch {
	case rl.B > 0:
		n.B, r.B = -1, 0
	case rl.B < 0:
		n.B, r.B = 0, 1
	default:
		n.B, r.B = 0, 0
	}
	rl.B = 0
	return root, true
}

// fixLeftHeavy is the mirror of fixRightHeavy for balance -2.
func fixLeftHeavy(n *Node) (*Node, bool) {
	l := n.Left
	if l.B <= 0 {
		root := n.rotateRight()
		if l.B == 0 {
			n.B, root.B = -1, 1
			return root, false
		}
		n.B, root.B = 0, 0
		return root, true
	}
	lr := l.Right
	n.Left = l.rotateLeft()
	root := n.rotateRight()
	switch {
	case lr.B < 0:
		n.B, l.B = 1, 0
	case lr.B > 0:
		n.B, l.B = 0, -1
	default:
		n.B, l.B = 0, 0
	}
	lr.B = 0
	return root, true
}

// insertKey inserts an endpoint node for k if none exists, rebalancing
// on the unwind.
func insertKey(n *Node, k interval.Comparable) (root *Node, grew bool) {
	if n == nil {
		return &Node{K: k, Less: make(set), Equal: make(set), Greater: make(set)}, true
	}
	switch c := k.Compare(n.K); {
	case c == 0:
		return n, false
	case c < 0:
		n.Left, grew = insertKey(n.Left, k)
		if grew {
			if n.B--; n.B == -2 {
				n, _ = fixLeftHeavy(n)
				grew = false
			} else {
				grew = n.B != 0
			}
		}
	default:
		n.Right, grew = insertKey(n.Right, k)
		if grew {
			if n.B++; n.B == 2 {
				n, _ = fixRightHeavy(n)
				grew = false
			} else {
				grew = n.B != 0
			}
		}
	}
	n.reaggregate()
	return n, grew
}

// removeKey deletes the endpoint node for k, rebalancing on the unwind.
// An interior node is relocated by moving its in-order successor's key
// and payload into it first.
func removeKey(n *Node, k interval.Comparable) (root *Node, shrunk bool) {
	switch c := k.Compare(n.K); {
	case c < 0:
		n.Left, shrunk = removeKey(n.Left, k)
		if shrunk {
			switch n.B++; {
			case n.B == 1:
				shrunk = false
			case n.B == 2:
				n, shrunk = fixRightHeavy(n)
			}
		}
	case c > 0:
		n.Right, shrunk = removeKey(n.Right, k)
		if shrunk {
			switch n.B--; {
			case n.B == -1:
				shrunk = false
			case n.B == -2:
				n, shrunk = fixLeftHeavy(n)
			}
		}
	default:
		if n.Left == nil {
			return n.Right, true
		}
		if n.Right == nil {
			return n.Left, true
		}
		s := n.Right
		for s.Left != nil {
			s = s.Left
		}
		n.K = s.K
		n.Less, n.Equal, n.Greater = s.Less, s.Equal, s.Greater
		n.Ending, n.DAt, n.DAfter = s.Ending, s.DAt, s.DAfter
		n.Right, shrunk = removeKey(n.Right, s.K)
		if shrunk {
			switch n.B--; {
			case n.B == -1:
				shrunk = false
			case n.B == -2:
				n, shrunk = fixLeftHeavy(n)
			}
		}
	}
	n.reaggregate()
	return n, shrunk
}

// findNode returns the node holding k, or nil.
func (self *Tree) findNode(k interval.Comparable) *Node {
	for n := self.Root; n != nil; {
		switch c := k.Compare(n.K); {
		case c == 0:
			return n
		case c < 0:
			n = n.Left
		default:
			n = n.Right
		}
	}
	return nil
}

// placeLow walks the path to i's low endpoint node adding i to the sets
// it belongs to, and returns the endpoint node. On a left step the
// current node's upper span lies within i whenever i reaches the
// nearest greater ancestor key.
func (self *Tree) placeLow(i interval.Interface) *Node {
	var right *Node
	for n := self.Root; n != nil; {
		c := i.Low().Compare(n.K)
		if c > 0 {
			n = n.Right
			continue
		}
		if right != nil && i.High().Compare(right.K) >= 0 {
			n.Greater.add(i)
		}
		if interval.OverlapPoint(i, n.K) {
			n.Equal.add(i)
		}
		if c == 0 {
			return n
		}
		right, n = n, n.Left
	}
	return nil
}

// placeHigh is the mirror of placeLow for i's high endpoint.
func (self *Tree) placeHigh(i interval.Interface) *Node {
	var left *Node
	for n := self.Root; n != nil; {
		c := i.High().Compare(n.K)
		if c < 0 {
			n = n.Left
			continue
		}
		if left != nil && i.Low().Compare(left.K) <= 0 {
			n.Less.add(i)
		}
		if interval.OverlapPoint(i, n.K) {
			n.Equal.add(i)
		}
		if c == 0 {
			return n
		}
		left, n = n, n.Right
	}
	return nil
}

func (self *Tree) place(i interval.Interface) (low, high *Node) {
	return self.placeLow(i), self.placeHigh(i)
}

// unplace removes i from every set along the paths to its two endpoint
// nodes, returning the endpoint nodes. Set membership of an interval is
// confined to these two paths.
func (self *Tree) unplace(i interval.Interface) (low, high *Node) {
	id := i.ID()
	for n := self.Root; n != nil; {
		n.Less.remove(id)
		n.Equal.remove(id)
		n.Greater.remove(id)
		c := i.Low().Compare(n.K)
		if c == 0 {
			low = n
			break
		}
		if c < 0 {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	for n := self.Root; n != nil; {
		n.Less.remove(id)
		n.Equal.remove(id)
		n.Greater.remove(id)
		c := i.High().Compare(n.K)
		if c == 0 {
			high = n
			break
		}
		if c < 0 {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return
}

// fixPath recomputes the aggregates of the nodes on the path from the
// root to k, bottom up.
func (self *Tree) fixPath(k interval.Comparable) {
	fixPathNode(self.Root, k)
}

func fixPathNode(n *Node, k interval.Comparable) {
	if n == nil {
		return
	}
	switch c := k.Compare(n.K); {
	case c < 0:
		fixPathNode(n.Left, k)
	case c > 0:
		fixPathNode(n.Right, k)
	}
	n.reaggregate()
}

// deleteKey removes the endpoint node for k once no stored interval
// ends there. The set members of the victim, and of the in-order
// successor that takes an interior victim's place, are re-placed after
// the structural deletion so the set placement invariants hold at their
// new positions.
func (self *Tree) deleteKey(k interval.Comparable) {
	v := self.findNode(k)
	if v == nil {
		return
	}
	moved := make(set)
	moved.union(v.Less)
	moved.union(v.Equal)
	moved.union(v.Greater)
	if v.Left != nil && v.Right != nil {
		s := v.Right
		for s.Left != nil {
			s = s.Left
		}
		moved.union(s.Less)
		moved.union(s.Equal)
		moved.union(s.Greater)
	}
	for _, j := range moved {
		self.unplace(j)
	}
	self.Root, _ = removeKey(self.Root, k)
	for _, j := range moved {
		self.place(j)
	}
}

// Len returns the number of intervals stored in the Tree.
func (self *Tree) Len() int { return len(self.elems) }

// Add inserts the Interface i into the Tree by reference, returning
// whether the reference was newly inserted. Adding a reference already
// held is a no-op; a distinct reference with equal endpoints is stored
// alongside the original.
func (self *Tree) Add(i interval.Interface) (bool, error) {
	if !interval.Valid(i) {
		return false, ErrInvalidInterval
	}
	if self.elems == nil {
		self.elems = make(map[uintptr]interval.Interface)
	}
	id := i.ID()
	if _, ok := self.elems[id]; ok {
		return false, nil
	}
	self.Root, _ = insertKey(self.Root, i.Low())
	self.Root, _ = insertKey(self.Root, i.High())
	low, high := self.place(i)
	if i.LowIncluded() {
		low.DAt++
	} else {
		low.DAfter++
	}
	if i.HighIncluded() {
		high.DAfter--
	} else {
		high.DAt--
	}
	low.Ending++
	high.Ending++
	self.fixPath(i.Low())
	self.fixPath(i.High())
	self.elems[id] = i
	self.notify(Added, i)
	return true, nil
}

// Remove deletes the reference i from the Tree, returning whether it
// was held.
func (self *Tree) Remove(i interval.Interface) (bool, error) {
	if !interval.Valid(i) {
		return false, ErrInvalidInterval
	}
	id := i.ID()
	if _, ok := self.elems[id]; !ok {
		return false, nil
	}
	delete(self.elems, id)
	low, high := self.unplace(i)
	if i.LowIncluded() {
		low.DAt--
	} else {
		low.DAfter--
	}
	if i.HighIncluded() {
		high.DAfter++
	} else {
		high.DAt++
	}
	low.Ending--
	high.Ending--
	self.fixPath(i.Low())
	self.fixPath(i.High())
	lowDead := low.Ending == 0
	highDead := high != low && high.Ending == 0
	if highDead {
		self.deleteKey(i.High())
	}
	if lowDead {
		self.deleteKey(i.Low())
	}
	self.notify(Removed, i)
	return true, nil
}

// Clear removes all intervals from the Tree.
func (self *Tree) Clear() {
	self.Root = nil
	self.elems = nil
	self.notify(Cleared, nil)
}

// MaxOverlap returns the largest number of stored intervals that
// simultaneously cover a single point, in constant time.
func (self *Tree) MaxOverlap() int {
	if self.Root == nil {
		return 0
	}
	return self.Root.Max
}

// Span returns the hull of the stored intervals, from the structural
// extremes of the tree. It returns ErrEmpty on an empty tree.
func (self *Tree) Span() (interval.Span, error) {
	if self.Root == nil {
		return interval.Span{}, ErrEmpty
	}
	mn := self.Root
	for mn.Left != nil {
		mn = mn.Left
	}
	mx := self.Root
	for mx.Right != nil {
		mx = mx.Right
	}
	return interval.Span{
		L: mn.K, LIncl: mn.DAt > 0,
		H: mx.K, HIncl: mx.DAfter < 0,
	}, nil
}

// Choose returns an arbitrary stored interval. It returns ErrEmpty on
// an empty tree.
func (self *Tree) Choose() (interval.Interface, error) {
	for _, i := range self.elems {
		return i, nil
	}
	return nil, ErrEmpty
}

// DoStab performs fn on all intervals overlapping the point p, guided
// by the node sets: the set on the query side of each visited key holds
// exactly the stored intervals covering the span the query point lies
// in. A boolean is returned indicating whether the traversal was
// interrupted by an Operation returning true.
func (self *Tree) DoStab(fn Operation, p interval.Comparable) bool {
	for n := self.Root; n != nil; {
		switch c := p.Compare(n.K); {
		case c < 0:
			for _, i := range n.Less {
				if fn(i) {
					return true
				}
			}
			n = n.Left
		case c > 0:
			for _, i := range n.Greater {
				if fn(i) {
					return true
				}
			}
			n = n.Right
		default:
			for _, i := range n.Equal {
				if fn(i) {
					return true
				}
			}
			return false
		}
	}
	return false
}

// Stab returns all stored intervals overlapping the point p.
func (self *Tree) Stab(p interval.Comparable) []interval.Interface {
	var o []interval.Interface
	self.DoStab(func(i interval.Interface) bool { o = append(o, i); return false }, p)
	return o
}

// collect performs emit on every interval held in any set of the
// subtree, in key order.
func (self *Node) collect(emit func(interval.Interface) bool) bool {
	if self == nil {
		return false
	}
	if self.Left.collect(emit) {
		return true
	}
	for _, i := range self.Less {
		if emit(i) {
			return true
		}
	}
	for _, i := range self.Equal {
		if emit(i) {
			return true
		}
	}
	for _, i := range self.Greater {
		if emit(i) {
			return true
		}
	}
	return self.Right.collect(emit)
}

// DoMatching performs fn on all intervals overlapping the query q,
// deduplicated by reference identity. The traversal descends to the
// split node, then walks the two arms toward the query endpoints; on
// each arm the subtree between the walk and the split is wholly covered
// by the query and is reported in full. A boolean is returned
// indicating whether the traversal was interrupted by an Operation
// returning true.
func (self *Tree) DoMatching(fn Operation, q interval.Interface) bool {
	if self.Root == nil {
		return false
	}
	seen := make(map[uintptr]bool)
	emit := func(i interval.Interface) bool {
		if seen[i.ID()] {
			return false
		}
		seen[i.ID()] = true
		return fn(i)
	}
	emitSet := func(s set) bool {
		for _, i := range s {
			if emit(i) {
				return true
			}
		}
		return false
	}
	emitOverlap := func(s set) bool {
		for _, i := range s {
			if interval.Overlap(i, q) && emit(i) {
				return true
			}
		}
		return false
	}

	// Descend to the split node.
	n := self.Root
	for n != nil {
		if c := q.High().Compare(n.K); c < 0 || (c == 0 && !q.HighIncluded()) {
			if emitSet(n.Less) {
				return true
			}
			n = n.Left
			continue
		}
		if c := q.Low().Compare(n.K); c > 0 || (c == 0 && !q.LowIncluded()) {
			if emitSet(n.Greater) {
				return true
			}
			n = n.Right
			continue
		}
		break
	}
	if n == nil {
		return false
	}
	if emitOverlap(n.Less) || emitOverlap(n.Equal) || emitOverlap(n.Greater) {
		return true
	}

	// Left arm, toward q's low endpoint. The subtrees hanging between
	// the walk and the split node are wholly covered; the walk nodes'
	// own sets straddle the query boundary and are filtered.
	for m := n.Left; m != nil; {
		switch c := q.Low().Compare(m.K); {
		case c < 0:
			if m.Right.collect(emit) {
				return true
			}
			if emitOverlap(m.Less) || emitOverlap(m.Equal) || emitOverlap(m.Greater) {
				return true
			}
			m = m.Left
		case c > 0:
			if emitOverlap(m.Greater) {
				return true
			}
			m = m.Right
		default:
			if m.Right.collect(emit) {
				return true
			}
			if emitOverlap(m.Greater) || emitOverlap(m.Equal) {
				return true
			}
			m = nil
		}
	}

	// Right arm, toward q's high endpoint.
	for m := n.Right; m != nil; {
		switch c := q.High().Compare(m.K); {
		case c > 0:
			if m.Left.collect(emit) {
				return true
			}
			if emitOverlap(m.Less) || emitOverlap(m.Equal) || emitOverlap(m.Greater) {
				return true
			}
			m = m.Right
		case c < 0:
			if emitOverlap(m.Less) {
				return true
			}
			m = m.Left
		default:
			if m.Left.collect(emit) {
				return true
			}
			if emitOverlap(m.Less) || emitOverlap(m.Equal) {
				return true
			}
			m = nil
		}
	}
	return false
}

// Get returns all stored intervals overlapping q, each stored reference
// once; reference duplicates with distinct IDs are each returned.
func (self *Tree) Get(q interval.Interface) []interval.Interface {
	var o []interval.Interface
	self.DoMatching(func(i interval.Interface) bool { o = append(o, i); return false }, q)
	return o
}

// First returns a stored interval overlapping q, and whether one
// exists.
func (self *Tree) First(q interval.Interface) (interval.Interface, bool) {
	var o interval.Interface
	self.DoMatching(func(i interval.Interface) bool { o = i; return true }, q)
	return o, o != nil
}

// Count returns the number of stored intervals overlapping q.
func (self *Tree) Count(q interval.Interface) int {
	var n int
	self.DoMatching(func(interval.Interface) bool { n++; return false }, q)
	return n
}

// sortedElems returns the stored intervals in interval order.
func (self *Tree) sortedElems() []interval.Interface {
	ivs := make([]interval.Interface, 0, len(self.elems))
	for _, i := range self.elems {
		ivs = append(ivs, i)
	}
	sort.Sort(byInterval(ivs))
	return ivs
}

type byInterval []interval.Interface

func (s byInterval) Len() int           { return len(s) }
func (s byInterval) Less(i, j int) bool { return interval.Compare(s[i], s[j]) < 0 }
func (s byInterval) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Do performs fn on all stored intervals in interval order. A boolean
// is returned indicating whether the traversal was interrupted by an
// Operation returning true. If fn mutates the tree, behavior is
// undefined.
func (self *Tree) Do(fn Operation) bool {
	for _, i := range self.sortedElems() {
		if fn(i) {
			return true
		}
	}
	return false
}

// DoReverse performs fn on all stored intervals in reverse interval
// order. A boolean is returned indicating whether the traversal was
// interrupted by an Operation returning true.
func (self *Tree) DoReverse(fn Operation) bool {
	ivs := self.sortedElems()
	for k := len(ivs) - 1; k >= 0; k-- {
		if fn(ivs[k]) {
			return true
		}
	}
	return false
}

// Watch registers fn to be called after every successful mutation of
// the Tree. The interval is nil for Cleared events.
func (self *Tree) Watch(fn func(Event, interval.Interface)) {
	self.watchers = append(self.watchers, fn)
}

func (self *Tree) notify(e Event, i interval.Interface) {
	for _, fn := range self.watchers {
		fn(e, i)
	}
}
