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

// Package dlfit implements a doubly-linked finite interval tree: an AVL
// tree of pairwise non-overlapping intervals keyed by the interval
// order, with every node threaded into a doubly-linked list in sorted
// endpoint order between two sentinels. Add is the atomic
// insert-if-no-overlap primitive: it succeeds only when the interval
// overlaps nothing stored, leaving the tree unchanged otherwise.
package dlfit

import (
	"errors"

	"github.com/biogo/stab/interval"
)

// ErrInvalidInterval is returned when an interval's low endpoint is
// greater than its high endpoint, or equal with an excluded endpoint.
var ErrInvalidInterval = errors.New("dlfit: invalid interval")

// ErrEmpty is returned by operations that are undefined on an empty
// tree.
var ErrEmpty = errors.New("dlfit: empty tree")

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

// A Node represents a node in the DLFIT tree. Prev and Next thread the
// node into the sorted list; the two list ends are sentinel nodes with
// a nil Elem.
type Node struct {
	Elem        interval.Interface
	Left, Right *Node
	Prev, Next  *Node
	B           int8
}

// A Tree manages the root node of a DLFIT tree. Public methods are
// exposed through this type.
type Tree struct {
	Root  *Node // Root node of the tree.
	Count int   // Number of intervals stored.

	head, tail *Node
	watchers   []func(Event, interval.Interface)
}

// New returns an empty Tree.
func New() *Tree {
	t := &Tree{}
	t.lazyInit()
	return t
}

func (self *Tree) lazyInit() {
	if self.head != nil {
		return
	}
	self.head = &Node{}
	self.tail = &Node{}
	self.head.Next = self.tail
	self.tail.Prev = self.head
}

// Helper methods

// (a,(b,c)y)x -rotL-> ((a,b)x,c)y
func (self *Node) rotateLeft() (root *Node) {
	root = self.Right
	self.Right = root.Left
	root.Left = self
	return
}

// ((a,b)x,c)y -rotR-> (a,(b,c)y)x
func (self *Node) rotateRight() (root *Node) {
	root = self.Left
	self.Left = root.Right
	root.Right = self
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

// unsplice removes n from the threaded list. The sentinels make this
// branch-free.
func unsplice(n *Node) {
	n.Prev.Next = n.Next
	n.Next.Prev = n.Prev
}

// Len returns the number of intervals stored in the Tree.
func (self *Tree) Len() int { return self.Count }

// Add inserts the Interface i into the Tree if it overlaps no stored
// interval, returning whether it was inserted. On rejection the tree is
// unchanged: the overlap test against the would-be list neighbors
// happens before any structural change.
func (self *Tree) Add(i interval.Interface) (bool, error) {
	if !interval.Valid(i) {
		return false, ErrInvalidInterval
	}
	self.lazyInit()
	root, _, ok := self.add(self.Root, i, self.head, self.tail)
	if !ok {
		return false, nil
	}
	self.Root = root
	self.Count++
	self.notify(Added, i)
	return true, nil
}

func (self *Tree) add(n *Node, i interval.Interface, pred, succ *Node) (root *Node, grew, ok bool) {
	if n == nil {
		if pred != self.head && interval.CompareHighLow(pred.Elem, i) >= 0 {
			return nil, false, false
		}
		if succ != self.tail && interval.CompareHighLow(i, succ.Elem) >= 0 {
			return nil, false, false
		}
		nn := &Node{Elem: i, Prev: pred, Next: succ}
		pred.Next = nn
		succ.Prev = nn
		return nn, true, true
	}
	switch c := interval.Compare(i, n.Elem); {
	case c == 0:
		// An order-equal interval necessarily overlaps.
		return n, false, false
	case c < 0:
		var child *Node
		child, grew, ok = self.add(n.Left, i, pred, n)
		if !ok {
			return n, false, false
		}
		n.Left = child
		if grew {
			if n.B--; n.B == -2 {
				n, _ = fixLeftHeavy(n)
				grew = false
			} else {
				grew = n.B != 0
			}
		}
	default:
		var child *Node
		child, grew, ok = self.add(n.Right, i, n, succ)
		if !ok {
			return n, false, false
		}
		n.Right = child
		if grew {
			if n.B++; n.B == 2 {
				n, _ = fixRightHeavy(n)
				grew = false
			} else {
				grew = n.B != 0
			}
		}
	}
	return n, grew, ok
}

// Remove deletes the interval matching i under the interval order,
// returning whether a match was held.
func (self *Tree) Remove(i interval.Interface) (bool, error) {
	if !interval.Valid(i) {
		return false, ErrInvalidInterval
	}
	if self.Root == nil {
		return false, nil
	}
	var ok bool
	self.Root, _, ok = self.remove(self.Root, i)
	if !ok {
		return false, nil
	}
	self.Count--
	self.notify(Removed, i)
	return true, nil
}

func (self *Tree) remove(n *Node, i interval.Interface) (root *Node, shrunk, ok bool) {
	if n == nil {
		return nil, false, false
	}
	switch c := interval.Compare(i, n.Elem); {
	case c < 0:
		n.Left, shrunk, ok = self.remove(n.Left, i)
		if ok && shrunk {
			switch n.B++; {
			case n.B == 1:
				shrunk = false
			case n.B == 2:
				n, shrunk = fixRightHeavy(n)
			}
		}
	case c > 0:
		n.Right, shrunk, ok = self.remove(n.Right, i)
		if ok && shrunk {
			switch n.B--; {
			case n.B == -1:
				shrunk = false
			case n.B == -2:
				n, shrunk = fixLeftHeavy(n)
			}
		}
	default:
		ok = true
		if n.Left == nil || n.Right == nil {
			unsplice(n)
			if n.Left != nil {
				return n.Left, true, true
			}
			return n.Right, true, true
		}
		// The in-order successor is adjacent in the threaded list.
		s := n.Next
		unsplice(s)
		n.Elem = s.Elem
		n.Right, shrunk = removeLeftmost(n.Right)
		if shrunk {
			switch n.B--; {
			case n.B == -1:
				shrunk = false
			case n.B == -2:
				n, shrunk = fixLeftHeavy(n)
			}
		}
	}
	return n, shrunk, ok
}

func removeLeftmost(n *Node) (root *Node, shrunk bool) {
	if n.Left == nil {
		return n.Right, true
	}
	n.Left, shrunk = removeLeftmost(n.Left)
	if shrunk {
		switch n.B++; {
		case n.B == 1:
			shrunk = false
		case n.B == 2:
			n, shrunk = fixRightHeavy(n)
		}
	}
	return n, shrunk
}

// Clear removes all intervals from the Tree.
func (self *Tree) Clear() {
	self.Root = nil
	self.Count = 0
	self.head = nil
	self.lazyInit()
	self.notify(Cleared, nil)
}

// Min returns the first stored interval in sorted order, or nil when
// the tree is empty.
func (self *Tree) Min() interval.Interface {
	if self.Count == 0 {
		return nil
	}
	return self.head.Next.Elem
}

// Max returns the last stored interval in sorted order, or nil when the
// tree is empty.
func (self *Tree) Max() interval.Interface {
	if self.Count == 0 {
		return nil
	}
	return self.tail.Prev.Elem
}

// Span returns the hull of the stored intervals, from the list ends. It
// returns ErrEmpty on an empty tree.
func (self *Tree) Span() (interval.Span, error) {
	if self.Count == 0 {
		return interval.Span{}, ErrEmpty
	}
	lo, hi := self.head.Next.Elem, self.tail.Prev.Elem
	return interval.Span{
		L: lo.Low(), LIncl: lo.LowIncluded(),
		H: hi.High(), HIncl: hi.HighIncluded(),
	}, nil
}

// Choose returns an arbitrary stored interval. It returns ErrEmpty on
// an empty tree.
func (self *Tree) Choose() (interval.Interface, error) {
	if self.Root == nil {
		return nil, ErrEmpty
	}
	return self.Root.Elem, nil
}

// first returns the node of the first stored interval overlapping q in
// sorted order, or nil.
func (self *Tree) first(q interval.Interface) *Node {
	var cand *Node
	for n := self.Root; n != nil; {
		if interval.CompareHighLow(n.Elem, q) < 0 {
			n = n.Right
		} else {
			cand = n
			n = n.Left
		}
	}
	if cand != nil && interval.CompareLowHigh(cand.Elem, q) <= 0 {
		return cand
	}
	return nil
}

// DoMatching performs fn on all stored intervals overlapping the query
// q, in sorted order: the first overlap is found by descent, the rest
// by walking the threaded list. A boolean is returned indicating
// whether the traversal was interrupted by an Operation returning true.
func (self *Tree) DoMatching(fn Operation, q interval.Interface) bool {
	for n := self.first(q); n != nil && n != self.tail; n = n.Next {
		if interval.CompareLowHigh(n.Elem, q) > 0 {
			break
		}
		if fn(n.Elem) {
			return true
		}
	}
	return false
}

// Get returns all stored intervals overlapping q in sorted order.
func (self *Tree) Get(q interval.Interface) []interval.Interface {
	var o []interval.Interface
	self.DoMatching(func(i interval.Interface) bool { o = append(o, i); return false }, q)
	return o
}

// At returns the stored interval overlapping the point p, and whether
// one exists. The descent compares p to the node's low endpoint; when p
// precedes it, or meets an excluded one, the covering interval can only
// lie to the left, and the last node passed on a right step is the
// candidate to test.
func (self *Tree) At(p interval.Comparable) (interval.Interface, bool) {
	var cand *Node
	for n := self.Root; n != nil; {
		switch c := p.Compare(n.Elem.Low()); {
		case c < 0:
			n = n.Left
		case c > 0:
			cand = n
			n = n.Right
		default:
			if n.Elem.LowIncluded() {
				return n.Elem, true
			}
			n = n.Left
		}
	}
	if cand != nil && interval.OverlapPoint(cand.Elem, p) {
		return cand.Elem, true
	}
	return nil, false
}

// DoStab performs fn on the stored intervals overlapping the point p.
func (self *Tree) DoStab(fn Operation, p interval.Comparable) bool {
	return self.DoMatching(fn, interval.Point(p))
}

// Stab returns all stored intervals overlapping the point p. At most
// one interval can match.
func (self *Tree) Stab(p interval.Comparable) []interval.Interface {
	return self.Get(interval.Point(p))
}

// First returns the first stored interval overlapping q in sorted
// order, and whether one exists.
func (self *Tree) First(q interval.Interface) (interval.Interface, bool) {
	n := self.first(q)
	if n == nil {
		return nil, false
	}
	return n.Elem, true
}

// Count returns the number of stored intervals overlapping q.
func (self *Tree) Count(q interval.Interface) int {
	var n int
	self.DoMatching(func(interval.Interface) bool { n++; return false }, q)
	return n
}

// Do performs fn on all stored intervals in sorted order by walking the
// threaded list. A boolean is returned indicating whether the traversal
// was interrupted by an Operation returning true. If fn mutates the
// tree, behavior is undefined.
func (self *Tree) Do(fn Operation) bool {
	self.lazyInit()
	for n := self.head.Next; n != self.tail; n = n.Next {
		if fn(n.Elem) {
			return true
		}
	}
	return false
}

// DoReverse performs fn on all stored intervals in reverse sorted
// order. A boolean is returned indicating whether the traversal was
// interrupted by an Operation returning true.
func (self *Tree) DoReverse(fn Operation) bool {
	self.lazyInit()
	for n := self.tail.Prev; n != self.head; n = n.Prev {
		if fn(n.Elem) {
			return true
		}
	}
	return false
}

// Gaps returns the maximal intervals between consecutive stored
// intervals, in sorted order. Gap endpoints meet the stored endpoints
// with inverted inclusion.
func (self *Tree) Gaps() []interval.Span {
	self.lazyInit()
	var gaps []interval.Span
	for n := self.head.Next; n != self.tail && n.Next != self.tail; n = n.Next {
		g := interval.Span{
			L: n.Elem.High(), LIncl: !n.Elem.HighIncluded(),
			H: n.Next.Elem.Low(), HIncl: !n.Next.Elem.LowIncluded(),
		}
		if interval.Valid(g) {
			gaps = append(gaps, g)
		}
	}
	return gaps
}

// FindGaps returns the gaps clipped to the window q, including the
// leading and trailing uncovered parts of the window; an empty tree
// yields the window itself.
func (self *Tree) FindGaps(q interval.Interface) []interval.Span {
	self.lazyInit()
	var gaps []interval.Span
	fH, fIncl := q.Low(), !q.LowIncluded()
	for n := self.head.Next; n != self.tail; n = n.Next {
		if interval.CompareHighLow(n.Elem, q) < 0 {
			continue
		}
		if interval.CompareLowHigh(n.Elem, q) > 0 {
			break
		}
		g := interval.Span{L: fH, LIncl: !fIncl, H: n.Elem.Low(), HIncl: !n.Elem.LowIncluded()}
		if interval.Valid(g) {
			gaps = append(gaps, g)
		}
		fH, fIncl = n.Elem.High(), n.Elem.HighIncluded()
	}
	g := interval.Span{L: fH, LIncl: !fIncl, H: q.High(), HIncl: q.HighIncluded()}
	if interval.Valid(g) {
		gaps = append(gaps, g)
	}
	return gaps
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
