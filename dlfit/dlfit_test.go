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

package dlfit

import (
	"fmt"
	"math/rand"
	"testing"

	check "gopkg.in/check.v1"

	"github.com/biogo/stab/interval"
)

// Tests
func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

type testIv struct {
	lo, hi     interval.Float
	loIn, hiIn bool
	id         uintptr
}

func (i testIv) Low() interval.Comparable  { return i.lo }
func (i testIv) High() interval.Comparable { return i.hi }
func (i testIv) LowIncluded() bool         { return i.loIn }
func (i testIv) HighIncluded() bool        { return i.hiIn }
func (i testIv) ID() uintptr               { return i.id }
func (i testIv) String() string {
	lb, hb := "(", ")"
	if i.loIn {
		lb = "["
	}
	if i.hiIn {
		hb = "]"
	}
	return fmt.Sprintf("%s%v,%v%s", lb, float64(i.lo), float64(i.hi), hb)
}

var nextID uintptr

func mk(lo, hi float64, loIn, hiIn bool) testIv {
	nextID++
	return testIv{lo: interval.Float(lo), hi: interval.Float(hi), loIn: loIn, hiIn: hiIn, id: nextID}
}

func closed(lo, hi float64) testIv   { return mk(lo, hi, true, true) }
func halfOpen(lo, hi float64) testIv { return mk(lo, hi, true, false) }

// Integrity checks

func height(n *Node) int {
	if n == nil {
		return 0
	}
	l, r := height(n.Left), height(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func checkBalance(c *check.C, n *Node) {
	if n == nil {
		return
	}
	hl, hr := height(n.Left), height(n.Right)
	c.Assert(hr-hl >= -1 && hr-hl <= 1, check.Equals, true,
		check.Commentf("unbalanced node %v: %d/%d", n.Elem, hl, hr))
	c.Assert(int(n.B), check.Equals, hr-hl, check.Commentf("stale balance at %v", n.Elem))
	checkBalance(c, n.Left)
	checkBalance(c, n.Right)
}

// checkList verifies the threaded list: mutual Prev/Next consistency,
// agreement with the in-order tree walk, sorted non-overlapping order.
func checkList(c *check.C, t *Tree) {
	var inorder []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		walk(n.Left)
		inorder = append(inorder, n)
		walk(n.Right)
	}
	walk(t.Root)

	t.lazyInit()
	var listed []*Node
	for n := t.head.Next; n != t.tail; n = n.Next {
		c.Assert(n.Next.Prev, check.Equals, n)
		c.Assert(n.Prev.Next, check.Equals, n)
		listed = append(listed, n)
	}
	c.Assert(len(listed), check.Equals, len(inorder))
	c.Assert(len(listed), check.Equals, t.Count)
	for k := range listed {
		c.Assert(listed[k], check.Equals, inorder[k])
		if k > 0 {
			c.Assert(interval.Compare(listed[k-1].Elem, listed[k].Elem) < 0, check.Equals, true)
			c.Assert(interval.Overlap(listed[k-1].Elem, listed[k].Elem), check.Equals, false,
				check.Commentf("%v overlaps %v", listed[k-1].Elem, listed[k].Elem))
		}
	}
}

func checkTree(c *check.C, t *Tree) {
	checkBalance(c, t.Root)
	checkList(c, t)
}

func (s *S) TestEmpty(c *check.C) {
	t := New()
	c.Check(t.Len(), check.Equals, 0)
	c.Check(t.Min(), check.IsNil)
	c.Check(t.Max(), check.IsNil)
	c.Check(t.Get(closed(0, 1)), check.IsNil)
	_, ok := t.At(interval.Float(0))
	c.Check(ok, check.Equals, false)
	_, err := t.Span()
	c.Check(err, check.Equals, ErrEmpty)
	_, err = t.Choose()
	c.Check(err, check.Equals, ErrEmpty)
	c.Check(t.Gaps(), check.IsNil)
}

func (s *S) TestAddErrors(c *check.C) {
	t := New()
	_, err := t.Add(closed(5, 1))
	c.Check(err, check.Equals, ErrInvalidInterval)
	c.Check(t.Len(), check.Equals, 0)
}

// The S4 scenario: insert-if-no-overlap with half-open windows.
func (s *S) TestAddRejectsOverlap(c *check.C) {
	t := New()
	a := halfOpen(1, 3)
	ok, err := t.Add(a)
	c.Assert(err, check.IsNil)
	c.Check(ok, check.Equals, true)

	ok, _ = t.Add(halfOpen(2, 4))
	c.Check(ok, check.Equals, false)
	c.Check(t.Len(), check.Equals, 1)

	b := halfOpen(3, 5)
	ok, _ = t.Add(b)
	c.Check(ok, check.Equals, true)
	checkTree(c, t)

	got := t.Get(mk(2.5, 3.1, true, false))
	c.Assert(len(got), check.Equals, 2)
	c.Check(got[0].ID(), check.Equals, a.id)
	c.Check(got[1].ID(), check.Equals, b.id)

	var rev []uintptr
	t.DoReverse(func(i interval.Interface) bool { rev = append(rev, i.ID()); return false })
	c.Check(rev, check.DeepEquals, []uintptr{b.id, a.id})
}

func (s *S) TestGaps(c *check.C) {
	t := New()
	t.Add(halfOpen(1, 3))
	t.Add(halfOpen(5, 7))
	c.Check(t.Gaps(), check.DeepEquals, []interval.Span{
		{L: interval.Float(3), H: interval.Float(5), LIncl: true, HIncl: false},
	})

	// Touching half-open windows leave no gap.
	t = New()
	t.Add(halfOpen(1, 3))
	t.Add(halfOpen(3, 5))
	c.Check(t.Gaps(), check.IsNil)
}

func (s *S) TestFindGaps(c *check.C) {
	t := New()
	w := closed(0, 10)
	c.Check(t.FindGaps(w), check.DeepEquals, []interval.Span{
		{L: interval.Float(0), H: interval.Float(10), LIncl: true, HIncl: true},
	})
	t.Add(closed(2, 3))
	t.Add(closed(5, 6))
	t.Add(closed(12, 13))
	c.Check(t.FindGaps(w), check.DeepEquals, []interval.Span{
		{L: interval.Float(0), H: interval.Float(2), LIncl: true, HIncl: false},
		{L: interval.Float(3), H: interval.Float(5), LIncl: false, HIncl: false},
		{L: interval.Float(6), H: interval.Float(10), LIncl: false, HIncl: true},
	})
}

func (s *S) TestAt(c *check.C) {
	t := New()
	a, b := mk(1, 3, true, false), mk(3, 5, false, true)
	t.Add(a)
	t.Add(b)
	got, ok := t.At(interval.Float(2))
	c.Assert(ok, check.Equals, true)
	c.Check(got.ID(), check.Equals, a.id)
	// The meeting point is excluded by both stored intervals.
	_, ok = t.At(interval.Float(3))
	c.Check(ok, check.Equals, false)
	got, ok = t.At(interval.Float(4))
	c.Assert(ok, check.Equals, true)
	c.Check(got.ID(), check.Equals, b.id)
	_, ok = t.At(interval.Float(9))
	c.Check(ok, check.Equals, false)
	_, ok = t.At(interval.Float(0))
	c.Check(ok, check.Equals, false)
}

func (s *S) TestMinMaxSpan(c *check.C) {
	t := New()
	t.Add(closed(4, 5))
	t.Add(halfOpen(1, 2))
	t.Add(mk(7, 9, false, true))
	c.Check(t.Min().Low(), check.Equals, interval.Float(1))
	c.Check(t.Max().High(), check.Equals, interval.Float(9))
	sp, err := t.Span()
	c.Assert(err, check.IsNil)
	c.Check(sp, check.DeepEquals, interval.Span{
		L: interval.Float(1), H: interval.Float(9), LIncl: true, HIncl: true,
	})
}

func (s *S) TestWatch(c *check.C) {
	t := New()
	var added, removed, cleared int
	t.Watch(func(e Event, i interval.Interface) {
		switch e {
		case Added:
			added++
		case Removed:
			removed++
		case Cleared:
			cleared++
		}
	})
	i := closed(1, 2)
	t.Add(i)
	t.Add(closed(1, 2)) // rejected, no event
	t.Remove(i)
	t.Clear()
	c.Check(added, check.Equals, 1)
	c.Check(removed, check.Equals, 1)
	c.Check(cleared, check.Equals, 1)
}

func (s *S) TestRandomMutations(c *check.C) {
	for round := 0; round < 10; round++ {
		r := rand.New(rand.NewSource(int64(round)))
		t := New()
		var live []testIv

		for k := 0; k < 100; k++ {
			a := float64(r.Intn(200))
			b := a + float64(1+r.Intn(10))
			i := mk(a, b, r.Intn(2) == 0, r.Intn(2) == 0)
			overlaps := false
			for _, l := range live {
				if interval.Overlap(l, i) {
					overlaps = true
					break
				}
			}
			ok, err := t.Add(i)
			c.Assert(err, check.IsNil)
			c.Assert(ok, check.Equals, !overlaps, check.Commentf("round %d add %v", round, i))
			if ok {
				live = append(live, i)
			}
			c.Assert(t.Len(), check.Equals, len(live))
		}
		checkTree(c, t)

		// Point queries against a linear scan.
		for p := 0.0; p <= 210; p += 0.5 {
			v := interval.Float(p)
			var want interval.Interface
			for _, l := range live {
				if interval.OverlapPoint(l, v) {
					want = l
					break
				}
			}
			got, ok := t.At(v)
			c.Assert(ok, check.Equals, want != nil, check.Commentf("round %d At(%v)", round, p))
			if ok {
				c.Assert(got.ID(), check.Equals, want.ID())
			}
		}

		// Interval queries against a linear scan.
		for k := 0; k < 50; k++ {
			a := float64(r.Intn(220)) - 10
			q := mk(a, a+float64(r.Intn(30)+1), r.Intn(2) == 0, r.Intn(2) == 0)
			var want int
			for _, l := range live {
				if interval.Overlap(l, q) {
					want++
				}
			}
			c.Assert(t.Count(q), check.Equals, want, check.Commentf("round %d Count(%v)", round, q))
			for _, i := range t.Get(q) {
				c.Assert(interval.Overlap(i, q), check.Equals, true)
			}
		}

		r.Shuffle(len(live), func(i, j int) { live[i], live[j] = live[j], live[i] })
		for k, i := range live {
			ok, err := t.Remove(i)
			c.Assert(err, check.IsNil)
			c.Assert(ok, check.Equals, true, check.Commentf("round %d remove %v", round, i))
			ok, _ = t.Remove(i)
			c.Assert(ok, check.Equals, false)
			if k%10 == 0 {
				checkTree(c, t)
			}
		}
		c.Check(t.Len(), check.Equals, 0)
		c.Check(t.Root, check.IsNil)
		checkList(c, t)
	}
}

// Benchmarks

func BenchmarkAdd(b *testing.B) {
	t := New()
	for i := 0; i < b.N; i++ {
		t.Add(halfOpen(float64(i), float64(i+1)))
	}
}

func BenchmarkAt(b *testing.B) {
	b.StopTimer()
	t := New()
	for i := 0; i < 1000; i++ {
		t.Add(halfOpen(float64(2*i), float64(2*i+1)))
	}
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		t.At(interval.Float(float64(i % 2000)))
	}
}
