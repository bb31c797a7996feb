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

package ibs_test

import (
	"fmt"

	"github.com/biogo/stab/ibs"
	"github.com/biogo/stab/interval"
)

// Interval is a closed interval over the integer line.
type Interval struct {
	Start, End int
	UID        uintptr
}

func (i Interval) Low() interval.Comparable  { return interval.Int(i.Start) }
func (i Interval) High() interval.Comparable { return interval.Int(i.End) }
func (i Interval) LowIncluded() bool         { return true }
func (i Interval) HighIncluded() bool        { return true }
func (i Interval) ID() uintptr               { return i.UID }
func (i Interval) String() string            { return fmt.Sprintf("[%d,%d]", i.Start, i.End) }

func Example() {
	ivs := []Interval{
		{Start: 1, End: 5},
		{Start: 2, End: 3},
		{Start: 4, End: 7},
		{Start: 6, End: 8},
	}

	t := &ibs.Tree{}
	for k, iv := range ivs {
		iv.UID = uintptr(k + 1)
		if _, err := t.Add(iv); err != nil {
			fmt.Println(err)
		}
	}

	hits := t.Stab(interval.Int(4))
	interval.Sort(hits)
	fmt.Println(hits)
	fmt.Println(t.MaxOverlap())
	// Output:
	// [[1,5] [4,7]]
	// 2
}
