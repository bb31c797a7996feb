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

package interval_test

import (
	"fmt"

	"github.com/biogo/stab/interval"
)

// Window is a half-open interval over the integer line.
type Window struct {
	Start, End int
	UID        uintptr
}

func (w Window) Low() interval.Comparable  { return interval.Int(w.Start) }
func (w Window) High() interval.Comparable { return interval.Int(w.End) }
func (w Window) LowIncluded() bool         { return true }
func (w Window) HighIncluded() bool        { return false }
func (w Window) ID() uintptr               { return w.UID }

func ExampleMaximumDepth() {
	ivs := []interval.Interface{
		Window{Start: 0, End: 5, UID: 1},
		Window{Start: 1, End: 4, UID: 2},
		Window{Start: 2, End: 6, UID: 3},
		Window{Start: 7, End: 8, UID: 4},
	}
	depth, at := interval.MaximumDepth(ivs, false)
	fmt.Println(depth, at)
	// Output:
	// 3 [2,4)
}

func ExampleGaps() {
	ivs := []interval.Interface{
		Window{Start: 1, End: 3, UID: 1},
		Window{Start: 5, End: 7, UID: 2},
	}
	for _, g := range interval.Gaps(ivs, false) {
		fmt.Println(g)
	}
	// Output:
	// [3,5)
}
