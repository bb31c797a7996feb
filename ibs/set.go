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

package ibs

import "github.com/biogo/stab/interval"

// A set is an identity set of intervals keyed on Interface.ID.
type set map[uintptr]interval.Interface

// add inserts i, returning whether the identity was not yet present.
func (s set) add(i interval.Interface) bool {
	id := i.ID()
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = i
	return true
}

// remove deletes the interval with the given identity.
func (s set) remove(id uintptr) { delete(s, id) }

// union inserts all members of o.
func (s set) union(o set) {
	for id, i := range o {
		s[id] = i
	}
}

// subtract removes all members of o.
func (s set) subtract(o set) {
	for id := range o {
		delete(s, id)
	}
}

// diff returns the members of a whose identities are absent from b.
func diff(a, b set) set {
	d := make(set)
	for id, i := range a {
		if _, ok := b[id]; !ok {
			d[id] = i
		}
	}
	return d
}
