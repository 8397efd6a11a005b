/*
 * parammatrix.go, part of gothermo.
 *
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package thermo

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//NumIntParams is the number of slots per pair in the interaction parameter matrices.
const NumIntParams = 6

//ParamMatrix is a square matrix where each element is a vector of
//a fixed number of slots. Each slot is stored in its own gonum Dense,
//allocated with some spare capacity so additions don't always reallocate.
//The elements (i,j) and (j,i) are independent.
type ParamMatrix struct {
	n        int
	capacity int
	slots    int
	d        []*mat.Dense //one per slot, capacity x capacity
}

//NewParamMatrix returns a zeroed n x n matrix with slots values per element,
//and storage for at least capacity rows and columns.
func NewParamMatrix(n, slots, capacity int) *ParamMatrix {
	if slots <= 0 {
		panic("gothermo/ParamMatrix: need at least one slot")
	}
	if capacity < n {
		capacity = n
	}
	M := &ParamMatrix{n: n, slots: slots}
	M.alloc(capacity)
	return M
}

func (M *ParamMatrix) alloc(capacity int) {
	if capacity == 0 {
		M.d = make([]*mat.Dense, M.slots)
		M.capacity = 0
		return
	}
	nd := make([]*mat.Dense, M.slots)
	for k := range nd {
		nd[k] = mat.NewDense(capacity, capacity, nil)
		if M.n > 0 && M.d != nil && M.d[k] != nil {
			view := nd[k].Slice(0, M.n, 0, M.n).(*mat.Dense)
			view.Copy(M.d[k].Slice(0, M.n, 0, M.n))
		}
	}
	M.d = nd
	M.capacity = capacity
}

//Len returns the number of rows (or columns) of the matrix.
func (M *ParamMatrix) Len() int { return M.n }

//Slots returns the number of values per element.
func (M *ParamMatrix) Slots() int { return M.slots }

//Cap returns the number of rows that can be held without reallocating.
func (M *ParamMatrix) Cap() int { return M.capacity }

//Check checks if the given row and column indexes are within range.
func (M *ParamMatrix) Check(i, j int) error {
	if i < 0 || i >= M.n || j < 0 || j >= M.n {
		return newError(KindIndex, "ParamMatrix.Check", "element (%d,%d) out of range for a %dx%d matrix", i, j, M.n, M.n)
	}
	return nil
}

//Slot returns the k-th value of the element (i,j). It panics if out of range.
func (M *ParamMatrix) Slot(i, j, k int) float64 {
	if err := M.Check(i, j); err != nil {
		panic(err.Error())
	}
	return M.d[k].At(i, j)
}

//At returns a copy of the values of the element (i,j).
func (M *ParamMatrix) At(i, j int) ([]float64, error) {
	if err := M.Check(i, j); err != nil {
		return nil, errDecorate(err, "ParamMatrix.At")
	}
	ret := make([]float64, M.slots)
	for k := range ret {
		ret[k] = M.d[k].At(i, j)
	}
	return ret, nil
}

//Set sets the values of the element (i,j). vals can have fewer values than slots, the remaining
//slots are set to zero.
func (M *ParamMatrix) Set(i, j int, vals []float64) error {
	if err := M.Check(i, j); err != nil {
		return errDecorate(err, "ParamMatrix.Set")
	}
	if len(vals) > M.slots {
		return newError(KindIndex, "ParamMatrix.Set", "%d values given for %d slots", len(vals), M.slots)
	}
	for k := 0; k < M.slots; k++ {
		v := 0.0
		if k < len(vals) {
			v = vals[k]
		}
		M.d[k].Set(i, j, v)
	}
	return nil
}

//Insert inserts a zeroed row and column at position pos, shifting the following
//rows and columns by one. pos can be equal to Len(), to append.
func (M *ParamMatrix) Insert(pos int) error {
	if pos < 0 || pos > M.n {
		return newError(KindIndex, "ParamMatrix.Insert", "position %d out of range [0,%d]", pos, M.n)
	}
	if M.n == M.capacity {
		nc := 2 * M.capacity
		if nc == 0 {
			nc = 4
		}
		M.alloc(nc)
	}
	n := M.n + 1
	for _, d := range M.d {
		//shift from the bottom-right corner, so nothing is overwritten before it's moved.
		for i := n - 1; i >= 0; i-- {
			for j := n - 1; j >= 0; j-- {
				si, sj := i, j
				if i > pos {
					si = i - 1
				}
				if j > pos {
					sj = j - 1
				}
				if i == pos || j == pos {
					d.Set(i, j, 0)
					continue
				}
				d.Set(i, j, d.At(si, sj))
			}
		}
	}
	M.n = n
	return nil
}

//Delete removes row and column pos, shifting the following ones to keep the matrix contiguous.
func (M *ParamMatrix) Delete(pos int) error {
	if pos < 0 || pos >= M.n {
		return newError(KindIndex, "ParamMatrix.Delete", "position %d out of range [0,%d)", pos, M.n)
	}
	n := M.n - 1
	for _, d := range M.d {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				si, sj := i, j
				if i >= pos {
					si = i + 1
				}
				if j >= pos {
					sj = j + 1
				}
				d.Set(i, j, d.At(si, sj))
			}
		}
		//clean the row and column that are now outside, so a later Insert
		//finds zeroes there.
		for i := 0; i < M.n; i++ {
			d.Set(i, n, 0)
			d.Set(n, i, 0)
		}
	}
	M.n = n
	return nil
}

//ZeroRowCol sets to zero every slot of row pos and column pos.
func (M *ParamMatrix) ZeroRowCol(pos int) error {
	if err := M.Check(pos, pos); err != nil {
		return errDecorate(err, "ParamMatrix.ZeroRowCol")
	}
	for _, d := range M.d {
		for i := 0; i < M.n; i++ {
			d.Set(pos, i, 0)
			d.Set(i, pos, 0)
		}
	}
	return nil
}

//Copy returns a deep copy of the matrix, with the same capacity.
func (M *ParamMatrix) Copy() *ParamMatrix {
	r := &ParamMatrix{n: M.n, slots: M.slots}
	src := M.d
	r.d = src
	r.alloc(M.capacity)
	return r
}

//Equal returns true if both matrices have the same size, slots and values.
//The capacity is not compared.
func (M *ParamMatrix) Equal(o *ParamMatrix) bool {
	if M.n != o.n || M.slots != o.slots {
		return false
	}
	if M.n == 0 {
		return true
	}
	for k := range M.d {
		if !mat.Equal(M.d[k].Slice(0, M.n, 0, M.n), o.d[k].Slice(0, o.n, 0, o.n)) {
			return false
		}
	}
	return true
}

//Symmetric returns true if every element (i,j) equals (j,i).
func (M *ParamMatrix) Symmetric() bool {
	for k := range M.d {
		for i := 0; i < M.n; i++ {
			for j := i + 1; j < M.n; j++ {
				if M.d[k].At(i, j) != M.d[k].At(j, i) {
					return false
				}
			}
		}
	}
	return true
}

//String returns a string representation of the matrix, one block per slot.
func (M *ParamMatrix) String() string {
	ret := make([]string, 0, M.slots)
	for k, d := range M.d {
		if M.n == 0 {
			ret = append(ret, fmt.Sprintf("slot %d: []", k))
			continue
		}
		ret = append(ret, fmt.Sprintf("slot %d:\n%v", k, mat.Formatted(d.Slice(0, M.n, 0, M.n))))
	}
	return strings.Join(ret, "\n")
}
