/*
 * system_test.go, part of gothermo.
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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairSystem(Te *testing.T) *System {
	S := newTestSystem(Te, prSubstance(1, "a", 500, 4e6, 0.2), prSubstance(2, "b", 450, 3.5e6, 0.15))
	require.NoError(Te, S.ModifyIntParamEOS(0, 1, []float64{0.05, 1e-5}))
	require.NoError(Te, S.ModifyIntParamEOS(1, 0, []float64{0.04}))
	require.NoError(Te, S.ModifyIntParamAct(0, 1, []float64{1.2, 100, 0, 0, 0.25}))
	return S
}

//substances returns copies of all the members of S.
func substances(Te *testing.T, S *System) []*Substance {
	ret := make([]*Substance, S.Len())
	for i := range ret {
		var err error
		ret[i], err = S.Substance(i)
		require.NoError(Te, err)
	}
	return ret
}

func TestAddDeleteRestores(Te *testing.T) {
	S := pairSystem(Te)
	eos, act := S.EOSParams(), S.ActParams()
	subs := substances(Te, S)
	require.NoError(Te, S.AddSubstance(prSubstance(3, "c", 400, 3e6, 0.1)))
	require.NoError(Te, S.ModifyIntParamEOS(2, 0, []float64{0.2}))
	require.NoError(Te, S.ModifyIntParamAct(1, 2, []float64{0.5}))
	require.NoError(Te, S.DeleteSubstanceByPosition(2))
	assert.True(Te, eos.Equal(S.EOSParams()))
	assert.True(Te, act.Equal(S.ActParams()))
	assert.Equal(Te, subs, substances(Te, S))
	//go over the initial capacity, so the storage is reallocated.
	for i := 0; i < 4; i++ {
		require.NoError(Te, S.AddSubstance(prSubstance(10+i, "extra", 400, 3e6, 0.1)))
		require.NoError(Te, S.ModifyIntParamEOS(0, S.Len()-1, []float64{0.1}))
	}
	for S.Len() > 2 {
		require.NoError(Te, S.DeleteSubstanceByPosition(S.Len()-1))
	}
	assert.True(Te, eos.Equal(S.EOSParams()))
	assert.True(Te, act.Equal(S.ActParams()))
	assert.Equal(Te, subs, substances(Te, S))
}

func TestDeleteShifts(Te *testing.T) {
	S := pairSystem(Te)
	require.NoError(Te, S.AddSubstance(prSubstance(3, "c", 400, 3e6, 0.1)))
	require.NoError(Te, S.ModifyIntParamEOS(1, 2, []float64{0.07}))
	require.NoError(Te, S.DeleteSubstanceByID(1))
	assert.Equal(Te, 2, S.Len())
	assert.Equal(Te, 0, S.Position(2))
	assert.Equal(Te, 1, S.Position(3))
	p, err := S.IntParamEOS(0, 1)
	require.NoError(Te, err)
	assert.Equal(Te, 0.07, p[0])
	err = S.DeleteSubstanceByID(1)
	assert.True(Te, errors.Is(err, ErrNotFound))
	err = S.DeleteSubstanceByPosition(5)
	assert.True(Te, errors.Is(err, ErrIndex))
}

func TestModifyZeroes(Te *testing.T) {
	S := pairSystem(Te)
	require.NoError(Te, S.AddSubstance(prSubstance(3, "c", 400, 3e6, 0.1)))
	for _, ij := range [][2]int{{0, 2}, {2, 0}, {1, 2}, {2, 1}} {
		v := float64(10*ij[0] + ij[1] + 1)
		require.NoError(Te, S.ModifyIntParamEOS(ij[0], ij[1], []float64{v, 1e-4}))
		require.NoError(Te, S.ModifyIntParamAct(ij[0], ij[1], []float64{v, 20, 0, 0, 0.3}))
	}
	eos, act := S.EOSParams(), S.ActParams()
	before := substances(Te, S)
	require.NoError(Te, S.ModifySubstanceByPosition(1, prSubstance(7, "new", 520, 4.2e6, 0.25)))
	zero := make([]float64, NumIntParams)
	for k, get := range []func(i, j int) ([]float64, error){S.IntParamEOS, S.IntParamAct} {
		old := []*ParamMatrix{eos, act}[k]
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				p, err := get(i, j)
				require.NoError(Te, err)
				if i == 1 || j == 1 {
					assert.Equal(Te, zero, p, "%d %d", i, j)
					continue
				}
				want, err := old.At(i, j)
				require.NoError(Te, err)
				assert.Equal(Te, want, p, "%d %d", i, j)
			}
		}
	}
	after := substances(Te, S)
	assert.Equal(Te, before[0], after[0])
	assert.Equal(Te, before[2], after[2])
	assert.Equal(Te, 7, after[1].ID)
	//the system keeps its own copy
	after[1].Tc = 1
	s2, _ := S.Substance(1)
	assert.Equal(Te, 520.0, s2.Tc)
}

func TestMembershipErrors(Te *testing.T) {
	S := pairSystem(Te)
	before := S.EOSParams()
	err := S.AddSubstance(saftMethane())
	require.Error(Te, err)
	assert.True(Te, IsKind(err, KindInvalidState))
	srk := prSubstance(9, "srk", 400, 3e6, 0.1)
	srk.EOS.(*Cubic).Kind = SRK
	assert.True(Te, errors.Is(S.AddSubstance(srk), ErrInvalidState))
	assert.Equal(Te, 2, S.Len())
	assert.True(Te, before.Equal(S.EOSParams()))

	o := DefaultOptions()
	o.MaxSubstances = 1
	S2 := NewSystem(o)
	require.NoError(Te, S2.AddSubstance(saftMethane()))
	err = S2.AddSubstance(saftPropane())
	assert.True(Te, errors.Is(err, ErrCapacity))
	assert.Equal(Te, 1, S2.Len())
	assert.Error(Te, S2.SetMixingRule(MixHuronVidal))
	assert.Equal(Te, MixVdW, S2.MixingRule())
	err = S.SetMixingRule(MixingRule(7))
	assert.True(Te, IsKind(err, KindInvalidState))
	assert.Contains(Te, err.Error(), "MixingRule(7)")
	assert.Equal(Te, MixVdW, S.MixingRule())
	assert.Equal(Te, "ActivityModel(-1)", ActivityModel(-1).String())
}

func TestParamMatrixGrowth(Te *testing.T) {
	M := NewParamMatrix(2, 3, 2)
	require.NoError(Te, M.Set(0, 1, []float64{1, 2, 3}))
	require.NoError(Te, M.Set(1, 0, []float64{4}))
	require.NoError(Te, M.Insert(0))
	assert.Equal(Te, 4, M.Cap())
	v, err := M.At(1, 2)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{1, 2, 3}, v)
	v, _ = M.At(2, 1)
	assert.Equal(Te, []float64{4, 0, 0}, v)
	v, _ = M.At(0, 1)
	assert.Equal(Te, []float64{0, 0, 0}, v)
	assert.False(Te, M.Symmetric())
	require.NoError(Te, M.Delete(0))
	v, _ = M.At(0, 1)
	assert.Equal(Te, []float64{1, 2, 3}, v)
	assert.Error(Te, M.Set(0, 0, []float64{1, 2, 3, 4}))
	_, err = M.At(2, 0)
	assert.True(Te, errors.Is(err, ErrIndex))
	C := M.Copy()
	assert.True(Te, C.Equal(M))
	require.NoError(Te, C.Set(0, 0, []float64{9}))
	assert.False(Te, C.Equal(M))
}
