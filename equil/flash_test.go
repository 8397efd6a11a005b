/*
 * flash_test.go, part of gothermo.
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

package equil

import (
	"math"
	"testing"

	thermo "github.com/rmera/gothermo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prSystem(Te *testing.T, crit ...[3]float64) *thermo.System {
	S := thermo.NewSystem(nil)
	for i, c := range crit {
		s := thermo.NewSubstance()
		s.ID = i + 1
		s.Tc, s.Pc, s.Omega = c[0], c[1], c[2]
		s.EOS = &thermo.Cubic{Kind: thermo.PR76, Tc: c[0], Pc: c[1], Omega: c[2]}
		require.NoError(Te, S.AddSubstance(s))
	}
	return S
}

//A mixture of two copies of the same substance boils like the pure substance.
func TestIdenticalPairBubble(Te *testing.T) {
	c := [3]float64{500, 4e6, 0.2}
	S := prSystem(Te, c, c)
	P := 101325.0
	r, err := BubbleT(S, P, []float64{0.5, 0.5}, 0, nil)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.5, r.Y[0], 1e-9)
	assert.InDelta(Te, 0.5, r.Y[1], 1e-9)
	psat, err := S.SaturationPressure(0, r.T)
	require.NoError(Te, err)
	assert.InDelta(Te, 1, psat/P, 1e-6)
	assert.Greater(Te, r.VG, r.VL)
}

//nrtlSystem is an ideal gas with a liquid described by NRTL, with tau12 = tau21 = tau.
//Extra components, given by their Antoine constants, form ideal solutions with the first two.
func nrtlSystem(Te *testing.T, tau float64, extra ...[3]float64) *thermo.System {
	S := thermo.NewSystem(nil)
	ants := append([][3]float64{{23.0, 3500, -40}, {22.5, 3300, -50}}, extra...)
	for i, a := range ants {
		s := thermo.NewSubstance()
		s.ID = i + 1
		s.VLiq = 1e-4 * float64(i+1)
		vp := s.Correlation(thermo.PropVaporPressure)
		vp.Form = thermo.FormAntoine
		vp.Coef[0], vp.Coef[1], vp.Coef[2] = a[0], a[1], a[2]
		require.NoError(Te, S.AddSubstance(s))
	}
	S.SetActivityModel(thermo.ActNRTL)
	require.NoError(Te, S.ModifyIntParamAct(0, 1, []float64{tau, 0, 0, 0, 0.2}))
	require.NoError(Te, S.ModifyIntParamAct(1, 0, []float64{tau, 0, 0, 0, 0.2}))
	return S
}

func TestLiquidLiquid(Te *testing.T) {
	S := nrtlSystem(Te, 3)
	T, P := 300.0, 1e5
	z := []float64{0.5, 0.5}
	st, err := Stability(S, T, P, z, thermo.PhaseLiquid, nil)
	require.NoError(Te, err)
	assert.False(Te, st.Stable)
	assert.Less(Te, st.TPD, 0.0)
	r, err := FlashPT(S, T, P, z, nil)
	require.NoError(Te, err)
	require.Len(Te, r.Phases, 2)
	l1, l2 := r.Phases[0], r.Phases[1]
	assert.Equal(Te, thermo.PhaseLiquid, l1.Kind)
	assert.Equal(Te, thermo.PhaseLiquid2, l2.Kind)
	//the system is symmetric
	assert.InDelta(Te, 1, l1.X[0]+l2.X[0], 1e-6)
	assert.InDelta(Te, 0.5, l1.Fraction, 1e-6)
	for i := range z {
		assert.InDelta(Te, math.Log(l1.X[i])+l1.LnPhi[i], math.Log(l2.X[i])+l2.LnPhi[i], 1e-8)
	}
	r3, err := Flash3PT(S, T, P, z, nil)
	require.NoError(Te, err)
	require.Len(Te, r3.Phases, 2)
	for _, p := range r3.Phases {
		assert.True(Te, p.Kind.IsLiquid())
	}
}

func TestIdealSolutionStable(Te *testing.T) {
	S := nrtlSystem(Te, 0)
	z := []float64{0.3, 0.7}
	st, err := Stability(S, 300, 1e5, z, thermo.PhaseUnknown, nil)
	require.NoError(Te, err)
	assert.True(Te, st.Stable)
	assert.Equal(Te, thermo.PhaseLiquid, st.FeedPhase)
	r, err := FlashPT(S, 300, 1e5, z, nil)
	require.NoError(Te, err)
	require.Len(Te, r.Phases, 1)
	assert.Equal(Te, thermo.PhaseLiquid, r.Phases[0].Kind)
}
