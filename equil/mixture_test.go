/*
 * mixture_test.go, part of gothermo.
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

var (
	methane = [3]float64{190.564, 4.5992e6, 0.01142}
	propane = [3]float64{369.83, 4.248e6, 0.1523}
	butane  = [3]float64{425.12, 3.796e6, 0.2002}
)

//equalFugacities checks ln x_i + ln phi_i across two phases.
func equalFugacities(Te *testing.T, x1, lnphi1, x2, lnphi2 []float64, delta float64) {
	for i := range x1 {
		assert.InDelta(Te, math.Log(x1[i])+lnphi1[i], math.Log(x2[i])+lnphi2[i], delta, "component %d", i)
	}
}

func TestPropaneButane(Te *testing.T) {
	S := prSystem(Te, propane, butane)
	P := 101325.0
	x := []float64{0.5, 0.5}
	b, err := BubbleT(S, P, x, 0, nil)
	require.NoError(Te, err)
	require.True(Te, b.Converged)
	//between the normal boiling points of propane and n-butane
	assert.Greater(Te, b.T, 231.0)
	assert.Less(Te, b.T, 273.0)
	assert.InDelta(Te, 244.2, b.T, 0.5)
	assert.Greater(Te, b.Y[0], x[0])
	equalFugacities(Te, b.X, b.LnPhiL, b.Y, b.LnPhiG, 1e-7)

	d, err := DewT(S, P, b.Y, 0, nil)
	require.NoError(Te, err)
	assert.InDelta(Te, b.T, d.T, 1e-5)
	assert.InDelta(Te, 0.5, d.X[0], 1e-6)
	assert.InDelta(Te, 0.5, d.X[1], 1e-6)

	bp, err := BubbleP(S, b.T, x, 0, nil)
	require.NoError(Te, err)
	assert.InDelta(Te, 1, bp.P/P, 1e-6)
	dp, err := DewP(S, b.T, b.Y, 0, nil)
	require.NoError(Te, err)
	assert.InDelta(Te, 1, dp.P/P, 1e-6)
	assert.InDelta(Te, 0.5, dp.X[0], 1e-6)

	//halfway between the bubble and dew temperatures of the feed there are two phases.
	dz, err := DewT(S, P, x, 0, nil)
	require.NoError(Te, err)
	assert.Greater(Te, dz.T, b.T)
	T := 0.5 * (b.T + dz.T)
	r, err := FlashPT(S, T, P, x, nil)
	require.NoError(Te, err)
	require.True(Te, r.Converged)
	require.Len(Te, r.Phases, 2)
	gas, liq := r.Phases[0], r.Phases[1]
	assert.Equal(Te, thermo.PhaseGas, gas.Kind)
	assert.Equal(Te, thermo.PhaseLiquid, liq.Kind)
	assert.Greater(Te, gas.V, liq.V)
	for i := range x {
		assert.InDelta(Te, x[i], gas.Fraction*gas.X[i]+liq.Fraction*liq.X[i], 1e-9)
	}
	equalFugacities(Te, gas.X, gas.LnPhi, liq.X, liq.LnPhi, 1e-7)
}

func TestSaturationNotConverged(Te *testing.T) {
	S := prSystem(Te, propane, butane)
	s := DefaultSettings()
	s.MaxIter = 2
	r, err := BubbleT(S, 101325, []float64{0.5, 0.5}, 0, s)
	require.Error(Te, err)
	require.NotNil(Te, r)
	assert.False(Te, r.Converged)
	assert.True(Te, thermo.IsKind(err, thermo.KindConvergence))
	r, err = DewP(S, 240, []float64{0.5, 0.5}, 0, s)
	require.Error(Te, err)
	assert.False(Te, r.Converged)
	assert.True(Te, thermo.IsKind(err, thermo.KindConvergence))
}

//The Wilson estimate of this bubble pressure is above the critical region of the
//mixture, where the incipient gas collapses onto the liquid.
func TestBubblePNearCritical(Te *testing.T) {
	S := prSystem(Te, methane, propane)
	T := 250.0
	x := []float64{0.4, 0.6}
	r, err := BubbleP(S, T, x, 0, nil)
	require.NoError(Te, err)
	require.True(Te, r.Converged)
	assert.InDelta(Te, 1, r.P/4.8584e6, 0.01)
	assert.InDelta(Te, 0.9137, r.Y[0], 0.01)
	assert.Greater(Te, r.VG, r.VL)
	equalFugacities(Te, r.X, r.LnPhiL, r.Y, r.LnPhiG, 1e-7)
	//a starting point where the phases are indistinguishable is moved back.
	h, err := BubbleP(S, T, x, 7e6, nil)
	require.NoError(Te, err)
	require.True(Te, h.Converged)
	assert.InDelta(Te, 1, h.P/r.P, 1e-6)
}

func TestThreePhaseFlash(Te *testing.T) {
	S := nrtlSystem(Te, 3, [3]float64{22.0, 2500, -40})
	P := 1e5
	z := []float64{0.3, 0.3, 0.4}
	r, err := Flash3PT(S, 310, P, z, nil)
	require.NoError(Te, err)
	require.True(Te, r.Converged)
	require.Len(Te, r.Phases, 3)
	assert.Equal(Te, thermo.PhaseGas, r.Phases[0].Kind)
	assert.Equal(Te, thermo.PhaseLiquid, r.Phases[1].Kind)
	assert.Equal(Te, thermo.PhaseLiquid2, r.Phases[2].Kind)
	sum := 0.0
	for _, p := range r.Phases {
		assert.Greater(Te, p.Fraction, 0.0)
		sum += p.Fraction
	}
	assert.InDelta(Te, 1, sum, 1e-12)
	for i := range z {
		zi := 0.0
		for _, p := range r.Phases {
			zi += p.Fraction * p.X[i]
		}
		assert.InDelta(Te, z[i], zi, 1e-9)
	}
	g := r.Phases[0]
	for _, l := range r.Phases[1:] {
		equalFugacities(Te, g.X, g.LnPhi, l.X, l.LnPhi, 1e-7)
	}
	//a bit hotter, the second liquid is gone.
	r, err = Flash3PT(S, 320, P, z, nil)
	require.NoError(Te, err)
	require.True(Te, r.Converged)
	require.Len(Te, r.Phases, 2)
	assert.Equal(Te, thermo.PhaseGas, r.Phases[0].Kind)
	assert.True(Te, r.Phases[1].Kind.IsLiquid())
}
