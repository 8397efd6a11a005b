/*
 * activity_test.go, part of gothermo.
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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//antoineSubstance is an ideal gas with an Antoine vapor pressure, in Pa.
func antoineSubstance(id int, a, b, c float64) *Substance {
	s := NewSubstance()
	s.ID = id
	s.VLiq = 1e-4
	vp := s.Correlation(PropVaporPressure)
	vp.Form = FormAntoine
	vp.Coef[0], vp.Coef[1], vp.Coef[2] = a, b, c
	return s
}

func activitySystem(Te *testing.T, model ActivityModel) *System {
	S := newTestSystem(Te, antoineSubstance(1, 23.0, 3500, -40), antoineSubstance(2, 22.5, 3300, -50))
	S.subs[1].VLiq = 0.6e-4
	S.SetActivityModel(model)
	require.NoError(Te, S.ModifyIntParamAct(0, 1, []float64{0.8, 150, 0, 0, 0.3}))
	require.NoError(Te, S.ModifyIntParamAct(1, 0, []float64{-0.2, 90, 0, 0, 0.3}))
	return S
}

func TestGibbsDuhem(Te *testing.T) {
	for _, model := range []ActivityModel{ActNRTL, ActWilson} {
		S := activitySystem(Te, model)
		T := 330.0
		x1, h := 0.35, 1e-6
		g, ge, err := S.Activity(T, []float64{x1, 1 - x1})
		require.NoError(Te, err)
		assert.InDelta(Te, ge/(R*T), x1*math.Log(g[0])+(1-x1)*math.Log(g[1]), 1e-12, model.String())
		gp, _, err := S.Activity(T, []float64{x1 + h, 1 - x1 - h})
		require.NoError(Te, err)
		gm, _, err := S.Activity(T, []float64{x1 - h, 1 - x1 + h})
		require.NoError(Te, err)
		d1 := (math.Log(gp[0]) - math.Log(gm[0])) / (2 * h)
		d2 := (math.Log(gp[1]) - math.Log(gm[1])) / (2 * h)
		assert.InDelta(Te, 0, x1*d1+(1-x1)*d2, 1e-7, model.String())
		//infinite dilution limit is finite and pure components are ideal
		g, _, err = S.Activity(T, []float64{1, 0})
		require.NoError(Te, err)
		assert.InDelta(Te, 1, g[0], 1e-12)
		assert.False(Te, math.IsInf(g[1], 0))
	}
}

func TestIdealSolution(Te *testing.T) {
	S := activitySystem(Te, ActNone)
	g, ge, err := S.Activity(300, []float64{0.5, 0.5})
	require.NoError(Te, err)
	assert.Equal(Te, []float64{1, 1}, g)
	assert.Equal(Te, 0.0, ge)
	S.subs[0].VLiq = 0
	S.SetActivityModel(ActWilson)
	_, _, err = S.Activity(300, []float64{0.5, 0.5})
	assert.True(Te, IsKind(err, KindInvalidState))
}

func TestPhiFromActivity(Te *testing.T) {
	S := activitySystem(Te, ActNRTL)
	T, P := 340.0, 1e5
	x := []float64{0.4, 0.6}
	phi, err := S.PhiFromActivity(T, P, x, true)
	require.NoError(Te, err)
	g, _, err := S.Activity(T, x)
	require.NoError(Te, err)
	for i := range x {
		psat, _, err := S.VaporPressure(i, T)
		require.NoError(Te, err)
		//ideal gas: phisat = 1, the Poynting factor uses VLiq.
		want := g[i] * psat * math.Exp(S.subs[i].VLiq*(P-psat)/(R*T)) / P
		assert.InDelta(Te, 1, phi[i]/want, 1e-12)
	}
	//the liquid phase of the equilibrium primitive goes through the activity model.
	f, err := S.LnPhi(T, P, x, PhaseLiquid)
	require.NoError(Te, err)
	assert.InDelta(Te, math.Log(phi[0]), f.LnPhi[0], 1e-12)
	assert.InDelta(Te, 0.4*1e-4+0.6*0.6e-4, f.V, 1e-15)
	f, err = S.LnPhi(T, P, x, PhaseGas)
	require.NoError(Te, err)
	assert.InDelta(Te, 0, f.LnPhi[0], 1e-14)
	assert.InDelta(Te, 0, f.LnPhi[1], 1e-14)
}

//For a pure substance the Huron-Vidal rule gives back the pure-component parameters.
func TestHuronVidalPure(Te *testing.T) {
	hv := newTestSystem(Te, prSubstance(1, "a", 500, 4e6, 0.2))
	require.NoError(Te, hv.SetMixingRule(MixHuronVidal))
	hv.SetActivityModel(ActNRTL)
	vdw := newTestSystem(Te, prSubstance(1, "a", 500, 4e6, 0.2))
	a, err := hv.LnPhi(400, 5e6, []float64{1}, PhaseLiquid)
	require.NoError(Te, err)
	b, err := vdw.LnPhi(400, 5e6, []float64{1}, PhaseLiquid)
	require.NoError(Te, err)
	assert.InDelta(Te, b.LnPhi[0], a.LnPhi[0], 1e-10)
	vd := newTestSystem(Te)
	s := prSubstance(1, "vdw", 500, 4e6, 0.2)
	s.EOS.(*Cubic).Kind = VdW
	require.NoError(Te, vd.AddSubstance(s))
	assert.True(Te, IsKind(vd.SetMixingRule(MixHuronVidal), KindInvalidState))
}

//The vapor pressure standard state is used only when the vapor pressure is not far above P.
func TestStandardFugacity(Te *testing.T) {
	s := prSubstance(1, "a", 500, 4e6, 0.2)
	vp := s.Correlation(PropVaporPressure)
	vp.Form = FormAntoine
	vp.Coef[0], vp.Coef[1], vp.Coef[2] = 23.0, 3500, -40
	S := newTestSystem(Te, s)
	S.SetActivityModel(ActNRTL)
	T := 400.0
	psat, _, err := S.VaporPressure(0, T)
	require.NoError(Te, err)
	x := []float64{1}
	//psat is well above P, both standard states are the EOS liquid.
	P := psat / 3
	withVp, err := S.PhiFromActivity(T, P, x, true)
	require.NoError(Te, err)
	noVp, err := S.PhiFromActivity(T, P, x, false)
	require.NoError(Te, err)
	assert.Equal(Te, noVp, withVp)
	//above psat, Psat*phiSat*Poynting, with the EOS liquid volume when there is no other.
	P = 2 * psat
	withVp, err = S.PhiFromActivity(T, P, x, true)
	require.NoError(Te, err)
	lnphisat, _, err := S.pureLnPhi(0, T, psat, PhaseGas)
	require.NoError(Te, err)
	_, vl, err := S.pureLnPhi(0, T, P, PhaseLiquid)
	require.NoError(Te, err)
	require.Greater(Te, vl, 0.0)
	want := psat * math.Exp(lnphisat) * math.Exp(vl*(P-psat)/(R*T)) / P
	assert.InDelta(Te, 1, withVp[0]/want, 1e-12)
	//a failure computing the liquid volume is reported, not turned into a zero volume.
	_, err = S.PhiFromActivity(T, math.Inf(1), x, true)
	assert.True(Te, IsKind(err, KindInvalidState))
}
