/*
 * eos_test.go, part of gothermo.
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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//prLnPhi is the textbook expression for a pure Peng-Robinson fluid.
func prLnPhi(T, P, Z, Tc, Pc, w float64) float64 {
	m := 0.37464 + 1.54226*w - 0.26992*w*w
	alpha := sq(1 + m*(1-math.Sqrt(T/Tc)))
	a := 0.45723553 * R * R * Tc * Tc / Pc * alpha
	b := 0.07779607 * R * Tc / Pc
	A := a * P / (R * R * T * T)
	B := b * P / (R * T)
	s2 := math.Sqrt2
	return Z - 1 - math.Log(Z-B) - A/(2*s2*B)*math.Log((Z+(1+s2)*B)/(Z+(1-s2)*B))
}

func TestPRPureFugacity(Te *testing.T) {
	S := newTestSystem(Te, prSubstance(1, "a", 500, 4e6, 0.2))
	T := 400.0
	for _, c := range []struct {
		P    float64
		hint Phase
	}{{2e5, PhaseGas}, {5e6, PhaseLiquid}} {
		f, err := S.LnPhi(T, c.P, []float64{1}, c.hint)
		require.NoError(Te, err)
		assert.Equal(Te, c.hint, f.Phase)
		Z := c.P * f.V / (R * T)
		assert.InDelta(Te, prLnPhi(T, c.P, Z, 500, 4e6, 0.2), f.LnPhi[0], 1e-9)
	}
}

func TestIdenticalPairIsPure(Te *testing.T) {
	pure := newTestSystem(Te, prSubstance(1, "a", 500, 4e6, 0.2))
	pair := newTestSystem(Te, prSubstance(1, "a", 500, 4e6, 0.2), prSubstance(2, "a2", 500, 4e6, 0.2))
	for _, hint := range []Phase{PhaseGas, PhaseLiquid} {
		fp, err := pure.LnPhi(400, 1e6, []float64{1}, hint)
		require.NoError(Te, err)
		fm, err := pair.LnPhi(400, 1e6, []float64{0.3, 0.7}, hint)
		require.NoError(Te, err)
		assert.InDelta(Te, fp.V, fm.V, 1e-12*fp.V)
		assert.InDelta(Te, fp.LnPhi[0], fm.LnPhi[0], 1e-9)
		assert.InDelta(Te, fp.LnPhi[0], fm.LnPhi[1], 1e-9)
	}
}

type roundTrip struct {
	name string
	S    *System
	T, P float64
	x    []float64
	hint Phase
}

func roundTrips(Te *testing.T) []roundTrip {
	pr := pairSystem(Te)
	srk := newTestSystem(Te)
	for i, tc := range []float64{300, 420} {
		s := prSubstance(i, "srk", tc, 4e6, 0.1)
		c := s.EOS.(*Cubic)
		c.Kind, c.Shift = SRK, 3e-6
		require.NoError(Te, srk.AddSubstance(s))
	}
	twu := newTestSystem(Te, prSubstance(1, "twu", 500, 4e6, 0.2))
	twu.subs[0].EOS.(*Cubic).Alpha = AlphaTwu
	twu.subs[0].EOS.(*Cubic).AlphaCoef = [3]float64{0.3, 0.85, 2}
	vdw := newTestSystem(Te, prSubstance(1, "vdw", 500, 4e6, 0.2))
	vdw.subs[0].EOS.(*Cubic).Kind = VdW
	saft := newTestSystem(Te, saftMethane(), saftPropane())
	require.NoError(Te, saft.ModifyIntParamEOS(0, 1, []float64{0.03}))
	require.NoError(Te, saft.ModifyIntParamEOS(1, 0, []float64{0.03}))
	mp := newTestSystem(Te, mpMethane())
	return []roundTrip{
		{"PR gas", pr, 450, 5e5, []float64{0.4, 0.6}, PhaseGas},
		{"PR liquid", pr, 350, 5e6, []float64{0.4, 0.6}, PhaseLiquid},
		{"SRK shifted", srk, 280, 5e6, []float64{0.5, 0.5}, PhaseLiquid},
		{"Twu", twu, 420, 3e5, []float64{1}, PhaseGas},
		{"VdW", vdw, 420, 3e5, []float64{1}, PhaseGas},
		{"SAFT gas", saft, 300, 1e6, []float64{0.7, 0.3}, PhaseGas},
		{"SAFT liquid", saft, 200, 5e6, []float64{0.1, 0.9}, PhaseLiquid},
		{"MP gas", mp, 300, 1e6, []float64{1}, PhaseGas},
		{"MP liquid", mp, 120, 5e6, []float64{1}, PhaseLiquid},
	}
}

func TestPressureRoundTrip(Te *testing.T) {
	for _, c := range roundTrips(Te) {
		vr, err := c.S.VfromTP(c.T, c.P, c.x, c.hint)
		require.NoError(Te, err, c.name)
		v, ph := vr.Pick(c.hint)
		assert.Equal(Te, c.hint, ph, c.name)
		props, err := c.S.ThermoEOS(c.T, v, c.x)
		require.NoError(Te, err, c.name)
		assert.InDelta(Te, 1, props.P/c.P, 1e-6, c.name)
		assert.Less(Te, props.DPDV, 0.0, c.name)
	}
}

//TestConsistency checks the derivatives against finite differences, and the
//exact relations between the mixture properties.
func TestConsistency(Te *testing.T) {
	for _, c := range roundTrips(Te) {
		name := fmt.Sprintf("%s T=%g P=%g", c.name, c.T, c.P)
		p, err := c.S.ThermoTP(c.T, c.P, c.x, c.hint)
		require.NoError(Te, err, name)
		h := 1e-4 * c.T
		pp, err := c.S.Pressure(c.T+h, p.V, c.x)
		require.NoError(Te, err, name)
		pm, err := c.S.Pressure(c.T-h, p.V, c.x)
		require.NoError(Te, err, name)
		assert.InDelta(Te, 1, ((pp-pm)/(2*h))/p.DPDT, 1e-6, name)
		hv := 1e-5 * p.V
		pp, _ = c.S.Pressure(c.T, p.V+hv, c.x)
		pm, _ = c.S.Pressure(c.T, p.V-hv, c.x)
		assert.InDelta(Te, 1, ((pp-pm)/(2*hv))/p.DPDV, 1e-5, name)
		//Gres/RT = sum x ln phi, and V = sum x v_i
		sum, sumv := 0.0, 0.0
		for i, x := range p.X {
			sum += x * p.LnPhi[i]
			sumv += x * p.PartialV[i]
		}
		assert.InDelta(Te, p.Gres/(R*c.T), sum, 1e-9, name)
		assert.InDelta(Te, 1, sumv/p.V, 1e-9, name)
		assert.InDelta(Te, p.Hres-c.T*p.Sres, p.Gres, 1e-8*math.Abs(p.Hres)+1e-8, name)
	}
}

func TestResidualEnthalpyDerivative(Te *testing.T) {
	//d(G/RT)/dT at constant P is -H/RT^2, checked through the fugacity of a pure gas.
	S := newTestSystem(Te, prSubstance(1, "a", 500, 4e6, 0.2))
	T, P, h := 450.0, 5e5, 1e-3
	p, err := S.ThermoTP(T, P, []float64{1}, PhaseGas)
	require.NoError(Te, err)
	fp, err := S.LnPhi(T+h, P, []float64{1}, PhaseGas)
	require.NoError(Te, err)
	fm, err := S.LnPhi(T-h, P, []float64{1}, PhaseGas)
	require.NoError(Te, err)
	dlnphi := (fp.LnPhi[0] - fm.LnPhi[0]) / (2 * h)
	assert.InDelta(Te, -p.Hres/(R*T*T), dlnphi, 1e-7)
	assert.True(Te, p.HasIdeal)
	assert.InDelta(Te, 40-R, p.Cv0, 1e-12)
	assert.Greater(Te, p.SoundSpeed, 0.0)
}

func TestIdealThermo(Te *testing.T) {
	S := newTestSystem(Te, prSubstance(1, "a", 500, 4e6, 0.2), prSubstance(2, "b", 500, 4e6, 0.2))
	id, err := S.IdealThermo(400, 2e5, []float64{1, 1})
	require.NoError(Te, err)
	assert.InDelta(Te, 40*(400-298.15), id.H0, 1e-9)
	want := 40*math.Log(400/298.15) - R*math.Log(2e5/101325) + R*math.Log(2)
	assert.InDelta(Te, want, id.S0, 1e-9)
	S.subs[1].Cor[PropCpIdealGas] = Correlation{}
	_, err = S.IdealThermo(400, 2e5, []float64{1, 1})
	assert.True(Te, IsKind(err, KindInvalidState))
	//without Cp, ThermoEOS still gives the residual part.
	p, err := S.ThermoTP(400, 2e5, []float64{1, 1}, PhaseGas)
	require.NoError(Te, err)
	assert.False(Te, p.HasIdeal)
}

func TestVolumeStates(Te *testing.T) {
	S := newTestSystem(Te, prSubstance(1, "a", 500, 4e6, 0.2))
	vr, err := S.VfromTP(300, 1e4, []float64{1}, PhaseUnknown)
	require.NoError(Te, err)
	//below the saturation pressure at 300 K there is a metastable liquid root.
	assert.Equal(Te, VolumeBoth, vr.State)
	assert.Equal(Te, PhaseGas, vr.Stable)
	assert.Less(Te, vr.Liquid, vr.Gas)
	vr, err = S.VfromTP(700, 1e7, []float64{1}, PhaseLiquid)
	require.NoError(Te, err)
	assert.Equal(Te, VolumeGas, vr.State)
	v, ph := vr.Pick(PhaseLiquid)
	assert.Equal(Te, vr.Gas, v)
	assert.Equal(Te, PhaseGas, ph)
	_, err = S.VfromTP(300, 1e5, []float64{-1}, PhaseUnknown)
	assert.True(Te, IsKind(err, KindInvalidState))
	_, err = S.VfromTP(300, 1e5, []float64{1, 0}, PhaseUnknown)
	assert.True(Te, IsKind(err, KindIndex))
}

func TestSaturationPressure(Te *testing.T) {
	S := newTestSystem(Te, prSubstance(1, "a", 500, 4e6, 0.2))
	T := 400.0
	P, err := S.SaturationPressure(0, T)
	require.NoError(Te, err)
	l, err := S.LnPhi(T, P, []float64{1}, PhaseLiquid)
	require.NoError(Te, err)
	g, err := S.LnPhi(T, P, []float64{1}, PhaseGas)
	require.NoError(Te, err)
	assert.InDelta(Te, l.LnPhi[0], g.LnPhi[0], 1e-8)
	assert.Less(Te, l.V, g.V)
	P2, err := S.SaturationPressure(0, T)
	require.NoError(Te, err)
	assert.Equal(Te, P, P2)
	_, err = S.SaturationPressure(0, 600)
	assert.True(Te, IsKind(err, KindInvalidState))
}
