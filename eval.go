/*
 * eval.go, part of gothermo.
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

	"gonum.org/v1/gonum/floats"
)

//normalize returns a normalized copy of the composition c, which must have one
//non-negative element per substance.
func (S *System) normalize(c []float64) ([]float64, error) {
	if len(S.subs) == 0 {
		return nil, newError(KindInvalidState, "System.normalize", "the system has no substances")
	}
	if len(c) != len(S.subs) {
		return nil, newError(KindIndex, "System.normalize", "composition has %d elements for %d substances", len(c), len(S.subs))
	}
	for i, v := range c {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, newError(KindInvalidState, "System.normalize", "invalid amount %g for substance %d", v, i)
		}
	}
	sum := floats.Sum(c)
	if sum <= 0 {
		return nil, newError(KindInvalidState, "System.normalize", "the composition adds up to %g", sum)
	}
	ret := make([]float64, len(c))
	copy(ret, c)
	floats.Scale(1/sum, ret)
	return ret, nil
}

func checkTP(caller string, T, P float64) error {
	if !(T > 0) || !(P > 0) || math.IsInf(T, 0) || math.IsInf(P, 0) {
		return newError(KindInvalidState, caller, "invalid conditions T=%g P=%g", T, P)
	}
	return nil
}

//IdealThermo returns the ideal gas enthalpy, entropy and heat capacities of the mixture c at T and P,
//with respect to the reference state of the system. Every substance present needs an ideal gas Cp correlation.
func (S *System) IdealThermo(T, P float64, c []float64) (*IdealProps, error) {
	if err := checkTP("System.IdealThermo", T, P); err != nil {
		return nil, err
	}
	x, err := S.normalize(c)
	if err != nil {
		return nil, errDecorate(err, "System.IdealThermo")
	}
	ret := new(IdealProps)
	for i, s := range S.subs {
		if x[i] == 0 {
			continue
		}
		cor := s.Correlation(PropCpIdealGas)
		if !cor.Defined() {
			return nil, newError(KindInvalidState, "System.IdealThermo", "substance %d (%s) has no ideal gas Cp correlation", s.ID, s.Name)
		}
		cp, err := cor.Eval(T)
		if err != nil {
			return nil, errDecorate(err, "System.IdealThermo")
		}
		h, err := cor.Integral(S.refT, T)
		if err != nil {
			return nil, errDecorate(err, "System.IdealThermo")
		}
		st, err := cor.IntegralOverT(S.refT, T)
		if err != nil {
			return nil, errDecorate(err, "System.IdealThermo")
		}
		ret.Cp0 += x[i] * cp
		ret.H0 += x[i] * h
		ret.S0 += x[i] * (st - R*math.Log(x[i]))
	}
	ret.S0 -= R * math.Log(P/S.refP)
	ret.Cv0 = ret.Cp0 - R
	return ret, nil
}

//hasIdeal returns true if every substance present in x has an ideal gas Cp correlation.
func (S *System) hasIdeal(x []float64) bool {
	for i, s := range S.subs {
		if x[i] > 0 && !s.HasCorrelation(PropCpIdealGas) {
			return false
		}
	}
	return true
}

//ThermoEOS returns the properties of the mixture c at temperature T and molar volume V.
//The ideal gas contributions, and the totals, are included when every substance has an ideal
//gas Cp correlation. The Phase field is left as PhaseUnknown.
func (S *System) ThermoEOS(T, V float64, c []float64) (*ThermoProps, error) {
	if !(T > 0) || !(V > 0) {
		return nil, newError(KindInvalidState, "System.ThermoEOS", "invalid conditions T=%g V=%g", T, V)
	}
	x, err := S.normalize(c)
	if err != nil {
		return nil, errDecorate(err, "System.ThermoEOS")
	}
	m, err := S.residual()
	if err != nil {
		return nil, errDecorate(err, "System.ThermoEOS")
	}
	if V <= m.minVolume(T, x) {
		return nil, newError(KindInvalidState, "System.ThermoEOS", "molar volume %g below the limit of the EOS, %g", V, m.minVolume(T, x))
	}
	d := evalDerivs(m, T, V, x, true)
	p := new(ThermoProps)
	p.T, p.V = T, V
	p.X = x
	RT := R * T
	p.P = RT/V - RT*d.FV
	if !(p.P > 0) {
		//a negative pressure is a valid EOS state, but most properties below
		//need ln Z.
		return nil, newError(KindInvalidState, "System.ThermoEOS", "non-positive pressure %g at T=%g V=%g", p.P, T, V)
	}
	p.Z = p.P * V / RT
	p.DPDV = -RT/(V*V) - RT*d.FVV
	p.DPDT = R/V - R*d.FV - RT*d.FTV
	p.Ures = -RT * T * d.FT
	p.Hres = p.Ures + p.P*V - RT
	p.Ares = RT*d.F - RT*math.Log(p.Z)
	p.Gres = RT*d.F + p.P*V - RT - RT*math.Log(p.Z)
	p.Sres = (p.Hres - p.Gres) / T
	p.Cvres = -R * (2*T*d.FT + T*T*d.FTT)
	p.Cpres = p.Cvres - T*p.DPDT*p.DPDT/p.DPDV - R
	p.LnPhi = make([]float64, len(x))
	p.Phi = make([]float64, len(x))
	p.PartialV = make([]float64, len(x))
	for i := range x {
		p.LnPhi[i] = d.Fn[i] - math.Log(p.Z)
		p.Phi[i] = math.Exp(p.LnPhi[i])
		dPdn := RT/V - RT*d.FnV[i]
		p.PartialV[i] = -dPdn / p.DPDV
		p.MW += x[i] * S.subs[i].MW
	}
	p.KappaT = -1 / (V * p.DPDV)
	if S.hasIdeal(x) {
		id, err := S.IdealThermo(T, p.P, x)
		if err != nil {
			return nil, errDecorate(err, "System.ThermoEOS")
		}
		p.HasIdeal = true
		p.IdealProps = *id
		p.H = id.H0 + p.Hres
		p.S = id.S0 + p.Sres
		p.G = p.H - T*p.S
		p.U = p.H - p.P*V
		p.A = p.U - T*p.S
		p.Cv = id.Cv0 + p.Cvres
		p.Cp = id.Cp0 + p.Cpres
		dVdT := -p.DPDT / p.DPDV
		p.JT = (T*dVdT - V) / p.Cp
		if p.MW > 0 {
			w2 := -V * V / (p.MW / 1000) * p.Cp / p.Cv * p.DPDV
			if w2 > 0 {
				p.SoundSpeed = math.Sqrt(w2)
			}
		}
	}
	return p, nil
}

//Pressure returns the pressure of the mixture c at T and molar volume V.
func (S *System) Pressure(T, V float64, c []float64) (float64, error) {
	x, err := S.normalize(c)
	if err != nil {
		return 0, errDecorate(err, "System.Pressure")
	}
	m, err := S.residual()
	if err != nil {
		return 0, errDecorate(err, "System.Pressure")
	}
	if !(T > 0) || V <= m.minVolume(T, x) {
		return 0, newError(KindInvalidState, "System.Pressure", "invalid conditions T=%g V=%g", T, V)
	}
	P, _ := pressure(m, T, V, x)
	return P, nil
}

//ThermoTP returns the properties of the mixture c at T and P, in the phase given by hint.
//If that phase has no volume root the other one is used, and the Phase field of the result
//tells which one it is. PhaseUnknown selects the stable root.
func (S *System) ThermoTP(T, P float64, c []float64, hint Phase) (*ThermoProps, error) {
	vr, err := S.VfromTP(T, P, c, hint)
	if err != nil {
		return nil, errDecorate(err, "System.ThermoTP")
	}
	v, ph := vr.Pick(hint)
	p, err := S.ThermoEOS(T, v, c)
	if err != nil {
		return nil, errDecorate(err, "System.ThermoTP")
	}
	p.Phase = ph
	return p, nil
}
