/*
 * helmholtz.go, part of gothermo.
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
	"gonum.org/v1/gonum/num/hyperdual"
)

//R is the gas constant, J/(mol K)
const R = 8.31446261815324

//NA is the Avogadro constant, 1/mol
const NA = 6.02214076e23

/**Every EOS in gothermo is written as a function F(T,V,n) = A^r/(RT), the reduced residual
 * Helmholtz energy of n moles at temperature T in the total volume V. F is evaluated over
 * hyperdual numbers, which give exact first and second derivatives with respect
 * to any two of its variables. Every other property comes from those derivatives.**/

type hd = hyperdual.Number

//residualModel is implemented by each EOS family.
type residualModel interface {
	//F returns A^r/(RT) for the amounts n, in T and total volume V.
	F(T, V hd, n []hd) hd
	//volumeRoots returns the physical molar volume roots at T,P, in ascending order, and true, if the model
	//has a closed form for them. Otherwise it returns nil, false and the volumes
	//are found numerically.
	volumeRoots(T, P float64, x []float64) ([]float64, bool)
	//minVolume returns a molar volume under which the model is not defined.
	minVolume(T float64, x []float64) float64
	//liquidStart is an initial guess for a liquid molar volume.
	liquidStart(T float64, x []float64) float64
	//liquidLike tells whether the molar volume v is liquid-like.
	liquidLike(T, v float64, x []float64) bool
}

//hyperdual helpers, to keep the models readable.

func hc(x float64) hd { return hd{Real: x} }

func hadd(a ...hd) hd {
	ret := a[0]
	for _, v := range a[1:] {
		ret = hyperdual.Add(ret, v)
	}
	return ret
}

func hsub(a, b hd) hd           { return hyperdual.Sub(a, b) }
func hmul(a, b hd) hd           { return hyperdual.Mul(a, b) }
func hdiv(a, b hd) hd           { return hyperdual.Mul(a, hyperdual.Inv(b)) }
func hscale(f float64, a hd) hd { return hyperdual.Scale(f, a) }
func hlog(a hd) hd              { return hyperdual.Log(a) }
func hexp(a hd) hd              { return hyperdual.Exp(a) }
func hsqrt(a hd) hd             { return hyperdual.Sqrt(a) }
func hpow(a hd, p float64) hd   { return hyperdual.PowReal(a, p) }
func hinv(a hd) hd              { return hyperdual.Inv(a) }

//hsum returns the sum of the elements of a.
func hsum(a []hd) hd {
	ret := hc(0)
	for _, v := range a {
		ret = hyperdual.Add(ret, v)
	}
	return ret
}

//hconsts returns x as constant hyperdual numbers.
func hconsts(x []float64) []hd {
	ret := make([]hd, len(x))
	for i, v := range x {
		ret[i] = hc(v)
	}
	return ret
}

//derivs contains the derivatives of F needed for the properties.
type derivs struct {
	F, FV, FVV, FT, FTT, FTV float64
	Fn                       []float64 //dF/dn_i
	FnV                      []float64 //d2F/dn_i dV
	FnT                      []float64 //d2F/dn_i dT
}

//evalDerivs evaluates F and its derivatives at T, total volume V and amounts n.
//If comp is false, the composition derivatives are not computed.
func evalDerivs(m residualModel, T, V float64, n []float64, comp bool) derivs {
	var d derivs
	nc := hconsts(n)
	tt := m.F(hd{Real: T, E1mag: 1, E2mag: 1}, hc(V), nc)
	d.F, d.FT, d.FTT = tt.Real, tt.E1mag, tt.E1E2mag
	vv := m.F(hc(T), hd{Real: V, E1mag: 1, E2mag: 1}, nc)
	d.FV, d.FVV = vv.E1mag, vv.E1E2mag
	tv := m.F(hd{Real: T, E1mag: 1}, hd{Real: V, E2mag: 1}, nc)
	d.FTV = tv.E1E2mag
	if !comp {
		return d
	}
	d.Fn = make([]float64, len(n))
	d.FnV = make([]float64, len(n))
	d.FnT = make([]float64, len(n))
	for i := range n {
		nc[i] = hd{Real: n[i], E1mag: 1}
		nv := m.F(hd{Real: T, E2mag: 1}, hc(V), nc)
		d.Fn[i] = nv.E1mag
		d.FnT[i] = nv.E1E2mag
		nv = m.F(hc(T), hd{Real: V, E2mag: 1}, nc)
		d.FnV[i] = nv.E1E2mag
		nc[i] = hc(n[i])
	}
	return d
}

//pressure returns the pressure and its volume derivative at T and molar volume v, for the
//mole fractions x.
func pressure(m residualModel, T, v float64, x []float64) (P, dPdV float64) {
	vv := m.F(hc(T), hd{Real: v, E1mag: 1, E2mag: 1}, hconsts(x))
	P = R*T/v - R*T*vv.E1mag
	dPdV = -R*T/(v*v) - R*T*vv.E1E2mag
	return P, dPdV
}

//idealModel has no residual contribution.
type idealModel struct{}

func (idealModel) F(T, V hd, n []hd) hd { return hc(0) }

func (idealModel) volumeRoots(T, P float64, x []float64) ([]float64, bool) {
	return []float64{R * T / P}, true
}

func (idealModel) minVolume(T float64, x []float64) float64   { return 0 }
func (idealModel) liquidStart(T float64, x []float64) float64 { return 0 }
func (idealModel) liquidLike(T, v float64, x []float64) bool  { return false }

//residual returns the residual model of the system, building it if needed.
func (S *System) residual() (residualModel, error) {
	if S.model != nil {
		return S.model, nil
	}
	if len(S.subs) == 0 {
		return nil, newError(KindInvalidState, "System.residual", "the system has no substances")
	}
	var err error
	switch S.family {
	case FamilyIdeal:
		S.model = idealModel{}
	case FamilyCubic:
		S.model, err = newCubicModel(S)
	case FamilySAFT:
		S.model, err = newSAFTModel(S)
	case FamilyMultiParameter:
		S.model, err = newMPModel(S)
	}
	if err != nil {
		S.model = nil
		return nil, errDecorate(err, "System.residual")
	}
	return S.model, nil
}
