/*
 * eosparams.go, part of gothermo.
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

//EOSFamily tags the equation-of-state family of a parameter block.
type EOSFamily int

const (
	FamilyIdeal EOSFamily = iota
	FamilyCubic
	FamilySAFT
	FamilyMultiParameter
)

func (f EOSFamily) String() string {
	switch f {
	case FamilyCubic:
		return "cubic"
	case FamilySAFT:
		return "saft"
	case FamilyMultiParameter:
		return "multiparameter"
	}
	return "ideal"
}

//EOSParams is the parameter block of one equation of state family. The interface is
//sealed, the only implementations are IdealGas, *Cubic, *SAFT and *MultiParameter,
//so a substance can never carry two families at once.
type EOSParams interface {
	Family() EOSFamily
	copyParams() EOSParams
}

//IdealGas is the parameter block for substances without an EOS.
type IdealGas struct{}

func (IdealGas) Family() EOSFamily       { return FamilyIdeal }
func (I IdealGas) copyParams() EOSParams { return I }

//CubicKind selects the cubic equation.
type CubicKind int

const (
	PR76 CubicKind = iota //Peng-Robinson, 1976
	PR78                  //Peng-Robinson with the 1978 m(w) for heavy components
	SRK                   //Soave-Redlich-Kwong
	VdW                   //van der Waals
)

func (k CubicKind) String() string {
	return [...]string{"PR76", "PR78", "SRK", "VdW"}[k]
}

//AlphaKind selects the temperature function of the attractive parameter.
type AlphaKind int

const (
	AlphaSoave          AlphaKind = iota //m(w) from the cubic kind
	AlphaTwu                             //AlphaCoef = L, M, N
	AlphaMathiasCopeman                  //AlphaCoef = c1, c2, c3
)

//Cubic contains the parameters of a two-parameter cubic EOS.
type Cubic struct {
	Kind      CubicKind
	Tc        float64 //K
	Pc        float64 //Pa
	Omega     float64
	Alpha     AlphaKind
	AlphaCoef [3]float64
	Shift     float64 //Peneloux volume translation, m3/mol
}

func (*Cubic) Family() EOSFamily { return FamilyCubic }
func (C *Cubic) copyParams() EOSParams {
	r := *C
	return &r
}

//SAFT contains the PC-SAFT parameters of a non-associating substance.
type SAFT struct {
	M       float64 //segment number
	Sigma   float64 //segment diameter, Angstrom
	Epsilon float64 //dispersion energy over k, K
}

func (*SAFT) Family() EOSFamily { return FamilySAFT }
func (S *SAFT) copyParams() EOSParams {
	r := *S
	return &r
}

//MPTerm is one term n*delta^d*tau^t*exp(-delta^l) of a multiparameter
//reduced residual Helmholtz energy. l=0 means a polynomial term.
type MPTerm struct {
	N, D, T, L float64
}

//MultiParameter contains a multiparameter EOS in reduced Helmholtz energy form.
type MultiParameter struct {
	Tc    float64 //reducing temperature, K
	Rhoc  float64 //reducing density, mol/m3
	Terms []MPTerm
}

func (*MultiParameter) Family() EOSFamily { return FamilyMultiParameter }
func (M *MultiParameter) copyParams() EOSParams {
	r := *M
	r.Terms = append([]MPTerm(nil), M.Terms...)
	return &r
}

//exponents (d, t, l) of the Span-Wagner equations
var swNonPolar = [12][3]float64{
	{1, 0.25, 0}, {1, 1.125, 0}, {1, 1.5, 0}, {2, 1.375, 0}, {3, 0.25, 0}, {7, 0.875, 0},
	{2, 0.625, 1}, {5, 1.75, 1}, {1, 3.625, 2}, {4, 3.625, 2}, {3, 14.5, 3}, {4, 12.0, 3},
}

var swPolar = [12][3]float64{
	{1, 0.25, 0}, {1, 1.25, 0}, {1, 1.5, 0}, {3, 0.25, 0}, {7, 0.875, 0}, {1, 2.375, 1},
	{2, 2.0, 1}, {5, 2.125, 1}, {1, 3.5, 2}, {1, 6.5, 2}, {4, 4.75, 2}, {2, 12.5, 3},
}

func spanWagner(tc, rhoc float64, n [12]float64, exps *[12][3]float64) *MultiParameter {
	ret := &MultiParameter{Tc: tc, Rhoc: rhoc, Terms: make([]MPTerm, 12)}
	for i, e := range exps {
		ret.Terms[i] = MPTerm{N: n[i], D: e[0], T: e[1], L: e[2]}
	}
	return ret
}

//SpanWagnerNonPolar returns the 12-term Span-Wagner equation for non-polar
//fluids with the coefficients n.
func SpanWagnerNonPolar(tc, rhoc float64, n [12]float64) *MultiParameter {
	return spanWagner(tc, rhoc, n, &swNonPolar)
}

//SpanWagnerPolar returns the 12-term Span-Wagner equation for polar fluids.
func SpanWagnerPolar(tc, rhoc float64, n [12]float64) *MultiParameter {
	return spanWagner(tc, rhoc, n, &swPolar)
}
