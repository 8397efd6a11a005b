/*
 * correlation.go, part of gothermo.
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

	"gonum.org/v1/gonum/integrate/quad"
)

//NumCoef is the number of coefficient slots in a Correlation.
const NumCoef = 14

//CorrelationForm selects the functional shape of a Correlation.
//The numbers for the DIPPR forms follow the DIPPR equation numbers.
type CorrelationForm int

const (
	FormNone        CorrelationForm = 0
	FormPolynomial  CorrelationForm = 1   //sum c_k T^k
	FormDIPPR101    CorrelationForm = 101 //exp(c0 + c1/T + c2 lnT + c3 T^c4)
	FormDIPPR102    CorrelationForm = 102 //c0 T^c1 / (1 + c2/T + c3/T^2)
	FormDIPPR104    CorrelationForm = 104 //c0 + c1/T + c2/T^3 + c3/T^8 + c4/T^9
	FormDIPPR105    CorrelationForm = 105 //c0 / c1^(1 + (1-T/c2)^c3)
	FormDIPPR106    CorrelationForm = 106 //c0 (1-Tr)^(c1 + c2 Tr + c3 Tr^2 + c4 Tr^3), Tr=T/c5
	FormDIPPR107    CorrelationForm = 107 //Aly-Lee: c0 + c1((c2/T)/sinh(c2/T))^2 + c3((c4/T)/cosh(c4/T))^2
	FormAntoine     CorrelationForm = 200 //exp(c0 - c1/(T+c2))
	FormWagner      CorrelationForm = 201 //c5 exp((c4/T)(c0 t + c1 t^1.5 + c2 t^2.5 + c3 t^5)), t=1-T/c4
	FormExponential CorrelationForm = 300 //c0 exp(c1 T)
)

//Correlation is an empirical fit of one physical property against temperature.
//The correlation does not refuse to evaluate outside [Tmin,Tmax], it's up to the
//caller to check InRange and flag extrapolations.
type Correlation struct {
	Form CorrelationForm
	Coef [NumCoef]float64
	Tmin float64
	Tmax float64
}

//Defined returns false for the "no form" sentinel.
func (C *Correlation) Defined() bool {
	return C.Form != FormNone
}

//InRange returns true if T is within the validity bounds of the correlation.
//If no bounds were given (both zero) it always returns true.
func (C *Correlation) InRange(T float64) bool {
	if C.Tmin == 0 && C.Tmax == 0 {
		return true
	}
	return T >= C.Tmin && T <= C.Tmax
}

//Eval evaluates the correlation at temperature T.
func (C *Correlation) Eval(T float64) (float64, error) {
	c := &C.Coef
	switch C.Form {
	case FormNone:
		return 0, newError(KindInvalidState, "Correlation.Eval", "correlation has no form")
	case FormPolynomial:
		return horner(c[:], T), nil
	case FormDIPPR101:
		return math.Exp(c[0] + c[1]/T + c[2]*math.Log(T) + c[3]*math.Pow(T, c[4])), nil
	case FormDIPPR102:
		return c[0] * math.Pow(T, c[1]) / (1 + c[2]/T + c[3]/(T*T)), nil
	case FormDIPPR104:
		return c[0] + c[1]/T + c[2]/math.Pow(T, 3) + c[3]/math.Pow(T, 8) + c[4]/math.Pow(T, 9), nil
	case FormDIPPR105:
		return c[0] / math.Pow(c[1], 1+math.Pow(1-T/c[2], c[3])), nil
	case FormDIPPR106:
		tr := T / c[5]
		return c[0] * math.Pow(1-tr, c[1]+c[2]*tr+c[3]*tr*tr+c[4]*tr*tr*tr), nil
	case FormDIPPR107:
		u := c[2] / T
		w := c[4] / T
		return c[0] + c[1]*sq(u/math.Sinh(u)) + c[3]*sq(w/math.Cosh(w)), nil
	case FormAntoine:
		return math.Exp(c[0] - c[1]/(T+c[2])), nil
	case FormWagner:
		t := 1 - T/c[4]
		if t < 0 {
			t = 0
		}
		return c[5] * math.Exp((c[4]/T)*(c[0]*t+c[1]*math.Pow(t, 1.5)+c[2]*math.Pow(t, 2.5)+c[3]*math.Pow(t, 5))), nil
	case FormExponential:
		return c[0] * math.Exp(c[1]*T), nil
	}
	return 0, newError(KindInvalidState, "Correlation.Eval", "unknown correlation form %d", C.Form)
}

//quadPoints is the number of Gauss-Legendre points used to integrate
//forms without a closed form integral.
const quadPoints = 24

//Integral returns the integral of the correlation between T1 and T2.
func (C *Correlation) Integral(T1, T2 float64) (float64, error) {
	c := &C.Coef
	switch C.Form {
	case FormNone:
		return 0, newError(KindInvalidState, "Correlation.Integral", "correlation has no form")
	case FormPolynomial:
		return polyIntegral(c[:], T2) - polyIntegral(c[:], T1), nil
	case FormDIPPR107:
		prim := func(T float64) float64 {
			ret := c[0] * T
			if c[2] != 0 {
				ret += c[1] * c[2] / math.Tanh(c[2]/T)
			}
			if c[4] != 0 {
				ret -= c[3] * c[4] * math.Tanh(c[4]/T)
			}
			return ret
		}
		return prim(T2) - prim(T1), nil
	}
	return C.numIntegral(T1, T2, func(T, v float64) float64 { return v })
}

//IntegralOverT returns the integral of the correlation divided by T, between
//T1 and T2. This is what the entropy needs from a heat capacity.
func (C *Correlation) IntegralOverT(T1, T2 float64) (float64, error) {
	c := &C.Coef
	switch C.Form {
	case FormNone:
		return 0, newError(KindInvalidState, "Correlation.IntegralOverT", "correlation has no form")
	case FormPolynomial:
		prim := func(T float64) float64 {
			ret := c[0] * math.Log(T)
			tk := 1.0
			for k := 1; k < NumCoef; k++ {
				tk *= T
				ret += c[k] * tk / float64(k)
			}
			return ret
		}
		return prim(T2) - prim(T1), nil
	case FormDIPPR107:
		prim := func(T float64) float64 {
			ret := c[0] * math.Log(T)
			if c[2] != 0 {
				u := c[2] / T
				ret += c[1] * (u/math.Tanh(u) - math.Log(math.Sinh(u)))
			}
			if c[4] != 0 {
				w := c[4] / T
				ret -= c[3] * (w*math.Tanh(w) - math.Log(math.Cosh(w)))
			}
			return ret
		}
		return prim(T2) - prim(T1), nil
	}
	return C.numIntegral(T1, T2, func(T, v float64) float64 { return v / T })
}

func (C *Correlation) numIntegral(T1, T2 float64, g func(T, v float64) float64) (float64, error) {
	if T1 == T2 {
		return 0, nil
	}
	var ferr error
	f := func(T float64) float64 {
		v, err := C.Eval(T)
		if err != nil {
			ferr = err
			return 0
		}
		return g(T, v)
	}
	lo, hi, sign := T1, T2, 1.0
	if T2 < T1 {
		lo, hi, sign = T2, T1, -1
	}
	ret := quad.Fixed(f, lo, hi, quadPoints, quad.Legendre{}, 0)
	if ferr != nil {
		return 0, errDecorate(ferr, "Correlation.numIntegral")
	}
	return sign * ret, nil
}

func horner(c []float64, x float64) float64 {
	ret := 0.0
	for k := len(c) - 1; k >= 0; k-- {
		ret = ret*x + c[k]
	}
	return ret
}

//antiderivative of the polynomial with coefficients c.
func polyIntegral(c []float64, x float64) float64 {
	ret := 0.0
	for k := len(c) - 1; k >= 0; k-- {
		ret = (ret + c[k]/float64(k+1)) * x
	}
	return ret
}

func sq(x float64) float64 { return x * x }
