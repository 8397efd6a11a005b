/*
 * activity.go, part of gothermo.
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

	"go.uber.org/zap"
)

//activityModel returns GE = n gE/(RT) for the amounts n. Activity coefficients
//are its derivatives with respect to n.
type activityModel interface {
	GE(T hd, n []hd) hd
}

type idealSolution struct{}

func (idealSolution) GE(T hd, n []hd) hd { return hc(0) }

type nrtl struct {
	p *ParamMatrix
}

func (m nrtl) tau(i, j int, T hd) hd {
	t := hc(m.p.Slot(i, j, 0))
	if s := m.p.Slot(i, j, 1); s != 0 {
		t = hadd(t, hscale(s, hinv(T)))
	}
	if s := m.p.Slot(i, j, 2); s != 0 {
		t = hadd(t, hscale(s, hlog(T)))
	}
	if s := m.p.Slot(i, j, 3); s != 0 {
		t = hadd(t, hscale(s, T))
	}
	return t
}

//alpha is taken from (i,j), then from (j,i), and defaults to 0.3.
func (m nrtl) alpha(i, j int) float64 {
	if a := m.p.Slot(i, j, 4); a != 0 {
		return a
	}
	if a := m.p.Slot(j, i, 4); a != 0 {
		return a
	}
	return 0.3
}

//GE is sum_i n_i (sum_j tau_ji G_ji n_j)/(sum_k G_ki n_k)
func (m nrtl) GE(T hd, n []hd) hd {
	ret := hc(0)
	for i := range n {
		num, den := hc(0), hc(0)
		for j := range n {
			tji := m.tau(j, i, T)
			gji := hexp(hscale(-m.alpha(j, i), tji))
			num = hadd(num, hmul(hmul(tji, gji), n[j]))
			den = hadd(den, hmul(gji, n[j]))
		}
		ret = hadd(ret, hmul(n[i], hdiv(num, den)))
	}
	return ret
}

type wilson struct {
	p *ParamMatrix
	v []float64 //liquid molar volumes
}

func (m wilson) lambda(i, j int, T hd) hd {
	if i == j {
		return hc(1)
	}
	e := hadd(hc(m.p.Slot(i, j, 0)), hscale(m.p.Slot(i, j, 1), hinv(T)))
	return hscale(m.v[j]/m.v[i], hexp(hscale(-1, e)))
}

//GE is -sum_i n_i ln(sum_j x_j Lambda_ij)
func (m wilson) GE(T hd, n []hd) hd {
	N := hsum(n)
	ret := hc(0)
	for i := range n {
		s := hc(0)
		for j := range n {
			s = hadd(s, hmul(m.lambda(i, j, T), n[j]))
		}
		ret = hsub(ret, hmul(n[i], hlog(hdiv(s, N))))
	}
	return ret
}

//liquidVolume returns a liquid molar volume for the substance at T, from the liquid density
//correlation if there is one, or from VLiq. It returns 0 if neither is available.
func (S *Substance) liquidVolume(T float64) float64 {
	if S.HasCorrelation(PropLiquidDensity) {
		rho, _, err := S.Eval(PropLiquidDensity, T)
		if err == nil && rho > 0 {
			return 1 / rho
		}
	}
	return S.VLiq
}

//activity returns the activity model in use.
func (S *System) activity() (activityModel, error) {
	switch S.actModel {
	case ActNRTL:
		return nrtl{p: S.act}, nil
	case ActWilson:
		v := make([]float64, len(S.subs))
		for i, s := range S.subs {
			v[i] = s.liquidVolume(defaultRefT)
			if v[i] <= 0 {
				return nil, newError(KindInvalidState, "System.activity", "the Wilson model needs a liquid volume for substance %d", s.ID)
			}
		}
		return wilson{p: S.act, v: v}, nil
	}
	return idealSolution{}, nil
}

//Activity returns the activity coefficients of the mixture with mole fractions x at T, and
//its excess Gibbs energy in J/mol. With no activity model, the ideal solution is returned.
func (S *System) Activity(T float64, x []float64) ([]float64, float64, error) {
	x, err := S.normalize(x)
	if err != nil {
		return nil, 0, errDecorate(err, "System.Activity")
	}
	m, err := S.activity()
	if err != nil {
		return nil, 0, errDecorate(err, "System.Activity")
	}
	lng, ge := lnGamma(m, T, x)
	gamma := make([]float64, len(lng))
	for i, v := range lng {
		gamma[i] = math.Exp(v)
	}
	return gamma, ge * R * T, nil
}

//lnGamma returns ln gamma and gE/RT.
func lnGamma(m activityModel, T float64, x []float64) ([]float64, float64) {
	n := hconsts(x)
	ret := make([]float64, len(x))
	ge := m.GE(hc(T), n).Real
	for i := range x {
		n[i] = hd{Real: x[i], E1mag: 1}
		ret[i] = m.GE(hc(T), n).E1mag
		n[i] = hc(x[i])
	}
	return ret, ge
}

//vpNear is how far above the system pressure the vapor pressure of a component can be
//for the vapor pressure standard state to be used.
const vpNear = 1.5

//PhiFromActivity returns the fugacity coefficients of the liquid mixture x at T and P as
//phi_i = gamma_i f0_i/P. If useVp is true, for subcritical components with a vapor pressure correlation,
//and a vapor pressure not above vpNear*P, the standard fugacity is Psat*phiSat*Poynting.
//Otherwise, the pure-liquid fugacity from the EOS is used.
func (S *System) PhiFromActivity(T, P float64, x []float64, useVp bool) ([]float64, error) {
	gamma, _, err := S.Activity(T, x)
	if err != nil {
		return nil, errDecorate(err, "System.PhiFromActivity")
	}
	phi := make([]float64, len(gamma))
	for i := range gamma {
		f0, err := S.standardFugacity(i, T, P, useVp)
		if err != nil {
			return nil, errDecorate(err, "System.PhiFromActivity")
		}
		phi[i] = gamma[i] * f0 / P
	}
	return phi, nil
}

//standardFugacity returns the pure liquid fugacity of substance i at T and P.
func (S *System) standardFugacity(i int, T, P float64, useVp bool) (float64, error) {
	s := S.subs[i]
	Tc, _, _ := s.critical()
	hasVp := s.HasCorrelation(PropVaporPressure)
	ideal := S.family == FamilyIdeal
	if (useVp && hasVp && (Tc == 0 || T < Tc)) || (ideal && hasVp) {
		psat, in, err := s.Eval(PropVaporPressure, T)
		if err != nil {
			return 0, errDecorate(err, "System.standardFugacity")
		}
		if !in {
			S.log.Debug("vapor pressure extrapolated", zap.Int("id", s.ID), zap.Float64("T", T))
		}
		if ideal || psat <= vpNear*P {
			phisat := 1.0
			vl := s.liquidVolume(T)
			if !ideal {
				lnphi, _, err := S.pureLnPhi(i, T, psat, PhaseGas)
				if err != nil {
					return 0, errDecorate(err, "System.standardFugacity")
				}
				phisat = math.Exp(lnphi)
				if vl <= 0 {
					_, vl, err = S.pureLnPhi(i, T, P, PhaseLiquid)
					if err != nil {
						return 0, errDecorate(err, "System.standardFugacity")
					}
				}
			}
			return psat * phisat * math.Exp(vl*(P-psat)/(R*T)), nil
		}
		S.log.Debug("vapor pressure well above the system pressure, using the EOS", zap.Int("id", s.ID),
			zap.Float64("Psat", psat), zap.Float64("P", P))
	}
	if ideal {
		return 0, newError(KindInvalidState, "System.standardFugacity", "substance %d has no vapor pressure correlation and no EOS", s.ID)
	}
	lnphi, _, err := S.pureLnPhi(i, T, P, PhaseLiquid)
	if err != nil {
		return 0, errDecorate(err, "System.standardFugacity")
	}
	return P * math.Exp(lnphi), nil
}
