/*
 * fugacity.go, part of gothermo.
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

	"github.com/patrickmn/go-cache"
	"github.com/rmera/gothermo/solver"
	"go.uber.org/zap"
)

//LnPhi returns the logarithms of the fugacity coefficients of the mixture x at T and P, in
//the phase given by hint, together with the molar volume and the phase actually used.
//If an activity model is set (and it is not part of the Huron-Vidal rule) liquid phases are
//computed with PhiFromActivity, with the vapor-pressure standard state.
//This is the primitive used by the equilibrium solvers.
func (S *System) LnPhi(T, P float64, x []float64, hint Phase) (*Fugacity, error) {
	if S.actModel != ActNone && S.mixRule != MixHuronVidal && hint.IsLiquid() {
		f, err := S.gammaPhi(T, P, x, hint)
		return f, errDecorate(err, "System.LnPhi")
	}
	f, err := S.eosLnPhi(T, P, x, hint)
	return f, errDecorate(err, "System.LnPhi")
}

func (S *System) eosLnPhi(T, P float64, c []float64, hint Phase) (*Fugacity, error) {
	vr, err := S.VfromTP(T, P, c, hint)
	if err != nil {
		return nil, errDecorate(err, "System.eosLnPhi")
	}
	x, _ := S.normalize(c) //VfromTP already checked it
	m, _ := S.residual()
	v, ph := vr.Pick(hint)
	d := evalDerivs(m, T, v, x, true)
	lnZ := math.Log(P * v / (R * T))
	ret := &Fugacity{LnPhi: make([]float64, len(x)), V: v, Phase: ph}
	for i := range x {
		ret.LnPhi[i] = d.Fn[i] - lnZ
	}
	if hint == PhaseLiquid2 && ph == PhaseLiquid {
		ret.Phase = PhaseLiquid2
	}
	return ret, nil
}

//gammaPhi computes a liquid phase with the activity model.
func (S *System) gammaPhi(T, P float64, c []float64, hint Phase) (*Fugacity, error) {
	phi, err := S.PhiFromActivity(T, P, c, true)
	if err != nil {
		return nil, errDecorate(err, "System.gammaPhi")
	}
	x, _ := S.normalize(c)
	ret := &Fugacity{LnPhi: make([]float64, len(phi)), Phase: hint}
	for i, v := range phi {
		ret.LnPhi[i] = math.Log(v)
		vl := S.subs[i].liquidVolume(T)
		if vl <= 0 {
			ret.V = 0
			break
		}
		ret.V += x[i] * vl
	}
	if ret.V == 0 && S.family != FamilyIdeal {
		vr, err := S.VfromTP(T, P, x, PhaseLiquid)
		if err != nil {
			return nil, errDecorate(err, "System.gammaPhi")
		}
		ret.V, _ = vr.Pick(PhaseLiquid)
	}
	return ret, nil
}

//unit returns the composition of pure i.
func (S *System) unit(i int) []float64 {
	x := make([]float64, len(S.subs))
	x[i] = 1
	return x
}

//pureLnPhi returns ln phi and the molar volume of pure substance i at T and P with the EOS.
func (S *System) pureLnPhi(i int, T, P float64, hint Phase) (float64, float64, error) {
	f, err := S.eosLnPhi(T, P, S.unit(i), hint)
	if err != nil {
		return 0, 0, errDecorate(err, "System.pureLnPhi")
	}
	return f.LnPhi[i], f.V, nil
}

//VaporPressure evaluates the vapor pressure correlation of substance pos. The second value is
//false if T is outside the range of the correlation.
func (S *System) VaporPressure(pos int, T float64) (float64, bool, error) {
	if err := S.checkPos(pos); err != nil {
		return 0, false, errDecorate(err, "System.VaporPressure")
	}
	s := S.subs[pos]
	if !s.HasCorrelation(PropVaporPressure) {
		return 0, false, newError(KindInvalidState, "System.VaporPressure", "substance %d has no vapor pressure correlation", s.ID)
	}
	p, in, err := s.Eval(PropVaporPressure, T)
	return p, in, errDecorate(err, "System.VaporPressure")
}

//SaturationPressure returns the vapor pressure of substance pos at T from the EOS,
//by equating the fugacities of the liquid and gas roots. Results are cached until
//the system is modified.
func (S *System) SaturationPressure(pos int, T float64) (float64, error) {
	if err := S.checkPos(pos); err != nil {
		return 0, errDecorate(err, "System.SaturationPressure")
	}
	s := S.subs[pos]
	key := fmt.Sprintf("%d:%d:%g", pos, s.ID, T)
	if v, ok := S.psat.Get(key); ok {
		return v.(float64), nil
	}
	if S.family == FamilyIdeal {
		return 0, newError(KindInvalidState, "System.SaturationPressure", "an ideal gas has no saturation pressure")
	}
	Tc, Pc, w := s.critical()
	if Tc > 0 && T >= Tc {
		return 0, newError(KindInvalidState, "System.SaturationPressure", "T=%g is not below the critical temperature %g", T, Tc)
	}
	var P0 float64
	if s.HasCorrelation(PropVaporPressure) {
		P0, _, _ = s.Eval(PropVaporPressure, T)
	}
	if !(P0 > 0) && Tc > 0 && Pc > 0 {
		P0 = Pc * math.Exp(5.373*(1+w)*(1-Tc/T))
	}
	if !(P0 > 0) {
		return 0, newError(KindInvalidState, "System.SaturationPressure", "no initial guess for substance %d", s.ID)
	}
	x := S.unit(pos)
	//successive substitution on ln P: ln P' = ln P + ln phiL - ln phiG
	update := func(st solver.State) (solver.State, error) {
		P := math.Exp(st.X)
		vr, err := S.VfromTP(T, P, x, PhaseUnknown)
		if err != nil {
			return st, err
		}
		switch vr.State {
		case VolumeLiquid:
			return solver.State{X: st.X - 0.1, Residual: math.Inf(1), Step: -0.1}, nil
		case VolumeGas:
			return solver.State{X: st.X + 0.1, Residual: math.Inf(1), Step: 0.1}, nil
		}
		l, err := S.eosLnPhi(T, P, x, PhaseLiquid)
		if err != nil {
			return st, err
		}
		g, err := S.eosLnPhi(T, P, x, PhaseGas)
		if err != nil {
			return st, err
		}
		r := l.LnPhi[pos] - g.LnPhi[pos]
		if math.Abs(l.V-g.V) <= 1e-8*g.V {
			return st, newError(KindInvalidState, "System.SaturationPressure", "trivial solution at T=%g P=%g", T, P)
		}
		return solver.State{X: st.X + r, Residual: r, Step: r}, nil
	}
	o := solver.DefaultOptions()
	o.Name = "SaturationPressure"
	o.MaxIter = 300
	o.Logger = S.log
	st, err := solver.Run(solver.State{X: math.Log(P0)}, update, o)
	if err != nil {
		return math.Exp(st.X), errDecorate(err, "System.SaturationPressure")
	}
	P := math.Exp(st.X)
	S.psat.Set(key, P, cache.NoExpiration)
	S.log.Debug("saturation pressure", zap.Int("id", s.ID), zap.Float64("T", T), zap.Float64("P", P), zap.Int("iter", st.Iter))
	return P, nil
}
