/*
 * stability.go, part of gothermo.
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

	thermo "github.com/rmera/gothermo"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

//StabilityResult is the result of a tangent plane distance analysis.
type StabilityResult struct {
	Stable bool
	//TPD is the lowest modified tangent plane distance found. Trial phases that
	//converge to the feed count as 0.
	TPD        float64
	Trial      []float64 //normalized composition of the trial with the lowest TPD
	TrialPhase thermo.Phase
	FeedPhase  thermo.Phase
}

//lnTiny replaces ln(0) for absent components.
const lnTiny = -690.0

type tpd struct {
	m    Model
	T, P float64
	z    []float64
	d    []float64 //ln z_i + ln phi_i(z)
	vz   float64
	s    *Settings
}

//eval returns the modified TPD of the trial amounts W and its gradient
//g_i = ln W_i + ln phi_i(w) - d_i.
func (t *tpd) eval(W []float64, hint thermo.Phase) (float64, []float64, *thermo.Fugacity, error) {
	f, err := t.m.LnPhi(t.T, t.P, normalize(W), hint)
	if err != nil {
		return 0, nil, nil, err
	}
	g := make([]float64, len(W))
	tm := 1.0
	for i, w := range W {
		lw := lnTiny
		if w > 0 {
			lw = math.Log(w)
		}
		g[i] = lw + f.LnPhi[i] - t.d[i]
		tm += w * (g[i] - 1)
	}
	return tm, g, f, nil
}

func (t *tpd) isTrivial(W []float64, v float64) bool {
	w := normalize(W)
	return floats.Distance(w, t.z, 1) < 1e-4 && math.Abs(v-t.vz) < 1e-4*t.vz
}

//trial minimizes the TPD from the initial amounts W0. It returns the TPD
//and the final amounts. Trivial solutions return a TPD of 0 and nil amounts.
func (t *tpd) trial(W0 []float64, hint thermo.Phase) (float64, []float64, thermo.Phase, error) {
	W := append([]float64(nil), W0...)
	var tm float64
	var f *thermo.Fugacity
	converged := false
	for it := 0; it < t.s.StabMaxIter; it++ {
		var g []float64
		var err error
		tm, g, f, err = t.eval(W, hint)
		if err != nil {
			return 0, nil, hint, thermo.Decorate(err, "Stability")
		}
		if t.isTrivial(W, f.V) {
			return 0, nil, f.Phase, nil
		}
		maxg := 0.0
		for i := range W {
			if t.z[i] == 0 {
				continue
			}
			maxg = math.Max(maxg, math.Abs(g[i]))
			//ln W_new = d_i - ln phi_i(w)
			W[i] *= math.Exp(-g[i])
		}
		if maxg < 1e-10 {
			converged = true
			break
		}
	}
	if !converged {
		ptm, pW, err := t.polish(W, hint)
		if err == nil && ptm < tm {
			tm, W = ptm, pW
			if _, _, f2, err := t.eval(W, hint); err == nil {
				f = f2
				if t.isTrivial(W, f.V) {
					return 0, nil, f.Phase, nil
				}
			}
		}
	}
	return tm, W, f.Phase, nil
}

//polish minimizes the TPD with BFGS in the variables alpha_i = 2 sqrt(W_i).
func (t *tpd) polish(W []float64, hint thermo.Phase) (float64, []float64, error) {
	var ferr error
	fromAlpha := func(a []float64) []float64 {
		w := make([]float64, len(a))
		for i := range a {
			w[i] = a[i] * a[i] / 4
		}
		return w
	}
	p := optimize.Problem{
		Func: func(a []float64) float64 {
			tm, _, _, err := t.eval(fromAlpha(a), hint)
			if err != nil {
				ferr = err
				return math.Inf(1)
			}
			return tm
		},
		Grad: func(grad, a []float64) {
			_, g, _, err := t.eval(fromAlpha(a), hint)
			if err != nil {
				ferr = err
				for i := range grad {
					grad[i] = 0
				}
				return
			}
			for i := range grad {
				grad[i] = a[i] / 2 * g[i]
			}
		},
	}
	a0 := make([]float64, len(W))
	for i, w := range W {
		a0[i] = 2 * math.Sqrt(w)
	}
	settings := &optimize.Settings{GradientThreshold: 1e-10, MajorIterations: t.s.StabMaxIter}
	res, err := optimize.Minimize(p, a0, settings, &optimize.BFGS{})
	if err != nil && res == nil {
		return 0, nil, err
	}
	if ferr != nil {
		return 0, nil, ferr
	}
	return res.F, fromAlpha(res.X), nil
}

//feedPhase evaluates z as a gas and as a liquid, and returns the one with the lowest
//Gibbs energy.
func feedPhase(m Model, T, P float64, z []float64) (*thermo.Fugacity, error) {
	var best *thermo.Fugacity
	bestG := math.Inf(1)
	var lastErr error
	for _, h := range []thermo.Phase{thermo.PhaseGas, thermo.PhaseLiquid} {
		f, err := m.LnPhi(T, P, z, h)
		if err != nil {
			lastErr = err
			continue
		}
		g := floats.Dot(z, f.LnPhi)
		if g < bestG-1e-12 {
			best, bestG = f, g
		}
	}
	if best == nil {
		return nil, lastErr
	}
	return best, nil
}

//Stability performs Michelsen's tangent plane distance analysis of the mixture z at T and P,
//in the phase given by hint. The trial phases are the Wilson vapor and liquid estimates and
//one almost pure phase per component. Each trial is minimized by successive substitution
//and, if that fails to converge, with BFGS.
func Stability(m Model, T, P float64, z []float64, hint thermo.Phase, s *Settings) (*StabilityResult, error) {
	if s == nil {
		s = DefaultSettings()
	}
	z, err := checkComposition("Stability", m, z)
	if err != nil {
		return nil, err
	}
	var f *thermo.Fugacity
	if hint == thermo.PhaseUnknown {
		f, err = feedPhase(m, T, P, z)
	} else {
		f, err = m.LnPhi(T, P, z, hint)
	}
	if err != nil {
		return nil, thermo.Decorate(err, "Stability")
	}
	t := &tpd{m: m, T: T, P: P, z: z, d: make([]float64, len(z)), vz: f.V, s: s}
	for i := range z {
		t.d[i] = lnTiny + f.LnPhi[i]
		if z[i] > 0 {
			t.d[i] = math.Log(z[i]) + f.LnPhi[i]
		}
	}
	type trialStart struct {
		W    []float64
		hint thermo.Phase
	}
	n := len(z)
	K := wilsonK(m, T, P)
	vap := make([]float64, n)
	liq := make([]float64, n)
	for i := range z {
		vap[i] = z[i] * K[i]
		liq[i] = z[i] / K[i]
	}
	starts := []trialStart{{vap, thermo.PhaseGas}, {liq, thermo.PhaseLiquid}}
	if n > 1 {
		for k := 0; k < n; k++ {
			if z[k] == 0 {
				continue
			}
			W := make([]float64, n)
			for i := range W {
				if z[i] > 0 {
					W[i] = 0.001 / float64(n-1)
				}
			}
			W[k] = 0.999
			starts = append(starts, trialStart{W, thermo.PhaseLiquid})
		}
	}
	ret := &StabilityResult{Stable: true, TPD: math.Inf(1), FeedPhase: f.Phase}
	var lastErr error
	for _, st := range starts {
		tm, W, ph, err := t.trial(st.W, st.hint)
		if err != nil {
			s.logger().Debug("stability trial failed", zap.String("hint", st.hint.String()), zap.Error(err))
			lastErr = err
			continue
		}
		if tm < ret.TPD {
			ret.TPD = tm
			ret.TrialPhase = ph
			ret.Trial = nil
			if W != nil {
				ret.Trial = normalize(W)
			}
		}
	}
	if math.IsInf(ret.TPD, 1) {
		return nil, thermo.Decorate(lastErr, "Stability")
	}
	ret.Stable = ret.TPD >= -s.StabTol
	s.logger().Debug("stability", zap.Float64("T", T), zap.Float64("P", P), zap.Bool("stable", ret.Stable), zap.Float64("tpd", ret.TPD))
	return ret, nil
}
