/*
 * flash.go, part of gothermo.
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
	"errors"
	"math"
	"sort"

	thermo "github.com/rmera/gothermo"
	"github.com/rmera/gothermo/solver"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

//minFraction is the phase fraction under which a phase is considered absent.
const minFraction = 1e-12

var errTrivial = errors.New("phases collapsed into one")

//rrT returns t_i = 1 + sum_p beta_p (K_pi - 1), and false if some t_i is not positive.
func rrT(z []float64, K [][]float64, beta []float64) ([]float64, bool) {
	t := make([]float64, len(z))
	for i := range z {
		t[i] = 1
		for p, k := range K {
			t[i] += beta[p] * (k[i] - 1)
		}
		if z[i] > 0 && t[i] <= 0 {
			return nil, false
		}
	}
	return t, true
}

func rrObjective(z, t []float64) float64 {
	h := 0.0
	for i := range z {
		if z[i] > 0 {
			h += z[i] * math.Log(t[i])
		}
	}
	return h
}

//multiRR solves the multiphase Rachford-Rice equations for the phase fractions beta
//of every phase except the reference one, whose fraction is 1-sum(beta). K[p][i] is
//x_pi/x_0i. It maximizes the concave function sum_i z_i ln t_i with Newton steps,
//halving the steps to stay in the feasible region. Phases that want a
//negative fraction are held at zero.
func multiRR(z []float64, K [][]float64, beta0 []float64) ([]float64, error) {
	np := len(K)
	beta := make([]float64, np)
	if beta0 != nil {
		copy(beta, beta0)
	} else {
		for p := range beta {
			beta[p] = 1 / float64(np+1)
		}
	}
	t, ok := rrT(z, K, beta)
	if !ok {
		return nil, thermo.InvalidStateError("multiRR", "infeasible initial phase fractions %v", beta)
	}
	h := rrObjective(z, t)
	for it := 0; it < 200; it++ {
		g := make([]float64, np)
		H := mat.NewDense(np, np, nil)
		for i := range z {
			if z[i] == 0 {
				continue
			}
			for p := 0; p < np; p++ {
				kp := (K[p][i] - 1) / t[i]
				g[p] += z[i] * kp
				for q := 0; q < np; q++ {
					H.Set(p, q, H.At(p, q)-z[i]*kp*(K[q][i]-1)/t[i])
				}
			}
		}
		active := make([]int, 0, np)
		maxg := 0.0
		for p := range beta {
			if beta[p] <= 0 && g[p] < 0 {
				continue
			}
			active = append(active, p)
			maxg = math.Max(maxg, math.Abs(g[p]))
		}
		if maxg < 1e-14 {
			return beta, nil
		}
		na := len(active)
		Ha := mat.NewDense(na, na, nil)
		ga := mat.NewVecDense(na, nil)
		for a, p := range active {
			ga.SetVec(a, -g[p])
			for b, q := range active {
				Ha.Set(a, b, H.At(p, q))
			}
		}
		var d mat.VecDense
		if err := d.SolveVec(Ha, ga); err != nil {
			//singular Hessian, for instance two phases with the same K. Use the gradient.
			d.CloneFromVec(ga)
			d.ScaleVec(-1, &d)
		}
		lambda := 1.0
		accepted := false
		for k := 0; k < 60; k++ {
			cand := append([]float64(nil), beta...)
			sum := 0.0
			for a, p := range active {
				cand[p] = math.Max(0, beta[p]+lambda*d.AtVec(a))
			}
			for _, b := range cand {
				sum += b
			}
			if sum <= 1 {
				if tc, ok := rrT(z, K, cand); ok {
					if hc := rrObjective(z, tc); hc >= h-1e-15 {
						step := 0.0
						for p := range cand {
							step = math.Max(step, math.Abs(cand[p]-beta[p]))
						}
						beta, t, h = cand, tc, hc
						accepted = true
						if step < 1e-15 {
							return beta, nil
						}
						break
					}
				}
			}
			lambda /= 2
		}
		if !accepted {
			return beta, nil
		}
	}
	return beta, thermo.ConvergenceError("multiRR", "phase fractions did not converge")
}

//flashN performs successive substitution on the K factors of the given phases. lnK[p] are the
//logarithms of x_{p+1}/x_0. Phases that vanish are removed from the result.
func flashN(m Model, T, P float64, z []float64, hints []thermo.Phase, lnK [][]float64, s *Settings) (*FlashResult, error) {
	np := len(hints)
	n := len(z)
	var beta []float64
	xs := make([][]float64, np)
	fs := make([]*thermo.Fugacity, np)
	collapsed := false
	update := func(st solver.State) (solver.State, error) {
		K := make([][]float64, np-1)
		for p := range K {
			K[p] = make([]float64, n)
			for i := range K[p] {
				K[p][i] = math.Exp(lnK[p][i])
			}
		}
		var err error
		beta, err = multiRR(z, K, beta)
		if err != nil {
			return st, err
		}
		t, _ := rrT(z, K, beta)
		for p := range xs {
			xs[p] = make([]float64, n)
		}
		for i := range z {
			if z[i] == 0 {
				continue
			}
			xs[0][i] = z[i] / t[i]
			for p := 1; p < np; p++ {
				xs[p][i] = K[p-1][i] * xs[0][i]
			}
		}
		for p := range xs {
			xs[p] = normalize(xs[p])
			fs[p], err = m.LnPhi(T, P, xs[p], hints[p])
			if err != nil {
				return st, err
			}
		}
		diff := 0.0
		for p := 1; p < np; p++ {
			for i := range z {
				nl := fs[0].LnPhi[i] - fs[p].LnPhi[i]
				if z[i] > 0 {
					diff = math.Max(diff, math.Abs(nl-lnK[p-1][i]))
				}
				lnK[p-1][i] = nl
			}
			if trivial(fs[0].V, fs[p].V, xs[0], xs[p]) {
				collapsed = true
				return st, errTrivial
			}
		}
		return solver.State{X: float64(np), Residual: diff}, nil
	}
	o := s.solverOptions("flash", s.FlashMaxIter, s.FlashTol)
	st, err := solver.Run(solver.State{X: float64(np), Residual: math.Inf(1)}, update, o)
	if collapsed {
		return nil, errTrivial
	}
	ret := &FlashResult{T: T, P: P, Z: z, Iterations: st.Iter}
	if beta == nil {
		return ret, thermo.Decorate(err, "flashN")
	}
	b0 := 1.0
	for _, b := range beta {
		b0 -= b
	}
	fractions := append([]float64{b0}, beta...)
	for p := range fractions {
		if fractions[p] <= minFraction || fs[p] == nil {
			continue
		}
		ret.Phases = append(ret.Phases, Phase{Kind: fs[p].Phase, Fraction: fractions[p], X: xs[p], LnPhi: fs[p].LnPhi, V: fs[p].V})
	}
	labelPhases(ret.Phases)
	if err != nil {
		return ret, thermo.Decorate(err, "flashN")
	}
	ret.Converged = true
	return ret, nil
}

//labelPhases sorts the phases from the lightest to the heaviest and labels the
//second liquid, if any.
func labelPhases(ph []Phase) {
	sort.SliceStable(ph, func(i, j int) bool { return ph[i].V > ph[j].V })
	liquids := 0
	for i := range ph {
		if ph[i].Kind.IsLiquid() {
			liquids++
			ph[i].Kind = thermo.PhaseLiquid
			if liquids > 1 {
				ph[i].Kind = thermo.PhaseLiquid2
			}
		}
	}
}

func singlePhase(m Model, T, P float64, z []float64, hint thermo.Phase) (*FlashResult, error) {
	f, err := m.LnPhi(T, P, z, hint)
	if err != nil {
		return nil, thermo.Decorate(err, "singlePhase")
	}
	return &FlashResult{T: T, P: P, Z: z, Converged: true,
		Phases: []Phase{{Kind: f.Phase, Fraction: 1, X: z, LnPhi: f.LnPhi, V: f.V}}}, nil
}

//initial K factors of a trial phase w with respect to a phase x, ln(w/x).
func trialLnK(w, x []float64) []float64 {
	ret := make([]float64, len(w))
	for i := range w {
		if w[i] > 0 && x[i] > 0 {
			ret[i] = math.Log(w[i] / x[i])
		}
	}
	return ret
}

//FlashPT performs a two-phase isothermal flash of the feed z at T and P. The stability of the
//feed is tested first, a stable feed gives a single-phase result. Otherwise, the trial phase
//of the stability analysis starts the successive substitution.
func FlashPT(m Model, T, P float64, z []float64, s *Settings) (*FlashResult, error) {
	if s == nil {
		s = DefaultSettings()
	}
	z, err := checkComposition("FlashPT", m, z)
	if err != nil {
		return nil, err
	}
	st, err := Stability(m, T, P, z, thermo.PhaseUnknown, s)
	if err != nil {
		return nil, thermo.Decorate(err, "FlashPT")
	}
	if st.Stable || st.Trial == nil {
		return singlePhase(m, T, P, z, st.FeedPhase)
	}
	feed, trial := st.FeedPhase, st.TrialPhase
	if feed.IsLiquid() && trial.IsLiquid() {
		feed, trial = thermo.PhaseLiquid, thermo.PhaseLiquid2
	}
	if feed == trial {
		//a gas feed can only split into a gas and a liquid
		trial = thermo.PhaseLiquid
	}
	ret, err := flashN(m, T, P, z, []thermo.Phase{feed, trial}, [][]float64{trialLnK(st.Trial, z)}, s)
	if errors.Is(err, errTrivial) {
		s.logger().Debug("flash collapsed to one phase", zap.Float64("T", T), zap.Float64("P", P))
		return singlePhase(m, T, P, z, st.FeedPhase)
	}
	return ret, err
}

//Flash3PT performs a flash allowing a gas and two liquid phases. It starts from FlashPT and
//tests the stability of each resulting phase. An unstable phase adds the trial phase found
//to the set of phases.
func Flash3PT(m Model, T, P float64, z []float64, s *Settings) (*FlashResult, error) {
	if s == nil {
		s = DefaultSettings()
	}
	r2, err := FlashPT(m, T, P, z, s)
	if err != nil {
		return r2, thermo.Decorate(err, "Flash3PT")
	}
	if len(r2.Phases) >= 3 {
		return r2, nil
	}
	for _, ph := range r2.Phases {
		hint := ph.Kind
		if hint == thermo.PhaseLiquid2 {
			hint = thermo.PhaseLiquid
		}
		st, err := Stability(m, T, P, ph.X, hint, s)
		if err != nil {
			return r2, thermo.Decorate(err, "Flash3PT")
		}
		if st.Stable || st.Trial == nil {
			continue
		}
		hints := make([]thermo.Phase, 0, 3)
		hasGas, nLiq := false, 0
		for _, p := range r2.Phases {
			hints = append(hints, p.Kind)
			if p.Kind == thermo.PhaseGas {
				hasGas = true
			} else {
				nLiq++
			}
		}
		switch {
		case st.TrialPhase == thermo.PhaseGas && !hasGas:
			hints = append(hints, thermo.PhaseGas)
		case nLiq < 2:
			hints = append(hints, thermo.PhaseLiquid2)
		default:
			continue
		}
		ref := r2.Phases[0].X
		lnK := make([][]float64, 0, 2)
		for _, p := range r2.Phases[1:] {
			lnK = append(lnK, trialLnK(p.X, ref))
		}
		lnK = append(lnK, trialLnK(st.Trial, ref))
		r3, err := flashN(m, T, P, r2.Z, hints, lnK, s)
		if err != nil || !r3.Converged {
			s.logger().Debug("three phase flash failed", zap.Float64("T", T), zap.Float64("P", P), zap.Error(err))
			continue
		}
		return r3, nil
	}
	return r2, nil
}
