/*
 * bubble.go, part of gothermo.
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
	"github.com/rmera/gothermo/solver"
	"go.uber.org/zap"
)

//saturation is a bubble or dew point problem. The composition of one phase (z) is known,
//and the one of the incipient phase (w) and either T or P are unknown.
type saturation struct {
	m      Model
	dew    bool //if false, a bubble point
	byT    bool //if false, P is the unknown
	z, w   []float64
	T, P   float64
	s      *Settings
	last   *Result
	caller string
	//last trial point that gave a non-trivial result, and its incipient phase.
	goodU  float64
	goodW  []float64
	failed bool //the last call to eval failed at a bad trial point
}

//maxBacktrack is the number of times a failed trial point is moved back
//before giving up.
const maxBacktrack = 12

//eval returns the outer residual at u, which is 1/T or ln P. The inner loop
//finds the incipient phase by successive substitution.
func (S *saturation) eval(u float64) (float64, error) {
	T, P := S.T, S.P
	if S.byT {
		T = 1 / u
	} else {
		P = math.Exp(u)
	}
	if !(T > 0) || !(P > 0) || math.IsInf(T, 0) || math.IsInf(P, 0) {
		return 0, thermo.InvalidStateError(S.caller, "the solver went to T=%g P=%g", T, P)
	}
	known, incipient := thermo.PhaseLiquid, thermo.PhaseGas
	if S.dew {
		known, incipient = thermo.PhaseGas, thermo.PhaseLiquid
	}
	fk, err := S.m.LnPhi(T, P, S.z, known)
	if err != nil {
		return 0, thermo.Decorate(err, S.caller)
	}
	n := len(S.z)
	K := make([]float64, n)
	wn := make([]float64, n)
	var fi *thermo.Fugacity
	var sum float64
	converged := false
	for it := 0; it < S.s.InnerMaxIter; it++ {
		fi, err = S.m.LnPhi(T, P, S.w, incipient)
		if err != nil {
			return 0, thermo.Decorate(err, S.caller)
		}
		sum = 0
		for i := range K {
			if S.dew {
				K[i] = math.Exp(fi.LnPhi[i] - fk.LnPhi[i])
				wn[i] = S.z[i] / K[i]
			} else {
				K[i] = math.Exp(fk.LnPhi[i] - fi.LnPhi[i])
				wn[i] = S.z[i] * K[i]
			}
			sum += wn[i]
		}
		diff := 0.0
		for i := range wn {
			wn[i] /= sum
			diff = math.Max(diff, math.Abs(wn[i]-S.w[i]))
		}
		copy(S.w, wn)
		if diff <= S.s.InnerTol {
			converged = true
			break
		}
	}
	if !converged {
		S.failed = true
		return 0, thermo.ConvergenceError(S.caller, "incipient phase composition did not converge at T=%g P=%g", T, P)
	}
	if trivial(fk.V, fi.V, S.z, S.w) {
		S.failed = true
		return 0, thermo.ConvergenceError(S.caller, "trivial solution at T=%g P=%g", T, P)
	}
	r := &Result{T: T, P: P, K: K}
	w := append([]float64(nil), S.w...)
	if S.dew {
		r.X, r.Y = w, S.z
		r.LnPhiL, r.LnPhiG = fi.LnPhi, fk.LnPhi
		r.VL, r.VG = fi.V, fk.V
	} else {
		r.X, r.Y = S.z, w
		r.LnPhiL, r.LnPhiG = fk.LnPhi, fi.LnPhi
		r.VL, r.VG = fk.V, fi.V
	}
	S.last = r
	return math.Log(sum), nil
}

//evalBack evaluates the residual at u. If the trial point collapses to the trivial
//solution, or the incipient phase does not converge, u is moved back, halfway to the last
//good point or, if there is none, toward lower pressures or temperatures, and the incipient
//phase is restarted. It returns the point actually evaluated.
func (S *saturation) evalBack(u float64) (float64, float64, error) {
	var err error
	for k := 0; k <= maxBacktrack; k++ {
		S.failed = false
		var f float64
		f, err = S.eval(u)
		if err == nil {
			S.goodU = u
			S.goodW = append(S.goodW[:0], S.w...)
			return u, f, nil
		}
		if !S.failed {
			return u, 0, err
		}
		switch {
		case S.goodW != nil:
			u = S.goodU + 0.5*(u-S.goodU)
			copy(S.w, S.goodW)
		case S.byT:
			u /= 0.95
			S.start(wilsonK(S.m, 1/u, S.P))
		default:
			u += math.Log(0.8)
			S.start(wilsonK(S.m, S.T, math.Exp(u)))
		}
		S.s.logger().Debug("backtracking", zap.String("solver", S.caller), zap.Int("step", k+1), zap.Float64("u", u))
	}
	return u, 0, err
}

//secant is solver.Secant on evalBack. The state keeps the point actually evaluated.
func (S *saturation) secant(x1 float64) solver.Update {
	var xprev, fprev float64
	first := true
	return func(st solver.State) (solver.State, error) {
		if first {
			first = false
			x0, f0, err := S.evalBack(st.X)
			if err != nil {
				return st, err
			}
			xprev, fprev = x0, f0
			xa, f1, err := S.evalBack(x0 + (x1 - st.X))
			if err != nil {
				return st, err
			}
			return solver.State{X: xa, Residual: f1, Step: xa - x0}, nil
		}
		if st.Residual == fprev {
			return st, thermo.ConvergenceError(S.caller, "flat secant at %g", st.X)
		}
		xnew := st.X - st.Residual*(st.X-xprev)/(st.Residual-fprev)
		xnew, fnew, err := S.evalBack(xnew)
		if err != nil {
			return st, err
		}
		xprev, fprev = st.X, st.Residual
		return solver.State{X: xnew, Residual: fnew, Step: xnew - st.X}, nil
	}
}

func (S *saturation) solve(u0, u1 float64) (*Result, error) {
	o := S.s.solverOptions(S.caller, S.s.MaxIter, S.s.Tol)
	st, err := solver.Run(solver.State{X: u0}, S.secant(u1), o)
	res := S.last
	if res == nil {
		res = &Result{T: S.T, P: S.P}
	}
	res.Iterations = st.Iter
	if err != nil {
		return res, thermo.Decorate(err, S.caller)
	}
	res.Converged = true
	S.s.logger().Debug("saturation point", zap.String("solver", S.caller), zap.Float64("T", res.T),
		zap.Float64("P", res.P), zap.Int("iterations", res.Iterations))
	return res, nil
}

func newSaturation(caller string, m Model, z []float64, T, P float64, dew, byT bool, s *Settings) (*saturation, error) {
	if s == nil {
		s = DefaultSettings()
	}
	z, err := checkComposition(caller, m, z)
	if err != nil {
		return nil, err
	}
	return &saturation{m: m, z: z, T: T, P: P, dew: dew, byT: byT, s: s, caller: caller}, nil
}

//initial incipient composition from the K factors.
func (S *saturation) start(K []float64) {
	S.w = make([]float64, len(S.z))
	for i := range K {
		if S.dew {
			S.w[i] = S.z[i] / K[i]
		} else {
			S.w[i] = S.z[i] * K[i]
		}
	}
	S.w = normalize(S.w)
}

//wilsonT returns the temperature at which the Wilson K factors put z at its
//bubble (or dew) point at pressure P.
func wilsonT(m Model, P float64, z []float64, dew bool, s *Settings) float64 {
	T0 := 0.0
	tmin, tmax := math.Inf(1), 0.0
	for i := range z {
		Tc, _, _ := m.Critical(i)
		T0 += 0.7 * z[i] * Tc
		if Tc > 0 {
			tmin, tmax = math.Min(tmin, Tc), math.Max(tmax, Tc)
		}
	}
	if !(T0 > 0) {
		return 300
	}
	f := func(u float64) (float64, float64, error) {
		K := wilsonK(m, 1/u, P)
		sum, dsum := 0.0, 0.0
		for i := range z {
			Tc, _, w := m.Critical(i)
			a := 5.373 * (1 + w) * Tc
			if dew {
				sum += z[i] / K[i]
				dsum += z[i] / K[i] * a
			} else {
				sum += z[i] * K[i]
				dsum -= z[i] * K[i] * a
			}
		}
		return math.Log(sum), dsum / sum, nil
	}
	update := solver.Newton(f)
	//between 0.2 Tc and 3 Tc the Wilson sum usually changes sign.
	lo, hi := 1/(3*tmax), 1/(0.2*tmin)
	flo, _, _ := f(lo)
	fhi, _, _ := f(hi)
	if flo*fhi < 0 {
		update = solver.SafeNewton(f, lo, hi)
	}
	st, err := solver.Run(solver.State{X: 1 / T0}, update, s.solverOptions("wilsonT", 50, 1e-12))
	if err != nil || !(st.X > 0) {
		return T0
	}
	return 1 / st.X
}

//capP keeps a Wilson pressure estimate under the pseudocritical pressure of z, where
//the phases of the mixture become hard to tell apart.
func capP(m Model, z []float64, P float64) float64 {
	ppc := 0.0
	for i := range z {
		_, Pc, _ := m.Critical(i)
		if Pc > 0 {
			ppc += z[i] * Pc
		}
	}
	if ppc > 0 && P > ppc {
		return ppc
	}
	return P
}

//BubbleT finds the bubble temperature of the liquid x at pressure P. If guess is not positive,
//the initial temperature comes from the Wilson K factors. On failure, the last result
//is returned with Converged set to false, together with the error.
func BubbleT(m Model, P float64, x []float64, guess float64, s *Settings) (*Result, error) {
	S, err := newSaturation("BubbleT", m, x, 0, P, false, true, s)
	if err != nil {
		return nil, err
	}
	if !(guess > 0) {
		guess = wilsonT(m, P, S.z, false, S.s)
	}
	S.start(wilsonK(m, guess, P))
	return S.solve(1/guess, 1/(1.01*guess))
}

//DewT finds the dew temperature of the gas y at pressure P.
func DewT(m Model, P float64, y []float64, guess float64, s *Settings) (*Result, error) {
	S, err := newSaturation("DewT", m, y, 0, P, true, true, s)
	if err != nil {
		return nil, err
	}
	if !(guess > 0) {
		guess = wilsonT(m, P, S.z, true, S.s)
	}
	S.start(wilsonK(m, guess, P))
	return S.solve(1/guess, 1/(1.01*guess))
}

//BubbleP finds the bubble pressure of the liquid x at temperature T.
func BubbleP(m Model, T float64, x []float64, guess float64, s *Settings) (*Result, error) {
	S, err := newSaturation("BubbleP", m, x, T, 0, false, false, s)
	if err != nil {
		return nil, err
	}
	if !(guess > 0) {
		K := wilsonK(m, T, 1)
		guess = 0
		for i := range K {
			guess += S.z[i] * K[i]
		}
		guess = capP(m, S.z, guess)
	}
	S.start(wilsonK(m, T, guess))
	return S.solve(math.Log(guess), math.Log(1.05*guess))
}

//DewP finds the dew pressure of the gas y at temperature T.
func DewP(m Model, T float64, y []float64, guess float64, s *Settings) (*Result, error) {
	S, err := newSaturation("DewP", m, y, T, 0, true, false, s)
	if err != nil {
		return nil, err
	}
	if !(guess > 0) {
		K := wilsonK(m, T, 1)
		inv := 0.0
		for i := range K {
			inv += S.z[i] / K[i]
		}
		guess = capP(m, S.z, 1/inv)
	}
	S.start(wilsonK(m, T, guess))
	return S.solve(math.Log(guess), math.Log(0.95*guess))
}
