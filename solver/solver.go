/*
 * solver.go, part of gothermo.
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

//Package solver provides a small iterative-solver abstraction. A problem is an
//update rule that takes a State (trial value, residual and iteration count) to the
//next one. Run applies the rule until the residual is below the tolerance
//or the iteration cap is reached, so the convergence policy can be tested
//independently of the thermodynamics that provide the update rules.
package solver

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

//State is the state of an iterative solver.
type State struct {
	X         float64 //current trial value
	Residual  float64
	Iter      int
	Converged bool
	//Step is the last change applied to X. Update rules can use it
	//as they see fit.
	Step float64
}

//Update is the transition of an iterative solver. It receives the current state
//and returns the next one. It must set X and Residual, Run takes care of the
//iteration count and the terminal conditions.
type Update func(s State) (State, error)

//Options contains the terminal conditions of the solvers.
type Options struct {
	Tol     float64 //converged when |Residual| <= Tol
	StepTol float64 //if >0, also converged when |Step|<=StepTol*max(1,|X|)
	MaxIter int
	Name    string //used in logs and errors.
	Logger  *zap.Logger
}

//DefaultOptions returns reasonable options for the solvers in this library.
func DefaultOptions() *Options {
	return &Options{Tol: 1e-10, StepTol: 0, MaxIter: 100, Name: "solver", Logger: zap.NewNop()}
}

func (O *Options) logger() *zap.Logger {
	if O == nil || O.Logger == nil {
		return zap.NewNop()
	}
	return O.Logger
}

//Copy returns a copy of the options, with the name replaced by name, if given.
func (O *Options) Copy(name ...string) *Options {
	r := *O
	if len(name) > 0 && name[0] != "" {
		r.Name = name[0]
	}
	return &r
}

//Run applies update to s0 until convergence or until o.MaxIter iterations have been performed.
//The returned state is always the last one computed. If the cap is exceeded,
//a non-critical Error for which NotConverged() returns true, is returned.
func Run(s0 State, update Update, o *Options) (State, error) {
	if o == nil {
		o = DefaultOptions()
	}
	log := o.logger()
	s := s0
	s.Converged = false
	for s.Iter < o.MaxIter {
		next, err := update(s)
		if err != nil {
			return s, errDecorate(err, o.Name)
		}
		next.Iter = s.Iter + 1
		if math.IsNaN(next.X) || math.IsNaN(next.Residual) {
			return next, Error{fmt.Sprintf("NaN at iteration %d", next.Iter), []string{o.Name}, true, false}
		}
		log.Debug("iteration", zap.String("solver", o.Name), zap.Int("iter", next.Iter),
			zap.Float64("x", next.X), zap.Float64("residual", next.Residual))
		s = next
		if math.Abs(s.Residual) <= o.Tol {
			s.Converged = true
			return s, nil
		}
		if o.StepTol > 0 && s.Iter > 1 && math.Abs(s.Step) <= o.StepTol*math.Max(1, math.Abs(s.X)) {
			s.Converged = true
			return s, nil
		}
	}
	log.Warn("iteration cap reached", zap.String("solver", o.Name), zap.Int("maxiter", o.MaxIter),
		zap.Float64("x", s.X), zap.Float64("residual", s.Residual))
	return s, Error{fmt.Sprintf("not converged after %d iterations, residual %g", s.Iter, s.Residual), []string{o.Name}, false, true}
}

//Newton returns an Update that performs Newton steps on f, which must return
//the function value and its derivative at x.
func Newton(f func(x float64) (fx, dfx float64, err error)) Update {
	return func(s State) (State, error) {
		fx, dfx, err := f(s.X)
		if err != nil {
			return s, err
		}
		if dfx == 0 {
			return s, Error{"zero derivative", []string{"Newton"}, true, false}
		}
		step := -fx / dfx
		//the residual reported is the one at the new point, so it needs one more evaluation
		//of f. We instead report the one at the old point, which lags one iteration behind.
		return State{X: s.X + step, Residual: fx, Step: step}, nil
	}
}

//Secant returns an Update that performs secant steps on f. x1 is the second starting
//point, the first is the X of the initial state.
func Secant(f func(x float64) (float64, error), x1 float64) Update {
	var xprev, fprev float64
	first := true
	return func(s State) (State, error) {
		if first {
			first = false
			f0, err := f(s.X)
			if err != nil {
				return s, err
			}
			xprev, fprev = s.X, f0
			f1, err := f(x1)
			if err != nil {
				return s, err
			}
			return State{X: x1, Residual: f1, Step: x1 - s.X}, nil
		}
		if s.Residual == fprev {
			return s, Error{"flat secant", []string{"Secant"}, true, false}
		}
		xnew := s.X - s.Residual*(s.X-xprev)/(s.Residual-fprev)
		fnew, err := f(xnew)
		if err != nil {
			return s, err
		}
		xprev, fprev = s.X, s.Residual
		return State{X: xnew, Residual: fnew, Step: xnew - s.X}, nil
	}
}

//SafeNewton returns an Update for a Newton method safeguarded by bisection on the
//bracket [lo,hi], which must contain a root of f (f(lo) and f(hi) with different signs).
//Steps that fall outside the current bracket are replaced by bisection.
func SafeNewton(f func(x float64) (fx, dfx float64, err error), lo, hi float64) Update {
	flo := math.NaN()
	return func(s State) (State, error) {
		fx, dfx, err := f(s.X)
		if err != nil {
			return s, err
		}
		if math.IsNaN(flo) {
			flo, _, err = f(lo)
			if err != nil {
				return s, err
			}
		}
		//shrink the bracket
		if (fx < 0) == (flo < 0) {
			lo, flo = s.X, fx
		} else {
			hi = s.X
		}
		xnew := s.X - fx/dfx
		if dfx == 0 || math.IsNaN(xnew) || xnew <= math.Min(lo, hi) || xnew >= math.Max(lo, hi) {
			xnew = 0.5 * (lo + hi)
		}
		return State{X: xnew, Residual: fx, Step: xnew - s.X}, nil
	}
}

//Errors

//Error is the error type of this package. It is the same as thermo.Error
//but avoids a circular import.
type Error struct {
	message      string
	deco         []string
	critical     bool
	notConverged bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return fmt.Sprintf("solver %s: %s", err.deco, err.message)
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical return whether the error is critical or it can be ignored
func (err Error) Critical() bool { return err.critical }

//NotConverged returns true if the error was caused by the iteration cap.
func (err Error) NotConverged() bool { return err.notConverged }

func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return err
}
