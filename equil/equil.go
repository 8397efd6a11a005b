/*
 * equil.go, part of gothermo.
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

//Package equil implements phase equilibrium calculations (bubble and dew points,
//PT flashes and stability analysis) on top of any model that provides fugacity
//coefficients for a single phase. A *thermo.System is such a model.
package equil

import (
	"math"

	thermo "github.com/rmera/gothermo"
	"github.com/rmera/gothermo/solver"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

//Model is the single-phase primitive the equilibrium solvers need.
type Model interface {
	//Len returns the number of components.
	Len() int
	//LnPhi returns the logarithm of the fugacity coefficients of the mixture x
	//in the phase given by hint, with the molar volume and the phase actually used.
	LnPhi(T, P float64, x []float64, hint thermo.Phase) (*thermo.Fugacity, error)
	//Critical returns the critical temperature and pressure, and the acentric factor,
	//of component i. They are used for initial guesses only.
	Critical(i int) (Tc, Pc, omega float64)
}

//Settings contains the tolerances and iteration caps of the solvers.
type Settings struct {
	Tol          float64 //outer loops of bubble and dew points
	InnerTol     float64 //successive substitution on compositions
	MaxIter      int
	InnerMaxIter int
	FlashTol     float64 //on ln K
	FlashMaxIter int
	StabTol      float64 //a TPD below -StabTol means unstable
	StabMaxIter  int
	Logger       *zap.Logger
}

//DefaultSettings returns reasonable settings for most systems.
func DefaultSettings() *Settings {
	return &Settings{
		Tol:          1e-10,
		InnerTol:     1e-11,
		MaxIter:      100,
		InnerMaxIter: 200,
		FlashTol:     1e-10,
		FlashMaxIter: 500,
		StabTol:      1e-8,
		StabMaxIter:  300,
		Logger:       zap.NewNop(),
	}
}

func (s *Settings) logger() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Settings) solverOptions(name string, maxiter int, tol float64) *solver.Options {
	o := solver.DefaultOptions()
	o.Name = name
	o.MaxIter = maxiter
	o.Tol = tol
	o.Logger = s.logger()
	return o
}

//Result is the result of a bubble or dew point calculation. X is the liquid composition
//and Y the gas composition. K = Y/X.
type Result struct {
	T, P       float64
	X, Y       []float64
	LnPhiL     []float64
	LnPhiG     []float64
	K          []float64
	VL, VG     float64
	Iterations int
	Converged  bool
}

//Phase is one of the phases of a flash result.
type Phase struct {
	Kind     thermo.Phase
	Fraction float64 //molar
	X        []float64
	LnPhi    []float64
	V        float64
}

//FlashResult is the result of a flash calculation. Phases are ordered from
//the lightest to the heaviest.
type FlashResult struct {
	T, P       float64
	Z          []float64
	Phases     []Phase
	Iterations int
	Converged  bool
}

//wilsonK returns the Wilson estimate of the K factors at T and P. Components
//without critical constants get K=1.
func wilsonK(m Model, T, P float64) []float64 {
	K := make([]float64, m.Len())
	for i := range K {
		Tc, Pc, w := m.Critical(i)
		if !(Tc > 0) || !(Pc > 0) {
			K[i] = 1
			continue
		}
		K[i] = Pc / P * math.Exp(5.373*(1+w)*(1-Tc/T))
	}
	return K
}

func normalize(x []float64) []float64 {
	ret := make([]float64, len(x))
	copy(ret, x)
	floats.Scale(1/floats.Sum(ret), ret)
	return ret
}

func checkComposition(caller string, m Model, z []float64) ([]float64, error) {
	if len(z) != m.Len() {
		return nil, thermo.InvalidStateError(caller, "composition has %d elements for %d components", len(z), m.Len())
	}
	for _, v := range z {
		if v < 0 || math.IsNaN(v) {
			return nil, thermo.InvalidStateError(caller, "invalid composition %v", z)
		}
	}
	if floats.Sum(z) <= 0 {
		return nil, thermo.InvalidStateError(caller, "the composition adds up to zero")
	}
	return normalize(z), nil
}

//trivial returns true if two phases have practically the same volume and composition.
func trivial(v1, v2 float64, x1, x2 []float64) bool {
	return math.Abs(v1-v2) <= 1e-7*math.Max(v1, v2) && floats.Distance(x1, x2, 1) <= 1e-6
}
