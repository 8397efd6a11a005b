/*
 * volume.go, part of gothermo.
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
	"sort"

	"github.com/rmera/gothermo/solver"
	"go.uber.org/zap"
)

const volumeTol = 1e-9 //relative, on the pressure

//VfromTP finds the molar volume roots of the EOS for the mixture c at T and P.
//If two physical roots exist, the state is VolumeBoth and Stable is the one with
//the lowest Gibbs energy. A single root is labeled by its density.
//If no physical root exists, the state is VolumeNone and a KindInvalidState error is returned.
//The hint sets the order in which numerical solutions are searched.
func (S *System) VfromTP(T, P float64, c []float64, hint Phase) (*VolumeResult, error) {
	if err := checkTP("System.VfromTP", T, P); err != nil {
		return &VolumeResult{}, err
	}
	x, err := S.normalize(c)
	if err != nil {
		return &VolumeResult{}, errDecorate(err, "System.VfromTP")
	}
	m, err := S.residual()
	if err != nil {
		return &VolumeResult{}, errDecorate(err, "System.VfromTP")
	}
	roots, ok := m.volumeRoots(T, P, x)
	if !ok {
		roots = S.numericRoots(m, T, P, x, hint)
	}
	ret := new(VolumeResult)
	switch len(roots) {
	case 0:
		return ret, newError(KindInvalidState, "System.VfromTP", "no physical volume root at T=%g P=%g", T, P)
	case 1:
		if m.liquidLike(T, roots[0], x) {
			ret.State, ret.Liquid, ret.Stable = VolumeLiquid, roots[0], PhaseLiquid
		} else {
			ret.State, ret.Gas, ret.Stable = VolumeGas, roots[0], PhaseGas
		}
	default:
		ret.State = VolumeBoth
		ret.Liquid, ret.Gas = roots[0], roots[len(roots)-1]
		ret.Stable = PhaseGas
		if reducedGibbs(m, T, P, ret.Liquid, x) < reducedGibbs(m, T, P, ret.Gas, x) {
			ret.Stable = PhaseLiquid
		}
	}
	return ret, nil
}

//reducedGibbs returns Gres/RT at T,P for the molar volume v.
func reducedGibbs(m residualModel, T, P, v float64, x []float64) float64 {
	F := m.F(hc(T), hc(v), hconsts(x)).Real
	Z := P * v / (R * T)
	return F + Z - 1 - math.Log(Z)
}

//numericRoots finds the volume roots by Newton iterations on ln v, from a liquid-like
//and from an ideal-gas start. Only mechanically stable roots are kept.
func (S *System) numericRoots(m residualModel, T, P float64, x []float64, hint Phase) []float64 {
	vmin := m.minVolume(T, x)
	starts := []float64{m.liquidStart(T, x), math.Max(R*T/P, 1.5*vmin)}
	if hint == PhaseGas {
		starts[0], starts[1] = starts[1], starts[0]
	}
	roots := make([]float64, 0, 2)
	for _, v0 := range starts {
		v, ok := S.solveVolume(m, T, P, x, v0, vmin)
		if !ok {
			continue
		}
		dup := false
		for _, r := range roots {
			if math.Abs(r-v) <= 1e-6*v {
				dup = true
			}
		}
		if !dup {
			roots = append(roots, v)
		}
	}
	sort.Float64s(roots)
	return roots
}

func (S *System) solveVolume(m residualModel, T, P float64, x []float64, v0, vmin float64) (float64, bool) {
	lvmin := math.Log(vmin)
	update := func(s solver.State) (solver.State, error) {
		v := math.Exp(s.X)
		p, dpdv := pressure(m, T, v, x)
		f := (p - P) / P
		df := v * dpdv / P
		var step float64
		if df < 0 {
			step = -f / df
		} else if f > 0 {
			//mechanically unstable region, move towards the nearest stable branch
			step = 0.1
		} else {
			step = -0.1
		}
		step = math.Max(-1, math.Min(1, step))
		xn := s.X + step
		if xn <= lvmin {
			xn = math.Log(0.5 * (v + vmin))
		}
		return solver.State{X: xn, Residual: f, Step: xn - s.X}, nil
	}
	o := solver.DefaultOptions()
	o.Name = "solveVolume"
	o.Tol = volumeTol * 1e-2
	o.StepTol = 1e-13
	o.Logger = S.log
	o.MaxIter = 200
	st, err := solver.Run(solver.State{X: math.Log(v0), Residual: math.Inf(1)}, update, o)
	if err != nil {
		S.log.Debug("volume solver failed", zap.Float64("T", T), zap.Float64("P", P), zap.Float64("v0", v0), zap.Error(err))
		return 0, false
	}
	v := math.Exp(st.X)
	p, dpdv := pressure(m, T, v, x)
	if dpdv >= 0 || math.Abs(p-P) > volumeTol*P {
		return 0, false
	}
	return v, true
}
