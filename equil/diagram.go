/*
 * diagram.go, part of gothermo.
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
	thermo "github.com/rmera/gothermo"
	"go.uber.org/zap"
)

//Diagram is a binary phase diagram at constant T (Pxy) or constant P (Txy).
//X and Y are the mole fractions of the first component in the liquid and the gas.
//For a Txy diagram Values are temperatures, for a Pxy diagram, pressures.
type Diagram struct {
	Isobaric bool
	Fixed    float64 //the pressure of a Txy diagram or the temperature of a Pxy one
	X, Y     []float64
	Values   []float64
}

//Len returns the number of points in the diagram.
func (D *Diagram) Len() int { return len(D.X) }

func diagramGrid(n int) []float64 {
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = float64(i) / float64(n-1)
	}
	return ret
}

func diagram(m Model, fixed float64, n int, isobaric bool, s *Settings) (*Diagram, error) {
	if s == nil {
		s = DefaultSettings()
	}
	caller := "PxyDiagram"
	if isobaric {
		caller = "TxyDiagram"
	}
	if m.Len() != 2 {
		return nil, thermo.InvalidStateError(caller, "diagrams need a binary system, got %d components", m.Len())
	}
	if n < 2 {
		return nil, thermo.InvalidStateError(caller, "at least 2 points are needed, got %d", n)
	}
	D := &Diagram{Isobaric: isobaric, Fixed: fixed}
	guess := 0.0
	for _, x1 := range diagramGrid(n) {
		x := []float64{x1, 1 - x1}
		var r *Result
		var err error
		if isobaric {
			r, err = BubbleT(m, fixed, x, guess, s)
		} else {
			r, err = BubbleP(m, fixed, x, guess, s)
		}
		if err != nil {
			if thermo.IsKind(err, thermo.KindInvalidState) {
				return D, thermo.Decorate(err, caller)
			}
			s.logger().Info("diagram point skipped", zap.String("diagram", caller), zap.Float64("x1", x1), zap.Error(err))
			continue
		}
		D.X = append(D.X, r.X[0])
		D.Y = append(D.Y, r.Y[0])
		if isobaric {
			D.Values = append(D.Values, r.T)
			guess = r.T
		} else {
			D.Values = append(D.Values, r.P)
			guess = r.P
		}
	}
	if D.Len() == 0 {
		return D, thermo.ConvergenceError(caller, "no point of the diagram converged")
	}
	return D, nil
}

//TxyDiagram computes the bubble temperature of n evenly spaced liquid compositions of a
//binary at pressure P. Each point starts from the previous one. Points that fail to
//converge are skipped.
func TxyDiagram(m Model, P float64, n int, s *Settings) (*Diagram, error) {
	return diagram(m, P, n, true, s)
}

//PxyDiagram computes the bubble pressure of n evenly spaced liquid compositions of a
//binary at temperature T.
func PxyDiagram(m Model, T float64, n int, s *Settings) (*Diagram, error) {
	return diagram(m, T, n, false, s)
}
