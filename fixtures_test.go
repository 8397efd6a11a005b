/*
 * fixtures_test.go, part of gothermo.
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
	"testing"

	"github.com/stretchr/testify/require"
)

//prSubstance returns a Peng-Robinson substance with the given critical constants
//and a constant ideal gas Cp.
func prSubstance(id int, name string, Tc, Pc, w float64) *Substance {
	s := NewSubstance()
	s.ID, s.Name = id, name
	s.Tc, s.Pc, s.Omega = Tc, Pc, w
	s.MW = 50
	s.EOS = &Cubic{Kind: PR76, Tc: Tc, Pc: Pc, Omega: w}
	cp := s.Correlation(PropCpIdealGas)
	cp.Form = FormPolynomial
	cp.Coef[0] = 40
	return s
}

//methane data
func saftMethane() *Substance {
	s := NewSubstance()
	s.ID, s.Name, s.MW = 1, "methane", 16.043
	s.Tc, s.Pc, s.Omega = 190.564, 4.5992e6, 0.01142
	s.EOS = &SAFT{M: 1.0, Sigma: 3.7039, Epsilon: 150.03}
	return s
}

func saftPropane() *Substance {
	s := NewSubstance()
	s.ID, s.Name, s.MW = 3, "propane", 44.096
	s.Tc, s.Pc, s.Omega = 369.83, 4.248e6, 0.1523
	s.EOS = &SAFT{M: 2.002, Sigma: 3.6184, Epsilon: 208.11}
	return s
}

func mpMethane() *Substance {
	s := NewSubstance()
	s.ID, s.Name, s.MW = 1, "methane", 16.043
	s.Tc, s.Pc, s.Omega = 190.564, 4.5992e6, 0.01142
	s.EOS = SpanWagnerNonPolar(190.564, 10139.342, [12]float64{0.89269676, -2.5438282, 0.64980978, 0.020793471, 0.070189104,
		0.00023700378, 0.16653334, -0.043855669, -0.1572678, -0.035311675, -0.029570024, 0.014019842})
	return s
}

func newTestSystem(Te *testing.T, subs ...*Substance) *System {
	S := NewSystem(nil)
	for _, s := range subs {
		require.NoError(Te, S.AddSubstance(s))
	}
	return S
}
