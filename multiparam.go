/*
 * multiparam.go, part of gothermo.
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

import "math"

//mpModel is a mixture of multiparameter equations, combined with
//quadratic reducing functions:
//Tr = sum_ij x_i x_j sqrt(Tc_i Tc_j)(1-kT_ij)
//vr = sum_ij x_i x_j (vc_i^1/3 + vc_j^1/3)^3/8 (1-kv_ij)
//and alpha^r = sum_i x_i alpha^r_i(delta, tau), with delta = vr/v, tau = Tr/T.
type mpModel struct {
	eqs []*MultiParameter
	vc  []float64
	kij *ParamMatrix
}

func newMPModel(S *System) (*mpModel, error) {
	ret := &mpModel{kij: S.kij}
	for _, s := range S.subs {
		p := s.EOS.(*MultiParameter)
		if p.Tc <= 0 || p.Rhoc <= 0 || len(p.Terms) == 0 {
			return nil, newError(KindInvalidState, "newMPModel", "substance %d has an empty or invalid multiparameter equation", s.ID)
		}
		ret.eqs = append(ret.eqs, p)
		ret.vc = append(ret.vc, 1/p.Rhoc)
	}
	return ret, nil
}

//reducing returns the reducing temperature and molar volume for the fractions x.
func (M *mpModel) reducing(x []hd) (Tr, vr hd) {
	Tr, vr = hc(0), hc(0)
	for i := range x {
		for j := range x {
			xx := hmul(x[i], x[j])
			kt, kv := M.kij.Slot(i, j, 0), M.kij.Slot(i, j, 1)
			Tr = hadd(Tr, hscale(math.Sqrt(M.eqs[i].Tc*M.eqs[j].Tc)*(1-kt), xx))
			s := math.Cbrt(M.vc[i]) + math.Cbrt(M.vc[j])
			vr = hadd(vr, hscale(s*s*s/8*(1-kv), xx))
		}
	}
	return Tr, vr
}

func (M *mpModel) F(T, V hd, n []hd) hd {
	N := hsum(n)
	x := make([]hd, len(n))
	for i := range n {
		x[i] = hdiv(n[i], N)
	}
	Tr, vr := M.reducing(x)
	delta := hdiv(hmul(N, vr), V)
	tau := hdiv(Tr, T)
	ldelta, ltau := hlog(delta), hlog(tau)
	ar := hc(0)
	for i, eq := range M.eqs {
		sum := hc(0)
		for _, t := range eq.Terms {
			//delta^d tau^t written as an exponential, so non-integer exponents work
			term := hexp(hadd(hscale(t.D, ldelta), hscale(t.T, ltau)))
			if t.L != 0 {
				term = hmul(term, hexp(hscale(-1, hpow(delta, t.L))))
			}
			sum = hadd(sum, hscale(t.N, term))
		}
		ar = hadd(ar, hmul(x[i], sum))
	}
	return hmul(N, ar)
}

func (M *mpModel) molarReducing(x []float64) (Tr, vr float64) {
	t, v := M.reducing(hconsts(x))
	return t.Real, v.Real
}

func (M *mpModel) volumeRoots(T, P float64, x []float64) ([]float64, bool) { return nil, false }

func (M *mpModel) minVolume(T float64, x []float64) float64 {
	_, vr := M.molarReducing(x)
	return vr / 5
}

func (M *mpModel) liquidStart(T float64, x []float64) float64 {
	_, vr := M.molarReducing(x)
	return vr / 2.5
}

func (M *mpModel) liquidLike(T, v float64, x []float64) bool {
	_, vr := M.molarReducing(x)
	return v < vr
}
