/*
 * saft.go, part of gothermo.
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
)

//PC-SAFT universal constants (Gross and Sadowski, 2001)
var (
	saftA = [3][7]float64{
		{0.9105631445, 0.6361281449, 2.6861347891, -26.547362491, 97.759208784, -159.59154087, 91.297774084},
		{-0.3084016918, 0.1860531159, -2.5030047259, 21.419793629, -65.255885330, 83.318680481, -33.746922930},
		{-0.0906148351, 0.4527842806, 0.5962700728, -1.7241829131, -4.1302112531, 13.776631870, -8.6728470368},
	}
	saftB = [3][7]float64{
		{0.7240946941, 2.2382791861, -4.0025849485, -21.003576815, 26.855641363, 206.55133841, -355.60235612},
		{-0.5755498075, 0.6995095521, 3.8925673390, -17.215471648, 192.67226447, -161.82646165, -165.20769346},
		{0.0976883116, -0.2557574982, -9.1558561530, 20.642075974, -38.804430052, 93.626774077, -29.666905585},
	}
)

const (
	saftMaxEta    = 0.7405 //close packing
	saftLiqEta    = 0.5
	saftLiquidEta = 0.2 //packing fractions above this are liquid-like
)

type saftModel struct {
	m, sigma, eps []float64
	kij           *ParamMatrix
}

func newSAFTModel(S *System) (*saftModel, error) {
	n := len(S.subs)
	ret := &saftModel{m: make([]float64, n), sigma: make([]float64, n), eps: make([]float64, n), kij: S.kij}
	for i, s := range S.subs {
		p := s.EOS.(*SAFT)
		if p.M <= 0 || p.Sigma <= 0 || p.Epsilon <= 0 {
			return nil, newError(KindInvalidState, "newSAFTModel", "substance %d has invalid PC-SAFT parameters m=%g sigma=%g eps=%g", s.ID, p.M, p.Sigma, p.Epsilon)
		}
		ret.m[i], ret.sigma[i], ret.eps[i] = p.M, p.Sigma, p.Epsilon
	}
	return ret, nil
}

//diameters returns the temperature-dependent segment diameters, in Angstrom.
func (s *saftModel) diameters(T hd) []hd {
	d := make([]hd, len(s.m))
	for i := range d {
		d[i] = hscale(s.sigma[i], hsub(hc(1), hscale(0.12, hexp(hscale(-3*s.eps[i], hinv(T))))))
	}
	return d
}

//F returns the hard-chain plus dispersion contribution.
func (s *saftModel) F(T, V hd, n []hd) hd {
	N := hsum(n)
	x := make([]hd, len(n))
	for i := range n {
		x[i] = hdiv(n[i], N)
	}
	//number density in molecules per cubic Angstrom
	rho := hscale(NA*1e-30, hdiv(N, V))
	d := s.diameters(T)
	var zeta [4]hd
	for k := 0; k < 4; k++ {
		sum := hc(0)
		for i := range x {
			dk := hc(1)
			for j := 0; j < k; j++ {
				dk = hmul(dk, d[i])
			}
			sum = hadd(sum, hscale(s.m[i], hmul(x[i], dk)))
		}
		zeta[k] = hscale(math.Pi/6, hmul(rho, sum))
	}
	one := hc(1)
	omz3 := hsub(one, zeta[3])
	mbar := hc(0)
	for i := range x {
		mbar = hadd(mbar, hscale(s.m[i], x[i]))
	}
	//hard sphere
	z2cube := hmul(zeta[2], hmul(zeta[2], zeta[2]))
	t1 := hdiv(hscale(3, hmul(zeta[1], zeta[2])), omz3)
	t2 := hdiv(z2cube, hmul(zeta[3], hmul(omz3, omz3)))
	t3 := hmul(hsub(hdiv(z2cube, hmul(zeta[3], zeta[3])), zeta[0]), hlog(omz3))
	ahs := hdiv(hadd(t1, t2, t3), zeta[0])
	//chain
	ahc := hmul(mbar, ahs)
	for i := range x {
		if s.m[i] == 1 {
			continue
		}
		hd2 := hscale(0.5, d[i])
		g := hadd(hinv(omz3),
			hdiv(hmul(hd2, hscale(3, zeta[2])), hmul(omz3, omz3)),
			hdiv(hmul(hmul(hd2, hd2), hscale(2, hmul(zeta[2], zeta[2]))), hmul(omz3, hmul(omz3, omz3))))
		ahc = hsub(ahc, hmul(hscale(s.m[i]-1, x[i]), hlog(g)))
	}
	//dispersion
	eta := zeta[3]
	mm1 := hdiv(hsub(mbar, one), mbar)
	mm2 := hmul(mm1, hdiv(hsub(mbar, hc(2)), mbar))
	I1, I2 := hc(0), hc(0)
	etak := one
	for k := 0; k < 7; k++ {
		ak := hadd(hc(saftA[0][k]), hscale(saftA[1][k], mm1), hscale(saftA[2][k], mm2))
		bk := hadd(hc(saftB[0][k]), hscale(saftB[1][k], mm1), hscale(saftB[2][k], mm2))
		I1 = hadd(I1, hmul(ak, etak))
		I2 = hadd(I2, hmul(bk, etak))
		etak = hmul(etak, eta)
	}
	m2es3, m2e2s3 := hc(0), hc(0)
	for i := range x {
		for j := range x {
			sij := 0.5 * (s.sigma[i] + s.sigma[j])
			eij := hscale(math.Sqrt(s.eps[i]*s.eps[j]), hsub(one, kT(s.kij, i, j, T)))
			eT := hdiv(eij, T)
			f := hscale(s.m[i]*s.m[j]*sij*sij*sij, hmul(x[i], x[j]))
			m2es3 = hadd(m2es3, hmul(f, eT))
			m2e2s3 = hadd(m2e2s3, hmul(f, hmul(eT, eT)))
		}
	}
	ome := hsub(one, eta)
	ome2 := hmul(ome, ome)
	c1a := hdiv(hmul(mbar, hsub(hscale(8, eta), hscale(2, hmul(eta, eta)))), hmul(ome2, ome2))
	eta2 := hmul(eta, eta)
	poly := hadd(hscale(20, eta), hscale(-27, eta2), hscale(12, hmul(eta2, eta)), hscale(-2, hmul(eta2, eta2)))
	den := hmul(ome, hsub(hc(2), eta))
	c1b := hdiv(hmul(hsub(one, mbar), poly), hmul(den, den))
	C1 := hinv(hadd(one, c1a, c1b))
	adisp := hsub(hscale(-2*math.Pi, hmul(rho, hmul(I1, m2es3))),
		hscale(math.Pi, hmul(rho, hmul(mbar, hmul(C1, hmul(I2, m2e2s3))))))
	return hmul(N, hadd(ahc, adisp))
}

//volumeFromEta returns the molar volume for the packing fraction eta.
func (s *saftModel) volumeFromEta(T, eta float64, x []float64) float64 {
	d := s.diameters(hc(T))
	sum := 0.0
	for i := range x {
		sum += x[i] * s.m[i] * d[i].Real * d[i].Real * d[i].Real
	}
	return math.Pi / 6 * NA * 1e-30 * sum / eta
}

func (s *saftModel) volumeRoots(T, P float64, x []float64) ([]float64, bool) { return nil, false }

func (s *saftModel) minVolume(T float64, x []float64) float64 {
	return s.volumeFromEta(T, saftMaxEta, x)
}

func (s *saftModel) liquidStart(T float64, x []float64) float64 {
	return s.volumeFromEta(T, saftLiqEta, x)
}

func (s *saftModel) liquidLike(T, v float64, x []float64) bool {
	return v < s.volumeFromEta(T, saftLiquidEta, x)
}
