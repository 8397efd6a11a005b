/*
 * cubic.go, part of gothermo.
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

	"gonum.org/v1/gonum/mat"
)

//constants of each cubic: Omega_a, Omega_b, delta1, delta2, Zc
var cubicConsts = map[CubicKind][5]float64{
	PR76: {0.45723553, 0.07779607, 1 + math.Sqrt2, 1 - math.Sqrt2, 0.30740131},
	PR78: {0.45723553, 0.07779607, 1 + math.Sqrt2, 1 - math.Sqrt2, 0.30740131},
	SRK:  {0.42748023, 0.08664035, 1, 0, 1.0 / 3.0},
	VdW:  {27.0 / 64.0, 1.0 / 8.0, 0, 0, 3.0 / 8.0},
}

func soaveM(kind CubicKind, w float64) float64 {
	switch kind {
	case PR78:
		if w > 0.491 {
			return 0.379642 + 1.48503*w - 0.164423*w*w + 0.016666*w*w*w
		}
		fallthrough
	case PR76:
		return 0.37464 + 1.54226*w - 0.26992*w*w
	case SRK:
		return 0.480 + 1.574*w - 0.176*w*w
	}
	return 0
}

type cubicComp struct {
	ac, b, tc float64
	m         float64
	alpha     AlphaKind
	coef      [3]float64
	shift     float64
}

//alphaT is the temperature function of the attractive parameter.
func (c *cubicComp) alphaT(T hd) hd {
	tr := hscale(1/c.tc, T)
	switch c.alpha {
	case AlphaTwu:
		L, M, N := c.coef[0], c.coef[1], c.coef[2]
		return hmul(hpow(tr, N*(M-1)), hexp(hscale(L, hsub(hc(1), hpow(tr, N*M)))))
	case AlphaMathiasCopeman:
		s := hsub(hc(1), hsqrt(tr))
		if tr.Real > 1 {
			p := hadd(hc(1), hscale(c.coef[0], s))
			return hmul(p, p)
		}
		p := hadd(hc(1), hscale(c.coef[0], s), hscale(c.coef[1], hmul(s, s)), hscale(c.coef[2], hmul(s, hmul(s, s))))
		return hmul(p, p)
	}
	p := hadd(hc(1), hscale(c.m, hsub(hc(1), hsqrt(tr))))
	return hmul(p, p)
}

type cubicModel struct {
	kind       CubicKind
	d1, d2, zc float64
	comps      []cubicComp
	kij        *ParamMatrix
	rule       MixingRule
	act        activityModel //only for Huron-Vidal
	hvLambda   float64
}

func newCubicModel(S *System) (*cubicModel, error) {
	ret := new(cubicModel)
	ret.comps = make([]cubicComp, len(S.subs))
	for i, s := range S.subs {
		c := s.EOS.(*Cubic)
		if c.Tc <= 0 || c.Pc <= 0 {
			return nil, newError(KindInvalidState, "newCubicModel", "substance %d has no critical constants in its cubic block", s.ID)
		}
		k := cubicConsts[c.Kind]
		ret.kind = c.Kind
		ret.d1, ret.d2, ret.zc = k[2], k[3], k[4]
		ret.comps[i] = cubicComp{
			ac:    k[0] * R * R * c.Tc * c.Tc / c.Pc,
			b:     k[1] * R * c.Tc / c.Pc,
			tc:    c.Tc,
			m:     soaveM(c.Kind, c.Omega),
			alpha: c.Alpha,
			coef:  c.AlphaCoef,
			shift: c.Shift,
		}
	}
	ret.kij = S.kij
	ret.rule = S.mixRule
	if ret.rule == MixHuronVidal {
		act, err := S.activity()
		if err != nil {
			return nil, errDecorate(err, "newCubicModel")
		}
		ret.act = act
		ret.hvLambda = math.Log((1+ret.d1)/(1+ret.d2)) / (ret.d1 - ret.d2)
	}
	return ret, nil
}

//kT returns the temperature-dependent k_ij.
func kT(kij *ParamMatrix, i, j int, T hd) hd {
	k := hc(kij.Slot(i, j, 0))
	if s := kij.Slot(i, j, 1); s != 0 {
		k = hadd(k, hscale(s, T))
	}
	if s := kij.Slot(i, j, 2); s != 0 {
		k = hadd(k, hscale(s, hinv(T)))
	}
	return k
}

//mix returns the total attractive parameter D = n^2 a, the total covolume B = n b and the total
//volume translation C.
func (c *cubicModel) mix(T hd, n []hd) (D, B, C hd) {
	N := hsum(n)
	a := make([]hd, len(n))
	B = hc(0)
	C = hc(0)
	for i := range c.comps {
		a[i] = hscale(c.comps[i].ac, c.comps[i].alphaT(T))
		C = hadd(C, hscale(c.comps[i].shift, n[i]))
	}
	hasL := false
	for i := range c.comps {
		for j := range c.comps {
			if c.kij.Slot(i, j, 3) != 0 {
				hasL = true
			}
		}
	}
	if hasL && c.rule != MixHuronVidal {
		for i := range c.comps {
			for j := range c.comps {
				bij := 0.5 * (c.comps[i].b + c.comps[j].b) * (1 - c.kij.Slot(i, j, 3))
				B = hadd(B, hscale(bij, hmul(n[i], n[j])))
			}
		}
		B = hdiv(B, N)
	} else {
		for i := range c.comps {
			B = hadd(B, hscale(c.comps[i].b, n[i]))
		}
	}
	D = hc(0)
	switch c.rule {
	case MixHuronVidal:
		sum := hc(0)
		for i := range c.comps {
			sum = hadd(sum, hmul(n[i], hscale(1/c.comps[i].b, a[i])))
		}
		ge := c.act.GE(T, n) //n gE/RT
		D = hmul(B, hsub(sum, hscale(R/c.hvLambda, hmul(T, ge))))
	default:
		for i := range c.comps {
			for j := range c.comps {
				k := kT(c.kij, i, j, T)
				if c.rule == MixPanagiotopoulosReid {
					kji := kT(c.kij, j, i, T)
					k = hadd(k, hmul(hsub(kji, k), hdiv(n[i], N)))
				}
				aij := hmul(hsqrt(hmul(a[i], a[j])), hsub(hc(1), k))
				D = hadd(D, hmul(aij, hmul(n[i], n[j])))
			}
		}
	}
	return D, B, C
}

//F for a generic two-parameter cubic.
func (c *cubicModel) F(T, V hd, n []hd) hd {
	N := hsum(n)
	D, B, C := c.mix(T, n)
	Ve := hadd(V, C)
	rep := hscale(-1, hmul(N, hlog(hsub(hc(1), hdiv(B, Ve)))))
	var att hd
	if c.d1 == c.d2 {
		att = hdiv(D, hscale(R, hmul(T, Ve)))
	} else {
		l := hlog(hdiv(hadd(Ve, hscale(c.d1, B)), hadd(Ve, hscale(c.d2, B))))
		att = hdiv(hmul(D, l), hscale(R*(c.d1-c.d2), hmul(T, B)))
	}
	ret := hsub(rep, att)
	if C.Real != 0 {
		ret = hsub(ret, hmul(N, hlog(hdiv(Ve, V))))
	}
	return ret
}

//volumeRoots solves the cubic in Z. The roots are the eigenvalues of the companion matrix.
func (c *cubicModel) volumeRoots(T, P float64, x []float64) ([]float64, bool) {
	D, B, C := c.mix(hc(T), hconsts(x))
	A := D.Real * P / (R * R * T * T)
	Bz := B.Real * P / (R * T)
	s, p := c.d1+c.d2, c.d1*c.d2
	c2 := (s-1)*Bz - 1
	c1 := A + p*Bz*Bz - s*Bz*(Bz+1)
	c0 := -(A*Bz + p*Bz*Bz*(Bz+1))
	zs := cubicRoots(c2, c1, c0)
	roots := make([]float64, 0, 3)
	for _, z := range zs {
		if z <= Bz {
			continue
		}
		v := z*R*T/P - C.Real
		if v <= 0 {
			continue
		}
		roots = append(roots, v)
	}
	sort.Float64s(roots)
	//the middle one of three roots is mechanically unstable.
	if len(roots) == 3 {
		roots = []float64{roots[0], roots[2]}
	}
	return roots, true
}

//cubicRoots returns the real roots of z^3 + c2 z^2 + c1 z + c0, polished with Newton steps.
func cubicRoots(c2, c1, c0 float64) []float64 {
	comp := mat.NewDense(3, 3, []float64{
		-c2, -c1, -c0,
		1, 0, 0,
		0, 1, 0,
	})
	f := func(z float64) (float64, float64) {
		return ((z+c2)*z+c1)*z + c0, (3*z+2*c2)*z + c1
	}
	var eig mat.Eigen
	ret := make([]float64, 0, 3)
	if !eig.Factorize(comp, mat.EigenNone) {
		return ret
	}
	for _, v := range eig.Values(nil) {
		z := real(v)
		if math.Abs(imag(v)) > 1e-7*math.Max(1, math.Abs(z)) {
			continue
		}
		for k := 0; k < 8; k++ {
			fz, dfz := f(z)
			if dfz == 0 {
				break
			}
			z -= fz / dfz
		}
		dup := false
		for _, w := range ret {
			if math.Abs(w-z) < 1e-10*math.Max(1, math.Abs(z)) {
				dup = true
			}
		}
		if !dup {
			ret = append(ret, z)
		}
	}
	return ret
}

func (c *cubicModel) minVolume(T float64, x []float64) float64 {
	_, B, C := c.mix(hc(T), hconsts(x))
	return B.Real - C.Real
}

func (c *cubicModel) liquidStart(T float64, x []float64) float64 {
	_, B, C := c.mix(hc(T), hconsts(x))
	return 1.2*B.Real - C.Real
}

//liquidLike compares with the pseudo-critical volume of the EOS, b*Zc/Omega_b.
func (c *cubicModel) liquidLike(T, v float64, x []float64) bool {
	_, B, C := c.mix(hc(T), hconsts(x))
	ob := cubicConsts[c.kind][1]
	return (v+C.Real)/B.Real < c.zc/ob
}
