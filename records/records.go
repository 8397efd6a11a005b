/*
 * records.go, part of gothermo.
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

package records

import (
	"fmt"
	"strings"

	thermo "github.com/rmera/gothermo"
)

//CorrelationRecord is the flat form of a thermo.Correlation. Property is the name
//of the property slot, as given by thermo.Property.String().
type CorrelationRecord struct {
	Property string    `json:"property" yaml:"property"`
	Form     int       `json:"form" yaml:"form"`
	Coef     []float64 `json:"coef" yaml:"coef"`
	Tmin     float64   `json:"tmin,omitempty" yaml:"tmin,omitempty"`
	Tmax     float64   `json:"tmax,omitempty" yaml:"tmax,omitempty"`
}

//EOSRecord is the flat form of the EOS parameter block. Only the fields of the
//given family are meaningful. A cubic block takes the critical constants of the substance.
type EOSRecord struct {
	Family string `json:"family" yaml:"family"`
	//cubic
	Kind      string    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Alpha     string    `json:"alpha,omitempty" yaml:"alpha,omitempty"`
	AlphaCoef []float64 `json:"alpha_coef,omitempty" yaml:"alpha_coef,omitempty"`
	Shift     float64   `json:"shift,omitempty" yaml:"shift,omitempty"`
	//SAFT
	M       float64 `json:"m,omitempty" yaml:"m,omitempty"`
	Sigma   float64 `json:"sigma,omitempty" yaml:"sigma,omitempty"`
	Epsilon float64 `json:"epsilon,omitempty" yaml:"epsilon,omitempty"`
	//multiparameter, each term is n, d, t, l
	ReducingT   float64      `json:"reducing_t,omitempty" yaml:"reducing_t,omitempty"`
	ReducingRho float64      `json:"reducing_rho,omitempty" yaml:"reducing_rho,omitempty"`
	Terms       [][4]float64 `json:"terms,omitempty" yaml:"terms,omitempty"`
}

//SubstanceRecord is the flat form of a thermo.Substance, as stored by external
//databases and files.
type SubstanceRecord struct {
	ID           int                 `json:"id" yaml:"id"`
	Name         string              `json:"name" yaml:"name"`
	CAS          string              `json:"cas,omitempty" yaml:"cas,omitempty"`
	Formula      string              `json:"formula,omitempty" yaml:"formula,omitempty"`
	MW           float64             `json:"mw,omitempty" yaml:"mw,omitempty"`
	Tc           float64             `json:"tc,omitempty" yaml:"tc,omitempty"`
	Pc           float64             `json:"pc,omitempty" yaml:"pc,omitempty"`
	Vc           float64             `json:"vc,omitempty" yaml:"vc,omitempty"`
	Zc           float64             `json:"zc,omitempty" yaml:"zc,omitempty"`
	Omega        float64             `json:"omega,omitempty" yaml:"omega,omitempty"`
	Tb           float64             `json:"tb,omitempty" yaml:"tb,omitempty"`
	Tm           float64             `json:"tm,omitempty" yaml:"tm,omitempty"`
	VLiq         float64             `json:"vliq,omitempty" yaml:"vliq,omitempty"`
	EOS          EOSRecord           `json:"eos" yaml:"eos"`
	Correlations []CorrelationRecord `json:"correlations,omitempty" yaml:"correlations,omitempty"`
}

//PairRecord contains the interaction parameters of the pair of substances with
//IDs I and J. The pair is not symmetric, (I,J) and (J,I) are different records.
type PairRecord struct {
	I      int       `json:"i" yaml:"i"`
	J      int       `json:"j" yaml:"j"`
	Values []float64 `json:"values" yaml:"values"`
}

//File is the content of a substance file: the substances of a mixture, with
//the mixing rule, the activity model and the interaction parameters.
type File struct {
	MixingRule    string            `json:"mixing_rule,omitempty" yaml:"mixing_rule,omitempty"`
	ActivityModel string            `json:"activity_model,omitempty" yaml:"activity_model,omitempty"`
	Substances    []SubstanceRecord `json:"substances" yaml:"substances"`
	EOSPairs      []PairRecord      `json:"eos_pairs,omitempty" yaml:"eos_pairs,omitempty"`
	ActivityPairs []PairRecord      `json:"activity_pairs,omitempty" yaml:"activity_pairs,omitempty"`
}

var alphaNames = [...]string{"soave", "twu", "mathias-copeman"}

var cubicKinds = []thermo.CubicKind{thermo.PR76, thermo.PR78, thermo.SRK, thermo.VdW}

func parseKind(name string) (thermo.CubicKind, error) {
	if name == "" {
		return thermo.PR76, nil
	}
	for _, k := range cubicKinds {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown cubic equation %q", name)
}

func parseAlpha(name string) (thermo.AlphaKind, error) {
	if name == "" {
		return thermo.AlphaSoave, nil
	}
	for i, v := range alphaNames {
		if strings.EqualFold(v, name) {
			return thermo.AlphaKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown alpha function %q", name)
}

//ParseMixingRule returns the mixing rule with the given name. An empty name is the
//van der Waals rule.
func ParseMixingRule(name string) (thermo.MixingRule, error) {
	for _, r := range []thermo.MixingRule{thermo.MixVdW, thermo.MixPanagiotopoulosReid, thermo.MixHuronVidal} {
		if name == "" || strings.EqualFold(r.String(), name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown mixing rule %q", name)
}

//ParseActivityModel returns the activity model with the given name. An empty name
//means no model.
func ParseActivityModel(name string) (thermo.ActivityModel, error) {
	for _, a := range []thermo.ActivityModel{thermo.ActNone, thermo.ActNRTL, thermo.ActWilson} {
		if name == "" || strings.EqualFold(a.String(), name) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown activity model %q", name)
}

func (E *EOSRecord) params(s *thermo.Substance) (thermo.EOSParams, error) {
	switch strings.ToLower(E.Family) {
	case "", "ideal":
		return thermo.IdealGas{}, nil
	case "cubic":
		k, err := parseKind(E.Kind)
		if err != nil {
			return nil, err
		}
		a, err := parseAlpha(E.Alpha)
		if err != nil {
			return nil, err
		}
		c := &thermo.Cubic{Kind: k, Tc: s.Tc, Pc: s.Pc, Omega: s.Omega, Alpha: a, Shift: E.Shift}
		copy(c.AlphaCoef[:], E.AlphaCoef)
		return c, nil
	case "saft":
		if E.M <= 0 || E.Sigma <= 0 || E.Epsilon <= 0 {
			return nil, fmt.Errorf("invalid SAFT parameters m=%g sigma=%g epsilon=%g", E.M, E.Sigma, E.Epsilon)
		}
		return &thermo.SAFT{M: E.M, Sigma: E.Sigma, Epsilon: E.Epsilon}, nil
	case "multiparameter":
		mp := &thermo.MultiParameter{Tc: E.ReducingT, Rhoc: E.ReducingRho}
		if mp.Tc == 0 {
			mp.Tc = s.Tc
		}
		if len(E.Terms) == 0 || mp.Tc <= 0 || mp.Rhoc <= 0 {
			return nil, fmt.Errorf("incomplete multiparameter equation")
		}
		for _, t := range E.Terms {
			mp.Terms = append(mp.Terms, thermo.MPTerm{N: t[0], D: t[1], T: t[2], L: t[3]})
		}
		return mp, nil
	}
	return nil, fmt.Errorf("unknown EOS family %q", E.Family)
}

//ToSubstance builds a thermo.Substance from the record.
func (R *SubstanceRecord) ToSubstance() (*thermo.Substance, error) {
	s := thermo.NewSubstance()
	s.ID, s.Name, s.CAS, s.Formula = R.ID, R.Name, R.CAS, R.Formula
	s.MW, s.Tc, s.Pc, s.Vc, s.Zc, s.Omega = R.MW, R.Tc, R.Pc, R.Vc, R.Zc, R.Omega
	s.Tb, s.Tm, s.VLiq = R.Tb, R.Tm, R.VLiq
	var err error
	s.EOS, err = R.EOS.params(s)
	if err != nil {
		return nil, newError(err.Error(), "", "SubstanceRecord.ToSubstance")
	}
	for _, c := range R.Correlations {
		p, ok := thermo.PropertyByName(c.Property)
		if !ok {
			return nil, newError(fmt.Sprintf("unknown property %q in substance %d", c.Property, R.ID), "", "SubstanceRecord.ToSubstance")
		}
		if len(c.Coef) > thermo.NumCoef {
			return nil, newError(fmt.Sprintf("%d coefficients for %s, at most %d allowed", len(c.Coef), c.Property, thermo.NumCoef), "", "SubstanceRecord.ToSubstance")
		}
		cor := s.Correlation(p)
		cor.Form = thermo.CorrelationForm(c.Form)
		cor.Tmin, cor.Tmax = c.Tmin, c.Tmax
		copy(cor.Coef[:], c.Coef)
	}
	return s, nil
}

//lastNonZero returns the coefficients up to the last one that is not zero.
func lastNonZero(c []float64) []float64 {
	n := len(c)
	for n > 0 && c[n-1] == 0 {
		n--
	}
	return append([]float64(nil), c[:n]...)
}

//FromSubstance returns the record for s.
func FromSubstance(s *thermo.Substance) *SubstanceRecord {
	R := &SubstanceRecord{ID: s.ID, Name: s.Name, CAS: s.CAS, Formula: s.Formula, MW: s.MW,
		Tc: s.Tc, Pc: s.Pc, Vc: s.Vc, Zc: s.Zc, Omega: s.Omega, Tb: s.Tb, Tm: s.Tm, VLiq: s.VLiq}
	R.EOS.Family = s.Family().String()
	switch e := s.EOS.(type) {
	case *thermo.Cubic:
		R.EOS.Kind = e.Kind.String()
		R.EOS.Alpha = alphaNames[e.Alpha]
		R.EOS.AlphaCoef = lastNonZero(e.AlphaCoef[:])
		R.EOS.Shift = e.Shift
		//the cubic block may be the only place with the critical constants
		if R.Tc == 0 {
			R.Tc = e.Tc
		}
		if R.Pc == 0 {
			R.Pc = e.Pc
		}
		if R.Omega == 0 {
			R.Omega = e.Omega
		}
	case *thermo.SAFT:
		R.EOS.M, R.EOS.Sigma, R.EOS.Epsilon = e.M, e.Sigma, e.Epsilon
	case *thermo.MultiParameter:
		R.EOS.ReducingT, R.EOS.ReducingRho = e.Tc, e.Rhoc
		for _, t := range e.Terms {
			R.EOS.Terms = append(R.EOS.Terms, [4]float64{t.N, t.D, t.T, t.L})
		}
	}
	for p := thermo.Property(0); p < thermo.NumProperties; p++ {
		c := s.Correlation(p)
		if !c.Defined() {
			continue
		}
		R.Correlations = append(R.Correlations, CorrelationRecord{Property: p.String(), Form: int(c.Form),
			Coef: lastNonZero(c.Coef[:]), Tmin: c.Tmin, Tmax: c.Tmax})
	}
	return R
}

func applyPairs(S *thermo.System, pairs []PairRecord, set func(i, j int, v []float64) error, caller string) error {
	for _, p := range pairs {
		i, j := S.Position(p.I), S.Position(p.J)
		if i < 0 || j < 0 {
			return thermo.Decorate(fmt.Errorf("pair (%d,%d): substance not in the system", p.I, p.J), caller)
		}
		if err := set(i, j, p.Values); err != nil {
			return thermo.Decorate(err, caller)
		}
	}
	return nil
}

//ApplyEOSPairs sets the EOS interaction parameters of S from pairs. Substances are
//identified by ID.
func ApplyEOSPairs(S *thermo.System, pairs []PairRecord) error {
	return applyPairs(S, pairs, S.ModifyIntParamEOS, "ApplyEOSPairs")
}

//ApplyActivityPairs sets the activity model parameters of S from pairs.
func ApplyActivityPairs(S *thermo.System, pairs []PairRecord) error {
	return applyPairs(S, pairs, S.ModifyIntParamAct, "ApplyActivityPairs")
}

//System builds a thermo.System with the content of the file. opts can be nil.
func (F *File) System(opts *thermo.Options) (*thermo.System, error) {
	S := thermo.NewSystem(opts)
	for i := range F.Substances {
		s, err := F.Substances[i].ToSubstance()
		if err != nil {
			return nil, err
		}
		if err := S.AddSubstance(s); err != nil {
			return nil, thermo.Decorate(err, "File.System")
		}
	}
	rule, err := ParseMixingRule(F.MixingRule)
	if err != nil {
		return nil, newError(err.Error(), "", "File.System")
	}
	act, err := ParseActivityModel(F.ActivityModel)
	if err != nil {
		return nil, newError(err.Error(), "", "File.System")
	}
	S.SetActivityModel(act)
	if err := S.SetMixingRule(rule); err != nil {
		return nil, thermo.Decorate(err, "File.System")
	}
	if err := ApplyEOSPairs(S, F.EOSPairs); err != nil {
		return nil, err
	}
	if err := ApplyActivityPairs(S, F.ActivityPairs); err != nil {
		return nil, err
	}
	return S, nil
}

func pairsFrom(M *thermo.ParamMatrix, S *thermo.System) []PairRecord {
	var ret []PairRecord
	for i := 0; i < M.Len(); i++ {
		for j := 0; j < M.Len(); j++ {
			v, _ := M.At(i, j)
			v = lastNonZero(v)
			if i == j || len(v) == 0 {
				continue
			}
			si, _ := S.Substance(i)
			sj, _ := S.Substance(j)
			ret = append(ret, PairRecord{I: si.ID, J: sj.ID, Values: v})
		}
	}
	return ret
}

//FromSystem returns a File with the content of S. Only the pairs with some
//non-zero parameter are included.
func FromSystem(S *thermo.System) *File {
	F := &File{MixingRule: S.MixingRule().String(), ActivityModel: S.ActivityModel().String()}
	for i := 0; i < S.Len(); i++ {
		s, _ := S.Substance(i)
		F.Substances = append(F.Substances, *FromSubstance(s))
	}
	F.EOSPairs = pairsFrom(S.EOSParams(), S)
	F.ActivityPairs = pairsFrom(S.ActParams(), S)
	return F
}
