/*
 * maps.go, part of gothermo.
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
	"github.com/spf13/cast"
)

//FromMap builds a SubstanceRecord from a loosely typed row, such as the ones
//returned by SQL drivers or CSV readers, where numbers may come as strings.
//Keys are case-insensitive and follow the json tags of SubstanceRecord and EOSRecord,
//so "tc", "family", "kind" or "sigma". Correlations use the keys
//"<property>.form", "<property>.coef", "<property>.tmin" and "<property>.tmax",
//where <property> is a name like "vapor_pressure". Unknown keys are ignored.
func FromMap(row map[string]any) (*SubstanceRecord, error) {
	const caller = "FromMap"
	R := new(SubstanceRecord)
	cors := make(map[string]*CorrelationRecord)
	floats := map[string]*float64{
		"mw": &R.MW, "tc": &R.Tc, "pc": &R.Pc, "vc": &R.Vc, "zc": &R.Zc, "omega": &R.Omega,
		"tb": &R.Tb, "tm": &R.Tm, "vliq": &R.VLiq, "shift": &R.EOS.Shift, "m": &R.EOS.M,
		"sigma": &R.EOS.Sigma, "epsilon": &R.EOS.Epsilon, "reducing_t": &R.EOS.ReducingT,
		"reducing_rho": &R.EOS.ReducingRho,
	}
	strs := map[string]*string{
		"name": &R.Name, "cas": &R.CAS, "formula": &R.Formula, "family": &R.EOS.Family,
		"kind": &R.EOS.Kind, "alpha": &R.EOS.Alpha,
	}
	for k, v := range row {
		key := strings.ToLower(strings.TrimSpace(k))
		if v == nil {
			continue
		}
		var err error
		switch {
		case key == "id":
			R.ID, err = cast.ToIntE(v)
		case floats[key] != nil:
			*floats[key], err = cast.ToFloat64E(v)
		case strs[key] != nil:
			*strs[key], err = cast.ToStringE(v)
		case key == "alpha_coef":
			R.EOS.AlphaCoef, err = toFloats(v)
		case strings.Contains(key, "."):
			err = corField(cors, key, v)
		}
		if err != nil {
			return nil, newError(fmt.Sprintf("key %s: %s", k, err.Error()), "", caller)
		}
	}
	for p := thermo.Property(0); p < thermo.NumProperties; p++ {
		if c, ok := cors[p.String()]; ok {
			R.Correlations = append(R.Correlations, *c)
		}
	}
	return R, nil
}

func corField(cors map[string]*CorrelationRecord, key string, v any) error {
	f := strings.SplitN(key, ".", 2)
	if _, ok := thermo.PropertyByName(f[0]); !ok {
		return nil
	}
	c, ok := cors[f[0]]
	if !ok {
		c = &CorrelationRecord{Property: f[0]}
		cors[f[0]] = c
	}
	var err error
	switch f[1] {
	case "form":
		c.Form, err = cast.ToIntE(v)
	case "coef":
		c.Coef, err = toFloats(v)
	case "tmin":
		c.Tmin, err = cast.ToFloat64E(v)
	case "tmax":
		c.Tmax, err = cast.ToFloat64E(v)
	}
	return err
}

//toFloats accepts slices of anything cast can turn into a float64, and
//strings with comma- or space-separated numbers.
func toFloats(v any) ([]float64, error) {
	switch t := v.(type) {
	case []float64:
		return append([]float64(nil), t...), nil
	case []string:
		items := make([]any, len(t))
		for i := range t {
			items[i] = t[i]
		}
		v = items
	}
	if s, ok := v.(string); ok {
		var items []any
		for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == ';' }) {
			items = append(items, f)
		}
		v = items
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, err
	}
	ret := make([]float64, len(items))
	for i, it := range items {
		if ret[i], err = cast.ToFloat64E(it); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
