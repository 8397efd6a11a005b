/*
 * substance.go, part of gothermo.
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

//Property names the correlation slots of a Substance.
type Property int

const (
	PropVaporPressure Property = iota //Pa
	PropCpIdealGas                    //J/(mol K)
	PropLiquidDensity                 //mol/m3
	PropGasDensity                    //mol/m3
	PropLiquidViscosity
	PropGasViscosity
	PropLiquidConductivity
	PropGasConductivity
	PropSurfaceTension
	PropVaporizationEnthalpy //J/mol
	PropLiquidCp             //J/(mol K)
	PropSolidDensity         //mol/m3
	PropSolidCp              //J/(mol K)
	NumProperties
)

var propNames = [NumProperties]string{"vapor_pressure", "cp_ideal_gas", "liquid_density", "gas_density",
	"liquid_viscosity", "gas_viscosity", "liquid_conductivity", "gas_conductivity", "surface_tension",
	"vaporization_enthalpy", "liquid_cp", "solid_density", "solid_cp"}

func (p Property) String() string {
	if p < 0 || p >= NumProperties {
		return "unknown"
	}
	return propNames[p]
}

//PropertyByName returns the Property with the given name, and false if
//there is none.
func PropertyByName(name string) (Property, bool) {
	for i, v := range propNames {
		if v == name {
			return Property(i), true
		}
	}
	return -1, false
}

//Substance contains the physical constants, the EOS parameters and the correlations of
//one chemical species. Substances are normally loaded by a persistence layer and handed to
//a System, which keeps its own copy.
type Substance struct {
	ID      int
	Name    string
	CAS     string
	Formula string
	MW      float64 //g/mol
	Tc      float64 //K
	Pc      float64 //Pa
	Vc      float64 //m3/mol
	Zc      float64
	Omega   float64 //acentric factor
	Tb      float64 //normal boiling point, K
	Tm      float64 //melting point, K
	VLiq    float64 //liquid molar volume at 298.15 K, m3/mol
	EOS     EOSParams
	Cor     [NumProperties]Correlation
}

//NewSubstance returns a zeroed substance tagged as an ideal gas.
func NewSubstance() *Substance {
	return &Substance{EOS: IdealGas{}}
}

//Family returns the EOS family of the substance. A nil EOS counts as ideal gas.
func (S *Substance) Family() EOSFamily {
	if S.EOS == nil {
		return FamilyIdeal
	}
	return S.EOS.Family()
}

//Copy returns a deep copy of the substance.
func (S *Substance) Copy() *Substance {
	if S == nil {
		panic("Attempted to copy a nil substance")
	}
	r := *S
	if S.EOS != nil {
		r.EOS = S.EOS.copyParams()
	} else {
		r.EOS = IdealGas{}
	}
	return &r
}

//Correlation returns a pointer to the correlation slot for the property p.
func (S *Substance) Correlation(p Property) *Correlation {
	return &S.Cor[p]
}

//HasCorrelation returns true if the slot for p contains a correlation.
func (S *Substance) HasCorrelation(p Property) bool {
	return S.Cor[p].Defined()
}

//Eval evaluates the correlation for the property p at temperature T.
//The second value is false if T is outside the validity range of the correlation.
func (S *Substance) Eval(p Property, T float64) (float64, bool, error) {
	c := &S.Cor[p]
	v, err := c.Eval(T)
	if err != nil {
		return 0, false, errDecorate(err, "Substance.Eval "+p.String())
	}
	return v, c.InRange(T), nil
}

//critical returns the critical constants, falling back to the cubic block
//when the base properties are missing.
func (S *Substance) critical() (Tc, Pc, w float64) {
	Tc, Pc, w = S.Tc, S.Pc, S.Omega
	if c, ok := S.EOS.(*Cubic); ok {
		if Tc == 0 {
			Tc = c.Tc
		}
		if Pc == 0 {
			Pc = c.Pc
		}
		if w == 0 {
			w = c.Omega
		}
	}
	if m, ok := S.EOS.(*MultiParameter); ok && Tc == 0 {
		Tc = m.Tc
	}
	return Tc, Pc, w
}
