/*
 * props.go, part of gothermo.
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

//Phase labels a phase or a phase hint.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseLiquid
	PhaseGas
	PhaseLiquid2 //second liquid phase
)

func (p Phase) String() string {
	switch p {
	case PhaseLiquid:
		return "liquid"
	case PhaseGas:
		return "gas"
	case PhaseLiquid2:
		return "liquid2"
	}
	return "unknown"
}

//IsLiquid returns true for both liquid phases.
func (p Phase) IsLiquid() bool { return p == PhaseLiquid || p == PhaseLiquid2 }

//IdealProps contains the ideal gas contributions at T and P, in J/mol and J/(mol K).
//The reference state is the one of the System.
type IdealProps struct {
	H0, S0, Cp0, Cv0 float64
}

//ThermoProps contains the properties of one phase. Residual properties are
//taken at the same T and P. The totals are only meaningful if HasIdeal is true.
//Values are molar, in SI units. ThermoProps values are never modified after they
//are returned.
type ThermoProps struct {
	T, P, V, Z float64
	Phase      Phase
	X          []float64 //mole fractions

	Ures, Hres, Sres, Gres, Ares float64
	Cvres, Cpres                 float64

	HasIdeal bool
	IdealProps
	U, H, S, G, A float64
	Cv, Cp        float64

	DPDT, DPDV float64
	LnPhi, Phi []float64
	PartialV   []float64 //partial molar volumes

	MW         float64 //g/mol
	JT         float64 //Joule-Thomson coefficient, K/Pa, needs HasIdeal
	KappaT     float64 //isothermal compressibility, 1/Pa
	SoundSpeed float64 //m/s, needs HasIdeal and MW
}

//Fugacity is the result of the single-phase primitive used by the equilibrium solvers.
type Fugacity struct {
	LnPhi []float64
	V     float64 //molar volume
	Phase Phase
}

//VolumeState tells which volume roots were found.
type VolumeState int

const (
	VolumeNone VolumeState = iota
	VolumeLiquid
	VolumeGas
	VolumeBoth //both a liquid and a gas root.
)

func (v VolumeState) String() string {
	return [...]string{"none", "liquid", "gas", "both"}[v]
}

//VolumeResult contains the molar volume roots at some T and P. A root that was
//not found is 0.
type VolumeResult struct {
	State  VolumeState
	Liquid float64
	Gas    float64
	//Stable is the phase with the lowest Gibbs energy, if there are
	//two roots, or the only one otherwise.
	Stable Phase
}

//Pick returns the volume for the phase hint, and the phase it corresponds to. When the requested branch has no
//root, the other one is returned. PhaseUnknown returns the stable root.
func (V *VolumeResult) Pick(hint Phase) (float64, Phase) {
	if hint == PhaseUnknown {
		hint = V.Stable
	}
	switch {
	case hint.IsLiquid() && V.Liquid > 0:
		return V.Liquid, PhaseLiquid
	case hint == PhaseGas && V.Gas > 0:
		return V.Gas, PhaseGas
	case V.Liquid > 0:
		return V.Liquid, PhaseLiquid
	}
	return V.Gas, PhaseGas
}
