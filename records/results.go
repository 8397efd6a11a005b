/*
 * results.go, part of gothermo.
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
	"encoding/json"
	"errors"
	"io"

	thermo "github.com/rmera/gothermo"
	"github.com/rmera/gothermo/equil"
)

//PhaseRecord is a ready-to-serialize container for the properties of one phase.
//The total properties are omitted when the ideal gas part was not available.
type PhaseRecord struct {
	Phase      string    `json:"phase"`
	T          float64   `json:"t"`
	P          float64   `json:"p"`
	V          float64   `json:"v"`
	Z          float64   `json:"z"`
	X          []float64 `json:"x"`
	Hres       float64   `json:"hres"`
	Sres       float64   `json:"sres"`
	Gres       float64   `json:"gres"`
	Cpres      float64   `json:"cpres"`
	H          *float64  `json:"h,omitempty"`
	S          *float64  `json:"s,omitempty"`
	G          *float64  `json:"g,omitempty"`
	Cp         *float64  `json:"cp,omitempty"`
	Cv         *float64  `json:"cv,omitempty"`
	SoundSpeed *float64  `json:"sound_speed,omitempty"`
	JT         *float64  `json:"jt,omitempty"`
	KappaT     float64   `json:"kappa_t"`
	LnPhi      []float64 `json:"lnphi"`
	PartialV   []float64 `json:"partial_v,omitempty"`
}

func fp(v float64) *float64 { return &v }

//NewPhaseRecord returns the record for the properties p.
func NewPhaseRecord(p *thermo.ThermoProps) *PhaseRecord {
	R := &PhaseRecord{Phase: p.Phase.String(), T: p.T, P: p.P, V: p.V, Z: p.Z, X: p.X,
		Hres: p.Hres, Sres: p.Sres, Gres: p.Gres, Cpres: p.Cpres, KappaT: p.KappaT,
		LnPhi: p.LnPhi, PartialV: p.PartialV}
	if p.HasIdeal {
		R.H, R.S, R.G = fp(p.H), fp(p.S), fp(p.G)
		R.Cp, R.Cv, R.JT = fp(p.Cp), fp(p.Cv), fp(p.JT)
		if p.MW > 0 {
			R.SoundSpeed = fp(p.SoundSpeed)
		}
	}
	return R
}

//Send Marshals the record and writes it to out.
func (R *PhaseRecord) Send(out io.Writer) error {
	return send(R, out, "PhaseRecord.Send")
}

//EquilibriumPhase is one phase in an EquilibriumRecord.
type EquilibriumPhase struct {
	Phase    string    `json:"phase"`
	Fraction *float64  `json:"fraction,omitempty"` //only for flashes
	X        []float64 `json:"x"`
	LnPhi    []float64 `json:"lnphi"`
	V        float64   `json:"v"`
}

//EquilibriumRecord is a ready-to-serialize container for the result of a
//bubble point, dew point or flash calculation.
type EquilibriumRecord struct {
	Calculation string             `json:"calculation"`
	T           float64            `json:"t"`
	P           float64            `json:"p"`
	Converged   bool               `json:"converged"`
	Iterations  int                `json:"iterations"`
	Phases      []EquilibriumPhase `json:"phases"`
}

//FromResult returns the record for a bubble or dew point result. calculation is a label
//for the kind of calculation, such as "BubbleT".
func FromResult(calculation string, r *equil.Result) *EquilibriumRecord {
	return &EquilibriumRecord{Calculation: calculation, T: r.T, P: r.P, Converged: r.Converged,
		Iterations: r.Iterations,
		Phases: []EquilibriumPhase{
			{Phase: thermo.PhaseGas.String(), X: r.Y, LnPhi: r.LnPhiG, V: r.VG},
			{Phase: thermo.PhaseLiquid.String(), X: r.X, LnPhi: r.LnPhiL, V: r.VL},
		}}
}

//FromFlash returns the record for a flash result.
func FromFlash(calculation string, r *equil.FlashResult) *EquilibriumRecord {
	R := &EquilibriumRecord{Calculation: calculation, T: r.T, P: r.P, Converged: r.Converged, Iterations: r.Iterations}
	for _, p := range r.Phases {
		R.Phases = append(R.Phases, EquilibriumPhase{Phase: p.Kind.String(), Fraction: fp(p.Fraction),
			X: p.X, LnPhi: p.LnPhi, V: p.V})
	}
	return R
}

//Send Marshals the record and writes it to out.
func (R *EquilibriumRecord) Send(out io.Writer) error {
	return send(R, out, "EquilibriumRecord.Send")
}

//ErrorRecord is an easily JSON-serializable form of the errors of this library.
type ErrorRecord struct {
	IsError  bool   `json:"is_error"`
	Kind     string `json:"kind,omitempty"`
	Critical bool   `json:"critical"`
	Message  string `json:"message"`
}

//NewErrorRecord returns the record for err. A nil err gives a record with IsError false.
func NewErrorRecord(err error) *ErrorRecord {
	if err == nil {
		return &ErrorRecord{}
	}
	R := &ErrorRecord{IsError: true, Critical: true, Message: err.Error()}
	var te *thermo.Error
	if errors.As(err, &te) {
		R.Kind = te.Kind().String()
		R.Critical = te.Critical()
	}
	return R
}

//Send Marshals the record and writes it to out.
func (R *ErrorRecord) Send(out io.Writer) error {
	return send(R, out, "ErrorRecord.Send")
}

func send(v any, out io.Writer, caller string) error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(v); err != nil {
		return newError(err.Error(), "", caller)
	}
	return nil
}
