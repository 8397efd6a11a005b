/*
 * system.go, part of gothermo.
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
	"fmt"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

//MixingRule selects how pure-component EOS parameters are combined.
type MixingRule int

const (
	//MixVdW is the classical van der Waals one-fluid rule. EOS interaction slots:
	//0,1,2: k_ij(T) = s0 + s1*T + s2/T; 3: l_ij for the covolume.
	//SAFT uses the same k_ij(T) for the dispersion energy. Multiparameter equations use
	//s0 as k_T and s1 as k_v in the reducing functions.
	MixVdW MixingRule = iota
	//MixPanagiotopoulosReid is the asymmetric rule k_ij - (k_ij - k_ji)*x_i (cubic only).
	MixPanagiotopoulosReid
	//MixHuronVidal obtains a/b from the excess Gibbs energy of the activity model (cubic only).
	MixHuronVidal
)

var mixingRuleNames = [...]string{"vdw", "panagiotopoulos-reid", "huron-vidal"}

func (m MixingRule) String() string {
	if m < 0 || int(m) >= len(mixingRuleNames) {
		return fmt.Sprintf("MixingRule(%d)", int(m))
	}
	return mixingRuleNames[m]
}

//ActivityModel selects the activity coefficient model.
type ActivityModel int

const (
	ActNone ActivityModel = iota
	//ActNRTL slots: tau_ij = s0 + s1/T + s2*lnT + s3*T; alpha_ij = s4 (0 means 0.3)
	ActNRTL
	//ActWilson slots: Lambda_ij = (V_j/V_i) exp(-(s0 + s1/T)), V from Substance.VLiq
	ActWilson
)

var activityModelNames = [...]string{"none", "nrtl", "wilson"}

func (a ActivityModel) String() string {
	if a < 0 || int(a) >= len(activityModelNames) {
		return fmt.Sprintf("ActivityModel(%d)", int(a))
	}
	return activityModelNames[a]
}

const (
	defaultRefT = 298.15
	defaultRefP = 101325.0
)

//Options contains the configuration of a System.
type Options struct {
	//Capacity is the number of substances for which storage is allocated
	//up front. The storage grows as needed beyond it.
	Capacity int
	//MaxSubstances is a hard limit on the number of substances. 0 means no limit.
	MaxSubstances int
	RefT          float64 //reference state for enthalpy and entropy
	RefP          float64
	Logger        *zap.Logger
}

//DefaultOptions returns options for a dynamically growing system with the usual
//reference state of 298.15 K and 1 atm.
func DefaultOptions() *Options {
	return &Options{Capacity: 4, RefT: defaultRefT, RefP: defaultRefP, Logger: zap.NewNop()}
}

//System is a mixture container. It owns copies of the substances it contains, the
//binary interaction parameters for the EOS and for the activity model, and evaluates
//the thermodynamic properties of the mixture. It provides no locking, callers must not
//modify a System while it is being evaluated.
type System struct {
	subs     []*Substance
	family   EOSFamily
	maxSubs  int
	mixRule  MixingRule
	kij      *ParamMatrix
	actModel ActivityModel
	act      *ParamMatrix
	refT     float64
	refP     float64
	log      *zap.Logger
	model    residualModel //built lazily, nil after every mutation
	psat     *cache.Cache  //EOS saturation pressures
}

//NewSystem returns an empty system configured with opts. If opts is nil, DefaultOptions is used.
func NewSystem(opts *Options) *System {
	if opts == nil {
		opts = DefaultOptions()
	}
	S := new(System)
	c := opts.Capacity
	if opts.MaxSubstances > 0 && c > opts.MaxSubstances {
		c = opts.MaxSubstances
	}
	S.subs = make([]*Substance, 0, c)
	S.maxSubs = opts.MaxSubstances
	S.kij = NewParamMatrix(0, NumIntParams, c)
	S.act = NewParamMatrix(0, NumIntParams, c)
	S.refT, S.refP = opts.RefT, opts.RefP
	if S.refT <= 0 {
		S.refT = defaultRefT
	}
	if S.refP <= 0 {
		S.refP = defaultRefP
	}
	S.log = opts.Logger
	if S.log == nil {
		S.log = zap.NewNop()
	}
	S.psat = cache.New(cache.NoExpiration, 0)
	return S
}

//Len returns the number of active substances.
func (S *System) Len() int { return len(S.subs) }

//Family returns the EOS family shared by the substances of the system.
func (S *System) Family() EOSFamily { return S.family }

//MixingRule returns the mixing rule in use.
func (S *System) MixingRule() MixingRule { return S.mixRule }

//ActivityModel returns the activity model in use.
func (S *System) ActivityModel() ActivityModel { return S.actModel }

//Reference returns the reference temperature and pressure for enthalpy and entropy.
func (S *System) Reference() (T, P float64) { return S.refT, S.refP }

//SetReference sets the reference state for enthalpy and entropy.
func (S *System) SetReference(T, P float64) error {
	if T <= 0 || P <= 0 {
		return newError(KindInvalidState, "System.SetReference", "reference state must be positive, got T=%g P=%g", T, P)
	}
	S.refT, S.refP = T, P
	return nil
}

//Substance returns a copy of the substance at position i.
func (S *System) Substance(i int) (*Substance, error) {
	if err := S.checkPos(i); err != nil {
		return nil, errDecorate(err, "System.Substance")
	}
	return S.subs[i].Copy(), nil
}

//Position returns the position of the substance with the given id, or -1 if
//it is not in the system.
func (S *System) Position(id int) int {
	for i, v := range S.subs {
		if v.ID == id {
			return i
		}
	}
	return -1
}

//Critical returns the critical temperature and pressure and the acentric factor of
//the substance at position i. It panics if i is out of range.
func (S *System) Critical(i int) (Tc, Pc, omega float64) {
	return S.subs[i].critical()
}

func (S *System) checkPos(pos int) error {
	if pos < 0 || pos >= len(S.subs) {
		return newError(KindIndex, "System.checkPos", "position %d out of range [0,%d)", pos, len(S.subs))
	}
	return nil
}

//compatible checks that s can be part of the system. skip is a position to ignore
//(the substance being replaced) or -1.
func (S *System) compatible(s *Substance, skip int) error {
	if s == nil {
		return newError(KindInvalidState, "System.compatible", "nil substance")
	}
	f := s.Family()
	others := len(S.subs)
	if skip >= 0 {
		others--
	}
	if others > 0 && f != S.family {
		return newError(KindInvalidState, "System.compatible", "substance %d (%s) uses a %s EOS, the system uses %s", s.ID, s.Name, f, S.family)
	}
	if S.mixRule != MixVdW && f != FamilyCubic {
		return newError(KindInvalidState, "System.compatible", "the %s rule requires a cubic EOS, substance %d uses %s", S.mixRule, s.ID, f)
	}
	if c, ok := s.EOS.(*Cubic); ok {
		for i, v := range S.subs {
			if i == skip {
				continue
			}
			if c2 := v.EOS.(*Cubic); c2.Kind != c.Kind {
				return newError(KindInvalidState, "System.compatible", "substance %d uses %s, the system uses %s", s.ID, c.Kind, c2.Kind)
			}
		}
		if S.mixRule == MixHuronVidal && c.Kind == VdW {
			return newError(KindInvalidState, "System.compatible", "the Huron-Vidal rule can't be used with the van der Waals EOS")
		}
	}
	return nil
}

//changed invalidates everything derived from the composition of the system.
func (S *System) changed() {
	S.model = nil
	S.psat.Flush()
}

//AddSubstance appends a copy of s to the system. The interaction parameters of the new
//substance with every other one are zero. It fails, leaving the system unchanged, if the
//EOS family of s doesn't match the system's, or if the system already has MaxSubstances members.
func (S *System) AddSubstance(s *Substance) error {
	if S.maxSubs > 0 && len(S.subs) >= S.maxSubs {
		return newError(KindCapacity, "System.AddSubstance", "the system is limited to %d substances", S.maxSubs)
	}
	if err := S.compatible(s, -1); err != nil {
		return errDecorate(err, "System.AddSubstance")
	}
	pos := len(S.subs)
	//Insert can't fail with pos==Len, and both matrices always have the same Len as subs.
	if err := S.kij.Insert(pos); err != nil {
		panic(err.Error())
	}
	if err := S.act.Insert(pos); err != nil {
		panic(err.Error())
	}
	S.subs = append(S.subs, s.Copy())
	S.family = s.Family()
	S.changed()
	S.log.Debug("substance added", zap.Int("id", s.ID), zap.String("name", s.Name), zap.Int("position", pos))
	return nil
}

//DeleteSubstanceByPosition removes the substance at position pos. The following substances,
//and their interaction parameters, are shifted down by one position.
func (S *System) DeleteSubstanceByPosition(pos int) error {
	if err := S.checkPos(pos); err != nil {
		return errDecorate(err, "System.DeleteSubstanceByPosition")
	}
	if err := S.kij.Delete(pos); err != nil {
		panic(err.Error())
	}
	if err := S.act.Delete(pos); err != nil {
		panic(err.Error())
	}
	id := S.subs[pos].ID
	copy(S.subs[pos:], S.subs[pos+1:])
	S.subs[len(S.subs)-1] = nil
	S.subs = S.subs[:len(S.subs)-1]
	if len(S.subs) == 0 {
		S.family = FamilyIdeal
	}
	S.changed()
	S.log.Debug("substance deleted", zap.Int("id", id), zap.Int("position", pos))
	return nil
}

//DeleteSubstanceByID removes the first substance with the given id, as DeleteSubstanceByPosition does.
func (S *System) DeleteSubstanceByID(id int) error {
	pos := S.Position(id)
	if pos < 0 {
		return newError(KindNotFound, "System.DeleteSubstanceByID", "no substance with id %d", id)
	}
	return errDecorate(S.DeleteSubstanceByPosition(pos), "System.DeleteSubstanceByID")
}

//ModifySubstanceByPosition replaces the substance at pos with a copy of s. Every interaction
//parameter involving pos (row and column) is set to zero, as they were fitted for the old substance.
func (S *System) ModifySubstanceByPosition(pos int, s *Substance) error {
	if err := S.checkPos(pos); err != nil {
		return errDecorate(err, "System.ModifySubstanceByPosition")
	}
	if err := S.compatible(s, pos); err != nil {
		return errDecorate(err, "System.ModifySubstanceByPosition")
	}
	S.subs[pos] = s.Copy()
	S.family = s.Family()
	S.kij.ZeroRowCol(pos)
	S.act.ZeroRowCol(pos)
	S.changed()
	return nil
}

//ModifyIntParamEOS sets the EOS interaction parameters of the ordered pair (i,j).
//(j,i) is not modified, so callers using symmetric rules must set both.
func (S *System) ModifyIntParamEOS(i, j int, vals []float64) error {
	if err := S.kij.Set(i, j, vals); err != nil {
		return errDecorate(err, "System.ModifyIntParamEOS")
	}
	S.changed()
	return nil
}

//IntParamEOS returns a copy of the EOS interaction parameters of the pair (i,j).
func (S *System) IntParamEOS(i, j int) ([]float64, error) {
	r, err := S.kij.At(i, j)
	return r, errDecorate(err, "System.IntParamEOS")
}

//ModifyIntParamAct sets the activity model parameters of the ordered pair (i,j).
func (S *System) ModifyIntParamAct(i, j int, vals []float64) error {
	if err := S.act.Set(i, j, vals); err != nil {
		return errDecorate(err, "System.ModifyIntParamAct")
	}
	S.changed()
	return nil
}

//IntParamAct returns a copy of the activity model parameters of the pair (i,j).
func (S *System) IntParamAct(i, j int) ([]float64, error) {
	r, err := S.act.At(i, j)
	return r, errDecorate(err, "System.IntParamAct")
}

//EOSParams returns a copy of the whole EOS interaction matrix.
func (S *System) EOSParams() *ParamMatrix { return S.kij.Copy() }

//ActParams returns a copy of the whole activity model interaction matrix.
func (S *System) ActParams() *ParamMatrix { return S.act.Copy() }

//SetMixingRule sets the mixing rule for the EOS.
func (S *System) SetMixingRule(rule MixingRule) error {
	if rule < 0 || int(rule) >= len(mixingRuleNames) {
		return newError(KindInvalidState, "System.SetMixingRule", "unknown mixing rule %s", rule)
	}
	if rule != MixVdW && S.family != FamilyCubic && len(S.subs) > 0 {
		return newError(KindInvalidState, "System.SetMixingRule", "the %s rule requires a cubic EOS", rule)
	}
	if rule == MixHuronVidal && len(S.subs) > 0 && S.subs[0].EOS.(*Cubic).Kind == VdW {
		return newError(KindInvalidState, "System.SetMixingRule", "the Huron-Vidal rule can't be used with the van der Waals EOS")
	}
	S.mixRule = rule
	S.changed()
	return nil
}

//SetActivityModel sets the activity coefficient model used by Activity, PhiFromActivity and
//the Huron-Vidal mixing rule.
func (S *System) SetActivityModel(m ActivityModel) {
	S.actModel = m
	S.changed()
}
