/*
 * errors.go, part of gothermo.
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
	"errors"
	"fmt"
	"strings"

	"github.com/rmera/gothermo/solver"
)

//ErrorKind classifies the errors returned by this library.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindIndex
	KindNotFound
	KindCapacity
	KindConvergence
	KindInvalidState
)

func (k ErrorKind) String() string {
	switch k {
	case KindIndex:
		return "index"
	case KindNotFound:
		return "not found"
	case KindCapacity:
		return "capacity"
	case KindConvergence:
		return "convergence"
	case KindInvalidState:
		return "invalid state"
	}
	return "unknown"
}

//Error is the error type returned by gothermo. The Decorate method allows to add
//the names of the functions the error went through on its way up, without
//changing its type or wrapping it.
type Error struct {
	message  string
	kind     ErrorKind
	deco     []string
	critical bool
}

//Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrIndex        = &Error{kind: KindIndex}
	ErrNotFound     = &Error{kind: KindNotFound}
	ErrCapacity     = &Error{kind: KindCapacity}
	ErrConvergence  = &Error{kind: KindConvergence}
	ErrInvalidState = &Error{kind: KindInvalidState}
)

func newError(kind ErrorKind, caller, format string, a ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, a...), kind: kind, deco: []string{caller}, critical: true}
}

//Error returns a string with an error message.
func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("gothermo %s error: %s", err.kind, err.message)
	}
	return fmt.Sprintf("gothermo %s error in %s: %s", err.kind, strings.Join(err.deco, " <- "), err.message)
}

//Kind returns the class of the error.
func (err *Error) Kind() ErrorKind { return err.kind }

//Critical returns whether the error is critical or it can be ignored.
//Convergence errors are not critical, the caller can retry with another guess.
func (err *Error) Critical() bool { return err.critical }

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice. An empty string just returns the current slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Is allows errors.Is(err, ErrConvergence) and friends.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == err.kind && (t.message == "" || t.message == err.message)
}

//IsKind returns true if err is, or wraps, a gothermo error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == k
	}
	return false
}

//errDecorate adds the caller's name to a gothermo error. Errors from the
//solver package become convergence errors. Other errors are wrapped.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
		return e
	}
	var se solver.Error
	if errors.As(err, &se) && se.NotConverged() {
		ret := newError(KindConvergence, caller, "%s", se.Error())
		ret.critical = false
		return ret
	}
	return &Error{message: err.Error(), kind: KindUnknown, deco: []string{caller}, critical: true}
}

//ConvergenceError returns a non-critical convergence error. It is exported for
//the solvers living in other packages of this library.
func ConvergenceError(caller, format string, a ...interface{}) *Error {
	e := newError(KindConvergence, caller, format, a...)
	e.critical = false
	return e
}

//InvalidStateError returns an error for states that make a computation impossible.
func InvalidStateError(caller, format string, a ...interface{}) *Error {
	return newError(KindInvalidState, caller, format, a...)
}

//Decorate adds caller to err if it is a gothermo error, and turns
//solver errors into convergence errors. It is the exported version of errDecorate.
func Decorate(err error, caller string) error {
	return errDecorate(err, caller)
}
