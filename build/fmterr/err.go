// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fmterr

import (
	"fmt"
	"runtime/debug"

	"github.com/pkg/errors"
	"go.starlark.net/syntax"
)

type (
	// ErrorWithPos is an error attached to a position in Starlark code.
	ErrorWithPos interface {
		error
		Pos() syntax.Position
		Err() error
	}

	errorWithPos struct {
		pos syntax.Position
		err error
	}

	internalError struct {
		err error
	}
)

// Position adds position information to an error.
func Position(pos syntax.Position, err error) ErrorWithPos {
	return errorWithPos{pos: pos, err: err}
}

// Errorf returns a formatted compiler error for the user.
func Errorf(pos syntax.Position, format string, a ...any) error {
	return Position(pos, errors.Errorf(format, a...))
}

// Internal marks an error as internal.
// An internal error is a bug in lark, not in the program being compiled.
func Internal(err error) error {
	return internalError{err: err}
}

// Internalf returns a formatted internal error at a position.
func Internalf(pos syntax.Position, format string, a ...any) error {
	return Internal(Errorf(pos, format, a...))
}

// IsInternal returns true if err, or an error it wraps, is an internal error.
func IsInternal(err error) bool {
	var internal internalError
	return errors.As(err, &internal)
}

// Error returns a string description of the error.
func (err errorWithPos) Error() (s string) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s = fmt.Sprintf("recovered from panic when building error message: %T:\n%v", err.err, string(debug.Stack()))
	}()
	if !err.pos.IsValid() {
		return err.err.Error()
	}
	return PosString(err.pos) + " " + err.err.Error()
}

// Unwrap the error.
func (err errorWithPos) Unwrap() error {
	return err.err
}

// Format writes the error into the state of the formatter.
func (err errorWithPos) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

func (err errorWithPos) Pos() syntax.Position {
	return err.pos
}

func (err errorWithPos) Err() error {
	return err.err
}

func (err internalError) Error() string {
	return "lark internal error. This is a bug in lark. Please report it. Error:\n" + err.err.Error()
}

func (err internalError) Unwrap() error {
	return err.err
}

func (err internalError) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

// PosString returns a position as a string that can be used for an error.
func PosString(pos syntax.Position) string {
	return pos.String() + ":"
}
