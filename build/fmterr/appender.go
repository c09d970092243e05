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
	"go.starlark.net/syntax"
	"go.uber.org/multierr"
)

// Appender accumulates errors.
// The zero value is ready to use.
type Appender struct {
	errs error
}

// Append an error to the list of errors.
// Always returns false so that callers can write `return app.Append(err)`
// from functions reporting success.
func (app *Appender) Append(err error) bool {
	app.errs = multierr.Append(app.errs, err)
	return false
}

// Appendf appends an error at a position.
func (app *Appender) Appendf(pos syntax.Position, format string, a ...any) bool {
	return app.Append(Errorf(pos, format, a...))
}

// AppendInternalf appends an internal error at a position.
func (app *Appender) AppendInternalf(pos syntax.Position, format string, a ...any) bool {
	return app.Append(Internalf(pos, format, a...))
}

// Empty returns true if no errors has been appended.
func (app *Appender) Empty() bool {
	return app.errs == nil
}

// Errors returns the list of errors that has been appended.
func (app *Appender) Errors() []error {
	return multierr.Errors(app.errs)
}

// Err returns all the errors combined in a single error or nil if no errors has been appended.
func (app *Appender) Err() error {
	return app.errs
}
