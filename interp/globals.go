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

package interp

import (
	"strings"

	"github.com/gx-org/lark/base/ordered"
	"github.com/gx-org/lark/build/fmterr"
	"github.com/gx-org/lark/build/ir"
	"github.com/gx-org/lark/build/symbol"
	"go.starlark.net/starlark"
)

type (
	// Globals are the global variables of a program,
	// in the order in which they have been first assigned.
	Globals struct {
		symbols *symbol.Table
		vals    *ordered.Map[symbol.Symbol, starlark.Value]
	}

	// EvalError is an error raised while running a program.
	EvalError struct {
		Span ir.Span
		Err  error
	}
)

func newGlobals(symbols *symbol.Table) *Globals {
	return &Globals{
		symbols: symbols,
		vals:    ordered.NewMap[symbol.Symbol, starlark.Value](),
	}
}

// Get returns the value of a global variable.
func (g *Globals) Get(name string) (starlark.Value, bool) {
	sym, ok := g.symbols.Lookup(name)
	if !ok {
		return nil, false
	}
	return g.vals.Load(sym)
}

// Names returns the names of the global variables in assignment order.
func (g *Globals) Names() []string {
	names := make([]string, 0, g.vals.Len())
	for sym := range g.vals.Keys() {
		names = append(names, g.symbols.Name(sym))
	}
	return names
}

// StringDict returns the global variables as a Starlark dictionary.
func (g *Globals) StringDict() starlark.StringDict {
	dict := make(starlark.StringDict, g.vals.Len())
	for sym, val := range g.vals.All() {
		dict[g.symbols.Name(sym)] = val
	}
	return dict
}

// String returns one `name = value` line per global variable.
func (g *Globals) String() string {
	var b strings.Builder
	for sym, val := range g.vals.All() {
		b.WriteString(g.symbols.Name(sym))
		b.WriteString(" = ")
		b.WriteString(val.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Error returns the error prefixed with the position at which it occurred.
func (err *EvalError) Error() string {
	return fmterr.Position(err.Span.Start, err.Err).Error()
}

// Unwrap returns the underlying error.
func (err *EvalError) Unwrap() error {
	return err.Err
}
