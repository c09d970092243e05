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

// Package symbol interns identifiers of a compilation unit.
//
// A Symbol is a small comparable handle: two identifiers with the same
// name compiled with the same table always get the same Symbol, so that
// argument names can be compared by identity at run time.
package symbol

import (
	"github.com/gx-org/lark/build/fmterr"
	"github.com/pkg/errors"
	"go.starlark.net/starlark"
)

type (
	// Symbol is an interned identifier.
	Symbol uint32

	// Named is an interned identifier together with its name
	// as an immutable Starlark string.
	Named struct {
		Sym Symbol
		Str starlark.String
	}

	// Table interns identifiers.
	// Tables are built during compilation and only read afterwards.
	Table struct {
		byName map[string]Symbol
		byID   []starlark.String
	}
)

// NewTable returns a new empty symbol table.
func NewTable() *Table {
	return &Table{byName: make(map[string]Symbol)}
}

// Intern returns the symbol of a name, creating it if needed.
func (t *Table) Intern(name string) Symbol {
	if sym, ok := t.byName[name]; ok {
		return sym
	}
	sym := Symbol(len(t.byID))
	t.byName[name] = sym
	t.byID = append(t.byID, starlark.String(name))
	return sym
}

// Named returns the symbol of a name and its interned string.
func (t *Table) Named(name string) Named {
	sym := t.Intern(name)
	return Named{Sym: sym, Str: t.byID[sym]}
}

// Lookup returns the symbol of a name if it has been interned.
func (t *Table) Lookup(name string) (Symbol, bool) {
	sym, ok := t.byName[name]
	return sym, ok
}

// Name returns the name of a symbol.
// It panics if the symbol does not belong to the table.
func (t *Table) Name(sym Symbol) string {
	if int(sym) >= len(t.byID) {
		panic(fmterr.Internal(errors.Errorf("symbol %d not defined in a table of %d symbols", sym, len(t.byID))))
	}
	return string(t.byID[sym])
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int {
	return len(t.byID)
}

// All returns all the symbols of the table, ordered by symbol.
func (t *Table) All() []Named {
	all := make([]Named, len(t.byID))
	for i, str := range t.byID {
		all[i] = Named{Sym: Symbol(i), Str: str}
	}
	return all
}

// Name returns the name as a Go string.
func (n Named) Name() string {
	return string(n.Str)
}

// String returns the name.
func (n Named) String() string {
	return string(n.Str)
}
