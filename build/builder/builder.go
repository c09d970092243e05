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

// Package builder builds a lark intermediate representation (IR).
// First, the Starlark source code is parsed with [go.starlark.net/syntax].
//
// This package then lowers the syntax tree into an [ir.Module]:
// identifiers are interned in the symbol table of the module and
// expressions only used for their truth value (conditions, operands
// of not) are simplified by [irbool].
//
// Errors are accumulated while building to report all of them to the user.
package builder

import (
	"github.com/gx-org/lark/build/fmterr"
	"github.com/gx-org/lark/build/ir"
	"github.com/gx-org/lark/build/ir/irbool"
	"github.com/gx-org/lark/build/symbol"
	"go.starlark.net/syntax"
)

type (
	// Options of the builder.
	Options struct {
		// Optimize simplifies expressions evaluated for their truth value.
		Optimize bool
	}

	builder struct {
		opts    Options
		symbols *symbol.Table
		errs    fmterr.Appender
	}
)

// DefaultOptions returns the options used by the lark command.
func DefaultOptions() Options {
	return Options{Optimize: true}
}

// fileOptions accepts if statements at the top-level of a module.
var fileOptions = &syntax.FileOptions{
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Build parses a Starlark source and builds its IR.
// src may be a string, a []byte, an io.Reader, or nil to read the file filename.
func Build(filename string, src any, opts Options) (*ir.Module, error) {
	f, err := fileOptions.Parse(filename, src, 0)
	if err != nil {
		return nil, err
	}
	return BuildFile(f, opts)
}

// BuildFile builds the IR of a parsed file.
func BuildFile(f *syntax.File, opts Options) (*ir.Module, error) {
	b := &builder{
		opts:    opts,
		symbols: symbol.NewTable(),
	}
	stmts, ok := b.processStmts(f.Stmts)
	if !ok {
		return nil, b.errs.Err()
	}
	return &ir.Module{
		Filename: f.Path,
		Symbols:  b.symbols,
		Stmts:    stmts,
	}, nil
}

// truth builds an expression evaluated only for its truth value.
func (b *builder) truth(expr ir.Spanned[ir.Expr]) ir.Spanned[ir.Expr] {
	if !b.opts.Optimize {
		return expr
	}
	return irbool.New(expr).IntoExpr()
}
