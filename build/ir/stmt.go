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

package ir

import (
	"strings"

	"github.com/gx-org/lark/build/symbol"
)

type (
	// Stmt is a statement.
	Stmt interface {
		Node
		stmtNode()
	}

	// Assign binds the value of an expression to a global name.
	Assign struct {
		Target symbol.Named
		Value  Spanned[Expr]
	}

	// ExprStmt evaluates an expression and discards its value.
	ExprStmt struct {
		X Spanned[Expr]
	}

	// If executes True if the truth value of Cond is true, False otherwise.
	If struct {
		Cond        Spanned[Expr]
		True, False []Spanned[Stmt]
	}

	// Pass does nothing.
	Pass struct{}

	// Module is a compiled source file.
	Module struct {
		Filename string
		// Symbols interns all the identifiers of the module.
		Symbols *symbol.Table
		Stmts   []Spanned[Stmt]
	}
)

var (
	_ Stmt = (*Assign)(nil)
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*If)(nil)
	_ Stmt = (*Pass)(nil)
)

func (*Assign) node()     {}
func (*Assign) stmtNode() {}

func (*ExprStmt) node()     {}
func (*ExprStmt) stmtNode() {}

func (*If) node()     {}
func (*If) stmtNode() {}

func (*Pass) node()     {}
func (*Pass) stmtNode() {}

// String returns the source-like representation of the module.
func (m *Module) String() string {
	var b strings.Builder
	writeStmts(&b, m.Stmts, "")
	return b.String()
}

func writeStmts(b *strings.Builder, stmts []Spanned[Stmt], indent string) {
	for _, stmt := range stmts {
		switch s := stmt.Node.(type) {
		case *Assign:
			b.WriteString(indent + s.Target.Name() + " = " + s.Value.Node.String() + "\n")
		case *ExprStmt:
			b.WriteString(indent + s.X.Node.String() + "\n")
		case *If:
			b.WriteString(indent + "if " + s.Cond.Node.String() + ":\n")
			writeBlock(b, s.True, indent+"    ")
			if len(s.False) > 0 {
				b.WriteString(indent + "else:\n")
				writeBlock(b, s.False, indent+"    ")
			}
		case *Pass:
			b.WriteString(indent + "pass\n")
		}
	}
}

func writeBlock(b *strings.Builder, stmts []Spanned[Stmt], indent string) {
	if len(stmts) == 0 {
		b.WriteString(indent + "pass\n")
		return
	}
	writeStmts(b, stmts, indent)
}
