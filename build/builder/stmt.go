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

package builder

import (
	"github.com/gx-org/lark/build/ir"
	"go.starlark.net/syntax"
)

func (b *builder) processStmts(stmts []syntax.Stmt) ([]ir.Spanned[ir.Stmt], bool) {
	ok := true
	irStmts := make([]ir.Spanned[ir.Stmt], 0, len(stmts))
	for _, stmt := range stmts {
		irStmt, stmtOk := b.processStmt(stmt)
		ok = ok && stmtOk
		if stmtOk {
			irStmts = append(irStmts, irStmt)
		}
	}
	return irStmts, ok
}

func (b *builder) processStmt(stmt syntax.Stmt) (ir.Spanned[ir.Stmt], bool) {
	span := ir.SpanOf(stmt)
	switch s := stmt.(type) {
	case *syntax.ExprStmt:
		x, ok := b.processExpr(s.X)
		return ir.At[ir.Stmt](span, &ir.ExprStmt{X: x}), ok
	case *syntax.AssignStmt:
		return b.processAssign(span, s)
	case *syntax.IfStmt:
		return b.processIf(span, s)
	case *syntax.BranchStmt:
		if s.Token == syntax.PASS {
			return ir.At[ir.Stmt](span, &ir.Pass{}), true
		}
		return ir.Spanned[ir.Stmt]{}, b.errs.Appendf(span.Start, "%s statement not supported", s.Token)
	}
	return ir.Spanned[ir.Stmt]{}, b.errs.Appendf(span.Start, "%T statement not supported", stmt)
}

func (b *builder) processAssign(span ir.Span, s *syntax.AssignStmt) (ir.Spanned[ir.Stmt], bool) {
	if s.Op != syntax.EQ {
		return ir.Spanned[ir.Stmt]{}, b.errs.Appendf(s.OpPos, "augmented assignment %s not supported", s.Op)
	}
	target, isIdent := s.LHS.(*syntax.Ident)
	if !isIdent {
		return ir.Spanned[ir.Stmt]{}, b.errs.Appendf(span.Start, "can only assign to a name")
	}
	targetOk := true
	if _, isConst := constants[target.Name]; isConst {
		targetOk = b.errs.Appendf(target.NamePos, "cannot assign to %s", target.Name)
	}
	value, valueOk := b.processExpr(s.RHS)
	return ir.At[ir.Stmt](span, &ir.Assign{
		Target: b.symbols.Named(target.Name),
		Value:  value,
	}), targetOk && valueOk
}

func (b *builder) processIf(span ir.Span, s *syntax.IfStmt) (ir.Spanned[ir.Stmt], bool) {
	cond, condOk := b.processExpr(s.Cond)
	trueStmts, trueOk := b.processStmts(s.True)
	falseStmts, falseOk := b.processStmts(s.False)
	return ir.At[ir.Stmt](span, &ir.If{
		Cond:  b.truth(cond),
		True:  trueStmts,
		False: falseStmts,
	}), condOk && trueOk && falseOk
}
