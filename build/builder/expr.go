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
	"math/big"

	"github.com/gx-org/lark/build/ir"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// constants are the universal names compiled as literals.
var constants = map[string]starlark.Value{
	"True":  starlark.True,
	"False": starlark.False,
	"None":  starlark.None,
}

var binaryOps = map[syntax.Token]bool{
	syntax.PLUS:       true,
	syntax.MINUS:      true,
	syntax.STAR:       true,
	syntax.SLASH:      true,
	syntax.SLASHSLASH: true,
	syntax.PERCENT:    true,
	syntax.AMP:        true,
	syntax.PIPE:       true,
	syntax.CIRCUMFLEX: true,
	syntax.LTLT:       true,
	syntax.GTGT:       true,
	syntax.IN:         true,
	syntax.NOT_IN:     true,
	syntax.EQL:        true,
	syntax.NEQ:        true,
	syntax.LT:         true,
	syntax.GT:         true,
	syntax.LE:         true,
	syntax.GE:         true,
}

func (b *builder) processExprs(exprs []syntax.Expr) ([]ir.Spanned[ir.Expr], bool) {
	ok := true
	irExprs := make([]ir.Spanned[ir.Expr], len(exprs))
	for i, expr := range exprs {
		var exprOk bool
		irExprs[i], exprOk = b.processExpr(expr)
		ok = ok && exprOk
	}
	return irExprs, ok
}

func (b *builder) processExpr(expr syntax.Expr) (ir.Spanned[ir.Expr], bool) {
	span := ir.SpanOf(expr)
	switch e := expr.(type) {
	case *syntax.Ident:
		if val, ok := constants[e.Name]; ok {
			return ir.At[ir.Expr](span, &ir.Value{Val: val}), true
		}
		return ir.At[ir.Expr](span, &ir.Name{ID: b.symbols.Named(e.Name)}), true
	case *syntax.Literal:
		return b.processLiteral(span, e)
	case *syntax.ParenExpr:
		return b.processExpr(e.X)
	case *syntax.UnaryExpr:
		return b.processUnary(span, e)
	case *syntax.BinaryExpr:
		return b.processBinary(span, e)
	case *syntax.CondExpr:
		cond, condOk := b.processExpr(e.Cond)
		t, trueOk := b.processExpr(e.True)
		f, falseOk := b.processExpr(e.False)
		return ir.At[ir.Expr](span, &ir.Cond{
			Cond:  b.truth(cond),
			True:  t,
			False: f,
		}), condOk && trueOk && falseOk
	case *syntax.TupleExpr:
		items, ok := b.processExprs(e.List)
		return ir.At[ir.Expr](span, &ir.Tuple{Items: items}), ok
	case *syntax.ListExpr:
		items, ok := b.processExprs(e.List)
		return ir.At[ir.Expr](span, &ir.List{Items: items}), ok
	case *syntax.CallExpr:
		return b.processCall(span, e)
	}
	return ir.Spanned[ir.Expr]{}, b.errs.Appendf(span.Start, "%T expression not supported", expr)
}

func (b *builder) processLiteral(span ir.Span, lit *syntax.Literal) (ir.Spanned[ir.Expr], bool) {
	var val starlark.Value
	switch v := lit.Value.(type) {
	case string:
		if lit.Token == syntax.BYTES {
			val = starlark.Bytes(v)
		} else {
			val = starlark.String(v)
		}
	case int64:
		val = starlark.MakeInt64(v)
	case *big.Int:
		val = starlark.MakeBigInt(v)
	case float64:
		val = starlark.Float(v)
	default:
		return ir.Spanned[ir.Expr]{}, b.errs.AppendInternalf(span.Start, "literal %s of type %T not supported", lit.Raw, lit.Value)
	}
	return ir.At[ir.Expr](span, &ir.Value{Val: val}), true
}

func (b *builder) processUnary(span ir.Span, e *syntax.UnaryExpr) (ir.Spanned[ir.Expr], bool) {
	switch e.Op {
	case syntax.NOT:
		x, ok := b.processExpr(e.X)
		return b.truth(ir.At[ir.Expr](span, &ir.Not{X: x})), ok
	case syntax.MINUS, syntax.PLUS, syntax.TILDE:
		x, ok := b.processExpr(e.X)
		return ir.At[ir.Expr](span, &ir.Unary{Op: e.Op, X: x}), ok
	}
	return ir.Spanned[ir.Expr]{}, b.errs.Appendf(e.OpPos, "unexpected %s", e.Op)
}

func (b *builder) processBinary(span ir.Span, e *syntax.BinaryExpr) (ir.Spanned[ir.Expr], bool) {
	if e.Op != syntax.AND && e.Op != syntax.OR && !binaryOps[e.Op] {
		return ir.Spanned[ir.Expr]{}, b.errs.Appendf(e.OpPos, "operator %s not supported", e.Op)
	}
	x, xOk := b.processExpr(e.X)
	y, yOk := b.processExpr(e.Y)
	ok := xOk && yOk
	switch e.Op {
	case syntax.AND:
		return ir.At[ir.Expr](span, &ir.And{X: x, Y: y}), ok
	case syntax.OR:
		return ir.At[ir.Expr](span, &ir.Or{X: x, Y: y}), ok
	}
	return ir.At[ir.Expr](span, &ir.Binary{Op: e.Op, X: x, Y: y}), ok
}
