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

// Package irbool lowers expressions whose value is only used for its
// truth (conditions, operands of not) into smaller equivalent expressions.
//
// The transformation never changes which expressions with effects are
// evaluated, how many times, or in which order.
package irbool

import (
	"fmt"

	"github.com/gx-org/lark/build/fmterr"
	"github.com/gx-org/lark/build/ir"
	"github.com/pkg/errors"
)

type (
	// Node is the result of lowering an expression to a boolean:
	// either Const or Residual.
	Node interface {
		boolNode()
	}

	// Const is a truth value known at compile time.
	// Computing it has no effect left to run.
	Const bool

	// Residual is an expression which needs to be evaluated at run time.
	Residual struct {
		Expr ir.Expr
	}

	// Expr is a boolean node with its source span.
	Expr struct {
		Span ir.Span
		Node Node
	}
)

var (
	_ Node = Const(false)
	_ Node = Residual{}
)

func (Const) boolNode()    {}
func (Residual) boolNode() {}

func newConst(span ir.Span, b bool) Expr {
	return Expr{Span: span, Node: Const(b)}
}

func newResidual(span ir.Span, expr ir.Expr) Expr {
	return Expr{Span: span, Node: Residual{Expr: expr}}
}

// ConstValue returns the truth value of the expression if it is known at compile time.
func (e Expr) ConstValue() (val, known bool) {
	c, ok := e.Node.(Const)
	return bool(c), ok
}

// IntoExpr lowers the boolean back to a general expression.
// A constant becomes a boolean literal. A residual expression is returned unchanged.
func (e Expr) IntoExpr() ir.Spanned[ir.Expr] {
	switch n := e.Node.(type) {
	case Const:
		return ir.Bool(e.Span, bool(n))
	case Residual:
		return ir.At(e.Span, n.Expr)
	}
	panic(fmterr.Internal(errors.Errorf("unknown boolean node %T", e.Node)))
}

// String representation of the node.
func (e Expr) String() string {
	switch n := e.Node.(type) {
	case Const:
		if n {
			return "True"
		}
		return "False"
	case Residual:
		return n.Expr.String()
	}
	return fmt.Sprintf("%T", e.Node)
}

// New computes the truth value of an expression and does trivial optimizations.
func New(expr ir.Spanned[ir.Expr]) Expr {
	span := expr.Span
	if b, ok := ir.PureBool(expr.Node); ok {
		return newConst(span, b)
	}
	switch e := expr.Node.(type) {
	case *ir.Not:
		x := New(e.X)
		if b, ok := x.ConstValue(); ok {
			return newConst(span, !b)
		}
		return newResidual(span, &ir.Not{X: x.IntoExpr()})
	case *ir.And:
		return newAnd(span, New(e.X), New(e.Y))
	case *ir.Or:
		// Mirror of newAnd. Not folded into a single function to keep both readable.
		return newOr(span, New(e.X), New(e.Y))
	}
	return newResidual(span, expr.Node)
}

func newAnd(span ir.Span, x, y Expr) Expr {
	xVal, xConst := x.ConstValue()
	yVal, yConst := y.ConstValue()
	switch {
	case xConst && !xVal:
		return newConst(span, false)
	case xConst && xVal:
		return y
	case yConst && yVal:
		return x
	case yConst && !yVal:
		// The expression is false but x still needs to be evaluated for its effect.
		seq := ir.NewSeq(x.IntoExpr(), newConst(y.Span, false).IntoExpr())
		return newResidual(span, seq.Node)
	}
	return newResidual(span, &ir.And{X: x.IntoExpr(), Y: y.IntoExpr()})
}

func newOr(span ir.Span, x, y Expr) Expr {
	xVal, xConst := x.ConstValue()
	yVal, yConst := y.ConstValue()
	switch {
	case xConst && xVal:
		return newConst(span, true)
	case xConst && !xVal:
		return y
	case yConst && !yVal:
		return x
	case yConst && yVal:
		// The expression is true but x still needs to be evaluated for its effect.
		seq := ir.NewSeq(x.IntoExpr(), newConst(y.Span, true).IntoExpr())
		return newResidual(span, seq.Node)
	}
	return newResidual(span, &ir.Or{X: x.IntoExpr(), Y: y.IntoExpr()})
}
