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

// Package ir is the lark Intermediate Representation (IR) tree.
// The tree is built by the builder [github.com/gx-org/lark/build/builder]
// from Starlark source code and compiled into bytecode by
// [github.com/gx-org/lark/bc].
//
// Every node of the tree owns its children: subtrees are never shared,
// so passes can rebuild a tree without copying.
package ir

import (
	"strings"

	"github.com/gx-org/lark/build/symbol"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ----------------------------------------------------------------------------
// Source spans.
type (
	// Span is the source interval from which a node has been built.
	Span struct {
		Start, End syntax.Position
	}

	// Spanned is a node with its source span.
	// Spans are propagated through every transformation of the tree,
	// never recomputed.
	Spanned[T any] struct {
		Span Span
		Node T
	}
)

// SpanOf returns the span of a syntax node.
func SpanOf(n syntax.Node) Span {
	start, end := n.Span()
	return Span{Start: start, End: end}
}

// Merge returns a span from the start of s to the end of other.
func (s Span) Merge(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

// String returns the start position of the span.
func (s Span) String() string {
	return s.Start.String()
}

// At attaches a span to a node.
func At[T any](span Span, node T) Spanned[T] {
	return Spanned[T]{Span: span, Node: node}
}

// ----------------------------------------------------------------------------
// Types of node in the tree.
type (
	// Node in the tree.
	Node interface {
		// node marks a structure as a node structure.
		// It prevents external implementations of the interface.
		node()
	}

	// Expr is an expression computing a value.
	Expr interface {
		Node
		String() string
		exprNode()
	}
)

// ----------------------------------------------------------------------------
// Expressions.
type (
	// Value is a frozen value known at compile time.
	Value struct {
		Val starlark.Value
	}

	// Name loads the value bound to an identifier.
	Name struct {
		ID symbol.Named
	}

	// Not is the negation of the truth value of its operand.
	Not struct {
		X Spanned[Expr]
	}

	// And evaluates X and, only if X is true, Y.
	// The value of the expression is the value of the last operand evaluated.
	And struct {
		X, Y Spanned[Expr]
	}

	// Or evaluates X and, only if X is false, Y.
	// The value of the expression is the value of the last operand evaluated.
	Or struct {
		X, Y Spanned[Expr]
	}

	// Seq evaluates X for its effect, discards its value, then evaluates Y.
	Seq struct {
		X, Y Spanned[Expr]
	}

	// Unary is an arithmetic operator with a single operand (+x, -x, ~x).
	Unary struct {
		Op syntax.Token
		X  Spanned[Expr]
	}

	// Binary is an operator with two operands, both always evaluated.
	Binary struct {
		Op   syntax.Token
		X, Y Spanned[Expr]
	}

	// Cond is a conditional expression: `True if Cond else False`.
	Cond struct {
		Cond, True, False Spanned[Expr]
	}

	// Tuple is a tuple display.
	Tuple struct {
		Items []Spanned[Expr]
	}

	// List is a list display.
	List struct {
		Items []Spanned[Expr]
	}

	// NamedArg is a keyword argument of a call.
	NamedArg struct {
		Name  symbol.Named
		Value Spanned[Expr]
	}

	// CallArgs are the arguments of a call site, as written in the source.
	CallArgs struct {
		Pos   []Spanned[Expr]
		Named []NamedArg
		// Args is the `*args` argument or nil.
		Args *Spanned[Expr]
		// Kwargs is the `**kwargs` argument or nil.
		Kwargs *Spanned[Expr]
	}

	// Call calls a function.
	Call struct {
		Fn   Spanned[Expr]
		Args CallArgs
	}
)

var (
	_ Expr = (*Value)(nil)
	_ Expr = (*Name)(nil)
	_ Expr = (*Not)(nil)
	_ Expr = (*And)(nil)
	_ Expr = (*Or)(nil)
	_ Expr = (*Seq)(nil)
	_ Expr = (*Unary)(nil)
	_ Expr = (*Binary)(nil)
	_ Expr = (*Cond)(nil)
	_ Expr = (*Tuple)(nil)
	_ Expr = (*List)(nil)
	_ Expr = (*Call)(nil)
)

// Bool returns a boolean literal.
func Bool(span Span, b bool) Spanned[Expr] {
	return At[Expr](span, &Value{Val: starlark.Bool(b)})
}

func (*Value) node()     {}
func (*Value) exprNode() {}

// String representation of the value.
func (e *Value) String() string {
	return e.Val.String()
}

func (*Name) node()     {}
func (*Name) exprNode() {}

// String returns the identifier.
func (e *Name) String() string {
	return e.ID.Name()
}

func (*Not) node()     {}
func (*Not) exprNode() {}

// String representation of the expression.
func (e *Not) String() string {
	return "not " + e.X.Node.String()
}

func (*And) node()     {}
func (*And) exprNode() {}

// String representation of the expression.
func (e *And) String() string {
	return "(" + e.X.Node.String() + " and " + e.Y.Node.String() + ")"
}

func (*Or) node()     {}
func (*Or) exprNode() {}

// String representation of the expression.
func (e *Or) String() string {
	return "(" + e.X.Node.String() + " or " + e.Y.Node.String() + ")"
}

func (*Seq) node()     {}
func (*Seq) exprNode() {}

// String representation of the expression.
func (e *Seq) String() string {
	return "seq(" + e.X.Node.String() + ", " + e.Y.Node.String() + ")"
}

func (*Unary) node()     {}
func (*Unary) exprNode() {}

// String representation of the expression.
func (e *Unary) String() string {
	return e.Op.String() + e.X.Node.String()
}

func (*Binary) node()     {}
func (*Binary) exprNode() {}

// String representation of the expression.
func (e *Binary) String() string {
	return "(" + e.X.Node.String() + " " + e.Op.String() + " " + e.Y.Node.String() + ")"
}

func (*Cond) node()     {}
func (*Cond) exprNode() {}

// String representation of the expression.
func (e *Cond) String() string {
	return "(" + e.True.Node.String() + " if " + e.Cond.Node.String() + " else " + e.False.Node.String() + ")"
}

func (*Tuple) node()     {}
func (*Tuple) exprNode() {}

// String representation of the expression.
func (e *Tuple) String() string {
	if len(e.Items) == 1 {
		return "(" + e.Items[0].Node.String() + ",)"
	}
	return "(" + joinExprs(e.Items) + ")"
}

func (*List) node()     {}
func (*List) exprNode() {}

// String representation of the expression.
func (e *List) String() string {
	return "[" + joinExprs(e.Items) + "]"
}

func (*Call) node()     {}
func (*Call) exprNode() {}

// String representation of the expression.
func (e *Call) String() string {
	return e.Fn.Node.String() + "(" + e.Args.String() + ")"
}

// Len returns the number of arguments written at the call site.
func (a *CallArgs) Len() int {
	n := len(a.Pos) + len(a.Named)
	if a.Args != nil {
		n++
	}
	if a.Kwargs != nil {
		n++
	}
	return n
}

// String representation of the arguments.
func (a *CallArgs) String() string {
	var args []string
	for _, arg := range a.Pos {
		args = append(args, arg.Node.String())
	}
	for _, arg := range a.Named {
		args = append(args, arg.Name.Name()+"="+arg.Value.Node.String())
	}
	if a.Args != nil {
		args = append(args, "*"+a.Args.Node.String())
	}
	if a.Kwargs != nil {
		args = append(args, "**"+a.Kwargs.Node.String())
	}
	return strings.Join(args, ", ")
}

func joinExprs(exprs []Spanned[Expr]) string {
	ss := make([]string, len(exprs))
	for i, expr := range exprs {
		ss[i] = expr.Node.String()
	}
	return strings.Join(ss, ", ")
}
