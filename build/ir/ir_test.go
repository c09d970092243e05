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

package ir_test

import (
	"testing"

	"github.com/gx-org/lark/build/ir"
	"github.com/gx-org/lark/build/symbol"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	table    = symbol.NewTable()
	filename = "test.star"
)

func span(col int32) ir.Span {
	return ir.Span{
		Start: syntax.MakePosition(&filename, 1, col),
		End:   syntax.MakePosition(&filename, 1, col+1),
	}
}

func at(e ir.Expr) ir.Spanned[ir.Expr] {
	return ir.At(span(1), e)
}

func val(v starlark.Value) ir.Spanned[ir.Expr] {
	return at(&ir.Value{Val: v})
}

func name(s string) ir.Spanned[ir.Expr] {
	return at(&ir.Name{ID: table.Named(s)})
}

func call(fn string) ir.Spanned[ir.Expr] {
	return at(&ir.Call{Fn: name(fn)})
}

func and(x, y ir.Spanned[ir.Expr]) ir.Spanned[ir.Expr] {
	return at(&ir.And{X: x, Y: y})
}

func or(x, y ir.Spanned[ir.Expr]) ir.Spanned[ir.Expr] {
	return at(&ir.Or{X: x, Y: y})
}

func not(x ir.Spanned[ir.Expr]) ir.Spanned[ir.Expr] {
	return at(&ir.Not{X: x})
}

func TestPureBool(t *testing.T) {
	tests := []struct {
		expr       ir.Spanned[ir.Expr]
		val, known bool
	}{
		{expr: val(starlark.True), val: true, known: true},
		{expr: val(starlark.None), val: false, known: true},
		{expr: val(starlark.String("")), val: false, known: true},
		{expr: val(starlark.MakeInt(3)), val: true, known: true},
		{expr: name("x")},
		{expr: call("f")},
		{expr: not(val(starlark.False)), val: true, known: true},
		{expr: not(name("x"))},
		{expr: and(val(starlark.True), val(starlark.MakeInt(1))), val: true, known: true},
		{expr: and(val(starlark.False), call("f")), val: false, known: true},
		{expr: and(call("f"), val(starlark.False))},
		{expr: or(val(starlark.True), call("f")), val: true, known: true},
		{expr: or(val(starlark.False), val(starlark.False)), val: false, known: true},
		{expr: or(val(starlark.False), name("x"))},
		{expr: not(or(and(val(starlark.True), val(starlark.False)), not(val(starlark.None)))), val: false, known: true},
		{expr: at(&ir.Tuple{}), val: false, known: true},
		{expr: at(&ir.Tuple{Items: []ir.Spanned[ir.Expr]{val(starlark.None)}}), val: true, known: true},
		{expr: at(&ir.List{Items: []ir.Spanned[ir.Expr]{call("f")}})},
		{expr: at(&ir.Seq{X: val(starlark.None), Y: val(starlark.True)}), val: true, known: true},
		{expr: at(&ir.Seq{X: call("f"), Y: val(starlark.True)})},
		{expr: at(&ir.Cond{Cond: val(starlark.True), True: val(starlark.MakeInt(0)), False: call("f")}), val: false, known: true},
		{expr: at(&ir.Cond{Cond: name("c"), True: val(starlark.True), False: val(starlark.True)})},
		{expr: at(&ir.Binary{Op: syntax.PLUS, X: val(starlark.MakeInt(1)), Y: val(starlark.MakeInt(1))})},
		{expr: at(&ir.Unary{Op: syntax.MINUS, X: val(starlark.MakeInt(1))})},
	}
	for i, test := range tests {
		gotVal, gotKnown := ir.PureBool(test.expr.Node)
		if gotKnown != test.known || (gotKnown && gotVal != test.val) {
			t.Errorf("test %d: PureBool(%s) = %t, %t but want %t, %t", i, test.expr.Node, gotVal, gotKnown, test.val, test.known)
		}
		if ir.IsPure(test.expr.Node) != test.known {
			t.Errorf("test %d: IsPure(%s) = %t but want %t", i, test.expr.Node, !test.known, test.known)
		}
	}
}

func TestNewSeq(t *testing.T) {
	y := val(starlark.False)
	if got := ir.NewSeq(val(starlark.None), y); got.Node != y.Node {
		t.Errorf("pure expression not dropped: got %s but want %s", got.Node, y.Node)
	}
	x := ir.At[ir.Expr](span(1), &ir.Call{Fn: name("f")})
	y = ir.At[ir.Expr](span(10), &ir.Value{Val: starlark.False})
	got := ir.NewSeq(x, y)
	seq, ok := got.Node.(*ir.Seq)
	if !ok {
		t.Fatalf("incorrect node: got %T but want %T", got.Node, seq)
	}
	if seq.X.Node != x.Node || seq.Y.Node != y.Node {
		t.Errorf("incorrect sequence: got %s", seq)
	}
	if got.Span.Start != x.Span.Start || got.Span.End != y.Span.End {
		t.Errorf("incorrect span: got %v but want %v", got.Span, x.Span.Merge(y.Span))
	}
}

func TestString(t *testing.T) {
	args := ir.CallArgs{
		Pos:   []ir.Spanned[ir.Expr]{val(starlark.MakeInt(1))},
		Named: []ir.NamedArg{{Name: table.Named("k"), Value: val(starlark.String("v"))}},
	}
	varargs := name("a")
	kwargs := name("kw")
	args.Args = &varargs
	args.Kwargs = &kwargs
	tests := []struct {
		expr ir.Expr
		want string
	}{
		{expr: not(name("x")).Node, want: "not x"},
		{expr: and(name("x"), or(name("y"), val(starlark.None))).Node, want: "(x and (y or None))"},
		{expr: &ir.Seq{X: call("f"), Y: val(starlark.False)}, want: "seq(f(), False)"},
		{expr: &ir.Unary{Op: syntax.MINUS, X: name("x")}, want: "-x"},
		{expr: &ir.Binary{Op: syntax.NOT_IN, X: name("x"), Y: name("y")}, want: "(x not in y)"},
		{expr: &ir.Cond{Cond: name("c"), True: name("t"), False: name("f")}, want: "(t if c else f)"},
		{expr: &ir.Tuple{Items: []ir.Spanned[ir.Expr]{name("a")}}, want: "(a,)"},
		{expr: &ir.Tuple{}, want: "()"},
		{expr: &ir.List{Items: []ir.Spanned[ir.Expr]{name("a"), name("b")}}, want: "[a, b]"},
		{expr: &ir.Call{Fn: name("f"), Args: args}, want: `f(1, k="v", *a, **kw)`},
	}
	for i, test := range tests {
		if got := test.expr.String(); got != test.want {
			t.Errorf("test %d: got %q but want %q", i, got, test.want)
		}
	}
	if got := args.Len(); got != 4 {
		t.Errorf("incorrect number of arguments: got %d but want 4", got)
	}
}

func TestModuleString(t *testing.T) {
	mod := &ir.Module{
		Symbols: table,
		Stmts: []ir.Spanned[ir.Stmt]{
			ir.At[ir.Stmt](span(1), &ir.Assign{Target: table.Named("x"), Value: val(starlark.MakeInt(1))}),
			ir.At[ir.Stmt](span(1), &ir.If{
				Cond: name("x"),
				True: []ir.Spanned[ir.Stmt]{
					ir.At[ir.Stmt](span(1), &ir.ExprStmt{X: call("f")}),
				},
				False: []ir.Spanned[ir.Stmt]{
					ir.At[ir.Stmt](span(1), &ir.If{Cond: name("y")}),
				},
			}),
			ir.At[ir.Stmt](span(1), &ir.Pass{}),
		},
	}
	want := `x = 1
if x:
    f()
else:
    if y:
        pass
pass
`
	if got := mod.String(); got != want {
		t.Errorf("incorrect module:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
