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

// PureBool reports whether evaluating an expression has no observable effect,
// cannot fail, and yields a value whose truth is known at compile time.
// If so, it returns that truth value and true.
//
// Names, calls and operators other than not/and/or are never pure:
// loading an unbound name or applying an operator to the wrong type fails at run time.
func PureBool(e Expr) (val, known bool) {
	switch e := e.(type) {
	case *Value:
		return bool(e.Val.Truth()), true
	case *Tuple:
		return len(e.Items) > 0, allPure(e.Items)
	case *List:
		return len(e.Items) > 0, allPure(e.Items)
	case *Not:
		x, known := PureBool(e.X.Node)
		return !x, known
	case *And:
		x, known := PureBool(e.X.Node)
		if !known || !x {
			// Y is never evaluated when X is false.
			return false, known
		}
		return PureBool(e.Y.Node)
	case *Or:
		x, known := PureBool(e.X.Node)
		if !known || x {
			return x, known
		}
		return PureBool(e.Y.Node)
	case *Seq:
		if !IsPure(e.X.Node) {
			return false, false
		}
		return PureBool(e.Y.Node)
	case *Cond:
		c, known := PureBool(e.Cond.Node)
		if !known {
			return false, false
		}
		if c {
			return PureBool(e.True.Node)
		}
		return PureBool(e.False.Node)
	}
	return false, false
}

// IsPure returns true if evaluating the expression has no observable effect
// and cannot fail. In this IR, the truth value of a pure expression is always
// known at compile time (see PureBool).
func IsPure(e Expr) bool {
	_, pure := PureBool(e)
	return pure
}

func allPure(exprs []Spanned[Expr]) bool {
	for _, expr := range exprs {
		if !IsPure(expr.Node) {
			return false
		}
	}
	return true
}

// NewSeq returns an expression evaluating x for its effect then yielding y.
// x is dropped if it is pure.
func NewSeq(x, y Spanned[Expr]) Spanned[Expr] {
	if IsPure(x.Node) {
		return y
	}
	return At[Expr](x.Span.Merge(y.Span), &Seq{X: x, Y: y})
}
