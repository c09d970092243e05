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

// processCall builds a call.
// Arguments must be written in the order: positional, named, *args, **kwargs.
// This is also the order in which they are evaluated and pushed on the stack.
func (b *builder) processCall(span ir.Span, e *syntax.CallExpr) (ir.Spanned[ir.Expr], bool) {
	fn, ok := b.processExpr(e.Fn)
	call := &ir.Call{Fn: fn}
	args := &call.Args
	seen := make(map[string]bool)
	for _, arg := range e.Args {
		pos, _ := arg.Span()
		if unary, isUnary := arg.(*syntax.UnaryExpr); isUnary && unary.Op == syntax.STARSTAR {
			if args.Kwargs != nil {
				ok = b.errs.Appendf(pos, "multiple **kwargs not allowed")
				continue
			}
			kwargs, kwargsOk := b.processExpr(unary.X)
			ok = ok && kwargsOk
			args.Kwargs = &kwargs
			continue
		}
		if unary, isUnary := arg.(*syntax.UnaryExpr); isUnary && unary.Op == syntax.STAR {
			switch {
			case args.Kwargs != nil:
				ok = b.errs.Appendf(pos, "*args may not follow **kwargs")
				continue
			case args.Args != nil:
				ok = b.errs.Appendf(pos, "multiple *args not allowed")
				continue
			}
			varargs, varargsOk := b.processExpr(unary.X)
			ok = ok && varargsOk
			args.Args = &varargs
			continue
		}
		if binary, isBinary := arg.(*syntax.BinaryExpr); isBinary && binary.Op == syntax.EQ {
			ok = b.processNamedArg(args, seen, pos, binary) && ok
			continue
		}
		switch {
		case args.Args != nil:
			ok = b.errs.Appendf(pos, "positional argument may not follow *args")
			continue
		case args.Kwargs != nil:
			ok = b.errs.Appendf(pos, "positional argument may not follow **kwargs")
			continue
		case len(args.Named) > 0:
			ok = b.errs.Appendf(pos, "positional argument may not follow named")
			continue
		}
		x, xOk := b.processExpr(arg)
		ok = ok && xOk
		args.Pos = append(args.Pos, x)
	}
	return ir.At[ir.Expr](span, call), ok
}

func (b *builder) processNamedArg(args *ir.CallArgs, seen map[string]bool, pos syntax.Position, binary *syntax.BinaryExpr) bool {
	switch {
	case args.Kwargs != nil:
		return b.errs.Appendf(pos, "keyword argument may not follow **kwargs")
	case args.Args != nil:
		return b.errs.Appendf(pos, "keyword argument may not follow *args")
	}
	name, isIdent := binary.X.(*syntax.Ident)
	if !isIdent {
		return b.errs.Appendf(pos, "keyword argument must be a name")
	}
	if seen[name.Name] {
		return b.errs.Appendf(name.NamePos, "keyword argument %q is repeated", name.Name)
	}
	seen[name.Name] = true
	value, ok := b.processExpr(binary.Y)
	args.Named = append(args.Named, ir.NamedArg{
		Name:  b.symbols.Named(name.Name),
		Value: value,
	})
	return ok
}
