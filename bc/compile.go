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

package bc

import (
	"github.com/gx-org/lark/build/fmterr"
	"github.com/gx-org/lark/build/ir"
	"github.com/gx-org/lark/build/symbol"
	"go.starlark.net/starlark"
)

type compiler struct {
	prog   *Program
	consts map[string]uint32
	errs   fmterr.Appender
}

// Compile a module into bytecode.
func Compile(mod *ir.Module) (*Program, error) {
	c := &compiler{
		prog: &Program{
			Filename: mod.Filename,
			Code:     make([]Instr, 0, 64),
			Symbols:  mod.Symbols,
		},
		consts: make(map[string]uint32),
	}
	c.stmts(mod.Stmts)
	c.emit(OpHalt, 0, ir.Span{})
	if !c.errs.Empty() {
		return nil, c.errs.Err()
	}
	return c.prog, nil
}

func (c *compiler) emit(op Opcode, arg uint32, span ir.Span) int {
	c.prog.Code = append(c.prog.Code, Instr{Op: op, Arg: arg, Span: span})
	return len(c.prog.Code) - 1
}

// patch sets the target of the jump at pc to the next instruction.
func (c *compiler) patch(pc int) {
	c.prog.Code[pc].Arg = uint32(len(c.prog.Code))
}

func (c *compiler) constant(v starlark.Value) uint32 {
	key := v.Type() + ":" + v.String()
	if idx, ok := c.consts[key]; ok {
		return idx
	}
	idx := uint32(len(c.prog.Consts))
	c.prog.Consts = append(c.prog.Consts, v)
	c.consts[key] = idx
	return idx
}

func (c *compiler) stmts(stmts []ir.Spanned[ir.Stmt]) {
	for _, stmt := range stmts {
		c.stmt(stmt)
	}
}

func (c *compiler) stmt(stmt ir.Spanned[ir.Stmt]) {
	switch s := stmt.Node.(type) {
	case *ir.Assign:
		c.expr(s.Value)
		c.emit(OpStore, uint32(s.Target.Sym), stmt.Span)
	case *ir.ExprStmt:
		c.expr(s.X)
		c.emit(OpPop, 0, stmt.Span)
	case *ir.If:
		if val, ok := s.Cond.Node.(*ir.Value); ok {
			// Only compile the branch that can be taken.
			if val.Val.Truth() {
				c.stmts(s.True)
			} else {
				c.stmts(s.False)
			}
			return
		}
		c.expr(s.Cond)
		toFalse := c.emit(OpJumpIfFalse, 0, s.Cond.Span)
		c.stmts(s.True)
		if len(s.False) == 0 {
			c.patch(toFalse)
			return
		}
		toEnd := c.emit(OpJump, 0, stmt.Span)
		c.patch(toFalse)
		c.stmts(s.False)
		c.patch(toEnd)
	case *ir.Pass:
	default:
		c.errs.AppendInternalf(stmt.Span.Start, "statement %T not supported", stmt.Node)
	}
}

func (c *compiler) exprs(exprs []ir.Spanned[ir.Expr]) {
	for _, expr := range exprs {
		c.expr(expr)
	}
}

func (c *compiler) expr(expr ir.Spanned[ir.Expr]) {
	span := expr.Span
	switch e := expr.Node.(type) {
	case *ir.Value:
		c.emit(OpConst, c.constant(e.Val), span)
	case *ir.Name:
		c.emit(OpLoad, uint32(e.ID.Sym), span)
	case *ir.Not:
		c.expr(e.X)
		c.emit(OpNot, 0, span)
	case *ir.And:
		c.expr(e.X)
		toEnd := c.emit(OpJumpIfFalseOrPop, 0, span)
		c.expr(e.Y)
		c.patch(toEnd)
	case *ir.Or:
		c.expr(e.X)
		toEnd := c.emit(OpJumpIfTrueOrPop, 0, span)
		c.expr(e.Y)
		c.patch(toEnd)
	case *ir.Seq:
		c.expr(e.X)
		c.emit(OpPop, 0, e.X.Span)
		c.expr(e.Y)
	case *ir.Unary:
		c.expr(e.X)
		c.emit(OpUnary, uint32(e.Op), span)
	case *ir.Binary:
		c.expr(e.X)
		c.expr(e.Y)
		c.emit(OpBinary, uint32(e.Op), span)
	case *ir.Cond:
		c.condExpr(span, e)
	case *ir.Tuple:
		c.exprs(e.Items)
		c.emit(OpTuple, uint32(len(e.Items)), span)
	case *ir.List:
		c.exprs(e.Items)
		c.emit(OpList, uint32(len(e.Items)), span)
	case *ir.Call:
		c.call(span, e)
	default:
		c.errs.AppendInternalf(span.Start, "expression %T not supported", expr.Node)
	}
}

func (c *compiler) condExpr(span ir.Span, e *ir.Cond) {
	if val, ok := e.Cond.Node.(*ir.Value); ok {
		if val.Val.Truth() {
			c.expr(e.True)
		} else {
			c.expr(e.False)
		}
		return
	}
	c.expr(e.Cond)
	toFalse := c.emit(OpJumpIfFalse, 0, e.Cond.Span)
	c.expr(e.True)
	toEnd := c.emit(OpJump, 0, span)
	c.patch(toFalse)
	c.expr(e.False)
	c.patch(toEnd)
}

// call pushes the callee and its arguments following the calling convention
// (see call.go) and emits the call instruction matching the shape of the call site.
func (c *compiler) call(span ir.Span, e *ir.Call) {
	c.expr(e.Fn)
	c.exprs(e.Args.Pos)
	names := make([]symbol.Named, len(e.Args.Named))
	for i, arg := range e.Args.Named {
		names[i] = arg.Name
		c.expr(arg.Value)
	}
	if e.Args.Args != nil {
		c.expr(*e.Args.Args)
	}
	if e.Args.Kwargs != nil {
		c.expr(*e.Args.Kwargs)
	}
	shape := NewCallArgs(len(e.Args.Pos), names, e.Args.Args != nil, e.Args.Kwargs != nil)
	op := OpCall
	if _, ok := shape.(*CallArgsPos); ok {
		op = OpCallPos
	}
	pc := c.emit(op, 0, span)
	c.prog.Code[pc].Call = shape
}
