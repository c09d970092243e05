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

// Package interp executes lark bytecode.
//
// Values, and the functions called by a program, are provided by
// go.starlark.net/starlark.
package interp

import (
	"github.com/gx-org/lark/bc"
	"github.com/gx-org/lark/build/fmterr"
	"github.com/gx-org/lark/build/symbol"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"golang.org/x/exp/maps"
)

var log = commonlog.GetLogger("lark.interp")

const defaultStackCapacity = 32

type (
	// Options of an interpreter.
	Options struct {
		// Predeclared are the names, in addition to starlark.Universe,
		// available to all programs.
		Predeclared starlark.StringDict
		// Print is called by the print builtin. Use the starlark default if nil.
		Print func(thread *starlark.Thread, msg string)
		// Trace logs every instruction executed at debug level.
		Trace bool
		// MaxSteps is the maximum number of instructions executed by a program.
		// No limit if 0.
		MaxSteps int
	}

	// Interpreter runs compiled programs.
	// An interpreter is not modified by running a program and can run
	// several programs concurrently.
	Interpreter struct {
		opts        Options
		predeclared starlark.StringDict
	}
)

// New returns a new interpreter.
func New(opts Options) *Interpreter {
	return &Interpreter{
		opts:        opts,
		predeclared: maps.Clone(opts.Predeclared),
	}
}

// frame is the state of a running program.
type frame struct {
	itrp    *Interpreter
	prog    *bc.Program
	thread  *starlark.Thread
	stack   *bc.Stack
	globals *Globals
	steps   int
}

// Run executes a program and returns its global variables.
func (itrp *Interpreter) Run(prog *bc.Program) (*Globals, error) {
	fr := &frame{
		itrp: itrp,
		prog: prog,
		thread: &starlark.Thread{
			Name:  prog.Filename,
			Print: itrp.opts.Print,
		},
		stack:   bc.NewStack(defaultStackCapacity),
		globals: newGlobals(prog.Symbols),
	}
	if err := fr.run(); err != nil {
		return fr.globals, err
	}
	log.Debugf("%s: %d instructions executed", prog.Filename, fr.steps)
	return fr.globals, nil
}

func (fr *frame) run() error {
	code := fr.prog.Code
	for pc := 0; pc < len(code); {
		instr := code[pc]
		fr.steps++
		if fr.itrp.opts.MaxSteps > 0 && fr.steps > fr.itrp.opts.MaxSteps {
			return &EvalError{Span: instr.Span, Err: errors.Errorf("too many steps: limit of %d instructions reached", fr.itrp.opts.MaxSteps)}
		}
		if fr.itrp.opts.Trace {
			log.Debugf("%s %s", instr.Span, fr.prog.Disasm(pc))
		}
		pc++
		switch instr.Op {
		case bc.OpHalt:
			return nil
		case bc.OpConst:
			fr.stack.Push(fr.prog.Consts[instr.Arg])
		case bc.OpLoad:
			v, err := fr.load(symbol.Symbol(instr.Arg))
			if err != nil {
				return &EvalError{Span: instr.Span, Err: err}
			}
			fr.stack.Push(v)
		case bc.OpStore:
			fr.globals.vals.Store(symbol.Symbol(instr.Arg), fr.stack.Pop())
		case bc.OpPop:
			fr.stack.Pop()
		case bc.OpNot:
			fr.stack.Push(!fr.stack.Pop().Truth())
		case bc.OpUnary:
			x := fr.stack.Pop()
			v, err := starlark.Unary(syntax.Token(instr.Arg), x)
			if err != nil {
				return &EvalError{Span: instr.Span, Err: err}
			}
			fr.stack.Push(v)
		case bc.OpBinary:
			y := fr.stack.Pop()
			x := fr.stack.Pop()
			v, err := binary(syntax.Token(instr.Arg), x, y)
			if err != nil {
				return &EvalError{Span: instr.Span, Err: err}
			}
			fr.stack.Push(v)
		case bc.OpTuple:
			fr.stack.Push(starlark.Tuple(fr.stack.PopN(int(instr.Arg))))
		case bc.OpList:
			fr.stack.Push(starlark.NewList(fr.stack.PopN(int(instr.Arg))))
		case bc.OpJump:
			pc = int(instr.Arg)
		case bc.OpJumpIfFalse:
			if !fr.stack.Pop().Truth() {
				pc = int(instr.Arg)
			}
		case bc.OpJumpIfTrue:
			if fr.stack.Pop().Truth() {
				pc = int(instr.Arg)
			}
		case bc.OpJumpIfFalseOrPop:
			if !fr.stack.Top().Truth() {
				pc = int(instr.Arg)
			} else {
				fr.stack.Pop()
			}
		case bc.OpJumpIfTrueOrPop:
			if fr.stack.Top().Truth() {
				pc = int(instr.Arg)
			} else {
				fr.stack.Pop()
			}
		case bc.OpCall:
			if err := fr.call(instr, instr.Call.(*bc.CallArgsFull).Bind(fr.stack)); err != nil {
				return err
			}
		case bc.OpCallPos:
			if err := fr.call(instr, instr.Call.(*bc.CallArgsPos).Bind(fr.stack)); err != nil {
				return err
			}
		default:
			return fmterr.Internal(errors.Errorf("%s: invalid opcode %s at %d", instr.Span, instr.Op, pc-1))
		}
	}
	return fmterr.Internal(errors.Errorf("%s: program does not end with %s", fr.prog.Filename, bc.OpHalt))
}

func (fr *frame) load(sym symbol.Symbol) (starlark.Value, error) {
	if v, ok := fr.globals.vals.Load(sym); ok {
		return v, nil
	}
	name := fr.prog.Symbols.Name(sym)
	if v, ok := fr.itrp.predeclared[name]; ok {
		return v, nil
	}
	if v, ok := starlark.Universe[name]; ok {
		return v, nil
	}
	return nil, errors.Errorf("undefined: %s", name)
}

// call invokes the callee below the arguments on the stack.
func (fr *frame) call(instr bc.Instr, args *bc.Arguments) error {
	fn := fr.stack.Pop()
	if fr.itrp.opts.Trace {
		log.Debugf("%s call %s(%s)", instr.Span, fn.String(), instr.Call.String())
	}
	pos, kwargs, err := args.Unpack()
	if err != nil {
		return &EvalError{Span: instr.Span, Err: errors.Wrapf(err, "in call to %s", fn.String())}
	}
	res, err := starlark.Call(fr.thread, fn, pos, kwargs)
	if err != nil {
		return &EvalError{Span: instr.Span, Err: err}
	}
	fr.stack.Push(res)
	return nil
}

func binary(op syntax.Token, x, y starlark.Value) (starlark.Value, error) {
	switch op {
	case syntax.EQL, syntax.NEQ, syntax.LT, syntax.LE, syntax.GT, syntax.GE:
		ok, err := starlark.Compare(op, x, y)
		if err != nil {
			return nil, err
		}
		return starlark.Bool(ok), nil
	}
	return starlark.Binary(op, x, y)
}
