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

// Package bc is the lark bytecode: instructions, the calling convention
// used by call instructions, and the compiler from IR to bytecode.
//
// A compiled program is immutable. Several interpreters can execute the
// same program concurrently.
package bc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gx-org/lark/build/ir"
	"github.com/gx-org/lark/build/symbol"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

type (
	// Instr is a bytecode instruction.
	Instr struct {
		Op  Opcode
		Arg uint32
		// Call is the shape of the arguments of OpCall and OpCallPos.
		Call CallArgs
		// Span of the source code from which the instruction has been compiled.
		Span ir.Span
	}

	// Program is a compiled module.
	Program struct {
		Filename string
		Code     []Instr
		// Consts are frozen values referenced by OpConst.
		Consts []starlark.Value
		// Symbols referenced by OpLoad and OpStore.
		Symbols *symbol.Table
	}
)

// Operand returns a description of the argument of an instruction.
func (p *Program) Operand(instr Instr) string {
	switch instr.Op {
	case OpConst:
		if int(instr.Arg) < len(p.Consts) {
			return fmt.Sprintf("%d (%s)", instr.Arg, p.Consts[instr.Arg].String())
		}
	case OpLoad, OpStore:
		if int(instr.Arg) < p.Symbols.Len() {
			return p.Symbols.Name(symbol.Symbol(instr.Arg))
		}
	case OpUnary, OpBinary:
		return syntax.Token(instr.Arg).String()
	case OpCall, OpCallPos:
		if instr.Call != nil {
			return instr.Call.String()
		}
	case OpPop, OpNot, OpHalt:
		return ""
	}
	return strconv.FormatUint(uint64(instr.Arg), 10)
}

// Disasm returns a string representation of an instruction.
func (p *Program) Disasm(pc int) string {
	instr := p.Code[pc]
	line := fmt.Sprintf("%4d %-20s %s", pc, instr.Op, p.Operand(instr))
	return strings.TrimRight(line, " ")
}

// String returns the disassembled program.
func (p *Program) String() string {
	var b strings.Builder
	for pc := range p.Code {
		b.WriteString(p.Disasm(pc))
		b.WriteByte('\n')
	}
	return b.String()
}
