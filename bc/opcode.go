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

import "fmt"

// Opcode is the operation of an instruction.
type Opcode uint8

const (
	// OpHalt stops the execution of the program.
	OpHalt Opcode = iota
	// OpConst pushes Program.Consts[Arg].
	OpConst
	// OpLoad pushes the value bound to the symbol Arg.
	OpLoad
	// OpStore pops a value and binds it to the symbol Arg.
	OpStore
	// OpPop discards the value on top of the stack.
	OpPop
	// OpNot replaces the value on top of the stack by the negation of its truth value.
	OpNot
	// OpUnary applies the unary operator Arg (a syntax.Token) to the top of the stack.
	OpUnary
	// OpBinary pops y then x and pushes `x Arg y`, Arg being a syntax.Token.
	OpBinary
	// OpTuple pops Arg values and pushes them as a tuple.
	OpTuple
	// OpList pops Arg values and pushes them as a list.
	OpList
	// OpJump jumps to Arg.
	OpJump
	// OpJumpIfFalse pops a value and jumps to Arg if it is false.
	OpJumpIfFalse
	// OpJumpIfTrue pops a value and jumps to Arg if it is true.
	OpJumpIfTrue
	// OpJumpIfFalseOrPop jumps to Arg, keeping the value on top of the stack, if it is false.
	// Otherwise, the value is popped.
	OpJumpIfFalseOrPop
	// OpJumpIfTrueOrPop jumps to Arg, keeping the value on top of the stack, if it is true.
	// Otherwise, the value is popped.
	OpJumpIfTrueOrPop
	// OpCall calls a function with arguments described by a *CallArgsFull.
	OpCall
	// OpCallPos calls a function with arguments described by a *CallArgsPos.
	OpCallPos

	numOpcodes
)

var opcodeNames = [...]string{
	OpHalt:             "HALT",
	OpConst:            "CONST",
	OpLoad:             "LOAD",
	OpStore:            "STORE",
	OpPop:              "POP",
	OpNot:              "NOT",
	OpUnary:            "UNARY",
	OpBinary:           "BINARY",
	OpTuple:            "TUPLE",
	OpList:             "LIST",
	OpJump:             "JUMP",
	OpJumpIfFalse:      "JUMP_IF_FALSE",
	OpJumpIfTrue:       "JUMP_IF_TRUE",
	OpJumpIfFalseOrPop: "JUMP_IF_FALSE_OR_POP",
	OpJumpIfTrueOrPop:  "JUMP_IF_TRUE_OR_POP",
	OpCall:             "CALL",
	OpCallPos:          "CALL_POS",
}

// String returns the name of the opcode.
func (op Opcode) String() string {
	if op < numOpcodes {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OPCODE(%d)", uint8(op))
}

// Valid returns true if the opcode is defined.
func (op Opcode) Valid() bool {
	return op < numOpcodes
}

// IsJump returns true if the argument of the opcode is a code address.
func (op Opcode) IsJump() bool {
	switch op {
	case OpJump, OpJumpIfFalse, OpJumpIfTrue, OpJumpIfFalseOrPop, OpJumpIfTrueOrPop:
		return true
	}
	return false
}
