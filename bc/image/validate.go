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

package image

import (
	"github.com/gx-org/lark/bc"
	"github.com/pkg/errors"
)

// validate checks that a decoded program can be run without failing
// on an invariant of the bytecode: every operand references an existing
// constant, symbol or instruction, and no instruction pops more values
// than the stack holds on any path.
func validate(prog *bc.Program) error {
	if len(prog.Code) == 0 || prog.Code[len(prog.Code)-1].Op != bc.OpHalt {
		return errors.Errorf("program does not end with %s", bc.OpHalt)
	}
	for pc, in := range prog.Code {
		if err := checkOperand(prog, in); err != nil {
			return errors.Wrapf(err, "instruction %d", pc)
		}
	}
	return checkStack(prog)
}

func checkOperand(prog *bc.Program, in bc.Instr) error {
	if !in.Op.Valid() {
		return errors.Errorf("invalid opcode %s", in.Op)
	}
	switch in.Op {
	case bc.OpConst:
		if int(in.Arg) >= len(prog.Consts) {
			return errors.Errorf("constant %d not defined in a pool of %d constants", in.Arg, len(prog.Consts))
		}
	case bc.OpLoad, bc.OpStore:
		if int(in.Arg) >= prog.Symbols.Len() {
			return errors.Errorf("symbol %d not defined in a table of %d symbols", in.Arg, prog.Symbols.Len())
		}
	case bc.OpCall:
		if _, ok := in.Call.(*bc.CallArgsFull); !ok {
			return errors.Errorf("%s requires a full call shape", in.Op)
		}
	case bc.OpCallPos:
		if _, ok := in.Call.(*bc.CallArgsPos); !ok {
			return errors.Errorf("%s requires a positional call shape", in.Op)
		}
	}
	if in.Op.IsJump() && int(in.Arg) >= len(prog.Code) {
		return errors.Errorf("jump to %d outside of a program of %d instructions", in.Arg, len(prog.Code))
	}
	return nil
}

// effect returns the number of values an instruction requires on the stack
// and the number of values it leaves in their place.
func effect(in bc.Instr) (pop, push int) {
	switch in.Op {
	case bc.OpConst, bc.OpLoad:
		return 0, 1
	case bc.OpStore, bc.OpPop, bc.OpJumpIfFalse, bc.OpJumpIfTrue:
		return 1, 0
	case bc.OpNot, bc.OpUnary:
		return 1, 1
	case bc.OpBinary:
		return 2, 1
	case bc.OpTuple, bc.OpList:
		return int(in.Arg), 1
	case bc.OpJumpIfFalseOrPop, bc.OpJumpIfTrueOrPop:
		// The value is kept when jumping: see checkStack.
		return 1, 0
	case bc.OpCall, bc.OpCallPos:
		return in.Call.StackSize() + 1, 1
	}
	return 0, 0
}

// checkStack computes the depth of the stack before every reachable
// instruction and checks that it is the same on every path.
func checkStack(prog *bc.Program) error {
	depths := make([]int, len(prog.Code))
	for i := range depths {
		depths[i] = -1
	}
	todo := []int{0}
	depths[0] = 0
	visit := func(pc, depth int) error {
		switch prev := depths[pc]; {
		case prev < 0:
			depths[pc] = depth
			todo = append(todo, pc)
		case prev != depth:
			return errors.Errorf("instruction %d reached with stack depths %d and %d", pc, prev, depth)
		}
		return nil
	}
	for len(todo) > 0 {
		pc := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		in := prog.Code[pc]
		if in.Op == bc.OpHalt {
			continue
		}
		depth := depths[pc]
		pop, push := effect(in)
		if pop > depth {
			return errors.Errorf("instruction %d: %s pops %d values from a stack of %d values", pc, in.Op, pop, depth)
		}
		next := depth - pop + push
		switch in.Op {
		case bc.OpJump:
			if err := visit(int(in.Arg), next); err != nil {
				return err
			}
			continue
		case bc.OpJumpIfFalse, bc.OpJumpIfTrue:
			if err := visit(int(in.Arg), next); err != nil {
				return err
			}
		case bc.OpJumpIfFalseOrPop, bc.OpJumpIfTrueOrPop:
			if err := visit(int(in.Arg), depth); err != nil {
				return err
			}
		}
		if pc+1 >= len(prog.Code) {
			return errors.Errorf("instruction %d: execution falls off the end of the program", pc)
		}
		if err := visit(pc+1, next); err != nil {
			return err
		}
	}
	return nil
}
