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

package bc_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/lark/bc"
	"github.com/gx-org/lark/build/builder"
)

func compile(t *testing.T, src string) *bc.Program {
	t.Helper()
	mod, err := builder.Build("test.star", src, builder.DefaultOptions())
	if err != nil {
		t.Fatalf("cannot build:\n%s\nerror:\n%+v", src, err)
	}
	prog, err := bc.Compile(mod)
	if err != nil {
		t.Fatalf("cannot compile:\n%s\nerror:\n%+v", src, err)
	}
	return prog
}

func instructions(prog *bc.Program) []string {
	instrs := make([]string, len(prog.Code))
	for pc, instr := range prog.Code {
		instrs[pc] = strings.TrimSpace(instr.Op.String() + " " + prog.Operand(instr))
	}
	return instrs
}

func TestCompile(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{
			src: "x = f(1, a=2, *y, **z)",
			want: []string{
				"LOAD f",
				"CONST 0 (1)",
				"CONST 1 (2)",
				"LOAD y",
				"LOAD z",
				"CALL 1 a * **",
				"STORE x",
				"HALT",
			},
		},
		{
			src: "f(1, 2)",
			want: []string{
				"LOAD f",
				"CONST 0 (1)",
				"CONST 1 (2)",
				"CALL_POS 2",
				"POP",
				"HALT",
			},
		},
		{
			src: "if True:\n    x = 1\nelse:\n    x = 2\n",
			want: []string{
				"CONST 0 (1)",
				"STORE x",
				"HALT",
			},
		},
		{
			src: "if not (True or g()):\n    x = 1\n",
			want: []string{
				"HALT",
			},
		},
		{
			src: "if g() and False:\n    pass\n",
			want: []string{
				"LOAD g",
				"CALL_POS 0",
				"POP",
				"CONST 0 (False)",
				"JUMP_IF_FALSE 5",
				"HALT",
			},
		},
		{
			src: "if c:\n    x = 1\nelse:\n    x = 2\n",
			want: []string{
				"LOAD c",
				"JUMP_IF_FALSE 5",
				"CONST 0 (1)",
				"STORE x",
				"JUMP 7",
				"CONST 1 (2)",
				"STORE x",
				"HALT",
			},
		},
		{
			src: "x = a or b",
			want: []string{
				"LOAD a",
				"JUMP_IF_TRUE_OR_POP 3",
				"LOAD b",
				"STORE x",
				"HALT",
			},
		},
		{
			src: "x = a and b",
			want: []string{
				"LOAD a",
				"JUMP_IF_FALSE_OR_POP 3",
				"LOAD b",
				"STORE x",
				"HALT",
			},
		},
		{
			src: "x = 1 if c else 2",
			want: []string{
				"LOAD c",
				"JUMP_IF_FALSE 4",
				"CONST 0 (1)",
				"JUMP 5",
				"CONST 1 (2)",
				"STORE x",
				"HALT",
			},
		},
		{
			src: "x = -a + 1\ny = (a, 1)\nz = [not a]",
			want: []string{
				"LOAD a",
				"UNARY -",
				"CONST 0 (1)",
				"BINARY +",
				"STORE x",
				"LOAD a",
				"CONST 0 (1)",
				"TUPLE 2",
				"STORE y",
				"LOAD a",
				"NOT",
				"LIST 1",
				"STORE z",
				"HALT",
			},
		},
	}
	for i, test := range tests {
		got := instructions(compile(t, test.src))
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %d: incorrect bytecode for:\n%s\n(-want +got):\n%s", i, test.src, diff)
		}
	}
}

func TestCompileIfJumpTarget(t *testing.T) {
	// Jumps of an if statement without else target the instruction following the statement.
	got := instructions(compile(t, "if c:\n    x = 1\ny = 2\n"))
	want := []string{
		"LOAD c",
		"JUMP_IF_FALSE 4",
		"CONST 0 (1)",
		"STORE x",
		"CONST 1 (2)",
		"STORE y",
		"HALT",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("incorrect bytecode (-want +got):\n%s", diff)
	}
}

func TestDisasm(t *testing.T) {
	prog := compile(t, "x = f(1, a=2, *y, **z)")
	if got, want := prog.Disasm(5), "   5 CALL"+strings.Repeat(" ", 17)+"1 a * **"; got != want {
		t.Errorf("incorrect disassembly:\ngot:  %q\nwant: %q", got, want)
	}
	if got, want := prog.Disasm(7), "   7 HALT"; got != want {
		t.Errorf("incorrect disassembly:\ngot:  %q\nwant: %q", got, want)
	}
	if lines := strings.Count(prog.String(), "\n"); lines != len(prog.Code) {
		t.Errorf("disassembly has %d lines but the program has %d instructions", lines, len(prog.Code))
	}
}

func TestCallShapesAreValid(t *testing.T) {
	prog := compile(t, "f(a=1)\nf(1, 2, b=3, c=4, *x)\nf(**k)\nf()\n")
	for pc, instr := range prog.Code {
		switch shape := instr.Call.(type) {
		case *bc.CallArgsFull:
			if instr.Op != bc.OpCall {
				t.Errorf("instruction %d: full call shape %s used by %s", pc, shape, instr.Op)
			}
			if err := shape.Validate(); err != nil {
				t.Errorf("instruction %d: %v", pc, err)
			}
		case *bc.CallArgsPos:
			if instr.Op != bc.OpCallPos {
				t.Errorf("instruction %d: positional call shape %s used by %s", pc, shape, instr.Op)
			}
		}
	}
}
