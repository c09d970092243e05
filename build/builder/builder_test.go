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

package builder_test

import (
	"testing"

	"github.com/gx-org/lark/build/builder"
	"github.com/gx-org/lark/build/builder/testbuild"
	"github.com/gx-org/lark/build/ir"
)

func TestStatements(t *testing.T) {
	testbuild.Run(t,
		testbuild.Decl{
			Src: `x = 1`,
		},
		testbuild.Decl{
			Src: `
x = "a"
y = b"b"
z = 1.5
w = 123456789012345678901234567890
`,
			Want: `
x = "a"
y = b"b"
z = 1.5
w = 123456789012345678901234567890
`,
		},
		testbuild.Decl{
			Src: `
if x:
    f()
elif y:
    g()
else:
    pass
`,
			Want: `
if x:
    f()
else:
    if y:
        g()
    else:
        pass
`,
		},
		testbuild.Decl{
			Src: `
if x:
    pass
`,
		},
		testbuild.Decl{
			Src: `x = (None, True, False)`,
		},
	)
}

func TestBuildModule(t *testing.T) {
	mod, err := builder.Build("test.star", "x = f(a, k=b)\ny = x\n", builder.DefaultOptions())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if mod.Filename != "test.star" {
		t.Errorf("incorrect filename: got %q but want %q", mod.Filename, "test.star")
	}
	for _, name := range []string{"f", "a", "k", "b", "x", "y"} {
		if _, ok := mod.Symbols.Lookup(name); !ok {
			t.Errorf("symbol %s has not been interned", name)
		}
	}
	assign := mod.Stmts[1].Node.(*ir.Assign)
	load := assign.Value.Node.(*ir.Name)
	first := mod.Stmts[0].Node.(*ir.Assign)
	if load.ID != first.Target {
		t.Errorf("x is interned as %v and %v", first.Target, load.ID)
	}
	if pos := mod.Stmts[1].Span.Start; pos.Line != 2 || pos.Col != 1 {
		t.Errorf("incorrect position of the second statement: got %s", pos)
	}
}
