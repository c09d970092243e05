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

	"github.com/gx-org/lark/build/builder/testbuild"
)

func TestOperators(t *testing.T) {
	testbuild.Run(t,
		testbuild.Decl{
			Src:  `x = a + b * c - d // e % f`,
			Want: `x = ((a + (b * c)) - ((d // e) % f))`,
		},
		testbuild.Decl{
			Src:  `x = -a | ~b & +c ^ d << 1 >> 2`,
			Want: `x = (-a | ((~b & +c) ^ ((d << 1) >> 2)))`,
		},
		testbuild.Decl{
			Src:  `x = a in b and c not in d or e == f`,
			Want: `x = (((a in b) and (c not in d)) or (e == f))`,
		},
		testbuild.Decl{
			Src:  `x = (a < b) != (c >= d)`,
			Want: `x = ((a < b) != (c >= d))`,
		},
		testbuild.Decl{
			Src:  `x = [a, (b,), ()]`,
			Want: `x = [a, (b,), ()]`,
		},
		testbuild.Decl{
			Src:  `x = a / 2 if c else b`,
			Want: `x = ((a / 2) if c else b)`,
		},
	)
}

func TestBooleans(t *testing.T) {
	testbuild.Run(t,
		// Conditions are simplified.
		testbuild.Decl{
			Src: `
if True and f():
    pass
`,
			Want: `
if f():
    pass
`,
		},
		testbuild.Decl{
			Src: `
if f() or True:
    pass
`,
			Want: `
if seq(f(), True):
    pass
`,
		},
		testbuild.Decl{
			Src:  `x = a if not (b and False) else c`,
			Want: `x = (a if not seq(b, False) else c)`,
		},
		testbuild.Decl{
			Src:  `x = not (True or f())`,
			Want: `x = False`,
		},
		testbuild.Decl{
			Src:  `x = not not a`,
			Want: `x = not not a`,
		},
		// Values which are not only used for their truth are kept as is:
		// `True and f()` is the value returned by f.
		testbuild.Decl{
			Src:  `x = True and f()`,
			Want: `x = (True and f())`,
		},
		testbuild.Decl{
			Src:  `x = [] or a`,
			Want: `x = ([] or a)`,
		},
		// No simplification without optimization.
		testbuild.Decl{
			Src:        `x = not (True or f())`,
			Want:       `x = not (True or f())`,
			NoOptimize: true,
		},
		testbuild.Decl{
			Src: `
if f() or True:
    pass
`,
			Want: `
if (f() or True):
    pass
`,
			NoOptimize: true,
		},
	)
}
