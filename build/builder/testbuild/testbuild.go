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

// Package testbuild runs table tests on the builder.
package testbuild

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/lark/build/builder"
)

// Decl is a source to build and what the builder is expected to return.
type Decl struct {
	// Src is the Starlark source code.
	Src string
	// Want is the expected IR, printed by ir.Module.String.
	// If empty and Err is empty, the IR is expected to print as Src.
	Want string
	// Err is a substring of the expected error.
	Err string
	// NoOptimize builds without simplifying boolean expressions.
	NoOptimize bool
}

func trim(s string) string {
	return strings.TrimSpace(s) + "\n"
}

// Run builds every declaration and checks the result.
func Run(t *testing.T, decls ...Decl) {
	t.Helper()
	for i, decl := range decls {
		opts := builder.DefaultOptions()
		opts.Optimize = !decl.NoOptimize
		mod, err := builder.Build("test.star", trim(decl.Src), opts)
		if decl.Err != "" {
			if err == nil {
				t.Errorf("test %d: expected error %q but got nil for:\n%s", i, decl.Err, decl.Src)
				continue
			}
			if !strings.Contains(err.Error(), decl.Err) {
				t.Errorf("test %d: incorrect error:\ngot:  %s\nwant: %s", i, err.Error(), decl.Err)
			}
			continue
		}
		if err != nil {
			t.Errorf("test %d: cannot build:\n%s\nerror:\n%+v", i, decl.Src, err)
			continue
		}
		want := decl.Want
		if want == "" {
			want = decl.Src
		}
		if diff := cmp.Diff(trim(want), mod.String()); diff != "" {
			t.Errorf("test %d: incorrect IR for:\n%s\n(-want +got):\n%s", i, decl.Src, diff)
		}
	}
}
