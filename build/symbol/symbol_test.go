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

package symbol_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/lark/build/fmterr"
	"github.com/gx-org/lark/build/symbol"
)

func TestIntern(t *testing.T) {
	tbl := symbol.NewTable()
	a := tbl.Intern("a")
	b := tbl.Intern("b")
	if a == b {
		t.Fatalf("a and b have the same symbol %d", a)
	}
	if again := tbl.Intern("a"); again != a {
		t.Errorf("interning a twice: got %d but want %d", again, a)
	}
	if got := tbl.Named("b"); got.Sym != b || got.Name() != "b" {
		t.Errorf("Named(b) = %v but want symbol %d", got, b)
	}
	if got := tbl.Name(a); got != "a" {
		t.Errorf("Name(%d) = %q but want %q", a, got, "a")
	}
	if _, ok := tbl.Lookup("c"); ok {
		t.Errorf("c found but has never been interned")
	}
	if tbl.Len() != 2 {
		t.Errorf("table has %d symbols but want 2", tbl.Len())
	}
	var got []string
	for _, n := range tbl.All() {
		got = append(got, n.String())
	}
	if want := []string{"a", "b"}; !cmp.Equal(got, want) {
		t.Errorf("All() = %v but want %v", got, want)
	}
}

func TestNameUndefinedSymbol(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("Name did not panic for an undefined symbol")
		}
		if err, ok := r.(error); !ok || !fmterr.IsInternal(err) {
			t.Errorf("Name panicked with %v but want an internal error", r)
		}
	}()
	symbol.NewTable().Name(3)
}
