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

package ordered_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/lark/base/ordered"
)

type entry struct {
	k string
	v int
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{{"a", 1}, {"b", 2}, {"c", 3}},
			want:    []entry{{"a", 1}, {"b", 2}, {"c", 3}},
		},
		{
			entries: []entry{{"b", 1}, {"a", 2}, {"b", 3}},
			want:    []entry{{"b", 3}, {"a", 2}},
		},
		{
			entries: []entry{{"a", 1}, {"a", 2}, {"a", 3}},
			want:    []entry{{"a", 3}},
		},
		{},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, e := range test.entries {
			m.Store(e.k, e.v)
		}
		if m.Len() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Len(), len(test.want))
			continue
		}
		var got []entry
		for k, v := range m.All() {
			got = append(got, entry{k, v})
		}
		if !cmp.Equal(got, test.want, cmp.AllowUnexported(entry{})) {
			t.Errorf("test %d: got %v but want %v", ti, got, test.want)
		}
		for _, want := range test.want {
			if v, ok := m.Load(want.k); !ok || v != want.v {
				t.Errorf("test %d: Load(%q) = %d, %t but want %d, true", ti, want.k, v, ok, want.v)
			}
		}
		if _, ok := m.Load("missing"); ok {
			t.Errorf("test %d: missing key found", ti)
		}
		wantKeys := make([]string, len(test.want))
		for i, e := range test.want {
			wantKeys[i] = e.k
		}
		if gotKeys := slices.Collect(m.Keys()); !slices.Equal(gotKeys, wantKeys) {
			t.Errorf("test %d: keys %v but want %v", ti, gotKeys, wantKeys)
		}
	}
}
