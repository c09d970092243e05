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

import (
	"github.com/gx-org/lark/build/symbol"
	"github.com/pkg/errors"
	"go.starlark.net/starlark"
)

// Arguments are the arguments of a call, popped from the stack and ready
// to be given to the callee.
type Arguments struct {
	// Pos are the positional arguments.
	Pos []starlark.Value
	// Names of the named arguments. Shared with the call shape: must not be modified.
	Names []symbol.Named
	// Named are the values of the named arguments, aligned with Names.
	Named []starlark.Value
	// Args is the value of the *args argument or nil.
	Args starlark.Value
	// Kwargs is the value of the **kwargs argument or nil.
	Kwargs starlark.Value
}

// Lookup returns the value of a named argument.
func (a *Arguments) Lookup(sym symbol.Symbol) (starlark.Value, bool) {
	for i, name := range a.Names {
		if name.Sym == sym {
			return a.Named[i], true
		}
	}
	return nil, false
}

// Unpack flattens the arguments into the positional and keyword arguments
// expected by starlark.Call: the *args iterable is appended to the positional
// arguments and the **kwargs mapping to the named arguments.
func (a *Arguments) Unpack() (starlark.Tuple, []starlark.Tuple, error) {
	pos := make(starlark.Tuple, len(a.Pos), len(a.Pos)+1)
	copy(pos, a.Pos)
	if a.Args != nil {
		var err error
		if pos, err = appendIterable(pos, a.Args); err != nil {
			return nil, nil, err
		}
	}
	if len(a.Names) == 0 && a.Kwargs == nil {
		return pos, nil, nil
	}
	kwargs := make([]starlark.Tuple, len(a.Names))
	for i, name := range a.Names {
		kwargs[i] = starlark.Tuple{name.Str, a.Named[i]}
	}
	if a.Kwargs == nil {
		return pos, kwargs, nil
	}
	kwargs, err := a.appendKwargs(kwargs)
	if err != nil {
		return nil, nil, err
	}
	return pos, kwargs, nil
}

func appendIterable(pos starlark.Tuple, x starlark.Value) (starlark.Tuple, error) {
	it := starlark.Iterate(x)
	if it == nil {
		return nil, errors.Errorf("argument after * must be iterable, not %s", x.Type())
	}
	defer it.Done()
	var v starlark.Value
	for it.Next(&v) {
		pos = append(pos, v)
	}
	return pos, nil
}

func (a *Arguments) appendKwargs(kwargs []starlark.Tuple) ([]starlark.Tuple, error) {
	mapping, ok := a.Kwargs.(starlark.IterableMapping)
	if !ok {
		return nil, errors.Errorf("argument after ** must be a mapping, not %s", a.Kwargs.Type())
	}
	seen := make(map[starlark.String]bool, len(a.Names))
	for _, name := range a.Names {
		seen[name.Str] = true
	}
	for _, item := range mapping.Items() {
		k, ok := item[0].(starlark.String)
		if !ok {
			return nil, errors.Errorf("keywords must be strings, not %s", item[0].Type())
		}
		if seen[k] {
			return nil, errors.Errorf("got multiple values for keyword argument %s", k)
		}
		seen[k] = true
		kwargs = append(kwargs, starlark.Tuple{k, item[1]})
	}
	return kwargs, nil
}
