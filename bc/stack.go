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
	"github.com/gx-org/lark/build/fmterr"
	"github.com/pkg/errors"
	"go.starlark.net/starlark"
)

// Stack is the operand stack of a frame.
// A stack is owned by a single executing frame and is not safe for concurrent use.
//
// The compiler computes the exact number of operands each instruction
// consumes. Popping from an empty stack is a bug in lark: the stack panics
// with an internal error instead of returning garbage.
type Stack struct {
	slots []starlark.Value
}

// NewStack returns an empty stack with an initial capacity.
func NewStack(capacity int) *Stack {
	return &Stack{slots: make([]starlark.Value, 0, capacity)}
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return len(s.slots)
}

// Push a value on top of the stack.
func (s *Stack) Push(v starlark.Value) {
	s.slots = append(s.slots, v)
}

// Top returns the value on top of the stack without removing it.
func (s *Stack) Top() starlark.Value {
	s.check(1)
	return s.slots[len(s.slots)-1]
}

// Pop removes the value on top of the stack and returns it.
func (s *Stack) Pop() starlark.Value {
	s.check(1)
	top := len(s.slots) - 1
	v := s.slots[top]
	s.slots[top] = nil
	s.slots = s.slots[:top]
	return v
}

// PopN removes the n values on top of the stack and returns them
// in the order in which they have been pushed.
// The returned slice is owned by the caller.
func (s *Stack) PopN(n int) []starlark.Value {
	s.check(n)
	start := len(s.slots) - n
	vals := make([]starlark.Value, n)
	copy(vals, s.slots[start:])
	clear(s.slots[start:])
	s.slots = s.slots[:start]
	return vals
}

func (s *Stack) check(n int) {
	if n < 0 || n > len(s.slots) {
		panic(fmterr.Internal(errors.Errorf("operand stack underflow: cannot pop %d values from a stack of %d values", n, len(s.slots))))
	}
}
