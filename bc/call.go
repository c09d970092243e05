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
	"strconv"
	"strings"

	"github.com/gx-org/lark/build/fmterr"
	"github.com/gx-org/lark/build/symbol"
	"github.com/pkg/errors"
)

// Calling convention.
//
// Before a call instruction, the stack holds, from bottom to top:
//
//	callee
//	positional arguments, in source order
//	named argument values, in the order of CallArgsFull.Names
//	the *args value, if any
//	the **kwargs value, if any
//
// Bind removes all the arguments in one operation. The caller then pops the callee.
// The compiler (see compile.go) emits the arguments in that order for every call site.

type (
	// CallArgs is the shape of the arguments of a call site.
	// It is either *CallArgsFull or *CallArgsPos.
	// Shapes are built once by the compiler and never modified.
	CallArgs interface {
		// StackSize returns the number of stack slots consumed by the arguments.
		StackSize() int
		// String returns a short description of the shape for tracing.
		String() string

		callArgs()
	}

	// CallArgsFull are the arguments of a call with positional, named, star and star-star arguments.
	// All are taken from the stack.
	CallArgsFull struct {
		// PosNamed is the number of positional and named arguments.
		PosNamed uint32
		// Names of the named arguments.
		Names []symbol.Named
		// Args is true if the call has a *args argument.
		Args bool
		// Kwargs is true if the call has a **kwargs argument.
		Kwargs bool
	}

	// CallArgsPos are the arguments of a call with positional arguments only.
	CallArgsPos struct {
		// Pos is the number of positional arguments.
		Pos uint32
	}
)

var (
	_ CallArgs = (*CallArgsFull)(nil)
	_ CallArgs = (*CallArgsPos)(nil)
)

// NewCallArgs returns the shape of a call site.
// Call sites with positional arguments only get the CallArgsPos fast path.
func NewCallArgs(pos int, names []symbol.Named, args, kwargs bool) CallArgs {
	if len(names) == 0 && !args && !kwargs {
		return &CallArgsPos{Pos: uint32(pos)}
	}
	return &CallArgsFull{
		PosNamed: uint32(pos + len(names)),
		Names:    names,
		Args:     args,
		Kwargs:   kwargs,
	}
}

// Bind pops the arguments of a call site from the stack.
func Bind(shape CallArgs, stack *Stack) *Arguments {
	switch shape := shape.(type) {
	case *CallArgsPos:
		return shape.Bind(stack)
	case *CallArgsFull:
		return shape.Bind(stack)
	}
	panic(fmterr.Internal(errors.Errorf("unknown call shape %T", shape)))
}

func (*CallArgsFull) callArgs() {}

// Validate returns an error if there are more names than positional and named arguments.
func (c *CallArgsFull) Validate() error {
	if int(c.PosNamed) < len(c.Names) {
		return errors.Errorf("invalid call shape: %d names for %d positional and named arguments", len(c.Names), c.PosNamed)
	}
	return nil
}

// PositionalCount returns the number of positional arguments.
// The compiler never builds a shape with more names than arguments:
// such a shape is a bug in lark and PositionalCount panics.
func (c *CallArgsFull) PositionalCount() uint32 {
	if err := c.Validate(); err != nil {
		panic(fmterr.Internal(err))
	}
	return c.PosNamed - uint32(len(c.Names))
}

// StackSize returns the number of stack slots consumed by the arguments.
func (c *CallArgsFull) StackSize() int {
	n := int(c.PositionalCount()) + len(c.Names)
	if c.Args {
		n++
	}
	if c.Kwargs {
		n++
	}
	return n
}

// Bind pops the arguments from the stack.
func (c *CallArgsFull) Bind(stack *Stack) *Arguments {
	pos := int(c.PositionalCount())
	named := pos + len(c.Names)
	vals := stack.PopN(c.StackSize())
	args := &Arguments{
		Pos:   vals[:pos:pos],
		Names: c.Names,
		Named: vals[pos:named:named],
	}
	next := named
	if c.Args {
		args.Args = vals[next]
		next++
	}
	if c.Kwargs {
		args.Kwargs = vals[next]
	}
	return args
}

// String returns the number of positional arguments (if any),
// the names of the named arguments, then * and ** if the call has these arguments.
func (c *CallArgsFull) String() string {
	tokens := make([]string, 0, len(c.Names)+3)
	if pos := c.PositionalCount(); pos != 0 {
		tokens = append(tokens, strconv.FormatUint(uint64(pos), 10))
	}
	for _, name := range c.Names {
		tokens = append(tokens, name.Name())
	}
	if c.Args {
		tokens = append(tokens, "*")
	}
	if c.Kwargs {
		tokens = append(tokens, "**")
	}
	return strings.Join(tokens, " ")
}

func (*CallArgsPos) callArgs() {}

// StackSize returns the number of stack slots consumed by the arguments.
func (c *CallArgsPos) StackSize() int {
	return int(c.Pos)
}

// Bind pops the arguments from the stack.
func (c *CallArgsPos) Bind(stack *Stack) *Arguments {
	return &Arguments{Pos: stack.PopN(int(c.Pos))}
}

// String returns the number of positional arguments.
func (c *CallArgsPos) String() string {
	return strconv.FormatUint(uint64(c.Pos), 10)
}
