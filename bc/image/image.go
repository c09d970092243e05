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

// Package image serializes compiled programs.
//
// An image is a canonical CBOR document: encoding the same program twice
// gives the same bytes. Images are read from files and are not trusted:
// Decode validates every instruction and returns an error for an
// invalid image instead of letting the interpreter fail.
package image

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/gx-org/lark/bc"
	"github.com/gx-org/lark/build/fmterr"
	"github.com/gx-org/lark/build/ir"
	"github.com/gx-org/lark/build/symbol"
	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"golang.org/x/mod/semver"
)

const (
	magic = "lark"

	// Version of the image format.
	// Images with a different major version cannot be decoded.
	Version = "v1.0.0"
)

// Kinds of constants.
const (
	kindNone   = "None"
	kindBool   = "bool"
	kindInt    = "int"
	kindFloat  = "float"
	kindString = "string"
	kindBytes  = "bytes"
)

type (
	header struct {
		Magic   string `cbor:"1,keyasint"`
		Version string `cbor:"2,keyasint"`
	}

	file struct {
		Header   header   `cbor:"1,keyasint"`
		Filename string   `cbor:"2,keyasint"`
		Symbols  []string `cbor:"3,keyasint"`
		Consts   []value  `cbor:"4,keyasint"`
		Code     []instr  `cbor:"5,keyasint"`
	}

	value struct {
		Kind  string  `cbor:"1,keyasint"`
		Text  string  `cbor:"2,keyasint,omitempty"`
		Bool  bool    `cbor:"3,keyasint,omitempty"`
		Float float64 `cbor:"4,keyasint,omitempty"`
	}

	position struct {
		Line int32 `cbor:"1,keyasint"`
		Col  int32 `cbor:"2,keyasint"`
	}

	call struct {
		Full     bool     `cbor:"1,keyasint,omitempty"`
		Pos      uint32   `cbor:"2,keyasint,omitempty"`
		PosNamed uint32   `cbor:"3,keyasint,omitempty"`
		Names    []uint32 `cbor:"4,keyasint,omitempty"`
		Args     bool     `cbor:"5,keyasint,omitempty"`
		Kwargs   bool     `cbor:"6,keyasint,omitempty"`
	}

	instr struct {
		Op    uint8    `cbor:"1,keyasint"`
		Arg   uint32   `cbor:"2,keyasint,omitempty"`
		Call  *call    `cbor:"3,keyasint,omitempty"`
		Start position `cbor:"4,keyasint"`
		End   position `cbor:"5,keyasint"`
	}
)

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmterr.Internal(errors.Wrap(err, "cannot create CBOR encoding mode")))
	}
	encMode = em
}

// Encode serializes a program.
func Encode(prog *bc.Program) ([]byte, error) {
	f := &file{
		Header:   header{Magic: magic, Version: Version},
		Filename: prog.Filename,
		Symbols:  make([]string, 0, prog.Symbols.Len()),
		Consts:   make([]value, len(prog.Consts)),
		Code:     make([]instr, len(prog.Code)),
	}
	for _, named := range prog.Symbols.All() {
		f.Symbols = append(f.Symbols, named.Name())
	}
	for i, c := range prog.Consts {
		var err error
		if f.Consts[i], err = encodeValue(c); err != nil {
			return nil, errors.Wrapf(err, "cannot encode constant %d", i)
		}
	}
	for i, in := range prog.Code {
		f.Code[i] = instr{
			Op:    uint8(in.Op),
			Arg:   in.Arg,
			Call:  encodeCall(in.Call),
			Start: position{Line: in.Span.Start.Line, Col: in.Span.Start.Col},
			End:   position{Line: in.Span.End.Line, Col: in.Span.End.Col},
		}
	}
	data, err := encMode.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "cannot encode image")
	}
	return data, nil
}

func encodeValue(v starlark.Value) (value, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return value{Kind: kindNone}, nil
	case starlark.Bool:
		return value{Kind: kindBool, Bool: bool(v)}, nil
	case starlark.Int:
		return value{Kind: kindInt, Text: v.String()}, nil
	case starlark.Float:
		return value{Kind: kindFloat, Float: float64(v)}, nil
	case starlark.String:
		return value{Kind: kindString, Text: string(v)}, nil
	case starlark.Bytes:
		return value{Kind: kindBytes, Text: string(v)}, nil
	}
	return value{}, errors.Errorf("constant of type %s not supported", v.Type())
}

func encodeCall(shape bc.CallArgs) *call {
	switch shape := shape.(type) {
	case *bc.CallArgsPos:
		return &call{Pos: shape.Pos}
	case *bc.CallArgsFull:
		names := make([]uint32, len(shape.Names))
		for i, name := range shape.Names {
			names[i] = uint32(name.Sym)
		}
		return &call{
			Full:     true,
			PosNamed: shape.PosNamed,
			Names:    names,
			Args:     shape.Args,
			Kwargs:   shape.Kwargs,
		}
	}
	return nil
}

// Decode deserializes and validates a program.
func Decode(data []byte) (*bc.Program, error) {
	var f file
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "cannot decode image")
	}
	if err := checkHeader(f.Header); err != nil {
		return nil, err
	}
	d := &decoder{
		f:       &f,
		symbols: symbol.NewTable(),
	}
	return d.program()
}

func checkHeader(h header) error {
	if h.Magic != magic {
		return errors.Errorf("not a lark image")
	}
	if !semver.IsValid(h.Version) {
		return errors.Errorf("invalid image version %q", h.Version)
	}
	if semver.Major(h.Version) != semver.Major(Version) {
		return errors.Errorf("image version %s not supported: version %s required", h.Version, semver.Major(Version))
	}
	return nil
}

type decoder struct {
	f       *file
	symbols *symbol.Table
	named   []symbol.Named
}

func (d *decoder) program() (*bc.Program, error) {
	d.named = make([]symbol.Named, len(d.f.Symbols))
	for i, name := range d.f.Symbols {
		d.named[i] = d.symbols.Named(name)
		if int(d.named[i].Sym) != i {
			return nil, errors.Errorf("symbol %q defined more than once", name)
		}
	}
	prog := &bc.Program{
		Filename: d.f.Filename,
		Consts:   make([]starlark.Value, len(d.f.Consts)),
		Code:     make([]bc.Instr, len(d.f.Code)),
		Symbols:  d.symbols,
	}
	for i, v := range d.f.Consts {
		var err error
		if prog.Consts[i], err = decodeValue(v); err != nil {
			return nil, errors.Wrapf(err, "constant %d", i)
		}
	}
	filename := &prog.Filename
	for pc, in := range d.f.Code {
		decoded, err := d.instr(filename, in)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", pc)
		}
		prog.Code[pc] = decoded
	}
	if err := validate(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

func decodeValue(v value) (starlark.Value, error) {
	switch v.Kind {
	case kindNone:
		return starlark.None, nil
	case kindBool:
		return starlark.Bool(v.Bool), nil
	case kindInt:
		i, ok := new(big.Int).SetString(v.Text, 10)
		if !ok {
			return nil, errors.Errorf("invalid integer %q", v.Text)
		}
		return starlark.MakeBigInt(i), nil
	case kindFloat:
		return starlark.Float(v.Float), nil
	case kindString:
		return starlark.String(v.Text), nil
	case kindBytes:
		return starlark.Bytes(v.Text), nil
	}
	return nil, errors.Errorf("unknown constant kind %q", v.Kind)
}

func (d *decoder) instr(filename *string, in instr) (bc.Instr, error) {
	decoded := bc.Instr{
		Op:  bc.Opcode(in.Op),
		Arg: in.Arg,
		Span: ir.Span{
			Start: syntax.MakePosition(filename, in.Start.Line, in.Start.Col),
			End:   syntax.MakePosition(filename, in.End.Line, in.End.Col),
		},
	}
	if in.Call == nil {
		return decoded, nil
	}
	shape, err := d.call(in.Call)
	if err != nil {
		return bc.Instr{}, err
	}
	decoded.Call = shape
	return decoded, nil
}

func (d *decoder) call(c *call) (bc.CallArgs, error) {
	if !c.Full {
		return &bc.CallArgsPos{Pos: c.Pos}, nil
	}
	names := make([]symbol.Named, len(c.Names))
	for i, sym := range c.Names {
		if int(sym) >= len(d.named) {
			return nil, errors.Errorf("argument name %d not defined in a table of %d symbols", sym, len(d.named))
		}
		names[i] = d.named[sym]
	}
	shape := &bc.CallArgsFull{
		PosNamed: c.PosNamed,
		Names:    names,
		Args:     c.Args,
		Kwargs:   c.Kwargs,
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return shape, nil
}
