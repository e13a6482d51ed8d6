// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
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

package asm

import (
	"io"
	"strconv"

	"github.com/db47h/intcode/internal/ici"
	"github.com/db47h/intcode/vm"
)

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting program and error if any.
//
// Then name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value that
// will contain up to 10 entries.
func Assemble(name string, r io.Reader) ([]vm.Cell, error) {
	return newParser().Parse(name, r)
}

// decode checks that the instruction at pc can be executed: a known opcode,
// valid mode digits with no excess, no immediate mode write operand, and all
// operands within mem.
func decode(mem []vm.Cell, pc int) (op vm.Opcode, modes []vm.Cell, ok bool) {
	ins := mem[pc]
	if ins < 0 {
		return 0, nil, false
	}
	op, m := vm.Decode(ins)
	if !op.Valid() || pc+op.Params() >= len(mem) {
		return 0, nil, false
	}
	modes = make([]vm.Cell, op.Params())
	for n := range modes {
		modes[n] = m % 10
		m /= 10
		if modes[n] > vm.ModeRelative {
			return 0, nil, false
		}
	}
	if m != 0 {
		return 0, nil, false
	}
	if op.Writes() && modes[len(modes)-1] == vm.ModeImmediate {
		return 0, nil, false
	}
	return op, modes, true
}

// Disassemble writes a disassembly of the cells in the given slice at position
// pc to the specified io.Writer and returns the position of the next
// instruction and any write error.
//
// Cells that do not decode to a valid instruction are written as a .data
// directive.
func Disassemble(mem []vm.Cell, pc int, w io.Writer) (next int, err error) {
	ew := ici.NewErrWriter(w)

	op, modes, ok := decode(mem, pc)
	if !ok {
		ew.WriteString(".data ")
		ew.WriteString(strconv.FormatInt(int64(mem[pc]), 10))
		return pc + 1, ew.Err
	}
	ew.WriteString(op.String())
	for n, m := range modes {
		if n == 0 {
			ew.WriteString(" ")
		} else {
			ew.WriteString(", ")
		}
		switch m {
		case vm.ModeImmediate:
			ew.WriteString("#")
		case vm.ModeRelative:
			ew.WriteString("@")
		}
		ew.WriteString(strconv.FormatInt(int64(mem[pc+1+n]), 10))
	}
	return pc + 1 + len(modes), ew.Err
}

// DisassembleAll writes a disassembly of all cells in the given slice to
// the specified io.Writer, one instruction per line prefixed with its address.
// It will return any write error.
func DisassembleAll(mem []vm.Cell, w io.Writer) error {
	ew := ici.NewErrWriter(w)
	for pc := 0; pc < len(mem); {
		ew.Printf("% 6d\t", pc)
		pc, _ = Disassemble(mem, pc, ew)
		ew.WriteString("\n")
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
