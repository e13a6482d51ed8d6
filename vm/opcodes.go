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

package vm

import "strconv"

// Opcode is a decoded instruction opcode: the two least significant decimal
// digits of an instruction cell.
type Opcode Cell

// Intcode Virtual Machine Opcodes.
const (
	OpAdd  Opcode = 1
	OpMul  Opcode = 2
	OpIn   Opcode = 3
	OpOut  Opcode = 4
	OpJnz  Opcode = 5
	OpJz   Opcode = 6
	OpLt   Opcode = 7
	OpEq   Opcode = 8
	OpArb  Opcode = 9
	OpHalt Opcode = 99
)

// Addressing modes.
const (
	ModePosition  Cell = 0
	ModeImmediate Cell = 1
	ModeRelative  Cell = 2
)

type opInfo struct {
	name   string
	params int
	write  bool // last parameter is a write address
}

var opcodes = map[Opcode]opInfo{
	OpAdd:  {"add", 3, true},
	OpMul:  {"mul", 3, true},
	OpIn:   {"in", 1, true},
	OpOut:  {"out", 1, false},
	OpJnz:  {"jnz", 2, false},
	OpJz:   {"jz", 2, false},
	OpLt:   {"lt", 3, true},
	OpEq:   {"eq", 3, true},
	OpArb:  {"arb", 1, false},
	OpHalt: {"hlt", 0, false},
}

var opcodeIndex = make(map[string]Opcode)

func init() {
	for op, info := range opcodes {
		opcodeIndex[info.name] = op
	}
}

// Decode splits an instruction cell into its opcode and mode digits.
func Decode(ins Cell) (op Opcode, modes Cell) {
	return Opcode(ins % 100), ins / 100
}

// LookupOpcode returns the opcode for the given mnemonic.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodeIndex[name]
	return op, ok
}

// Valid reports whether op is one of the defined opcodes.
func (op Opcode) Valid() bool {
	_, ok := opcodes[op]
	return ok
}

// Params returns the number of parameters of op.
func (op Opcode) Params() int {
	return opcodes[op].params
}

// Writes reports whether the last parameter of op is a write address.
func (op Opcode) Writes() bool {
	return opcodes[op].write
}

func (op Opcode) String() string {
	if info, ok := opcodes[op]; ok {
		return info.name
	}
	return "op(" + strconv.FormatInt(int64(op), 10) + ")"
}
