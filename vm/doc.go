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

// Package vm implements the Intcode VM.
//
// An Intcode program is a sequence of integers that is loaded as-is into
// the VM memory. Memory is zero-indexed and grows on demand: reading an
// address beyond the end of memory returns 0, writing to it extends memory
// with zeros up to and including that address.
//
// Instructions are decoded from memory each time the program counter visits
// them, so programs may modify their own code. The opcode is given by the two
// least significant decimal digits of the instruction cell, the remaining
// digits select the addressing mode of each parameter, least significant
// first: 0 for position mode, 1 for immediate mode and 2 for relative mode.
// Write parameters can never be in immediate mode, and any mode digit left
// over once all parameters have been decoded is an error.
//
//	code  name  parameters   effect
//	 1    add   a, b, dst    dst = a + b
//	 2    mul   a, b, dst    dst = a * b
//	 3    in    dst          dst = input
//	 4    out   a            output a
//	 5    jnz   a, b         if a != 0, jump to b
//	 6    jz    a, b         if a == 0, jump to b
//	 7    lt    a, b, dst    dst = a < b ? 1 : 0
//	 8    eq    a, b, dst    dst = a == b ? 1 : 0
//	 9    arb   a            relative base += a
//	99    hlt                halt
//
// Cells are 64 bits signed integers. Additions and multiplications are
// checked: an overflow is a fault, not a silent wrap-around.
//
// The VM communicates with its environment through the IO interface. Script
// provides simple synchronous scripted I/O; package
// github.com/db47h/intcode/harness runs a VM in its own goroutine and
// exchanges values through unbounded pipes.
//
// For all intents and purposes, the VM behaves like the Intcode computer of
// Advent of Code 2019. Should you find that it does not, please file a bug
// report.
package vm
