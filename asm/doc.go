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

// Package asm provides utility functions to assemble and disassemble Intcode
// programs.
//
// Assembler syntax
//
// The assembler is line oriented: one instruction or directive per line,
// optionally preceded by one or more label definitions. Comments start with a
// semicolon and run until the end of the line:
//
//	; print numbers from 10 down to 1
//	loop:	out n
//		add n, #-1, n
//		jnz n, #loop
//		hlt
//	n:	.data 10
//
// Instructions are written as a mnemonic followed by its operands, separated
// by commas (commas are optional). The mnemonics are:
//
//	add a, b, dst	; dst = a + b
//	mul a, b, dst	; dst = a * b
//	in dst		; read a value from input into dst
//	out a		; write a to output
//	jnz a, target	; jump to target if a != 0
//	jz a, target	; jump to target if a == 0
//	lt a, b, dst	; dst = a < b ? 1 : 0
//	eq a, b, dst	; dst = a == b ? 1 : 0
//	arb a		; adjust the relative base by a
//	hlt		; halt
//
// Operands:
//
// The addressing mode of each operand is selected by a prefix:
//
//	123	position mode: the value at address 123
//	#123	immediate mode: the value 123
//	@123	relative mode: the value at address (relative base + 123)
//
// The value part of an operand is an integer (decimal, octal with a leading 0
// or hexadecimal with a leading 0x, with an optional minus sign), a label, or
// a label followed by a positive or negative integer offset: "n", "#loop" or
// "table+3". Labels resolve to the address where they are defined, and can be
// used before their definition.
//
// Write operands (the destination of add, mul, in, lt and eq) cannot use
// immediate mode.
//
// Labels are Go identifiers immediately followed by a colon:
//
//	start: in x
//
// Directives:
//
// The assembler supports a single directive:
//
//	.data <value>[, <value>...]
//
// that writes the given values as-is. Values follow the same syntax as operand
// values, without mode prefix.
//
// Disassembly
//
// Disassemble and DisassembleAll use the same syntax, except that labels are
// never generated and that cells that cannot be executed as an instruction are
// written as .data directives. Their output can be assembled back into the
// original program.
package asm
