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

import "github.com/pkg/errors"

// Faults. These are returned, possibly wrapped, by Instance.Run. Use
// errors.Cause to test for a specific fault.
var (
	ErrOpcode         = errors.New("invalid opcode")
	ErrMode           = errors.New("invalid addressing mode")
	ErrImmediateWrite = errors.New("write through immediate operand")
	ErrOverflow       = errors.New("arithmetic overflow")
	ErrAddress        = errors.New("invalid address")
)

// ErrNoInput is returned by IO implementations that will never produce
// another input value.
var ErrNoInput = errors.New("no input available")

// IsFault reports whether err was caused by a VM fault, as opposed to an error
// returned by the IO capability.
func IsFault(err error) bool {
	switch errors.Cause(err) {
	case ErrOpcode, ErrMode, ErrImmediateWrite, ErrOverflow, ErrAddress:
		return true
	}
	return false
}
