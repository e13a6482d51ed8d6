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

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Cell is the raw type stored in a memory location.
type Cell int64

// DefaultMaxMemory is the default upper bound, in cells, for memory growth.
const DefaultMaxMemory = 1 << 24

// Instance represents an Intcode VM instance.
type Instance struct {
	PC       int    // Program Counter (aka. Instruction Pointer)
	RelBase  Cell   // Relative base register
	Mem      []Cell // Memory
	io       IO
	maxMem   int
	insCount int64
	trace    bool
	logger   *zap.Logger
}

// Option interface
type Option func(*Instance) error

// WithIO sets the input/output capability used by the IN and OUT
// instructions. Without it, any IN instruction fails with ErrNoInput and
// output values are discarded.
func WithIO(c IO) Option {
	return func(i *Instance) error {
		if c == nil {
			return errors.New("nil IO")
		}
		i.io = c
		return nil
	}
}

// Logger sets the logger. The default is zap.L().
func Logger(l *zap.Logger) Option {
	return func(i *Instance) error {
		i.logger = l
		return nil
	}
}

// Trace enables logging, at debug level, of every decoded instruction.
func Trace(enable bool) Option {
	return func(i *Instance) error { i.trace = enable; return nil }
}

// MaxMemory sets the maximum memory size in cells. Writing to an address
// at or beyond this limit faults with ErrAddress. The default is
// DefaultMaxMemory. The limit cannot be lower than the program size.
func MaxMemory(size int) Option {
	return func(i *Instance) error {
		if size < len(i.Mem) {
			return errors.Errorf("memory limit %d below program size %d", size, len(i.Mem))
		}
		i.maxMem = size
		return nil
	}
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Intcode Virtual Machine instance.
//
// The mem parameter is used as-is as the VM's memory: the instance takes
// ownership of it and will modify it (and replace it when it grows). Callers
// that need to run the same program more than once must pass a copy, see
// Copy.
//
// Options will be set by calling SetOptions.
func New(mem []Cell, opts ...Option) (*Instance, error) {
	i := &Instance{
		Mem:    mem,
		io:     discardIO{},
		maxMem: DefaultMaxMemory,
		logger: zap.L(),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	i.logger = i.logger.Named("vm")
	return i, nil
}

// Copy returns a copy of the given program, suitable for a new Instance.
func Copy(prog []Cell) []Cell {
	mem := make([]Cell, len(prog))
	copy(mem, prog)
	return mem
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Peek returns the value at address addr. Addresses beyond the end of memory
// read as 0.
func (i *Instance) Peek(addr int) (Cell, error) {
	return i.read(Cell(addr))
}

// Poke writes v at address addr, growing memory as needed. It must not be
// called while the VM is running.
func (i *Instance) Poke(addr int, v Cell) error {
	return i.write(Cell(addr), v)
}

// Dump writes the VM memory as program text to the specified io.Writer.
func (i *Instance) Dump(w io.Writer) error {
	return Format(w, i.Mem)
}
