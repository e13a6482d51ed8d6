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
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// decoder decodes the operands of the instruction at pc. Mode digits are
// consumed least significant first, one per operand. The first error sticks.
type decoder struct {
	i     *Instance
	pc    int
	modes Cell
	err   error
}

func (d *decoder) mode() Cell {
	m := d.modes % 10
	d.modes /= 10
	if m < ModePosition || m > ModeRelative {
		d.err = errors.Wrapf(ErrMode, "mode %d", m)
	}
	return m
}

// load returns the value of operand n (1 based).
func (d *decoder) load(n int) Cell {
	if d.err != nil {
		return 0
	}
	m := d.mode()
	if d.err != nil {
		return 0
	}
	v, err := d.i.read(Cell(d.pc + n))
	if err != nil {
		d.err = err
		return 0
	}
	switch m {
	case ModeImmediate:
		return v
	case ModeRelative:
		if v, err = relative(d.i.RelBase, v); err != nil {
			d.err = err
			return 0
		}
	}
	if v, err = d.i.read(v); err != nil {
		d.err = err
	}
	return v
}

// addr returns the effective write address of operand n (1 based).
func (d *decoder) addr(n int) Cell {
	if d.err != nil {
		return 0
	}
	m := d.mode()
	if d.err != nil {
		return 0
	}
	if m == ModeImmediate {
		d.err = ErrImmediateWrite
		return 0
	}
	v, err := d.i.read(Cell(d.pc + n))
	if err != nil {
		d.err = err
		return 0
	}
	if m == ModeRelative {
		if v, err = relative(d.i.RelBase, v); err != nil {
			d.err = err
		}
	}
	return v
}

// end checks that no mode digits are left over once all operands have been
// decoded.
func (d *decoder) end() error {
	if d.err == nil && d.modes != 0 {
		d.err = errors.Wrapf(ErrMode, "excess mode digits %d", d.modes)
	}
	return d.err
}

func relative(base, off Cell) (Cell, error) {
	a, ok := addChecked(base, off)
	if !ok {
		return 0, errors.Wrapf(ErrAddress, "relative base %d%+d", base, off)
	}
	return a, nil
}

func addChecked(a, b Cell) (Cell, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}

func mulChecked(a, b Cell) (Cell, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

func bool2Cell(b bool) Cell {
	if b {
		return 1
	}
	return 0
}

// Run starts execution of the VM.
//
// Run returns nil when the program executes a halt instruction (opcode 99).
// In that case, the PC points to the halt instruction. If a fault occurs, the
// PC will point to the instruction that triggered it and the returned error
// wraps one of the Err* fault values. Errors returned by the IO capability are
// returned wrapped as well, with the PC pointing to the IN or OUT instruction.
func (i *Instance) Run() (err error) {
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case error:
				err = errors.Wrapf(e, "recovered error @pc=%d/%d", i.PC, len(i.Mem))
			default:
				panic(e)
			}
		}
	}()
	i.insCount = 0
	for {
		ins, err := i.read(Cell(i.PC))
		if err != nil {
			return errors.Wrapf(err, "@pc=%d", i.PC)
		}
		op, modes := Decode(ins)
		if i.trace {
			i.logger.Debug("exec",
				zap.Int("pc", i.PC),
				zap.Stringer("op", op),
				zap.Int64("ins", int64(ins)),
				zap.Int64("relbase", int64(i.RelBase)))
		}
		d := decoder{i: i, pc: i.PC, modes: modes}
		switch op {
		case OpAdd, OpMul, OpLt, OpEq:
			a, b, dst := d.load(1), d.load(2), d.addr(3)
			if err = d.end(); err != nil {
				break
			}
			var v Cell
			switch op {
			case OpAdd:
				var ok bool
				if v, ok = addChecked(a, b); !ok {
					err = errors.Wrapf(ErrOverflow, "%d + %d", a, b)
				}
			case OpMul:
				var ok bool
				if v, ok = mulChecked(a, b); !ok {
					err = errors.Wrapf(ErrOverflow, "%d * %d", a, b)
				}
			case OpLt:
				v = bool2Cell(a < b)
			case OpEq:
				v = bool2Cell(a == b)
			}
			if err != nil {
				break
			}
			if err = i.write(dst, v); err != nil {
				break
			}
			i.PC += 4
		case OpIn:
			dst := d.addr(1)
			if err = d.end(); err != nil {
				break
			}
			var v Cell
			if v, err = i.io.Input(); err != nil {
				break
			}
			if err = i.write(dst, v); err != nil {
				break
			}
			i.PC += 2
		case OpOut:
			v := d.load(1)
			if err = d.end(); err != nil {
				break
			}
			if err = i.io.Output(v); err != nil {
				break
			}
			i.PC += 2
		case OpJnz, OpJz:
			cond, target := d.load(1), d.load(2)
			if err = d.end(); err != nil {
				break
			}
			if (cond != 0) != (op == OpJnz) {
				i.PC += 3
				break
			}
			if target < 0 || target > math.MaxInt {
				err = errors.Wrapf(ErrAddress, "jump to %d", target)
				break
			}
			i.PC = int(target)
		case OpArb:
			v := d.load(1)
			if err = d.end(); err != nil {
				break
			}
			rb, ok := addChecked(i.RelBase, v)
			if !ok {
				err = errors.Wrapf(ErrOverflow, "relative base %d%+d", i.RelBase, v)
				break
			}
			i.RelBase = rb
			i.PC += 2
		case OpHalt:
			if modes != 0 {
				err = errors.Wrapf(ErrMode, "excess mode digits %d", modes)
				break
			}
			i.insCount++
			return nil
		default:
			err = errors.Wrapf(ErrOpcode, "%d", ins)
		}
		if err != nil {
			i.PC = d.pc
			return errors.Wrapf(err, "@pc=%d", d.pc)
		}
		i.insCount++
	}
}
