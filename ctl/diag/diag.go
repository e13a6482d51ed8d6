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

// Package diag runs diagnostic programs: self-test programs that report a
// series of test results followed by a diagnostic code, and the gravity
// assist program that computes a value from a noun and a verb patched into
// its memory.
package diag

import (
	"context"
	"fmt"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Errors
var (
	ErrNoOutput = errors.New("no diagnostic code")
	ErrNotFound = errors.New("no noun and verb produce the requested output")
)

// TestFailure is returned by Check when a self-test fails.
type TestFailure struct {
	Index   int       // index of the failed test in Outputs
	Code    vm.Cell   // test result
	Outputs []vm.Cell // all output values
}

func (e *TestFailure) Error() string {
	return fmt.Sprintf("self-test %d failed with code %d", e.Index, e.Code)
}

// ctxIO checks the context before delegating input.
type ctxIO struct {
	ctx context.Context
	*vm.Script
}

func (c ctxIO) Input() (vm.Cell, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.Script.Input()
}

// Run runs a copy of prog with the given inputs and returns its output
// values.
func Run(ctx context.Context, prog []vm.Cell, inputs ...vm.Cell) ([]vm.Cell, error) {
	s := vm.NewScript(inputs...)
	i, err := vm.New(vm.Copy(prog), vm.WithIO(ctxIO{ctx, s}))
	if err != nil {
		return nil, err
	}
	err = i.Run()
	return s.Out, err
}

// Check runs a diagnostic program for the given system ID. All output values
// but the last one are test results and must be 0. The last value is the
// diagnostic code.
func Check(ctx context.Context, prog []vm.Cell, systemID vm.Cell) (vm.Cell, error) {
	out, err := Run(ctx, prog, systemID)
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, ErrNoOutput
	}
	for n, v := range out[:len(out)-1] {
		if v != 0 {
			return 0, &TestFailure{n, v, out}
		}
	}
	return out[len(out)-1], nil
}

// Restore returns a copy of prog with the noun and verb written at addresses
// 1 and 2.
func Restore(prog []vm.Cell, noun, verb vm.Cell) []vm.Cell {
	n := len(prog)
	if n < 3 {
		n = 3
	}
	mem := make([]vm.Cell, n)
	copy(mem, prog)
	mem[1], mem[2] = noun, verb
	return mem
}

// Gravity runs the gravity assist program restored with the given noun and
// verb, and returns the value left at address 0.
func Gravity(prog []vm.Cell, noun, verb vm.Cell) (vm.Cell, error) {
	i, err := vm.New(Restore(prog, noun, verb))
	if err != nil {
		return 0, err
	}
	if err = i.Run(); err != nil {
		return 0, err
	}
	return i.Peek(0)
}

// FindNounVerb searches for the noun and verb for which the gravity assist
// program outputs target. Nouns and verbs range from 0 to 99, but never
// beyond the program size. It returns 100*noun + verb.
//
// Combinations for which the program faults are skipped.
func FindNounVerb(ctx context.Context, prog []vm.Cell, target vm.Cell) (vm.Cell, error) {
	limit := vm.Cell(len(prog))
	if limit > 100 {
		limit = 100
	}
	logger := zap.L().Named("diag")
	for noun := vm.Cell(0); noun < limit; noun++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for verb := vm.Cell(0); verb < limit; verb++ {
			v, err := Gravity(prog, noun, verb)
			if err != nil {
				logger.Debug("skipped", zap.Int64("noun", int64(noun)), zap.Int64("verb", int64(verb)), zap.Error(err))
				continue
			}
			if v == target {
				return 100*noun + verb, nil
			}
		}
	}
	return 0, errors.Wrapf(ErrNotFound, "target %d", target)
}
