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

// Package amp implements chains of amplifiers, each controlled by a copy of
// the same Intcode program.
//
// Each amplifier first reads its phase setting, then an input signal, and
// outputs an amplified signal. In series mode, each amplifier outputs a single
// value fed to the next one. In feedback mode, amplifiers are wired in a ring
// and run concurrently until they all halt.
package amp

import (
	"context"
	"io"
	"runtime"
	"strconv"

	"github.com/db47h/intcode/harness"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrSignal is returned when an amplifier does not output the expected
// number of values.
var ErrSignal = errors.New("bad signal")

// Mode selects how amplifiers are connected.
type Mode int

// Amplifier connection modes.
const (
	Serial Mode = iota
	Feedback
)

func (m Mode) String() string {
	if m == Feedback {
		return "feedback"
	}
	return "serial"
}

func name(n int) string {
	if n < 26 {
		return string(rune('A' + n))
	}
	return "amp" + strconv.Itoa(n)
}

// Series runs one amplifier per phase setting, in sequence. The first
// amplifier receives a 0 input signal. Each amplifier must output exactly one
// value.
func Series(ctx context.Context, prog []vm.Cell, phases []vm.Cell, opts ...vm.Option) (vm.Cell, error) {
	var signal vm.Cell
	for n, p := range phases {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s := vm.NewScript(p, signal)
		i, err := vm.New(vm.Copy(prog), append(opts[:len(opts):len(opts)], vm.WithIO(s))...)
		if err != nil {
			return 0, err
		}
		if err = i.Run(); err != nil {
			return 0, errors.Wrapf(err, "amplifier %s", name(n))
		}
		if len(s.Out) != 1 {
			return 0, errors.Wrapf(ErrSignal, "amplifier %s: %d output values", name(n), len(s.Out))
		}
		signal = s.Out[0]
	}
	return signal, nil
}

func teardown(err error) bool {
	switch errors.Cause(err) {
	case harness.ErrClosed, context.Canceled:
		return true
	}
	return false
}

// Ring runs one amplifier per phase setting concurrently, the output of each
// connected to the input of the next, and the output of the last one to the
// input of the first. The first amplifier receives a 0 input signal after its
// phase setting. Ring returns the last value output by the last amplifier
// once all amplifiers have halted.
//
// If any amplifier fails, all others are stopped.
func Ring(ctx context.Context, prog []vm.Cell, phases []vm.Cell, opts ...harness.Option) (vm.Cell, error) {
	n := len(phases)
	if n == 0 {
		return 0, errors.New("no amplifiers")
	}
	pipes := make([]*harness.Pipe, n)
	for k := range pipes {
		pipes[k] = harness.NewPipe()
		pipes[k].Send(phases[k])
	}
	pipes[0].Send(0)
	// The last amplifier writes to tap. Values are forwarded to the first one
	// and the last one is kept.
	tap := harness.NewPipe()

	g, gctx := errgroup.WithContext(ctx)
	ms := make([]*harness.Machine, 0, n)
	for k := 0; k < n; k++ {
		out := tap
		if k < n-1 {
			out = pipes[k+1]
		}
		m, err := harness.Start(gctx, prog, append(opts[:len(opts):len(opts)],
			harness.Name(name(k)), harness.Input(pipes[k]), harness.Output(out))...)
		if err != nil {
			for _, m := range ms {
				m.Close()
			}
			return 0, err
		}
		ms = append(ms, m)
		g.Go(m.Wait)
	}

	var last vm.Cell
	var seen bool
	g.Go(func() error {
		defer pipes[0].Close()
		for {
			v, err := tap.Recv(gctx)
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			last, seen = v, true
			if err = pipes[0].Send(v); err != nil {
				return err
			}
		}
	})

	if err := g.Wait(); err != nil {
		// report the root cause rather than the resulting teardown errors
		for k, m := range ms {
			if e := m.Wait(); e != nil && !teardown(e) {
				return 0, errors.Wrapf(e, "amplifier %s", name(k))
			}
		}
		return 0, err
	}
	if !seen {
		return 0, errors.Wrap(ErrSignal, "no output from last amplifier")
	}
	return last, nil
}

// Run runs the amplifiers in the given mode.
func Run(ctx context.Context, prog []vm.Cell, phases []vm.Cell, mode Mode, opts ...vm.Option) (vm.Cell, error) {
	if mode == Feedback {
		return Ring(ctx, prog, phases, harness.VMOptions(opts...))
	}
	return Series(ctx, prog, phases, opts...)
}

// permutations returns all permutations of s in lexicographic order of
// indices.
func permutations(s []vm.Cell) [][]vm.Cell {
	if len(s) <= 1 {
		return [][]vm.Cell{append([]vm.Cell(nil), s...)}
	}
	var r [][]vm.Cell
	for n := range s {
		rest := make([]vm.Cell, 0, len(s)-1)
		rest = append(rest, s[:n]...)
		rest = append(rest, s[n+1:]...)
		for _, p := range permutations(rest) {
			r = append(r, append([]vm.Cell{s[n]}, p...))
		}
	}
	return r
}

// MaxSignal tries every ordering of the given phase settings and returns the
// highest signal along with the phase settings that produce it. Orderings are
// evaluated concurrently.
func MaxSignal(ctx context.Context, prog []vm.Cell, phases []vm.Cell, mode Mode, opts ...vm.Option) (best vm.Cell, order []vm.Cell, err error) {
	perms := permutations(phases)
	signals := make([]vm.Cell, len(perms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for n, p := range perms {
		n, p := n, p
		g.Go(func() error {
			s, err := Run(gctx, prog, p, mode, opts...)
			if err != nil {
				return errors.Wrapf(err, "phases %v", p)
			}
			signals[n] = s
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return 0, nil, err
	}

	for n, s := range signals {
		if order == nil || s > best {
			best, order = s, perms[n]
		}
	}
	zap.L().Named("amp").Debug("max signal",
		zap.Stringer("mode", mode),
		zap.Int("orderings", len(perms)),
		zap.Int64("signal", int64(best)))
	return best, order, nil
}
