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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/ctl/amp"
	"github.com/db47h/intcode/ctl/arcade"
	"github.com/db47h/intcode/ctl/diag"
	"github.com/db47h/intcode/ctl/droid"
	"github.com/db47h/intcode/ctl/robot"
	"github.com/db47h/intcode/harness"
	"github.com/db47h/intcode/vm"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var errQuit = errors.New("quit")

// loadProgram loads the program named by the first command argument. "-"
// reads from stdin.
func loadProgram(c *cli.Context) ([]vm.Cell, error) {
	fn := c.Args().First()
	switch fn {
	case "":
		return nil, errors.New("missing program file name")
	case "-":
		return vm.Parse("stdin", os.Stdin)
	}
	return vm.Load(fn)
}

// stdinIO reads input values from r, separated by white space or commas.
type stdinIO struct {
	ctx     context.Context
	s       *bufio.Scanner
	w       *bufio.Writer
	pending []string
}

func newStdinIO(ctx context.Context, r io.Reader, w *bufio.Writer) *stdinIO {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &stdinIO{ctx: ctx, s: s, w: w}
}

func (in *stdinIO) Input() (vm.Cell, error) {
	if err := in.ctx.Err(); err != nil {
		return 0, err
	}
	// pending output might be a prompt
	if err := in.w.Flush(); err != nil {
		return 0, err
	}
	for len(in.pending) > 0 || in.s.Scan() {
		if len(in.pending) == 0 {
			in.pending = strings.Split(in.s.Text(), ",")
		}
		f := in.pending[0]
		in.pending = in.pending[1:]
		if f == "" {
			continue
		}
		v, err := strconv.ParseInt(f, 10, 64)
		return vm.Cell(v), errors.Wrap(err, "invalid input")
	}
	if err := in.s.Err(); err != nil {
		return 0, err
	}
	return 0, vm.ErrNoInput
}

func (in *stdinIO) Output(v vm.Cell) error {
	_, err := fmt.Fprintln(in.w, v)
	return err
}

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "run a program",
	ArgsUsage: "<program>",
	Description: `Runs the program with input values given with --input or, when none is
given, read from stdin. Output values are written to stdout, one per line.`,
	Flags: []cli.Flag{
		&cli.Int64SliceFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "input `value`, can be repeated",
		},
		&cli.BoolFlag{
			Name:  "dump",
			Usage: "write the final memory contents to stdout",
		},
	},
	Action: func(c *cli.Context) error {
		prog, err := loadProgram(c)
		if err != nil {
			return err
		}
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()

		var cio vm.IO = newStdinIO(c.Context, os.Stdin, w)
		if c.IsSet("input") {
			var in []vm.Cell
			for _, v := range c.Int64Slice("input") {
				in = append(in, vm.Cell(v))
			}
			s := vm.NewScript(in...)
			cio = vm.IOFuncs{In: s.Input, Out: cio.Output}
		}
		i, err := vm.New(prog, append(cfg.VMOptions(), vm.WithIO(cio))...)
		if err != nil {
			return err
		}
		if err = i.Run(); err != nil {
			return err
		}
		logger.Info("halted", zap.Int64("instructions", i.InstructionCount()), zap.Int("memory", len(i.Mem)))
		if c.Bool("dump") {
			return i.Dump(w)
		}
		return nil
	},
}

var disasmCommand = &cli.Command{
	Name:      "disasm",
	Usage:     "disassemble a program",
	ArgsUsage: "<program>",
	Action: func(c *cli.Context) error {
		prog, err := loadProgram(c)
		if err != nil {
			return err
		}
		w := bufio.NewWriter(os.Stdout)
		if err = asm.DisassembleAll(prog, w); err != nil {
			return err
		}
		return w.Flush()
	},
}

var asmCommand = &cli.Command{
	Name:      "asm",
	Usage:     "assemble a program",
	ArgsUsage: "<source>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the program to `file` instead of stdout",
		},
	},
	Action: func(c *cli.Context) error {
		fn := c.Args().First()
		var r io.Reader = os.Stdin
		switch fn {
		case "":
			return errors.New("missing source file name")
		case "-":
			fn = "stdin"
		default:
			f, err := os.Open(fn)
			if err != nil {
				return errors.Wrap(err, "open failed")
			}
			defer f.Close()
			r = f
		}
		prog, err := asm.Assemble(fn, r)
		if err != nil {
			return err
		}
		if out := c.String("output"); out != "" {
			return vm.Save(out, prog)
		}
		return vm.Format(os.Stdout, prog)
	},
}

var diagCommand = &cli.Command{
	Name:      "diag",
	Usage:     "run a diagnostic program",
	ArgsUsage: "<program>",
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:  "id",
			Usage: "system `ID`",
			Value: 1,
		},
	},
	Action: func(c *cli.Context) error {
		prog, err := loadProgram(c)
		if err != nil {
			return err
		}
		code, err := diag.Check(c.Context, prog, vm.Cell(c.Int64("id")))
		if f, ok := err.(*diag.TestFailure); ok {
			fmt.Println("outputs:", f.Outputs)
		}
		if err != nil {
			return err
		}
		fmt.Println(code)
		return nil
	},
}

var gravityCommand = &cli.Command{
	Name:      "gravity",
	Usage:     "run the gravity assist program",
	ArgsUsage: "<program>",
	Description: `Runs the program restored with the given noun and verb and prints the value
at address 0. With --target, searches for the noun and verb that produce the
target value instead and prints 100*noun+verb.`,
	Flags: []cli.Flag{
		&cli.Int64Flag{Name: "noun", Value: 12, Usage: "noun `value`"},
		&cli.Int64Flag{Name: "verb", Value: 2, Usage: "verb `value`"},
		&cli.Int64Flag{Name: "target", Usage: "search for noun and verb producing `value`"},
	},
	Action: func(c *cli.Context) error {
		prog, err := loadProgram(c)
		if err != nil {
			return err
		}
		var v vm.Cell
		if c.IsSet("target") {
			v, err = diag.FindNounVerb(c.Context, prog, vm.Cell(c.Int64("target")))
		} else {
			v, err = diag.Gravity(prog, vm.Cell(c.Int64("noun")), vm.Cell(c.Int64("verb")))
		}
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

var ampCommand = &cli.Command{
	Name:      "amp",
	Usage:     "run a chain of amplifiers",
	ArgsUsage: "<program>",
	Description: `Finds the phase settings that produce the highest signal, using phases 0 to 4
in serial mode and 5 to 9 in feedback mode. With --phase, runs the amplifiers
with the given phase settings only.`,
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "feedback", Aliases: []string{"f"}, Usage: "use a feedback loop"},
		&cli.Int64SliceFlag{Name: "phase", Aliases: []string{"p"}, Usage: "phase setting `value`, can be repeated"},
	},
	Action: func(c *cli.Context) error {
		prog, err := loadProgram(c)
		if err != nil {
			return err
		}
		mode := amp.Serial
		phases := []vm.Cell{0, 1, 2, 3, 4}
		if c.Bool("feedback") {
			mode = amp.Feedback
			phases = []vm.Cell{5, 6, 7, 8, 9}
		}
		if c.IsSet("phase") {
			phases = phases[:0]
			for _, p := range c.Int64Slice("phase") {
				phases = append(phases, vm.Cell(p))
			}
			s, err := amp.Run(c.Context, prog, phases, mode, cfg.VMOptions()...)
			if err != nil {
				return err
			}
			fmt.Println(s)
			return nil
		}
		s, order, err := amp.MaxSignal(c.Context, prog, phases, mode, cfg.VMOptions()...)
		if err != nil {
			return err
		}
		fmt.Println(s, order)
		return nil
	},
}

var paintCommand = &cli.Command{
	Name:      "paint",
	Usage:     "run the hull painting robot",
	ArgsUsage: "<program>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "white", Usage: "start on a white panel"},
	},
	Action: func(c *cli.Context) error {
		prog, err := loadProgram(c)
		if err != nil {
			return err
		}
		start := robot.Black
		if c.Bool("white") {
			start = robot.White
		}
		h, err := robot.Paint(c.Context, prog, start, harness.VMOptions(cfg.VMOptions()...))
		if err != nil {
			return err
		}
		fmt.Println("panels painted:", h.Painted())
		fmt.Print(h.Render())
		return nil
	},
}

// keyboard is a joystick controlled from a terminal in cbreak mode.
type keyboard struct {
	ctx  context.Context
	keys <-chan key
	out  io.Writer
}

type key struct {
	r   rune
	err error
}

// newKeyboard returns a keyboard reading keys from r. Keys are read by a
// separate goroutine so that Move returns as soon as ctx is done, even while
// waiting for a key press.
func newKeyboard(ctx context.Context, r io.Reader, out io.Writer) *keyboard {
	keys := make(chan key)
	go func() {
		br := bufio.NewReader(r)
		for {
			c, _, err := br.ReadRune()
			select {
			case keys <- key{c, err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return &keyboard{ctx, keys, out}
}

func (k *keyboard) Move(s *arcade.Screen) (vm.Cell, error) {
	fmt.Fprintf(k.out, "\x1b[H\x1b[2J%s[a] left  [s] stay  [d] right  [q] quit\n", s.Render())
	for {
		var c key
		select {
		case <-k.ctx.Done():
			return 0, k.ctx.Err()
		case c = <-k.keys:
		}
		if c.err != nil {
			return 0, c.err
		}
		switch c.r {
		case 'a', 'h':
			return -1, nil
		case 's', 'j', ' ':
			return 0, nil
		case 'd', 'l':
			return 1, nil
		case 'q':
			return 0, errQuit
		}
	}
}

var arcadeCommand = &cli.Command{
	Name:      "arcade",
	Usage:     "run the arcade cabinet",
	ArgsUsage: "<program>",
	Description: `Without flags, runs the game without coins and prints the number of blocks on
screen. With --auto or --play, inserts coins and plays the game, either on
autopilot or from the keyboard, and prints the final score.`,
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "auto", Usage: "play on autopilot"},
		&cli.BoolFlag{Name: "play", Usage: "play from the keyboard"},
	},
	Action: func(c *cli.Context) error {
		prog, err := loadProgram(c)
		if err != nil {
			return err
		}
		var joy arcade.Joystick
		switch {
		case c.Bool("play"):
			if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				return errors.New("--play requires a terminal")
			}
			restore, err := setCbreak(os.Stdin)
			if err != nil {
				return err
			}
			defer restore()
			joy = newKeyboard(c.Context, os.Stdin, os.Stdout)
		case c.Bool("auto"):
			joy = arcade.Autopilot{}
		default:
			n, err := arcade.CountBlocks(prog, cfg.VMOptions()...)
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		}
		score, err := arcade.Play(c.Context, prog, joy, cfg.VMOptions()...)
		if errors.Cause(err) == errQuit {
			return nil
		}
		if errors.Cause(err) == arcade.ErrGameOver {
			fmt.Println("GAME OVER")
			err = nil
		}
		if err != nil {
			return err
		}
		fmt.Println(score)
		return nil
	},
}

var mazeCommand = &cli.Command{
	Name:      "maze",
	Usage:     "explore a maze with the repair droid",
	ArgsUsage: "<program>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "show", Usage: "draw the explored part of the maze"},
	},
	Action: func(c *cli.Context) (err error) {
		prog, err := loadProgram(c)
		if err != nil {
			return err
		}
		m, err := harness.Start(c.Context, prog, harness.Name("droid"), harness.VMOptions(cfg.VMOptions()...))
		if err != nil {
			return err
		}
		defer func() {
			if e := m.Close(); err == nil {
				err = e
			}
		}()
		e := droid.NewExplorer(m)
		steps, found, err := e.Run()
		if err != nil {
			return err
		}
		if c.Bool("show") {
			fmt.Print(e.Render())
		}
		if !found {
			fmt.Println("unreachable")
			return nil
		}
		fmt.Println(steps)
		return nil
	},
}

var dumpConfigCommand = &cli.Command{
	Name:  "dumpconfig",
	Usage: "write the current configuration in TOML format",
	Action: func(c *cli.Context) error {
		return cfg.Encode(os.Stdout)
	},
}
