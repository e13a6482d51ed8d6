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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/db47h/intcode/internal/config"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "load configuration from TOML `file`",
		EnvVars: []string{"INTCODE_CONFIG"},
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "print error stack traces",
	}
	traceFlag = &cli.BoolFlag{
		Name:  "trace",
		Usage: "log every executed instruction (implies --log.level debug)",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log.level",
		Usage: "log `level`: debug, info, warn or error",
	}
	maxMemoryFlag = &cli.IntFlag{
		Name:  "vm.maxmem",
		Usage: "VM memory limit in `cells`",
	}
)

var (
	cfg    = config.Default()
	logger = zap.NewNop()
	debug  bool
)

// setup loads the configuration, applies command line overrides and installs
// the global logger.
func setup(c *cli.Context) error {
	var err error
	debug = c.Bool(debugFlag.Name)
	if fn := c.String(configFlag.Name); fn != "" {
		if cfg, err = config.Load(fn); err != nil {
			return err
		}
	}
	if c.IsSet(logLevelFlag.Name) {
		cfg.Log.Level = c.String(logLevelFlag.Name)
	}
	if c.IsSet(maxMemoryFlag.Name) {
		cfg.VM.MaxMemory = c.Int(maxMemoryFlag.Name)
	}
	if c.Bool(traceFlag.Name) {
		cfg.VM.Trace = true
		cfg.Log.Level = "debug"
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	if logger, err = cfg.Logger(); err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "intcode",
		Usage:                "run and inspect Intcode programs",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			configFlag,
			debugFlag,
			traceFlag,
			logLevelFlag,
			maxMemoryFlag,
		},
		Before: setup,
		After: func(c *cli.Context) error {
			logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			runCommand,
			disasmCommand,
			asmCommand,
			diagCommand,
			gravityCommand,
			ampCommand,
			paintCommand,
			arcadeCommand,
			mazeCommand,
			dumpConfigCommand,
		},
	}
}

func atExit(err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%+v\n", err)
	os.Exit(1)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newApp().RunContext(ctx, os.Args)
	stop()
	atExit(err)
}
