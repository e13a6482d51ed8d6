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

// The intcode command line tool runs and inspects Intcode programs, and drives
// the interactive programs implemented in the github.com/db47h/intcode/ctl
// packages.
//
// Usage:
//
//	intcode [global options] command [command options] <program>
//
// Commands:
//
//	run         run a program, reading input from --input flags or stdin
//	disasm      disassemble a program
//	asm         assemble a program
//	diag        run a diagnostic program
//	gravity     run the gravity assist program, or search a noun and verb
//	amp         find the best phase settings for a chain of amplifiers
//	paint       run the hull painting robot
//	arcade      count blocks, or play the arcade game
//	maze        find the shortest path to the target with the repair droid
//	dumpconfig  write the current configuration in TOML format
//
// Global options:
//
//	--config file, -c file
//		  load configuration from TOML file ($INTCODE_CONFIG)
//	--debug
//		  print error stack traces
//	--trace
//		  log every executed instruction (implies --log.level debug)
//	--log.level level
//		  log level: debug, info, warn or error
//	--vm.maxmem cells
//		  VM memory limit in cells
//
// Programs are read from the file given as argument, or from stdin if the file
// name is "-". The asm command reads assembly source and outputs a program.
//
// --debug: will print a full stacktrace should a VM fault.
//
// The configuration file sets the same options as the command line flags:
//
//	[log]
//	level = "warn"
//	development = true
//
//	[vm]
//	trace = false
//	max_memory = 16777216
//
// arcade --play switches the terminal to cbreak mode and reads the joystick
// position from the keyboard: a for left, d for right, s or space to stay
// still and q to quit.
package main
