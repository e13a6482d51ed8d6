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

//go:build !windows
// +build !windows

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// setCbreak switches the terminal on f to cbreak mode: input is available
// one key at a time, without echo. It returns a function that restores the
// previous settings.
func setCbreak(f *os.File) (func(), error) {
	var tios unix.Termios
	if err := termios.Tcgetattr(f.Fd(), &tios); err != nil {
		return nil, errors.Wrap(err, "Tcgetattr failed")
	}
	a := tios
	termios.Cfmakecbreak(&a)
	a.Cc[unix.VMIN] = 1
	a.Cc[unix.VTIME] = 0
	if err := termios.Tcflush(f.Fd(), termios.TCIFLUSH); err != nil {
		return nil, errors.Wrap(err, "Tcflush failed")
	}
	if err := termios.Tcsetattr(f.Fd(), termios.TCSANOW, &a); err != nil {
		// well, try to restore as it was if it errors
		termios.Tcsetattr(f.Fd(), termios.TCSANOW, &tios)
		return nil, errors.Wrap(err, "Tcsetattr failed")
	}
	return func() {
		termios.Tcsetattr(f.Fd(), termios.TCSANOW, &tios)
	}, nil
}
