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
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/db47h/intcode/ctl/arcade"
	"github.com/db47h/intcode/internal/config"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdinIO(t *testing.T) {
	var out strings.Builder
	w := bufio.NewWriter(&out)
	in := newStdinIO(context.Background(), strings.NewReader("1, 2,3\n\n-4 x"), w)
	for _, want := range []vm.Cell{1, 2, 3, -4} {
		v, err := in.Input()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	_, err := in.Input()
	assert.Error(t, err)
	_, err = in.Input()
	assert.Equal(t, vm.ErrNoInput, err)

	require.NoError(t, in.Output(42))
	require.NoError(t, w.Flush())
	assert.Equal(t, "42\n", out.String())
}

func TestKeyboard(t *testing.T) {
	var out strings.Builder
	k := newKeyboard(context.Background(), strings.NewReader("xad q"), &out)
	s := arcade.NewScreen()
	for _, want := range []vm.Cell{-1, 1, 0} {
		v, err := k.Move(s)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	_, err := k.Move(s)
	assert.Equal(t, errQuit, err)
	assert.Contains(t, out.String(), "Score: 0")
	_, err = k.Move(s)
	assert.Equal(t, io.EOF, err)
}

func TestKeyboard_cancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	k := newKeyboard(ctx, r, io.Discard)
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	done := make(chan error, 1)
	go func() {
		_, err := k.Move(arcade.NewScreen())
		done <- err
	}()
	select {
	case err := <-done:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Move did not return after cancel")
	}
}

func TestSetCbreak_notTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "tty"))
	require.NoError(t, err)
	defer f.Close()
	restore, err := setCbreak(f)
	assert.Error(t, err)
	assert.Nil(t, restore)
}

func TestSetup(t *testing.T) {
	defer func() { cfg = config.Default() }()
	fn := filepath.Join(t.TempDir(), "intcode.toml")
	require.NoError(t, os.WriteFile(fn, []byte("[vm]\nmax_memory = 1000\n"), 0644))

	err := newApp().Run([]string{"intcode", "--config", fn, "--trace", "--vm.maxmem", "2000", "dumpconfig"})
	require.NoError(t, err)
	assert.True(t, cfg.VM.Trace)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2000, cfg.VM.MaxMemory)

	err = newApp().Run([]string{"intcode", "--log.level", "loud", "dumpconfig"})
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	defer func() { cfg = config.Default() }()
	fn := filepath.Join(t.TempDir(), "prog.txt")
	require.NoError(t, vm.Save(fn, []vm.Cell{3, 0, 4, 0, 99}))
	err := newApp().Run([]string{"intcode", "run", "-i", "7", fn})
	require.NoError(t, err)

	err = newApp().Run([]string{"intcode", "run", "-i", "7", filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	require.NoError(t, vm.Save(fn, []vm.Cell{42}))
	err = newApp().Run([]string{"intcode", "run", fn})
	assert.Equal(t, vm.ErrOpcode, errors.Cause(err))
}
