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

package vm_test

import (
	"bytes"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryGrowth(t *testing.T) {
	i, _, err := runProg(t, C{1101, 5, 6, 10, 99})
	require.NoError(t, err)
	require.Len(t, i.Mem, 11)
	assert.Equal(t, C{1101, 5, 6, 10, 99, 0, 0, 0, 0, 0, 11}, C(i.Mem))
	for addr := 5; addr < 10; addr++ {
		v, err := i.Peek(addr)
		require.NoError(t, err)
		assert.Zero(t, v)
	}
}

func TestMemoryReadPastEnd(t *testing.T) {
	i, out, err := runProg(t, C{4, 100, 99})
	require.NoError(t, err)
	assert.Equal(t, C{0}, out)
	assert.Len(t, i.Mem, 3, "reads must not grow memory")
}

func TestMemoryLimit(t *testing.T) {
	i, err := vm.New(C{1101, 1, 1, 100, 99}, vm.MaxMemory(16))
	require.NoError(t, err)
	err = i.Run()
	assert.Equal(t, vm.ErrAddress, errors.Cause(err))

	_, err = vm.New(C{1, 2, 3}, vm.MaxMemory(2))
	assert.Error(t, err)
}

func TestRelativeBase(t *testing.T) {
	// adjustments accumulate
	i, out, err := runProg(t, C{109, 3, 109, 4, 204, -2, 99})
	require.NoError(t, err)
	assert.EqualValues(t, 7, i.RelBase)
	assert.Equal(t, C{-2}, out)

	// relative write, growing memory
	i, out, err = runProg(t, C{109, 10, 21101, 2, 3, 0, 204, 0, 99})
	require.NoError(t, err)
	assert.Equal(t, C{5}, out)
	assert.Len(t, i.Mem, 11)

	// relative input
	i, _, err = runProg(t, C{109, 6, 203, -1, 99, 0}, 77)
	require.NoError(t, err)
	assert.EqualValues(t, 77, i.Mem[5])
}

func TestSelfModifying(t *testing.T) {
	// the first instruction turns the add at 4 into an output of cell 9.
	prog := C{1101, 3, 1, 4, 1, 9, 9, 9, 99, 42}
	i, out, err := runProg(t, prog)
	require.NoError(t, err)
	assert.Equal(t, C{42}, out)
	assert.EqualValues(t, 42, i.RelBase)
	assert.EqualValues(t, 1, prog[4], "program must be copied")
}

func TestDeterminism(t *testing.T) {
	prog := parse(t, "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99")
	i1, out1, err := runProg(t, prog)
	require.NoError(t, err)
	i2, out2, err := runProg(t, prog)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
	assert.Equal(t, i1.Mem, i2.Mem)
	assert.Equal(t, i1.InstructionCount(), i2.InstructionCount())
}

func TestPoke(t *testing.T) {
	i, err := vm.New(vm.Copy(C{1, 0, 0, 0, 99}))
	require.NoError(t, err)
	require.NoError(t, i.Poke(1, 4))
	require.NoError(t, i.Poke(2, 4))
	require.NoError(t, i.Run())
	v, err := i.Peek(0)
	require.NoError(t, err)
	assert.EqualValues(t, 198, v)
	assert.Error(t, i.Poke(-1, 0))
}

func TestDump(t *testing.T) {
	i, _, err := runProg(t, C{1002, 4, 3, 4, 33})
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, i.Dump(&b))
	assert.Equal(t, "1002,4,3,4,99\n", b.String())
}

func TestTrace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	i, err := vm.New(C{1101, 1, 1, 0, 99}, vm.Logger(zap.New(core)), vm.Trace(true))
	require.NoError(t, err)
	require.NoError(t, i.Run())
	entries := logs.FilterMessage("exec").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "add", entries[0].ContextMap()["op"])
	assert.Equal(t, "hlt", entries[1].ContextMap()["op"])
	assert.Equal(t, "vm", entries[0].LoggerName)
}

func TestWithIO(t *testing.T) {
	_, err := vm.New(C{99}, vm.WithIO(nil))
	assert.Error(t, err)
}
