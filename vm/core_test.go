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
	"strconv"
	"strings"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type C []vm.Cell

func parse(t testing.TB, text string) C {
	t.Helper()
	mem, err := vm.Parse(t.Name(), strings.NewReader(text))
	require.NoError(t, err)
	return mem
}

func runProg(t testing.TB, prog C, in ...vm.Cell) (*vm.Instance, C, error) {
	t.Helper()
	s := vm.NewScript(in...)
	i, err := vm.New(vm.Copy(prog), vm.WithIO(s))
	require.NoError(t, err)
	err = i.Run()
	return i, s.Out, err
}

func TestCore_Memory(t *testing.T) {
	tests := []struct {
		name string
		code string
		mem  C
	}{
		{"add", "1,0,0,0,99", C{2, 0, 0, 0, 99}},
		{"mul", "2,3,0,3,99", C{2, 3, 0, 6, 99}},
		{"mul past end", "2,4,4,5,99,0", C{2, 4, 4, 5, 99, 9801}},
		{"add then mul", "1,1,1,4,99,5,6,0,99", C{30, 1, 1, 4, 2, 5, 6, 0, 99}},
		{"immediate", "1002,4,3,4,33", C{1002, 4, 3, 4, 99}},
		{"negative", "1101,100,-1,4,0", C{1101, 100, -1, 4, 99}},
		{"restricted", "1,9,10,3,2,3,11,0,99,30,40,50", C{3500, 9, 10, 70, 2, 3, 11, 0, 99, 30, 40, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, _, err := runProg(t, parse(t, tt.code))
			require.NoError(t, err)
			assert.Equal(t, tt.mem, C(i.Mem))
		})
	}
}

func TestCore_IO(t *testing.T) {
	large := "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31," +
		"1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104," +
		"999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99"
	tests := []struct {
		name string
		code string
		in   vm.Cell
		out  C
	}{
		{"echo", "3,0,4,0,99", 42, C{42}},
		{"eq position 8", "3,9,8,9,10,9,4,9,99,-1,8", 8, C{1}},
		{"eq position 7", "3,9,8,9,10,9,4,9,99,-1,8", 7, C{0}},
		{"lt position 7", "3,9,7,9,10,9,4,9,99,-1,8", 7, C{1}},
		{"lt position 8", "3,9,7,9,10,9,4,9,99,-1,8", 8, C{0}},
		{"eq immediate 8", "3,3,1108,-1,8,3,4,3,99", 8, C{1}},
		{"eq immediate 13", "3,3,1108,-1,8,3,4,3,99", 13, C{0}},
		{"lt immediate 7", "3,3,1107,-1,8,3,4,3,99", 7, C{1}},
		{"lt immediate 8", "3,3,1107,-1,8,3,4,3,99", 8, C{0}},
		{"lt immediate 9", "3,3,1107,-1,8,3,4,3,99", 9, C{0}},
		{"jump position 0", "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9", 0, C{0}},
		{"jump position 10", "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9", 10, C{1}},
		{"jump immediate 0", "3,3,1105,-1,9,1101,0,0,12,4,12,99,1", 0, C{0}},
		{"jump immediate 10", "3,3,1105,-1,9,1101,0,0,12,4,12,99,1", 10, C{1}},
		{"compare 7", large, 7, C{999}},
		{"compare 8", large, 8, C{1000}},
		{"compare 9", large, 9, C{1001}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := runProg(t, parse(t, tt.code), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.out, out)
		})
	}
}

func TestCore_Quine(t *testing.T) {
	quine := parse(t, "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99")
	_, out, err := runProg(t, quine)
	require.NoError(t, err)
	assert.Equal(t, quine, out)
}

func TestCore_LargeValues(t *testing.T) {
	_, out, err := runProg(t, parse(t, "1102,34915192,34915192,7,4,7,99,0"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, strconv.FormatInt(int64(out[0]), 10), 16)

	_, out, err = runProg(t, parse(t, "104,1125899906842624,99"))
	require.NoError(t, err)
	assert.Equal(t, C{1125899906842624}, out)
}

func TestCore_Faults(t *testing.T) {
	tests := []struct {
		name string
		code string
		pc   int
		err  error
	}{
		{"add overflow", "1101,9223372036854775807,1,0,99", 0, vm.ErrOverflow},
		{"add underflow", "1101,-9223372036854775808,-1,0,99", 0, vm.ErrOverflow},
		{"mul overflow", "1102,4611686018427387904,2,0,99", 0, vm.ErrOverflow},
		{"mul min", "1102,-9223372036854775808,-1,0,99", 0, vm.ErrOverflow},
		{"immediate write", "11101,1,1,0,99", 0, vm.ErrImmediateWrite},
		{"immediate input", "103,0,99", 0, vm.ErrImmediateWrite},
		{"opcode", "1101,0,0,0,42", 4, vm.ErrOpcode},
		{"negative opcode", "-1", 0, vm.ErrOpcode},
		{"past end", "1101,0,0,0", 4, vm.ErrOpcode},
		{"mode", "301,0,0,0,99", 0, vm.ErrMode},
		{"output excess mode", "1104,0,99", 0, vm.ErrMode},
		{"jump excess mode", "11105,1,5,99", 0, vm.ErrMode},
		{"arb excess mode", "1109,1,99", 0, vm.ErrMode},
		{"halt mode", "199", 0, vm.ErrMode},
		{"negative read", "4,-1,99", 0, vm.ErrAddress},
		{"negative write", "1101,1,1,-5,99", 0, vm.ErrAddress},
		{"negative relative", "109,-10,204,0,99", 2, vm.ErrAddress},
		{"negative jump", "1105,1,-1", 0, vm.ErrAddress},
		{"arb overflow", "109,9223372036854775807,109,1,99", 2, vm.ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, _, err := runProg(t, parse(t, tt.code))
			require.Error(t, err)
			assert.Equal(t, tt.err, errors.Cause(err), "%+v", err)
			assert.True(t, vm.IsFault(err))
			assert.Equal(t, tt.pc, i.PC)
		})
	}
}

func TestCore_NoInput(t *testing.T) {
	i, err := vm.New(C{3, 0, 99})
	require.NoError(t, err)
	err = i.Run()
	assert.Equal(t, vm.ErrNoInput, errors.Cause(err))
	assert.False(t, vm.IsFault(err))
	assert.Equal(t, 0, i.PC)
}

func TestCore_InstructionCount(t *testing.T) {
	i, _, err := runProg(t, C{1101, 1, 1, 0, 1105, 1, 7, 99})
	require.NoError(t, err)
	assert.EqualValues(t, 3, i.InstructionCount())
	assert.Equal(t, 7, i.PC)
}

var fib = C{
	3, 100, // in n
	1101, 0, 0, 101, // a = 0
	1101, 0, 1, 102, // b = 1
	1006, 100, 32, // jz n, end
	1, 101, 102, 103, // t = a + b
	1001, 102, 0, 101, // a = b
	1001, 103, 0, 102, // b = t
	1001, 100, -1, 100, // n--
	1105, 1, 10, // jump loop
	4, 101, // end: out a
	99,
}

func TestCore_Fib(t *testing.T) {
	_, out, err := runProg(t, fib, 30)
	require.NoError(t, err)
	assert.Equal(t, C{832040}, out)
}

func Benchmark_Fib(b *testing.B) {
	for c := 0; c < b.N; c++ {
		i, _ := vm.New(vm.Copy(fib), vm.WithIO(vm.NewScript(90)))
		if err := i.Run(); err != nil {
			b.Fatalf("%+v", err)
		}
	}
}
