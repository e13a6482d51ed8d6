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
	"fmt"
	"strings"

	"github.com/db47h/intcode/vm"
)

// Shows how to parse a program and run it with scripted input.
func ExampleInstance_Run() {
	prog, err := vm.Parse("example", strings.NewReader("3,9,8,9,10,9,4,9,99,-1,8"))
	if err != nil {
		panic(err)
	}

	for _, in := range []vm.Cell{7, 8} {
		s := vm.NewScript(in)
		i, err := vm.New(vm.Copy(prog), vm.WithIO(s))
		if err != nil {
			panic(err)
		}
		if err = i.Run(); err != nil {
			panic(err)
		}
		fmt.Println(in, "== 8:", s.Out)
	}

	// Output:
	// 7 == 8: [0]
	// 8 == 8: [1]
}

// A custom IO built from closures: the program reads a value and echoes its
// square back.
func ExampleIOFuncs() {
	var last vm.Cell
	io := vm.IOFuncs{
		In:  func() (vm.Cell, error) { return 12, nil },
		Out: func(v vm.Cell) error { last = v; return nil },
	}
	i, err := vm.New([]vm.Cell{3, 9, 2, 9, 9, 9, 4, 9, 99, 0}, vm.WithIO(io))
	if err != nil {
		panic(err)
	}
	if err = i.Run(); err != nil {
		panic(err)
	}
	fmt.Println(last)

	// Output:
	// 144
}
