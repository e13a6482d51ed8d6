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

package vm

// IO is the capability used by the VM to exchange values with its
// environment. Input is called by the IN instruction and may block until a
// value is available; Output is called by the OUT instruction and may block
// until the value has been taken. Any error returned aborts Run.
type IO interface {
	Input() (Cell, error)
	Output(v Cell) error
}

// IOFuncs adapts a pair of functions to the IO interface. A nil In function
// returns ErrNoInput, a nil Out function discards values.
type IOFuncs struct {
	In  func() (Cell, error)
	Out func(v Cell) error
}

// Input implements IO.
func (f IOFuncs) Input() (Cell, error) {
	if f.In == nil {
		return 0, ErrNoInput
	}
	return f.In()
}

// Output implements IO.
func (f IOFuncs) Output(v Cell) error {
	if f.Out == nil {
		return nil
	}
	return f.Out(v)
}

type discardIO struct{}

func (discardIO) Input() (Cell, error) { return 0, ErrNoInput }
func (discardIO) Output(Cell) error    { return nil }

// Script is a synchronous IO that feeds inputs from a fixed list and records
// outputs.
//
// Once the input list is exhausted, Input returns ErrNoInput unless Repeat is
// set, in which case the last input value is returned over and over.
type Script struct {
	In     []Cell
	Out    []Cell
	Repeat bool
	next   int
}

// NewScript returns a new Script with the given inputs.
func NewScript(in ...Cell) *Script {
	return &Script{In: in}
}

// Input implements IO.
func (s *Script) Input() (Cell, error) {
	if s.next >= len(s.In) {
		if s.Repeat && len(s.In) > 0 {
			return s.In[len(s.In)-1], nil
		}
		return 0, ErrNoInput
	}
	v := s.In[s.next]
	s.next++
	return v, nil
}

// Output implements IO.
func (s *Script) Output(v Cell) error {
	s.Out = append(s.Out, v)
	return nil
}
