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

// Package harness runs Intcode programs concurrently with a controller.
//
// A Machine runs a VM in its own goroutine. The VM and the controller only
// share two Pipes: unbounded FIFO queues of cells. A controller can therefore
// send any number of values before reading any output (for example to replay
// a sequence of commands) without deadlocking.
//
// When the VM stops, its output pipe is closed: Recv returns the remaining
// output values, then io.EOF if the program halted normally. A controller that
// is done with a program that never halts calls Close to tear it down.
//
// Machines can be chained by passing the output pipe of one as the input pipe
// of another with the Input and Output options.
package harness
