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

package harness

import (
	"context"
	"io"
	"sync"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// ErrClosed is returned when sending to a closed Pipe. A VM blocked on input
// when its Machine is torn down stops with this error.
var ErrClosed = errors.New("pipe closed")

// Pipe is an unbounded FIFO queue of cells with a single producer and a single
// consumer. Send never blocks.
type Pipe struct {
	mu     sync.Mutex
	buf    []vm.Cell
	closed bool
	// ready holds a token whenever the state of the pipe has changed since
	// the consumer last looked at it.
	ready chan struct{}
}

// NewPipe returns a new empty Pipe.
func NewPipe() *Pipe {
	return &Pipe{ready: make(chan struct{}, 1)}
}

func (p *Pipe) signal() {
	select {
	case p.ready <- struct{}{}:
	default:
	}
}

// Send appends v to the pipe. It returns ErrClosed if the pipe has been
// closed.
func (p *Pipe) Send(v vm.Cell) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.buf = append(p.buf, v)
	p.signal()
	return nil
}

// Recv removes and returns the value at the head of the pipe, waiting for one
// to be sent if the pipe is empty. Once the pipe is closed and drained, Recv
// returns io.EOF. If ctx is done before a value is available, Recv returns
// ctx.Err().
func (p *Pipe) Recv(ctx context.Context) (vm.Cell, error) {
	for {
		p.mu.Lock()
		if len(p.buf) > 0 {
			v := p.buf[0]
			p.buf = p.buf[1:]
			p.mu.Unlock()
			return v, nil
		}
		closed := p.closed
		p.mu.Unlock()
		if closed {
			return 0, io.EOF
		}
		select {
		case <-p.ready:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Close closes the pipe. Values already sent can still be received. Closing
// a closed pipe is a no-op.
func (p *Pipe) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		p.signal()
	}
}

// Len returns the number of values waiting in the pipe.
func (p *Pipe) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buf)
}

// Drain removes and returns all values waiting in the pipe without blocking.
func (p *Pipe) Drain() []vm.Cell {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.buf
	p.buf = nil
	return v
}
