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

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrUnexpected is returned by Expect when the VM outputs a value other than
// the expected one.
var ErrUnexpected = errors.New("unexpected output")

// Machine is an Intcode VM running in its own goroutine. The controller
// talks to it through two pipes: values sent with Send are read by the IN
// instruction, values written by the OUT instruction are read with Recv.
//
// The output pipe is closed when the VM stops, either because it halted or
// because of a fault.
//
// A controller and its VM that disagree on the protocol (both waiting for
// input for example) will block forever. The context given to Start is the
// only way out of such a deadlock.
type Machine struct {
	name   string
	in     *Pipe
	out    *Pipe
	vmOpts []vm.Option
	logger *zap.Logger
	cancel context.CancelFunc
	ctx    context.Context
	done   chan struct{}
	err    error
	vm     *vm.Instance
}

// Option interface
type Option func(*Machine) error

// Name sets the machine name used in log entries.
func Name(name string) Option {
	return func(m *Machine) error { m.name = name; return nil }
}

// Logger sets the logger. The default is zap.L().
func Logger(l *zap.Logger) Option {
	return func(m *Machine) error {
		if l == nil {
			return errors.New("nil logger")
		}
		m.logger = l
		return nil
	}
}

// VMOptions sets options passed to vm.New. Any vm.WithIO option is
// overridden.
func VMOptions(opts ...vm.Option) Option {
	return func(m *Machine) error {
		m.vmOpts = append(m.vmOpts, opts...)
		return nil
	}
}

// Input sets the pipe the VM reads from. By default, a new pipe is created.
// Use this and Output to chain machines together.
func Input(p *Pipe) Option {
	return func(m *Machine) error { m.in = p; return nil }
}

// Output sets the pipe the VM writes to. By default, a new pipe is created.
// The pipe will be closed when the VM stops.
func Output(p *Pipe) Option {
	return func(m *Machine) error { m.out = p; return nil }
}

// pipeIO connects a VM to a pair of pipes.
type pipeIO struct {
	ctx context.Context
	in  *Pipe
	out *Pipe
}

func (p *pipeIO) Input() (vm.Cell, error) {
	v, err := p.in.Recv(p.ctx)
	if err == io.EOF {
		return 0, ErrClosed
	}
	return v, err
}

func (p *pipeIO) Output(v vm.Cell) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	return p.out.Send(v)
}

// Start starts a copy of the given program in a new goroutine.
//
// The returned Machine must be shut down by calling either Wait, once the
// program is known to have halted, or Close.
func Start(ctx context.Context, prog []vm.Cell, opts ...Option) (*Machine, error) {
	m := &Machine{logger: zap.L(), done: make(chan struct{})}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.in == nil {
		m.in = NewPipe()
	}
	if m.out == nil {
		m.out = NewPipe()
	}
	m.logger = m.logger.Named("harness")
	if m.name != "" {
		m.logger = m.logger.With(zap.String("machine", m.name))
	}
	m.ctx, m.cancel = context.WithCancel(ctx)

	vmOpts := append(m.vmOpts[:len(m.vmOpts):len(m.vmOpts)],
		vm.Logger(m.logger), vm.WithIO(&pipeIO{m.ctx, m.in, m.out}))
	i, err := vm.New(vm.Copy(prog), vmOpts...)
	if err != nil {
		m.cancel()
		return nil, err
	}
	m.vm = i

	m.logger.Debug("machine started", zap.Int("size", len(prog)))
	go m.run()
	return m, nil
}

func (m *Machine) run() {
	err := m.vm.Run()
	m.err = err
	m.out.Close()
	m.logger.Debug("machine stopped",
		zap.Int64("instructions", m.vm.InstructionCount()),
		zap.Error(err))
	close(m.done)
}

// Send sends v to the VM input.
func (m *Machine) Send(v vm.Cell) error {
	return m.in.Send(v)
}

// SendAll sends all values in vs, in order, to the VM input.
func (m *Machine) SendAll(vs ...vm.Cell) error {
	for _, v := range vs {
		if err := m.in.Send(v); err != nil {
			return err
		}
	}
	return nil
}

// Recv returns the next value output by the VM, waiting for it if needed.
//
// Once the VM has stopped and all its output has been received, Recv returns
// io.EOF if the VM halted normally, or the error that stopped it otherwise.
func (m *Machine) Recv() (vm.Cell, error) {
	v, err := m.out.Recv(m.ctx)
	if err == io.EOF {
		<-m.done
		if m.err != nil {
			return 0, m.err
		}
	}
	return v, err
}

// RecvN receives n values.
func (m *Machine) RecvN(n int) ([]vm.Cell, error) {
	vs := make([]vm.Cell, 0, n)
	for len(vs) < n {
		v, err := m.Recv()
		if err != nil {
			return vs, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// Expect receives a value and checks that it equals want.
func (m *Machine) Expect(want vm.Cell) error {
	v, err := m.Recv()
	if err != nil {
		return err
	}
	if v != want {
		return errors.Wrapf(ErrUnexpected, "got %d, want %d", v, want)
	}
	return nil
}

// Wait waits for the VM to stop and returns the error that stopped it, if
// any. Values not yet received are still available through Recv.
func (m *Machine) Wait() error {
	<-m.done
	m.cancel()
	return m.err
}

// Done returns a channel that is closed when the VM has stopped.
func (m *Machine) Done() <-chan struct{} {
	return m.done
}

// InstructionCount returns the number of instructions executed by the VM. It
// must be called only after the VM has stopped.
func (m *Machine) InstructionCount() int64 {
	<-m.done
	return m.vm.InstructionCount()
}

// Close tears the machine down: its input is closed and a VM blocked on
// input or output stops. The resulting ErrClosed or cancellation error is
// not reported. Close returns the error of a VM that stopped for any other
// reason.
//
// Close waits for the VM goroutine to exit. A program that loops forever
// without any I/O will therefore block Close.
func (m *Machine) Close() error {
	m.in.Close()
	m.cancel()
	<-m.done
	switch errors.Cause(m.err) {
	case nil:
		return nil
	case ErrClosed, context.Canceled:
		m.logger.Debug("machine torn down", zap.NamedError("cause", m.err))
		return nil
	}
	return m.err
}
