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

package harness_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/db47h/intcode/harness"
	"github.com/db47h/intcode/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipe_FIFO(t *testing.T) {
	ctx := context.Background()
	p := harness.NewPipe()
	// unbounded: no reader yet
	for n := 0; n < 10000; n++ {
		require.NoError(t, p.Send(vm.Cell(n)))
	}
	assert.Equal(t, 10000, p.Len())
	for n := 0; n < 10000; n++ {
		v, err := p.Recv(ctx)
		require.NoError(t, err)
		require.EqualValues(t, n, v)
	}
	assert.Zero(t, p.Len())
}

func TestPipe_Close(t *testing.T) {
	ctx := context.Background()
	p := harness.NewPipe()
	require.NoError(t, p.Send(1))
	require.NoError(t, p.Send(2))
	p.Close()
	p.Close()
	assert.Equal(t, harness.ErrClosed, p.Send(3))

	v, err := p.Recv(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
	v, err = p.Recv(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, v)
	_, err = p.Recv(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestPipe_Drain(t *testing.T) {
	p := harness.NewPipe()
	assert.Empty(t, p.Drain())
	require.NoError(t, p.Send(4))
	require.NoError(t, p.Send(5))
	assert.Equal(t, []vm.Cell{4, 5}, p.Drain())
	assert.Zero(t, p.Len())
}

func TestPipe_cancel(t *testing.T) {
	p := harness.NewPipe()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Recv(ctx)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestPipe_concurrent(t *testing.T) {
	const count = 5000
	ctx := context.Background()
	p := harness.NewPipe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := 0; n < count; n++ {
			p.Send(vm.Cell(n))
		}
		p.Close()
	}()
	var got []vm.Cell
	for {
		v, err := p.Recv(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, v)
	}
	wg.Wait()
	require.Len(t, got, count)
	for n, v := range got {
		if vm.Cell(n) != v {
			t.Fatalf("value %d: got %d", n, v)
		}
	}
}
