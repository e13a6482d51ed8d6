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


package ici_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/db47h/intcode/internal/ici"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type limitWriter struct {
	n int
}

var errFull = errors.New("full")

func (w *limitWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		n := w.n
		w.n = 0
		return n, errFull
	}
	w.n -= len(p)
	return len(p), nil
}

func TestErrWriter(t *testing.T) {
	var b bytes.Buffer
	w := ici.NewErrWriter(&b)
	assert.Same(t, w, ici.NewErrWriter(w))
	w.WriteString("add ")
	w.Printf("#%d", 42)
	w.Write([]byte("\n"))
	assert.NoError(t, w.Err)
	assert.Equal(t, "add #42\n", b.String())
}

func TestErrWriter_sticky(t *testing.T) {
	w := ici.NewErrWriter(&limitWriter{4})
	n, err := w.WriteString("abc")
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = w.WriteString("def")
	assert.Equal(t, errFull, errors.Cause(err))
	n, err = io.WriteString(w, "x")
	assert.Zero(t, n)
	assert.Equal(t, errFull, errors.Cause(err))
	w.Printf("%d", 1)
	assert.Equal(t, errFull, errors.Cause(w.Err))
}
