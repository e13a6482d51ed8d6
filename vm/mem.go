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

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/intcode/internal/ici"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// read returns the value at address addr. Addresses beyond the end of memory
// read as 0.
func (i *Instance) read(addr Cell) (Cell, error) {
	if addr < 0 {
		return 0, errors.Wrapf(ErrAddress, "read at %d", addr)
	}
	if addr >= Cell(len(i.Mem)) {
		return 0, nil
	}
	return i.Mem[addr], nil
}

// write stores v at address addr. Writing beyond the end of memory grows it
// to exactly addr+1 cells.
func (i *Instance) write(addr, v Cell) error {
	if addr < 0 || addr >= Cell(i.maxMem) {
		return errors.Wrapf(ErrAddress, "write at %d", addr)
	}
	if addr >= Cell(len(i.Mem)) {
		i.grow(int(addr) + 1)
	}
	i.Mem[addr] = v
	return nil
}

func (i *Instance) grow(size int) {
	l := len(i.Mem)
	if size <= cap(i.Mem) {
		i.Mem = i.Mem[:size]
		for n := l; n < size; n++ {
			i.Mem[n] = 0
		}
		return
	}
	c := 2 * cap(i.Mem)
	if c < size {
		c = size
	}
	if c > i.maxMem {
		c = i.maxMem
	}
	mem := make([]Cell, size, c)
	copy(mem, i.Mem)
	i.Mem = mem
	i.logger.Debug("memory grown", zap.Int("from", l), zap.Int("to", size))
}

// Parse reads program text from r: comma separated decimal integers,
// optionally spread over several lines. A line break separates values, and a
// separating comma may be placed at the end of a line or at the start of the
// next one, but not both.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
func Parse(name string, r io.Reader) ([]Cell, error) {
	var mem []Cell
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1<<26)
	line := 0
	// trailing reports whether the last non blank line ended with a comma.
	trailing := false
	for s.Scan() {
		line++
		text := s.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, ",")
		col := 1
		for n, f := range fields {
			tok := strings.TrimSpace(f)
			if tok == "" {
				switch {
				case n == len(fields)-1:
					trailing = n > 0
					continue
				case n == 0 && len(mem) > 0 && !trailing:
					// separator carried over from the previous line
					col += len(f) + 1
					continue
				}
				return nil, errors.Errorf("%s:%d:%d: missing value", name, line, col)
			}
			trailing = false
			v, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return nil, errors.Errorf("%s:%d:%d: invalid value %q", name, line, col, tok)
			}
			mem = append(mem, Cell(v))
			col += len(f) + 1
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s: read failed", name)
	}
	return mem, nil
}

// Load loads a program from file fileName.
func Load(fileName string) ([]Cell, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer f.Close()
	return Parse(fileName, f)
}

// Format writes mem as program text to w.
func Format(w io.Writer, mem []Cell) error {
	ew := ici.NewErrWriter(w)
	for n, v := range mem {
		if n > 0 {
			ew.Write([]byte{','})
		}
		io.WriteString(ew, strconv.FormatInt(int64(v), 10))
	}
	_, err := ew.Write([]byte{'\n'})
	return err
}

// Save saves mem as program text to file fileName.
func Save(fileName string, mem []Cell) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	w := bufio.NewWriter(f)
	defer func() {
		if e := w.Flush(); err == nil && e != nil {
			err = errors.Wrap(e, "write failed")
		}
		f.Close()
		// delete file on error
		if err != nil {
			os.Remove(fileName)
		}
	}()
	return Format(w, mem)
}
