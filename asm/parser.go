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

package asm

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/intcode/vm"
)

// maxErrors is the maximum number of errors reported by Assemble.
const maxErrors = 10

// ErrAsm is the error type returned by Assemble: a list of errors with their
// position in the source code.
type ErrAsm []struct {
	Pos scanner.Position
	Msg string
}

func (e ErrAsm) Error() string {
	var b strings.Builder
	for n, err := range e {
		if n > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Pos.String())
		b.WriteString(": ")
		b.WriteString(err.Msg)
	}
	return b.String()
}

type labelSite struct {
	pos     scanner.Position
	address int
	offset  vm.Cell
}

type label struct {
	labelSite
	uses []labelSite
}

type parser struct {
	s      scanner.Scanner
	tok    rune
	pos    scanner.Position
	mem    []vm.Cell
	labels map[string]*label
	errs   ErrAsm
}

func newParser() *parser {
	return &parser{labels: make(map[string]*label)}
}

func (p *parser) error(pos scanner.Position, msg string) {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, struct {
			Pos scanner.Position
			Msg string
		}{pos, msg})
	}
}

func (p *parser) errorf(format string, args ...interface{}) {
	p.error(p.pos, fmt.Sprintf(format, args...))
}

// next advances to the next token. Comments run from ';' to the end of the
// line and are skipped. Newlines are returned as tokens.
func (p *parser) next() {
	p.tok = p.s.Scan()
	p.pos = p.s.Position
	if p.tok == ';' {
		for ch := p.s.Peek(); ch != '\n' && ch != scanner.EOF; ch = p.s.Peek() {
			p.s.Next()
		}
		p.tok = p.s.Scan()
		p.pos = p.s.Position
	}
}

// sync skips to the start of the next line.
func (p *parser) sync() {
	for p.tok != '\n' && p.tok != scanner.EOF {
		p.next()
	}
}

func (p *parser) write(v vm.Cell) {
	p.mem = append(p.mem, v)
}

func (p *parser) defineLabel(name string) {
	l := p.labels[name]
	if l == nil {
		p.labels[name] = &label{labelSite: labelSite{pos: p.pos, address: len(p.mem)}}
		return
	}
	if l.address != -1 {
		p.errorf("label redefinition: %s, previous definition here: %s", name, l.pos)
		return
	}
	l.pos = p.pos
	l.address = len(p.mem)
}

func (p *parser) useLabel(name string, pos scanner.Position, offset vm.Cell) {
	l := p.labels[name]
	if l == nil {
		l = &label{labelSite: labelSite{pos: pos, address: -1}}
		p.labels[name] = l
	}
	l.uses = append(l.uses, labelSite{pos, len(p.mem), offset})
}

func (p *parser) integer() (vm.Cell, bool) {
	v, err := strconv.ParseInt(p.s.TokenText(), 0, 64)
	if err != nil {
		p.errorf("invalid integer %s", p.s.TokenText())
		return 0, false
	}
	return vm.Cell(v), true
}

// value parses an integer, a label or a label with an integer offset and
// writes it to the current address.
func (p *parser) value() bool {
	neg := false
	if p.tok == '-' {
		neg = true
		p.next()
	}
	switch p.tok {
	case scanner.Int:
		v, ok := p.integer()
		if !ok {
			return false
		}
		if neg {
			v = -v
		}
		p.write(v)
		p.next()
		return true
	case scanner.Ident:
		if neg {
			p.errorf("unexpected label %s after '-'", p.s.TokenText())
			return false
		}
		name, pos := p.s.TokenText(), p.pos
		p.next()
		var off vm.Cell
		if p.tok == '+' || p.tok == '-' {
			sign := p.tok
			p.next()
			if p.tok != scanner.Int {
				p.errorf("expected integer offset, got %s", p.s.TokenText())
				return false
			}
			v, ok := p.integer()
			if !ok {
				return false
			}
			if sign == '-' {
				v = -v
			}
			off = v
			p.next()
		}
		p.useLabel(name, pos, off)
		p.write(0)
		return true
	}
	p.errorf("expected value, got %s", scanner.TokenString(p.tok))
	return false
}

// operand parses an operand with its addressing mode prefix: '#' for
// immediate, '@' for relative, none for position.
func (p *parser) operand() (vm.Cell, bool) {
	mode := vm.ModePosition
	switch p.tok {
	case '#':
		mode = vm.ModeImmediate
		p.next()
	case '@':
		mode = vm.ModeRelative
		p.next()
	}
	return mode, p.value()
}

func (p *parser) instruction(op vm.Opcode) bool {
	name := p.s.TokenText()
	start := len(p.mem)
	p.write(0)
	p.next()
	ins := vm.Cell(op)
	scale := vm.Cell(100)
	for n := 0; n < op.Params(); n++ {
		if n > 0 && p.tok == ',' {
			p.next()
		}
		if p.tok == '\n' || p.tok == scanner.EOF {
			p.errorf("%s: expected %d operands, got %d", name, op.Params(), n)
			return false
		}
		pos := p.pos
		mode, ok := p.operand()
		if !ok {
			return false
		}
		if mode == vm.ModeImmediate && op.Writes() && n == op.Params()-1 {
			p.error(pos, name+": immediate mode write operand")
			return false
		}
		ins += mode * scale
		scale *= 10
	}
	p.mem[start] = ins
	return true
}

func (p *parser) data() bool {
	p.next()
	if p.tok == '\n' || p.tok == scanner.EOF {
		p.errorf(".data: missing value")
		return false
	}
	for {
		if !p.value() {
			return false
		}
		if p.tok == ',' {
			p.next()
		}
		if p.tok == '\n' || p.tok == scanner.EOF {
			return true
		}
	}
}

// statement parses a single line.
func (p *parser) statement() bool {
	// labels
	for p.tok == scanner.Ident && p.s.Peek() == ':' {
		p.defineLabel(p.s.TokenText())
		p.s.Next()
		p.next()
	}
	switch p.tok {
	case '\n', scanner.EOF:
		return true
	case '.':
		p.next()
		if p.tok != scanner.Ident || p.s.TokenText() != "data" {
			p.errorf("unknown directive .%s", p.s.TokenText())
			return false
		}
		if !p.data() {
			return false
		}
	case scanner.Ident:
		op, ok := vm.LookupOpcode(p.s.TokenText())
		if !ok {
			p.errorf("unknown instruction %s", p.s.TokenText())
			return false
		}
		if !p.instruction(op) {
			return false
		}
	default:
		p.errorf("unexpected %s", scanner.TokenString(p.tok))
		return false
	}
	if p.tok != '\n' && p.tok != scanner.EOF {
		p.errorf("unexpected %s at end of statement", scanner.TokenString(p.tok))
		return false
	}
	return true
}

// Parse does the parsing and compiling.
func (p *parser) Parse(name string, r io.Reader) ([]vm.Cell, error) {
	p.s.Init(r)
	p.s.Filename = name
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts
	p.s.Whitespace = scanner.GoWhitespace &^ (1 << '\n')
	p.s.Error = func(s *scanner.Scanner, msg string) {
		pos := s.Position
		if !pos.IsValid() {
			pos = s.Pos()
		}
		p.error(pos, msg)
	}

	for p.next(); p.tok != scanner.EOF; {
		if !p.statement() {
			p.sync()
		}
		if p.tok == '\n' {
			p.next()
		}
	}

	// resolve labels
	names := make([]string, 0, len(p.labels))
	for n := range p.labels {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		l := p.labels[n]
		if l.address == -1 {
			p.error(l.uses[0].pos, "undefined label "+n)
			continue
		}
		for _, u := range l.uses {
			p.mem[u.address] = vm.Cell(l.address) + u.offset
		}
	}

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return p.mem, nil
}
