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

// Package droid implements a controller for a repair droid exploring an
// unknown maze.
//
// The droid is controlled by an Intcode program that reads movement commands
// and outputs a status code for each. The controller never sees the maze: it
// finds the shortest path to the target with a breadth first search where
// each candidate path is replayed from the origin.
package droid

import (
	"context"
	"strings"

	"github.com/db47h/intcode/harness"
	"github.com/db47h/intcode/vm"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrStatus is returned when the droid replies with an invalid or unexpected
// status code.
var ErrStatus = errors.New("unexpected droid status")

// Move is a movement command.
type Move vm.Cell

// Movement commands.
const (
	North Move = 1
	South Move = 2
	West  Move = 3
	East  Move = 4
)

var moves = [...]Move{North, South, West, East}

// Reverse returns the command that cancels m.
func (m Move) Reverse() Move {
	switch m {
	case North:
		return South
	case South:
		return North
	case West:
		return East
	}
	return West
}

func (m Move) String() string {
	switch m {
	case North:
		return "N"
	case South:
		return "S"
	case West:
		return "W"
	case East:
		return "E"
	}
	return "?"
}

// Status is a droid status code.
type Status vm.Cell

// Status codes.
const (
	Wall   Status = 0 // hit a wall, position unchanged
	Moved  Status = 1 // moved one step
	Target Status = 2 // moved one step onto the target
)

// Point is a position relative to the origin. Y grows southward.
type Point struct {
	X, Y int
}

// Step returns the position one step away from p in direction m.
func (p Point) Step(m Move) Point {
	switch m {
	case North:
		p.Y--
	case South:
		p.Y++
	case West:
		p.X--
	case East:
		p.X++
	}
	return p
}

// Remote is the droid's end of the wire. *harness.Machine implements it.
type Remote interface {
	SendAll(vs ...vm.Cell) error
	Recv() (vm.Cell, error)
}

type path struct {
	pos   Point
	moves []Move
}

// Explorer holds the state of a maze exploration: the set of visited
// positions, the search queue and what has been learned about the maze so
// far.
type Explorer struct {
	r       Remote
	visited mapset.Set[Point]
	queue   []path
	cells   map[Point]Status
	logger  *zap.Logger
}

// Option interface
type Option func(*Explorer)

// Logger sets the logger. The default is zap.L().
func Logger(l *zap.Logger) Option {
	return func(e *Explorer) { e.logger = l }
}

// NewExplorer returns a new Explorer talking to r.
func NewExplorer(r Remote, opts ...Option) *Explorer {
	e := &Explorer{
		r:       r,
		visited: mapset.NewThreadUnsafeSet[Point](),
		cells:   make(map[Point]Status),
		logger:  zap.L(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("droid")
	return e
}

// status receives a status code.
func (e *Explorer) status() (Status, error) {
	v, err := e.r.Recv()
	if err != nil {
		return 0, err
	}
	switch s := Status(v); s {
	case Wall, Moved, Target:
		return s, nil
	}
	return 0, errors.Wrapf(ErrStatus, "invalid status %d", v)
}

// walk sends all moves at once, then checks that each of them was
// successful.
func (e *Explorer) walk(moves []Move) error {
	vs := make([]vm.Cell, len(moves))
	for n, m := range moves {
		vs[n] = vm.Cell(m)
	}
	if err := e.r.SendAll(vs...); err != nil {
		return err
	}
	for n := range moves {
		s, err := e.status()
		if err != nil {
			return err
		}
		if s != Moved {
			return errors.Wrapf(ErrStatus, "status %d for known move %d/%d", s, n+1, len(moves))
		}
	}
	return nil
}

func reversed(moves []Move) []Move {
	r := make([]Move, len(moves))
	for n, m := range moves {
		r[len(moves)-1-n] = m.Reverse()
	}
	return r
}

// Run searches for the target and returns the minimum number of moves needed
// to reach it from the origin. If the target is unreachable, Run returns
// found == false once all reachable positions have been explored.
//
// The droid must be at the origin when Run is called. Run does not return
// the droid to the origin once the target has been found.
func (e *Explorer) Run() (steps int, found bool, err error) {
	e.visited.Add(Point{})
	e.cells[Point{}] = Moved
	e.queue = append(e.queue[:0], path{})
	for len(e.queue) > 0 {
		p := e.queue[0]
		e.queue = e.queue[1:]
		if err = e.walk(p.moves); err != nil {
			return 0, false, errors.Wrapf(err, "replay %v", p.moves)
		}
		for _, m := range moves {
			next := p.pos.Step(m)
			if e.visited.Contains(next) {
				continue
			}
			e.visited.Add(next)
			if err = e.r.SendAll(vm.Cell(m)); err != nil {
				return 0, false, err
			}
			var s Status
			if s, err = e.status(); err != nil {
				return 0, false, err
			}
			e.cells[next] = s
			switch s {
			case Target:
				steps = len(p.moves) + 1
				e.logger.Info("target found",
					zap.Int("steps", steps),
					zap.Int("x", next.X), zap.Int("y", next.Y),
					zap.Int("visited", e.visited.Cardinality()))
				return steps, true, nil
			case Moved:
				if err = e.walk([]Move{m.Reverse()}); err != nil {
					return 0, false, errors.Wrap(err, "step back")
				}
				e.queue = append(e.queue, path{next, append(p.moves[:len(p.moves):len(p.moves)], m)})
			}
		}
		if err = e.walk(reversed(p.moves)); err != nil {
			return 0, false, errors.Wrapf(err, "return from %v", p.moves)
		}
		e.logger.Debug("explored", zap.Int("depth", len(p.moves)), zap.Int("queue", len(e.queue)))
	}
	e.logger.Info("target unreachable", zap.Int("visited", e.visited.Cardinality()))
	return 0, false, nil
}

// Visited returns the number of distinct positions probed so far, the origin
// included.
func (e *Explorer) Visited() int {
	return e.visited.Cardinality()
}

// Render draws what is known of the maze: '#' for walls, '.' for open
// positions, 'O' for the target and 'D' for the origin. Unexplored positions
// are blank.
func (e *Explorer) Render() string {
	if len(e.cells) == 0 {
		return ""
	}
	var min, max Point
	for p := range e.cells {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	var b strings.Builder
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			p := Point{x, y}
			s, ok := e.cells[p]
			switch {
			case x == 0 && y == 0:
				b.WriteByte('D')
			case !ok:
				b.WriteByte(' ')
			case s == Wall:
				b.WriteByte('#')
			case s == Target:
				b.WriteByte('O')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Explore starts the droid program and searches for the target. The program
// is torn down before Explore returns.
func Explore(ctx context.Context, prog []vm.Cell, opts ...harness.Option) (steps int, found bool, err error) {
	m, err := harness.Start(ctx, prog, append([]harness.Option{harness.Name("droid")}, opts...)...)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		if e := m.Close(); err == nil && e != nil {
			err = e
		}
	}()
	return NewExplorer(m).Run()
}
