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

// Package robot implements a controller for an emergency hull painting
// robot.
//
// At each step, the robot sends the color of the panel under it to the
// Intcode program, then receives the color to paint the panel with and the
// direction to turn to before moving forward one panel. The robot stops when
// the program halts.
package robot

import (
	"context"
	"io"
	"strings"

	"github.com/db47h/intcode/harness"
	"github.com/db47h/intcode/vm"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Errors returned for invalid program output.
var (
	ErrColor = errors.New("invalid color")
	ErrTurn  = errors.New("invalid turn")
)

// Color is a panel color.
type Color vm.Cell

// Panel colors.
const (
	Black Color = 0
	White Color = 1
)

// Point is a panel position. Y grows downward.
type Point struct {
	X, Y int
}

type direction int

const (
	up direction = iota
	right
	down
	left
)

func (d direction) turn(t vm.Cell) (direction, error) {
	switch t {
	case 0:
		return (d + 3) % 4, nil
	case 1:
		return (d + 1) % 4, nil
	}
	return d, errors.Wrapf(ErrTurn, "%d", t)
}

func (p Point) move(d direction) Point {
	switch d {
	case up:
		p.Y--
	case right:
		p.X++
	case down:
		p.Y++
	case left:
		p.X--
	}
	return p
}

// Hull is the surface painted by the robot. Panels never painted are black.
type Hull struct {
	panels  map[Point]Color
	painted mapset.Set[Point]
}

// NewHull returns a new all black hull.
func NewHull() *Hull {
	return &Hull{
		panels:  make(map[Point]Color),
		painted: mapset.NewThreadUnsafeSet[Point](),
	}
}

// Color returns the color of the panel at p.
func (h *Hull) Color(p Point) Color {
	return h.panels[p]
}

// Paint paints the panel at p with color c.
func (h *Hull) Paint(p Point, c Color) {
	h.panels[p] = c
	h.painted.Add(p)
}

// Painted returns the number of panels painted at least once.
func (h *Hull) Painted() int {
	return h.painted.Cardinality()
}

// Render draws the white panels as '#' in the smallest rectangle that
// contains all of them. Black panels are blank.
func (h *Hull) Render() string {
	first := true
	var min, max Point
	for p, c := range h.panels {
		if c != White {
			continue
		}
		if first {
			min, max = p, p
			first = false
			continue
		}
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
	if first {
		return ""
	}
	var b strings.Builder
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			if h.panels[Point{x, y}] == White {
				b.WriteByte('#')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Paint runs the robot program on a new hull, starting at the origin facing
// up, on a panel of the given color.
func Paint(ctx context.Context, prog []vm.Cell, start Color, opts ...harness.Option) (h *Hull, err error) {
	m, err := harness.Start(ctx, prog, append([]harness.Option{harness.Name("robot")}, opts...)...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := m.Close(); err == nil && e != nil {
			err = e
		}
	}()

	h = NewHull()
	var pos Point
	d := up
	if start != Black {
		h.panels[pos] = start
	}
	for {
		if err = m.Send(vm.Cell(h.Color(pos))); err != nil {
			return nil, err
		}
		c, err := m.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if c != vm.Cell(Black) && c != vm.Cell(White) {
			return nil, errors.Wrapf(ErrColor, "%d", c)
		}
		t, err := m.Recv()
		if err == io.EOF {
			return nil, errors.Wrap(ErrTurn, "program halted before sending turn")
		}
		if err != nil {
			return nil, err
		}
		h.Paint(pos, Color(c))
		if d, err = d.turn(t); err != nil {
			return nil, err
		}
		pos = pos.move(d)
	}
	zap.L().Named("robot").Debug("done", zap.Int("painted", h.Painted()))
	return h, nil
}
