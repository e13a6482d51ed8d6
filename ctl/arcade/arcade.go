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

// Package arcade implements an arcade cabinet running a breakout game written
// in Intcode.
//
// Unlike the other controllers, the cabinet runs the VM synchronously in the
// caller's goroutine: the screen and joystick are plugged directly into the VM
// as its vm.IO capability.
package arcade

import (
	"context"
	"fmt"
	"strings"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Errors
var (
	ErrTile     = errors.New("invalid tile")
	ErrOutput   = errors.New("incomplete output")
	ErrGameOver = errors.New("game over")
)

// Tile is a screen tile id.
type Tile vm.Cell

// Tile ids.
const (
	Empty Tile = iota
	Wall
	Block
	Paddle
	Ball
)

var tileRunes = [...]byte{' ', '#', '=', '-', 'o'}

// Point is a screen position.
type Point struct {
	X, Y int
}

// Screen is the cabinet's screen.
type Screen struct {
	Score  vm.Cell
	Ball   Point
	Paddle Point
	tiles  map[Point]Tile
	max    Point
	blocks int
}

// NewScreen returns a new blank screen.
func NewScreen() *Screen {
	return &Screen{tiles: make(map[Point]Tile)}
}

// Tile returns the tile at p.
func (s *Screen) Tile(p Point) Tile {
	return s.tiles[p]
}

// Blocks returns the number of block tiles on screen.
func (s *Screen) Blocks() int {
	return s.blocks
}

// Update processes an output triple: either a tile to draw at (x, y) or, if x
// is -1 and y is 0, a new score.
func (s *Screen) Update(x, y, v vm.Cell) error {
	if x == -1 && y == 0 {
		s.Score = v
		return nil
	}
	if v < vm.Cell(Empty) || v > vm.Cell(Ball) {
		return errors.Wrapf(ErrTile, "%d at (%d, %d)", v, x, y)
	}
	if x < 0 || y < 0 {
		return errors.Errorf("tile position (%d, %d) out of screen", x, y)
	}
	p, t := Point{int(x), int(y)}, Tile(v)
	if s.tiles[p] == Block {
		s.blocks--
	}
	switch t {
	case Block:
		s.blocks++
	case Ball:
		s.Ball = p
	case Paddle:
		s.Paddle = p
	}
	s.tiles[p] = t
	if p.X > s.max.X {
		s.max.X = p.X
	}
	if p.Y > s.max.Y {
		s.max.Y = p.Y
	}
	return nil
}

// Render draws the score and screen as text.
func (s *Screen) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d\n", s.Score)
	if len(s.tiles) == 0 {
		return b.String()
	}
	for y := 0; y <= s.max.Y; y++ {
		for x := 0; x <= s.max.X; x++ {
			b.WriteByte(tileRunes[s.tiles[Point{x, y}]])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Joystick returns the joystick position each time the game reads it: -1 for
// left, 0 for neutral, 1 for right.
type Joystick interface {
	Move(s *Screen) (vm.Cell, error)
}

// JoystickFunc is an adapter to use a function as a Joystick.
type JoystickFunc func(s *Screen) (vm.Cell, error)

// Move implements Joystick.
func (f JoystickFunc) Move(s *Screen) (vm.Cell, error) {
	return f(s)
}

// Autopilot moves the paddle toward the ball.
type Autopilot struct{}

// Move implements Joystick.
func (Autopilot) Move(s *Screen) (vm.Cell, error) {
	switch {
	case s.Ball.X < s.Paddle.X:
		return -1, nil
	case s.Ball.X > s.Paddle.X:
		return 1, nil
	}
	return 0, nil
}

// cabinet is the vm.IO of the game.
type cabinet struct {
	ctx    context.Context
	screen *Screen
	joy    Joystick
	buf    [3]vm.Cell
	n      int
}

func (c *cabinet) Input() (vm.Cell, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	if c.joy == nil {
		return 0, errors.Wrap(vm.ErrNoInput, "no joystick")
	}
	return c.joy.Move(c.screen)
}

func (c *cabinet) Output(v vm.Cell) error {
	c.buf[c.n] = v
	c.n++
	if c.n < len(c.buf) {
		return nil
	}
	c.n = 0
	return c.screen.Update(c.buf[0], c.buf[1], c.buf[2])
}

func run(ctx context.Context, prog []vm.Cell, coin bool, joy Joystick, opts []vm.Option) (*Screen, error) {
	c := &cabinet{ctx: ctx, screen: NewScreen(), joy: joy}
	i, err := vm.New(vm.Copy(prog), append(opts[:len(opts):len(opts)], vm.WithIO(c))...)
	if err != nil {
		return nil, err
	}
	if coin {
		if err = i.Poke(0, 2); err != nil {
			return nil, err
		}
	}
	if err = i.Run(); err != nil {
		return c.screen, err
	}
	if c.n != 0 {
		return c.screen, errors.Wrapf(ErrOutput, "%d trailing values", c.n)
	}
	zap.L().Named("arcade").Debug("game stopped",
		zap.Int64("score", int64(c.screen.Score)),
		zap.Int("blocks", c.screen.blocks),
		zap.Int64("instructions", i.InstructionCount()))
	return c.screen, nil
}

// Draw runs the game without inserting any coin and returns the resulting
// screen. The game must not read the joystick.
func Draw(prog []vm.Cell, opts ...vm.Option) (*Screen, error) {
	return run(context.Background(), prog, false, nil, opts)
}

// CountBlocks runs the game without inserting any coin and returns the
// number of blocks on screen when it halts.
func CountBlocks(prog []vm.Cell, opts ...vm.Option) (int, error) {
	s, err := Draw(prog, opts...)
	if err != nil {
		return 0, err
	}
	return s.Blocks(), nil
}

// Play inserts two coins and plays the game with the given joystick until it
// halts. It returns the final score. If blocks remain on screen when the game
// halts, Play returns the last score along with ErrGameOver.
//
// The context is checked each time the game reads the joystick.
func Play(ctx context.Context, prog []vm.Cell, joy Joystick, opts ...vm.Option) (vm.Cell, error) {
	s, err := run(ctx, prog, true, joy, opts)
	if err != nil {
		return 0, err
	}
	if s.blocks > 0 {
		return s.Score, errors.Wrapf(ErrGameOver, "%d blocks left", s.blocks)
	}
	return s.Score, nil
}
