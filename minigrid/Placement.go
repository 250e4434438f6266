package minigrid

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrNoFreeCell is returned when a placement region holds no empty
	// cell
	ErrNoFreeCell = errors.New("no free cell in placement region")

	// ErrPlacementFailed is returned when rejection sampling exhausts
	// its tries
	ErrPlacementFailed = errors.New("rejection sampling failed in " +
		"placement")
)

// RejectFunc reports whether a candidate position should be rejected
type RejectFunc func(e *Env, pos image.Point) bool

// region clips the rectangle with top left corner top and the given
// size to the grid. A zero size means the whole grid.
func (e *Env) region(top, size image.Point) (image.Point, image.Point) {
	if top.X < 0 {
		top.X = 0
	}
	if top.Y < 0 {
		top.Y = 0
	}
	if size == (image.Point{}) {
		size = image.Pt(e.grid.Width(), e.grid.Height())
	}
	max := top.Add(size)
	if max.X > e.grid.Width() {
		max.X = e.grid.Width()
	}
	if max.Y > e.grid.Height() {
		max.Y = e.grid.Height()
	}
	return top, max
}

// PlaceObj places obj at a uniform random empty position of the region
// with top left corner top and the given size. A zero size means the
// whole grid. Positions holding an object, the agent, or for which
// reject returns true are resampled. If maxTries is positive, placement
// fails with ErrPlacementFailed after that many samples. PlaceObj fails
// with ErrNoFreeCell when the region has no empty cell left.
//
// A nil obj only samples a position.
func (e *Env) PlaceObj(obj *Object, top, size image.Point,
	reject RejectFunc, maxTries int) (image.Point, error) {
	top, max := e.region(top, size)
	if top.X >= max.X || top.Y >= max.Y {
		return image.Point{}, fmt.Errorf("placeObj: empty region with "+
			"top %v and size %v: %w", top, size, ErrNoFreeCell)
	}

	free := 0
	for _, p := range e.grid.EmptyCells(top, max.X-top.X, max.Y-top.Y) {
		if p != e.agentPos {
			free++
		}
	}
	if free == 0 {
		return image.Point{}, fmt.Errorf("placeObj: %w", ErrNoFreeCell)
	}

	var pos image.Point
	for tries := 0; ; tries++ {
		if maxTries > 0 && tries >= maxTries {
			return image.Point{}, fmt.Errorf("placeObj: %w after %d tries",
				ErrPlacementFailed, maxTries)
		}

		pos = e.RandPos(top.X, max.X, top.Y, max.Y)
		if e.grid.At(pos) != nil || pos == e.agentPos {
			continue
		}
		if reject != nil && reject(e, pos) {
			continue
		}
		break
	}

	if obj != nil {
		e.PutObj(obj, pos.X, pos.Y)
	}
	return pos, nil
}

// PutObj places obj at (x, y), recording the position on the object
func (e *Env) PutObj(obj *Object, x, y int) {
	e.grid.Set(x, y, obj)
	obj.pos = image.Pt(x, y)
	obj.initPos = obj.pos
}

// PlaceAgent places the agent at a uniform random empty position of
// the region with top left corner top and the given size. If randDir is
// true the agent faces a random direction.
func (e *Env) PlaceAgent(top, size image.Point, randDir bool) (image.Point,
	error) {
	e.agentPos = image.Pt(-1, -1)
	pos, err := e.PlaceObj(nil, top, size, nil, 0)
	if err != nil {
		return image.Point{}, fmt.Errorf("placeAgent: %w", err)
	}
	e.agentPos = pos

	if randDir {
		e.agentDir = Direction(e.dirStarter.Start().AtVec(0))
	}
	return pos, nil
}
