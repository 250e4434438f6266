package minigrid

import (
	"fmt"
	"image"
)

// Direction is the facing direction of the agent. Directions increase
// clockwise starting from east.
type Direction int

const (
	East Direction = iota
	South
	West
	North
)

// NumDirections is the number of facing directions
const NumDirections = 4

var dirVecs = [NumDirections]image.Point{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
}

// Vec returns the unit step taken when moving forward in direction d
func (d Direction) Vec() image.Point {
	return dirVecs[d.normalize()]
}

// RightVec returns the unit step pointing to the right of d
func (d Direction) RightVec() image.Point {
	v := d.Vec()
	return image.Pt(-v.Y, v.X)
}

// Left returns the direction after turning left
func (d Direction) Left() Direction {
	return (d.normalize() + NumDirections - 1) % NumDirections
}

// Right returns the direction after turning right
func (d Direction) Right() Direction {
	return (d.normalize() + 1) % NumDirections
}

// Arrow returns a rune pointing in direction d
func (d Direction) Arrow() rune {
	return [...]rune{'>', 'v', '<', '^'}[d.normalize()]
}

func (d Direction) normalize() Direction {
	return ((d % NumDirections) + NumDirections) % NumDirections
}

func (d Direction) String() string {
	switch d.normalize() {
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return "North"
	}
}

// Action is one of the discrete actions available to the agent
type Action int

const (
	Left Action = iota
	Right
	Forward
	Pickup
	Drop
	Toggle
	Done
)

// NumActions is the number of discrete actions
const NumActions = int(Done) + 1

// Valid returns whether a is a legal action
func (a Action) Valid() bool {
	return a >= Left && a <= Done
}

func (a Action) String() string {
	names := [...]string{"left", "right", "forward", "pickup", "drop",
		"toggle", "done"}
	if !a.Valid() {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return names[a]
}
