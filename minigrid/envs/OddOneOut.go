package envs

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

var (
	oddOneOutColors = []minigrid.Color{minigrid.Green, minigrid.Blue,
		minigrid.Purple, minigrid.Yellow}
	oddOneOutShapes = []minigrid.ObjectType{minigrid.Ball, minigrid.Box,
		minigrid.Key}
)

// OddOneOut is a room with several objects, each with a colour and a
// shape. Exactly one object has a colour or a shape that no other
// object shares. Walking onto that object pays +1, walking onto any
// other object pays -1, and either ends the episode.
//
// The objects are fruits, so picking them up or toggling them has no
// effect.
type OddOneOut struct {
	size    int
	numObjs int

	target *minigrid.Object
}

// NewOddOneOut returns a new OddOneOut task on a size x size grid with
// numObjs objects
func NewOddOneOut(size, numObjs int) (*OddOneOut, error) {
	if numObjs < 3 {
		return nil, fmt.Errorf("newOddOneOut: need at least 3 objects, "+
			"have %d", numObjs)
	}
	if free := (size-2)*(size-2) - 1; numObjs > free {
		return nil, fmt.Errorf("newOddOneOut: cannot place %d objects "+
			"in %d free cells", numObjs, free)
	}
	return &OddOneOut{size: size, numObjs: numObjs}, nil
}

// EnvConfig implements the Variant interface
func (o *OddOneOut) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:    o.size,
		Height:   o.size,
		MaxSteps: 50,
	}
}

// fillProperty assigns a value from choices to every unassigned slot.
// Values are handed out in groups of at least two so that no object
// outside the target ends up with a unique value.
func fillProperty[T comparable](e *minigrid.Env, vals []T, assigned []bool,
	choices []T) {
	unassigned := 0
	for _, a := range assigned {
		if !a {
			unassigned++
		}
	}

	for unassigned > 0 {
		prop := minigrid.RandElem(e, choices)
		n := unassigned
		if unassigned >= 2 {
			n = e.RandInt(2, unassigned+1)
		}

		for n > 0 {
			i := e.RandInt(0, len(vals))
			if !assigned[i] {
				vals[i] = prop
				assigned[i] = true
				n--
				unassigned--
			}
		}

		if unassigned == 1 {
			for i := range assigned {
				if !assigned[i] {
					vals[i] = prop
					assigned[i] = true
				}
			}
			unassigned = 0
		}
	}
}

// without returns a copy of xs with every occurrence of x removed
func without[T comparable](xs []T, x T) []T {
	out := make([]T, 0, len(xs))
	for _, v := range xs {
		if v != x {
			out = append(out, v)
		}
	}
	return out
}

// Generate implements the minigrid.Task interface
func (o *OddOneOut) Generate(e *minigrid.Env) error {
	e.SetGrid(walledGrid(o.size, o.size))
	if _, err := e.PlaceAgent(zero, zero, true); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	colors := make([]minigrid.Color, o.numObjs)
	colorSet := make([]bool, o.numObjs)
	shapes := make([]minigrid.ObjectType, o.numObjs)
	shapeSet := make([]bool, o.numObjs)

	colorChoices, shapeChoices := oddOneOutColors, oddOneOutShapes
	if e.RandFloat() < 0.5 {
		colors[0] = minigrid.RandElem(e, oddOneOutColors)
		colorSet[0] = true
		colorChoices = without(oddOneOutColors, colors[0])
	} else {
		shapes[0] = minigrid.RandElem(e, oddOneOutShapes)
		shapeSet[0] = true
		shapeChoices = without(oddOneOutShapes, shapes[0])
	}
	fillProperty(e, colors, colorSet, colorChoices)
	fillProperty(e, shapes, shapeSet, shapeChoices)

	o.target = minigrid.NewFruit(shapes[0], colors[0], 1, false)
	if _, err := e.PlaceObj(o.target, zero, zero, nil, 0); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	for i := 1; i < o.numObjs; i++ {
		obj := minigrid.NewFruit(shapes[i], colors[i], -1, false)
		if _, err := e.PlaceObj(obj, zero, zero, nil, 0); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
	}

	e.SetMission("choose the object that has the unique property")
	return nil
}

// Resolve implements the minigrid.Task interface
func (o *OddOneOut) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	if out.Reward != 0 {
		out.Terminated = true
	}
	out.SetInfo("target_obj", []string{o.target.Color().String(),
		o.target.Type().String()})
	return nil
}

// Target returns the object with the unique property
func (o *OddOneOut) Target() *minigrid.Object {
	return o.target
}

// RewardRange implements the minigrid.Task interface
func (o *OddOneOut) RewardRange() r1.Interval {
	return rewardRange(-1, 1)
}

func init() {
	register("MiniGrid-OddOneOutS8N4-v0", func() (Variant, error) {
		return NewOddOneOut(8, 4)
	})
	register("MiniGrid-OddOneOutS8N6-v0", func() (Variant, error) {
		return NewOddOneOut(8, 6)
	})
}
