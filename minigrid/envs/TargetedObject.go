package envs

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// TargetedObject is a room with one ball of each of several colours.
// Only the ball matching the colour of the agent can be collected.
// After each collection the agent takes the colour of a random ball
// that is still on the grid. The episode ends once every ball is
// collected.
type TargetedObject struct {
	size        int
	viewSize    int
	numObjs     int
	stepPenalty float64

	colors    []minigrid.Color
	collected map[minigrid.Color]bool
}

// NewTargetedObject returns a new TargetedObject task on a size x size
// grid
func NewTargetedObject(size, viewSize, numObjs int,
	stepPenalty float64) (*TargetedObject, error) {
	if numObjs > minigrid.NumColors {
		return nil, fmt.Errorf("newTargetedObject: %d objects exceed %d "+
			"colors", numObjs, minigrid.NumColors)
	}
	if free := (size-2)*(size-2) - 1; numObjs > free {
		return nil, fmt.Errorf("newTargetedObject: cannot place %d "+
			"objects in %d free cells", numObjs, free)
	}

	return &TargetedObject{
		size:        size,
		viewSize:    viewSize,
		numObjs:     numObjs,
		stepPenalty: stepPenalty,
		colors:      minigrid.ColorNames[:numObjs],
	}, nil
}

// EnvConfig implements the Variant interface
func (t *TargetedObject) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:           t.size,
		Height:          t.size,
		MaxSteps:        500,
		ViewSize:        t.viewSize,
		SeeThroughWalls: true,
	}
}

// Generate implements the minigrid.Task interface
func (t *TargetedObject) Generate(e *minigrid.Env) error {
	e.SetGrid(walledGrid(t.size, t.size))
	if err := placeStart(e, false); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	// The agent starts out red. With too few colours to include red,
	// it takes the first ball colour instead.
	e.SetAgentColor(t.colors[0])
	for _, c := range t.colors {
		if c == minigrid.Red {
			e.SetAgentColor(minigrid.Red)
		}
		if err := placeBalls(e, 1, c, 1); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
	}

	e.SetMission("collect ball that is the same color as the agent")
	t.collected = make(map[minigrid.Color]bool, t.numObjs)
	return nil
}

// Resolve implements the minigrid.Task interface
func (t *TargetedObject) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	out.Reward -= t.stepPenalty

	cell := agentCell(e)
	if cell == nil || cell.Type() != minigrid.Ball ||
		cell.Color() != e.AgentColor() {
		return nil
	}

	e.Remove(e.AgentPos())
	out.Reward = cell.Reward()
	t.collected[cell.Color()] = true
	if len(t.collected) == t.numObjs {
		out.Terminated = true
		return nil
	}

	remaining := make([]minigrid.Color, 0, t.numObjs)
	for _, c := range t.colors {
		if !t.collected[c] {
			remaining = append(remaining, c)
		}
	}
	e.SetAgentColor(e.RandColor(remaining))
	return nil
}

// RewardRange implements the minigrid.Task interface
func (t *TargetedObject) RewardRange() r1.Interval {
	return rewardRange(1, -t.stepPenalty)
}

func init() {
	register("MiniGrid-TargetedObject-9x9-v0", func() (Variant, error) {
		return NewTargetedObject(9, 5, 9, 0)
	})
	register("MiniGrid-TargetedObject-Penalty-9x9-v0", func() (Variant,
		error) {
		return NewTargetedObject(9, 5, 9, 0.05)
	})
}
