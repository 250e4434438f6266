package envs

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// GoodObject is a room with green balls worth +1 and blue balls worth
// -1. The agent should collect as many good balls as possible while
// avoiding bad ones. If leaveVisible is true collected balls stay on the
// grid but pay out only once.
type GoodObject struct {
	size         int
	numObjs      int
	randomStart  bool
	stepPenalty  float64
	leaveVisible bool

	collected int
}

// NewGoodObject returns a new GoodObject task on a size x size grid
// with numObjs balls
func NewGoodObject(size, numObjs int, randomStart bool, stepPenalty float64,
	leaveVisible bool) (*GoodObject, error) {
	if free := (size-2)*(size-2) - 1; numObjs > free {
		return nil, fmt.Errorf("newGoodObject: cannot place %d objects "+
			"in %d free cells", numObjs, free)
	}
	return &GoodObject{
		size:         size,
		numObjs:      numObjs,
		randomStart:  randomStart,
		stepPenalty:  stepPenalty,
		leaveVisible: leaveVisible,
	}, nil
}

// EnvConfig implements the Variant interface
func (g *GoodObject) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:           g.size,
		Height:          g.size,
		MaxSteps:        4 * g.size * g.size,
		SeeThroughWalls: true,
	}
}

// Generate implements the minigrid.Task interface
func (g *GoodObject) Generate(e *minigrid.Env) error {
	e.SetGrid(walledGrid(g.size, g.size))
	if err := placeStart(e, g.randomStart); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	good := positives(g.numObjs)
	if err := placeBalls(e, good, minigrid.Green, 1); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if err := placeBalls(e, g.numObjs-good, minigrid.Blue, -1); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	e.SetMission("avoid bad objects and get good objects as many as " +
		"possible")
	g.collected = 0
	return nil
}

// Resolve implements the minigrid.Task interface
func (g *GoodObject) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	if r, ok := collectBall(e, g.leaveVisible); ok {
		out.Reward = r
	}
	out.Reward -= g.stepPenalty

	if out.Reward > 0 {
		g.collected++
	}
	if g.collected == positives(g.numObjs) {
		out.Terminated = true
	}
	return nil
}

// RewardRange implements the minigrid.Task interface
func (g *GoodObject) RewardRange() r1.Interval {
	return rewardRange(1-g.stepPenalty, -1-g.stepPenalty, -g.stepPenalty)
}

func init() {
	for _, v := range []struct {
		id           string
		size, objs   int
		random       bool
		penalty      float64
		leaveVisible bool
	}{
		{"MiniGrid-GoodObject-16x16-v0", 16, 50, false, 0, false},
		{"MiniGrid-GoodObject-Random-16x16-v0", 16, 50, true, 0, false},
		{"MiniGrid-GoodObject-Penalty-16x16-v0", 16, 50, false, 0.05, false},
		{"MiniGrid-GoodObject-Random-Penalty-16x16-v0", 16, 50, true, 0.05,
			false},
		{"MiniGrid-GoodObject-Penalty-6x6-v0", 6, 6, false, 0.05, false},
		{"MiniGrid-GoodObject-Penalty-9x9-v0", 9, 15, false, 0.05, false},
		{"MiniGrid-GoodObject-Random-VisibleBall-6x6-v0", 6, 6, true, 0,
			true},
		{"MiniGrid-GoodObject-Random-Penalty-VisibleBall-6x6-v0", 6, 6, true,
			0.05, true},
		{"MiniGrid-GoodObject-Random-VisibleBall-9x9-v0", 9, 15, true, 0,
			true},
		{"MiniGrid-GoodObject-Random-Penalty-VisibleBall-9x9-v0", 9, 15,
			true, 0.05, true},
		{"MiniGrid-GoodObject-Random-VisibleBall-16x16-v0", 16, 50, true, 0,
			true},
		{"MiniGrid-GoodObject-Random-Penalty-VisibleBall-16x16-v0", 16, 50,
			true, 0.05, true},
	} {
		v := v
		register(v.id, func() (Variant, error) {
			return NewGoodObject(v.size, v.objs, v.random, v.penalty,
				v.leaveVisible)
		})
	}
}
