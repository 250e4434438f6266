// Package envs implements the catalog of gridworld tasks: memory tasks,
// delayed reward tasks, object collection tasks and multi-stage tasks.
//
// Every task in this package registers itself with the envconfig
// registry under one or more MiniGrid-*-v0 ids. Importing this package
// for its side effects makes all ids available:
//
//	import _ "github.com/samuelfneumann/gominigrid/minigrid/envs"
//	env, step, err := envconfig.Create("MiniGrid-Delayed-D5-7x7-v0", 1, 0.99)
package envs

import (
	"fmt"
	"image"

	"github.com/samuelfneumann/gominigrid/environment/envconfig"
	"github.com/samuelfneumann/gominigrid/minigrid"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"github.com/samuelfneumann/gominigrid/utils/intutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r1"
)

// maxSpreadTries bounds the rejection sampling of spread out positions
const maxSpreadTries = 100000

// zero selects the whole grid as placement region
var zero image.Point

// Variant is a Task that knows the engine configuration it runs with
type Variant interface {
	minigrid.Task
	EnvConfig() minigrid.Config
}

// Make creates an environment running v
func Make(v Variant, seed uint64, discount float64) (*minigrid.Env,
	ts.TimeStep, error) {
	c := v.EnvConfig()
	c.Seed = seed
	c.Discount = discount
	return minigrid.New(v, c)
}

// register registers a Variant constructor with the envconfig registry.
// A new Variant is built for every environment created.
func register(id string, build func() (Variant, error)) {
	envconfig.Register(id, func(seed uint64,
		discount float64) (*minigrid.Env, ts.TimeStep, error) {
		v, err := build()
		if err != nil {
			return nil, ts.TimeStep{}, err
		}
		return Make(v, seed, discount)
	})
}

// rewardRange returns the smallest interval holding every reward
func rewardRange(rewards ...float64) r1.Interval {
	return r1.Interval{Min: floats.Min(rewards), Max: floats.Max(rewards)}
}

// walledGrid returns a width x height grid surrounded by walls
func walledGrid(width, height int) *minigrid.Grid {
	g := minigrid.NewGrid(width, height)
	g.WallRect(0, 0, width, height)
	return g
}

// agentCell returns the object the agent stands on
func agentCell(e *minigrid.Env) *minigrid.Object {
	return e.Grid().At(e.AgentPos())
}

// collectBall pays out the reward of the ball under the agent once and
// reports whether there was a ball. Unless keep is true the ball is
// removed from the grid.
func collectBall(e *minigrid.Env, keep bool) (float64, bool) {
	cell := agentCell(e)
	if cell == nil || cell.Type() != minigrid.Ball {
		return 0, false
	}
	if !keep {
		e.Remove(e.AgentPos())
	}
	r := cell.Reward()
	cell.SetReward(0)
	return r, true
}

// onGrid returns whether o lies on the grid rather than being carried
// or removed
func onGrid(e *minigrid.Env, o *minigrid.Object) bool {
	p := o.Pos()
	return e.Grid().InBounds(p.X, p.Y) && e.Grid().At(p) == o
}

// placeStart puts the agent at (1, 1) facing east, or at a random
// position and direction if random is true
func placeStart(e *minigrid.Env, random bool) error {
	if random {
		_, err := e.PlaceAgent(zero, zero, true)
		return err
	}
	e.SetAgent(image.Pt(1, 1), minigrid.East)
	return nil
}

// placeBalls places n collectable balls of colour c worth reward each
func placeBalls(e *minigrid.Env, n int, c minigrid.Color,
	reward float64) error {
	for i := 0; i < n; i++ {
		ball := minigrid.NewCollectableBall(c, reward)
		if _, err := e.PlaceObj(ball, zero, zero, nil, 0); err != nil {
			return err
		}
	}
	return nil
}

// sampleSpread draws k distinct positions from cells whose pairwise
// Manhattan distance is at least minDist. accept, if not nil, may veto
// a sample.
func sampleSpread(e *minigrid.Env, cells []image.Point, k, minDist int,
	accept func([]image.Point) bool) ([]image.Point, error) {
	if k > len(cells) {
		return nil, fmt.Errorf("sampleSpread: cannot sample %d of %d "+
			"cells: %w", k, len(cells), minigrid.ErrNoFreeCell)
	}

	sample := make([]image.Point, k)
	for tries := 0; tries < maxSpreadTries; tries++ {
		for i, idx := range e.Sample(len(cells), k) {
			sample[i] = cells[idx]
		}
		if k > 1 && intutils.MinPairwiseDistance(sample) < minDist {
			continue
		}
		if accept != nil && !accept(sample) {
			continue
		}
		return sample, nil
	}
	return nil, fmt.Errorf("sampleSpread: %w after %d tries",
		minigrid.ErrPlacementFailed, maxSpreadTries)
}

// shuffled returns a shuffled copy of colors
func shuffled(e *minigrid.Env, colors []minigrid.Color) []minigrid.Color {
	out := append([]minigrid.Color(nil), colors...)
	e.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// positives returns the number of positive objects when n objects are
// split in half, favouring positives
func positives(n int) int {
	return (n + 1) / 2
}
