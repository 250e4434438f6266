package envs

import (
	"fmt"
	"image"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
)

// DefaultChangeProb is the per step probability that a ball in a
// LargeRoom changes colour when colour drift is enabled
const DefaultChangeProb = 0.05

// changeGroups are the sets of colours a ball may drift between
var changeGroups = [][]minigrid.Color{
	{minigrid.Red, minigrid.Green, minigrid.Blue},
	{minigrid.Purple, minigrid.Yellow, minigrid.Grey},
	{minigrid.Magenta, minigrid.White, minigrid.Orange},
}

// changeGroup returns the drift group of c
func changeGroup(c minigrid.Color) []minigrid.Color {
	for _, g := range changeGroups {
		for _, gc := range g {
			if gc == c {
				return g
			}
		}
	}
	panic(fmt.Sprintf("changeGroup: no group for colour %v", c))
}

// LargeRoom is an open room scattered with balls of random colours that
// pay nothing. It is a testbed for learning to predict observations
// rather than rewards.
//
// The ball colours are drawn from a generator re-seeded with the seed of
// the environment each episode, so every episode shows the same colours.
// With colour drift enabled, each ball changes to a colour of its drift
// group with probability changeProb on each step. With an explore phase,
// balls that the agent has not had in view by the end of the phase are
// removed.
type LargeRoom struct {
	size         int
	viewSize     int
	numObjs      int
	changeColors bool
	changeProb   float64
	explore      int

	rng  *rand.Rand
	objs []*minigrid.Object
	seen map[image.Point]bool
}

// NewLargeRoom returns a new LargeRoom task on a size x size grid. An
// explore phase of 0 steps disables the explore phase.
func NewLargeRoom(size, viewSize int, changeColors bool, changeProb float64,
	explore int) (*LargeRoom, error) {
	if changeProb < 0 || changeProb > 1 {
		return nil, fmt.Errorf("newLargeRoom: change probability must be "+
			"in [0, 1], have %v", changeProb)
	}
	if explore < 0 {
		return nil, fmt.Errorf("newLargeRoom: explore phase must be "+
			"non-negative, have %d", explore)
	}

	numObjs := size * size / 5
	if free := (size-2)*(size-2) - 1; numObjs > free {
		return nil, fmt.Errorf("newLargeRoom: cannot place %d objects in "+
			"%d free cells", numObjs, free)
	}

	return &LargeRoom{
		size:         size,
		viewSize:     viewSize,
		numObjs:      numObjs,
		changeColors: changeColors,
		changeProb:   changeProb,
		explore:      explore,
	}, nil
}

// EnvConfig implements the Variant interface
func (l *LargeRoom) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:           l.size,
		Height:          l.size,
		MaxSteps:        4 * l.size * l.size,
		ViewSize:        l.viewSize,
		SeeThroughWalls: true,
	}
}

// Generate implements the minigrid.Task interface
func (l *LargeRoom) Generate(e *minigrid.Env) error {
	l.rng = rand.New(rand.NewSource(e.Config().Seed))

	e.SetGrid(walledGrid(l.size, l.size))
	if err := placeStart(e, false); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	l.objs = make([]*minigrid.Object, 0, l.numObjs)
	for len(l.objs) < l.numObjs {
		c := minigrid.ColorNames[l.rng.Intn(minigrid.NumColors)]
		ball := minigrid.NewCollectableBall(c, 0)
		if _, err := e.PlaceObj(ball, zero, zero, nil, 0); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		l.objs = append(l.objs, ball)
	}

	e.SetMission("walk in a circle")
	l.seen = make(map[image.Point]bool)
	if l.explore > 0 {
		l.addSeen(e)
	}
	return nil
}

// addSeen records the positions of balls in the agent view
func (l *LargeRoom) addSeen(e *minigrid.Env) {
	for _, o := range l.objs {
		p := o.Pos()
		if e.InView(p.X, p.Y) {
			l.seen[p] = true
		}
	}
}

// Objects returns the balls still on the grid
func (l *LargeRoom) Objects() []*minigrid.Object {
	return l.objs
}

// Resolve implements the minigrid.Task interface
func (l *LargeRoom) Resolve(e *minigrid.Env, _ minigrid.Action,
	_ *minigrid.Outcome) error {
	if l.changeColors {
		for i, o := range l.objs {
			if l.rng.Float64() > l.changeProb || !onGrid(e, o) {
				continue
			}

			group := changeGroup(o.Color())
			ball := minigrid.NewCollectableBall(group[l.rng.Intn(len(group))],
				0)
			p := o.Pos()
			e.Remove(p)
			e.PutObj(ball, p.X, p.Y)
			l.objs[i] = ball
		}
	}

	switch {
	case l.explore == 0:
	case e.StepCount() < l.explore:
		l.addSeen(e)

	case e.StepCount() == l.explore:
		kept := l.objs[:0]
		for _, o := range l.objs {
			switch {
			case l.seen[o.Pos()]:
				kept = append(kept, o)
			case onGrid(e, o):
				e.Remove(o.Pos())
			}
		}
		l.objs = kept
	}
	return nil
}

// RewardRange implements the minigrid.Task interface
func (l *LargeRoom) RewardRange() r1.Interval {
	return rewardRange(0)
}

func init() {
	register("MiniGrid-LargeRoom-v0", func() (Variant, error) {
		return NewLargeRoom(8, 7, false, DefaultChangeProb, 0)
	})
	register("MiniGrid-LargeRoom-ChangeColors-v0", func() (Variant,
		error) {
		return NewLargeRoom(8, 7, true, DefaultChangeProb, 0)
	})
	register("MiniGrid-LargeRoom-Explore-v0", func() (Variant, error) {
		return NewLargeRoom(8, 7, false, DefaultChangeProb, 16)
	})
}
