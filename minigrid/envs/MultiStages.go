package envs

import (
	"fmt"
	"image"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// memoryColors are the colours of the ball shown in a memory room
var memoryColors = []minigrid.Color{minigrid.Green, minigrid.Blue}

// memoryRoom lays out a walled size x size grid with a closet in its
// centre holding a single ball of a random memory colour. The agent
// stands in the closet facing the ball. memoryRoom returns the colour of
// the ball.
func memoryRoom(e *minigrid.Env, size int) minigrid.Color {
	g := walledGrid(size, size)
	cx, cy := size/2, size/2

	for x := cx - 1; x <= cx+1; x++ {
		g.Set(x, cy+2, minigrid.NewWall())
		g.Set(x, cy-1, minigrid.NewWall())
	}
	for _, x := range []int{cx - 1, cx + 1} {
		g.Set(x, cy, minigrid.NewWall())
		g.Set(x, cy+1, minigrid.NewWall())
	}
	e.SetGrid(g)
	e.SetAgent(image.Pt(cx, cy+1), minigrid.North)

	c := e.RandColor(memoryColors)
	e.PutObj(minigrid.NewBall(c), cx, cy)
	e.SetMission("memorize the color and select it at the last step")
	return c
}

// recall is the final step of a memory task. The agent must choose
// Forward if the colour shown last matches the colour shown first and
// any other action otherwise.
type recall struct {
	first, last minigrid.Color
	hit, miss   float64
}

// score returns the reward of taking action a on the final step
func (r recall) score(a minigrid.Action) float64 {
	if (r.first == r.last) == (a == minigrid.Forward) {
		return r.hit
	}
	return r.miss
}

// MultiStages is a memory task in three stages. The episode opens in a
// memory room showing a green or blue ball. After the first step the
// agent is dropped into an open room with good green balls and bad blue
// balls to collect. On the last step but one a second memory room is
// shown, and on the last step the agent is rewarded for reporting
// whether the two balls had the same colour.
type MultiStages struct {
	size     int
	maxSteps int
	numObjs  int

	stage int
	recall
}

// NewMultiStages returns a new MultiStages task on a size x size grid
func NewMultiStages(size, maxSteps, numObjs int) (*MultiStages, error) {
	if size%2 == 0 || size < 7 {
		return nil, fmt.Errorf("newMultiStages: size must be odd and at "+
			"least 7, have %d", size)
	}
	if maxSteps < 3 {
		return nil, fmt.Errorf("newMultiStages: need at least 3 steps, "+
			"have %d", maxSteps)
	}
	if free := (size-2)*(size-2) - 1; numObjs > free {
		return nil, fmt.Errorf("newMultiStages: cannot place %d objects "+
			"in %d free cells", numObjs, free)
	}

	return &MultiStages{
		size:     size,
		maxSteps: maxSteps,
		numObjs:  numObjs,
		recall:   recall{hit: 1, miss: -1},
	}, nil
}

// EnvConfig implements the Variant interface
func (m *MultiStages) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:    m.size,
		Height:   m.size,
		MaxSteps: m.maxSteps,
		ViewSize: 7,
	}
}

// Stage returns the current stage, starting at 1
func (m *MultiStages) Stage() int {
	return m.stage
}

// Generate implements the minigrid.Task interface
func (m *MultiStages) Generate(e *minigrid.Env) error {
	m.first = memoryRoom(e, m.size)
	m.stage = 1
	return nil
}

// collectRoom lays out the second stage
func (m *MultiStages) collectRoom(e *minigrid.Env) error {
	e.SetGrid(walledGrid(m.size, m.size))
	if _, err := e.PlaceAgent(zero, zero, true); err != nil {
		return err
	}

	good := m.numObjs / 2
	if err := placeBalls(e, good, minigrid.Green, 0.01); err != nil {
		return err
	}
	if err := placeBalls(e, m.numObjs-good, minigrid.Blue,
		-0.01); err != nil {
		return err
	}

	e.SetMission("avoid bad objects and get good objects as many as " +
		"possible")
	m.stage = 2
	return nil
}

// Resolve implements the minigrid.Task interface
func (m *MultiStages) Resolve(e *minigrid.Env, a minigrid.Action,
	out *minigrid.Outcome) error {
	if e.StepCount() == 1 {
		if err := m.collectRoom(e); err != nil {
			return fmt.Errorf("resolve: %w", err)
		}
	}

	if m.stage == 2 {
		if r, ok := collectBall(e, false); ok {
			out.Reward = r
		}
	}

	switch e.StepsRemaining() {
	case 1:
		m.last = memoryRoom(e, m.size)
		m.stage = 3

	case 0:
		out.Reward = m.score(a)
	}
	return nil
}

// RewardRange implements the minigrid.Task interface
func (m *MultiStages) RewardRange() r1.Interval {
	return rewardRange(m.hit, m.miss, 0.01, -0.01)
}

// ThreeStages is MultiStages with an empty middle stage. Only the
// final recall is rewarded, with 1 for a correct and 0 for a wrong
// answer.
type ThreeStages struct {
	size     int
	maxSteps int
	level    string

	recall
}

// NewThreeStages returns a new ThreeStages task. The only supported
// level is "easy".
func NewThreeStages(size, maxSteps int, level string) (*ThreeStages,
	error) {
	if level != "easy" {
		return nil, fmt.Errorf("newThreeStages: unknown level %q", level)
	}
	if size%2 == 0 || size < 7 {
		return nil, fmt.Errorf("newThreeStages: size must be odd and at "+
			"least 7, have %d", size)
	}
	if maxSteps < 3 {
		return nil, fmt.Errorf("newThreeStages: need at least 3 steps, "+
			"have %d", maxSteps)
	}

	return &ThreeStages{
		size:     size,
		maxSteps: maxSteps,
		level:    level,
		recall:   recall{hit: 1, miss: 0},
	}, nil
}

// EnvConfig implements the Variant interface
func (t *ThreeStages) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:    t.size,
		Height:   t.size,
		MaxSteps: t.maxSteps,
		ViewSize: 3,
	}
}

// Generate implements the minigrid.Task interface
func (t *ThreeStages) Generate(e *minigrid.Env) error {
	t.first = memoryRoom(e, t.size)
	return nil
}

// Resolve implements the minigrid.Task interface
func (t *ThreeStages) Resolve(e *minigrid.Env, a minigrid.Action,
	out *minigrid.Outcome) error {
	if e.StepCount() == 1 {
		// The agent keeps its position in the empty room
		e.SetGrid(walledGrid(t.size, t.size))
		e.SetMission("explore empty space")
	}

	switch e.StepsRemaining() {
	case 1:
		t.last = memoryRoom(e, t.size)

	case 0:
		out.Reward = t.score(a)
	}
	return nil
}

// RewardRange implements the minigrid.Task interface
func (t *ThreeStages) RewardRange() r1.Interval {
	return rewardRange(t.hit, t.miss)
}

func init() {
	register("MiniGrid-MultiStagesS3-v0", func() (Variant, error) {
		return NewMultiStages(13, 50, 50)
	})
	register("MiniGrid-3StagesEasy-v0", func() (Variant, error) {
		return NewThreeStages(13, 20, "easy")
	})
}
