package envs

import (
	"fmt"
	"image"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// Phases of a VisualMatch episode
const (
	PhaseExplore    = "explore"
	PhaseDistractor = "distractor"
	PhaseReward     = "reward"
)

// Rewards of a VisualMatch episode
const (
	VisualMatchFruit = 1.0
	VisualMatchGoal  = 10.0
)

// VisualMatch is a three phase memory task. In the explore phase the
// agent sees a ball of a random colour. In the distractor phase it is
// dropped into a large room full of yellow fruits worth
// VisualMatchFruit each. In the reward phase it faces three balls and
// walking onto the one matching the first ball pays VisualMatchGoal.
// Walking onto any of the three balls ends the episode.
type VisualMatch struct {
	size           int
	distractorSize int
	numFruits      int
	exploreSteps   int
	distractSteps  int
	rewardSteps    int

	goal  minigrid.Color
	phase string
}

var visualMatchColors = []minigrid.Color{minigrid.Green, minigrid.Blue,
	minigrid.Red}

// NewVisualMatch returns a new VisualMatch task. The explore and reward
// rooms are size x size.
func NewVisualMatch(size int) (*VisualMatch, error) {
	if size < 7 {
		return nil, fmt.Errorf("newVisualMatch: size must be at least 7, "+
			"have %d", size)
	}
	return &VisualMatch{
		size:           size,
		distractorSize: 30,
		numFruits:      30,
		exploreSteps:   5,
		distractSteps:  10,
		rewardSteps:    15,
	}, nil
}

// EnvConfig implements the Variant interface
func (v *VisualMatch) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:           v.size,
		Height:          v.size,
		MaxSteps:        v.exploreSteps + v.distractSteps + v.rewardSteps,
		SeeThroughWalls: true,
	}
}

// Phase returns the current phase of the episode
func (v *VisualMatch) Phase() string {
	return v.phase
}

// Goal returns the colour of the ball shown in the explore phase
func (v *VisualMatch) Goal() minigrid.Color {
	return v.goal
}

// start puts the agent where it sees the centre of the room
func (v *VisualMatch) start(e *minigrid.Env) {
	e.SetAgent(image.Pt(1, v.size/2), minigrid.East)
}

// Generate implements the minigrid.Task interface
func (v *VisualMatch) Generate(e *minigrid.Env) error {
	e.SetGrid(walledGrid(v.size, v.size))

	v.goal = e.RandColor(visualMatchColors)
	e.PutObj(minigrid.NewBall(v.goal), v.size/2, v.size/2)
	v.start(e)

	v.phase = PhaseExplore
	e.SetMission("remember the ball color")
	return nil
}

// distractorRoom lays out the distractor phase
func (v *VisualMatch) distractorRoom(e *minigrid.Env) error {
	e.SetGrid(walledGrid(v.distractorSize, v.distractorSize))
	if _, err := e.PlaceAgent(zero, zero, true); err != nil {
		return err
	}
	for i := 0; i < v.numFruits; i++ {
		fruit := minigrid.NewFruit(minigrid.Ball, minigrid.Yellow,
			VisualMatchFruit, false)
		if _, err := e.PlaceObj(fruit, zero, zero, nil, 0); err != nil {
			return err
		}
	}

	v.phase = PhaseDistractor
	e.SetMission("collect yellow balls as many as possible")
	return nil
}

// rewardRoom lays out the reward phase
func (v *VisualMatch) rewardRoom(e *minigrid.Env) {
	e.SetGrid(walledGrid(v.size, v.size))
	poses := []image.Point{
		{v.size / 2, 1},
		{v.size / 2, v.size / 2},
		{v.size / 2, v.size - 2},
	}
	for i, c := range visualMatchColors {
		r := 0.0
		if c == v.goal {
			r = VisualMatchGoal
		}
		e.PutObj(minigrid.NewFruit(minigrid.Ball, c, r, true), poses[i].X,
			poses[i].Y)
	}
	v.start(e)

	v.phase = PhaseReward
	e.SetMission("collect the same colored ball with that in the first " +
		"room")
}

// ResetInfo implements the minigrid.Informer interface
func (v *VisualMatch) ResetInfo(*minigrid.Env) map[string]interface{} {
	return map[string]interface{}{"phase": v.phase}
}

// Resolve implements the minigrid.Task interface
func (v *VisualMatch) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	if v.phase == PhaseExplore && e.StepCount() > v.exploreSteps {
		if err := v.distractorRoom(e); err != nil {
			return fmt.Errorf("resolve: %w", err)
		}
	}
	if v.phase == PhaseDistractor &&
		e.StepCount() > v.exploreSteps+v.distractSteps {
		v.rewardRoom(e)
	}

	out.SetInfo("phase", v.phase)
	return nil
}

// RewardRange implements the minigrid.Task interface
func (v *VisualMatch) RewardRange() r1.Interval {
	return rewardRange(0, VisualMatchFruit, VisualMatchGoal)
}

func init() {
	register("MiniGrid-VisualMatch-v0", func() (Variant, error) {
		return NewVisualMatch(8)
	})
}
