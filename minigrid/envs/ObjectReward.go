package envs

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// Levels of the ObjectReward task
const (
	EasyLevel = "easy"
	HardLevel = "hard"
)

var (
	easyLevelColors = []minigrid.Color{minigrid.Green, minigrid.Blue,
		minigrid.Purple, minigrid.Yellow}
	hardLevelColors = []minigrid.Color{minigrid.Red, minigrid.Green,
		minigrid.Blue, minigrid.Purple, minigrid.Yellow, minigrid.Grey,
		minigrid.Magenta, minigrid.White, minigrid.Orange}
)

// ObjectReward is a room filled with balls. At the start of each episode
// the palette of the level is shuffled: balls with a colour from the
// first half of the palette are worth +1 and the rest -1. Each ball is
// collected by walking onto it. The episode ends once all positive
// balls are collected.
type ObjectReward struct {
	size        int
	numObjs     int
	randomStart bool
	stepPenalty float64
	palette     []minigrid.Color

	collected int
}

// NewObjectReward returns a new ObjectReward task on a size x size
// grid with numObjs balls
func NewObjectReward(size, numObjs int, level string, randomStart bool,
	stepPenalty float64) (*ObjectReward, error) {
	var palette []minigrid.Color
	switch level {
	case EasyLevel:
		palette = easyLevelColors
	case HardLevel:
		palette = hardLevelColors
	default:
		return nil, fmt.Errorf("newObjectReward: unsupported level %q",
			level)
	}

	if free := (size-2)*(size-2) - 1; numObjs > free {
		return nil, fmt.Errorf("newObjectReward: cannot place %d objects "+
			"in %d free cells", numObjs, free)
	}

	return &ObjectReward{
		size:        size,
		numObjs:     numObjs,
		randomStart: randomStart,
		stepPenalty: stepPenalty,
		palette:     append([]minigrid.Color(nil), palette...),
	}, nil
}

// EnvConfig implements the Variant interface
func (o *ObjectReward) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:           o.size,
		Height:          o.size,
		MaxSteps:        4 * o.size * o.size,
		SeeThroughWalls: true,
	}
}

// Generate implements the minigrid.Task interface
func (o *ObjectReward) Generate(e *minigrid.Env) error {
	e.SetGrid(walledGrid(o.size, o.size))
	if err := placeStart(e, o.randomStart); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	o.palette = shuffled(e, o.palette)
	half := len(o.palette) / 2
	good, bad := o.palette[:half], o.palette[half:]

	for i := 0; i < o.numObjs; i++ {
		var ball *minigrid.Object
		if i < positives(o.numObjs) {
			ball = minigrid.NewCollectableBall(e.RandColor(good), 1)
		} else {
			ball = minigrid.NewCollectableBall(e.RandColor(bad), -1)
		}
		if _, err := e.PlaceObj(ball, zero, zero, nil, 0); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
	}

	e.SetMission("collect the positive color balls that are randomized " +
		"per each episode")
	o.collected = 0
	return nil
}

// Resolve implements the minigrid.Task interface
func (o *ObjectReward) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	if r, ok := collectBall(e, false); ok {
		out.Reward = r
	}
	out.Reward -= o.stepPenalty

	if out.Reward > 0 {
		o.collected++
	}
	if o.collected == positives(o.numObjs) {
		out.Terminated = true
	}
	return nil
}

// RewardRange implements the minigrid.Task interface
func (o *ObjectReward) RewardRange() r1.Interval {
	return rewardRange(1-o.stepPenalty, -1-o.stepPenalty, -o.stepPenalty)
}

func init() {
	for _, level := range []string{EasyLevel, HardLevel} {
		name := "Easy"
		if level == HardLevel {
			name = "Hard"
		}
		for _, v := range []struct {
			suffix  string
			random  bool
			penalty float64
		}{
			{"", false, 0},
			{"-Random", true, 0},
			{"-Penalty", false, 0.05},
			{"-Random-Penalty", true, 0.05},
		} {
			level, v := level, v
			id := fmt.Sprintf("MiniGrid-ObjectReward-%v%v-16x16-v0", name,
				v.suffix)
			register(id, func() (Variant, error) {
				return NewObjectReward(16, 50, level, v.random, v.penalty)
			})
		}
	}
}
