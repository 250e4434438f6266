package envs

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// Delayed is a room with a single green ball. Collecting the ball starts
// a countdown and a reward of 1 is paid out exactly delay steps after
// the ball was collected. The episode only ends by timeout.
type Delayed struct {
	size        int
	delay       int
	randomStart bool

	// countdown is the number of steps until the reward is paid, or -1
	// if no reward is pending
	countdown int
}

// NewDelayed returns a new Delayed task on a size x size grid
func NewDelayed(size, delay int, randomStart bool) (*Delayed, error) {
	if delay < 0 {
		return nil, fmt.Errorf("newDelayed: delay must be non-negative, "+
			"have %d", delay)
	}
	if delay >= size*size {
		return nil, fmt.Errorf("newDelayed: delay %d longer than episode",
			delay)
	}
	return &Delayed{size: size, delay: delay, randomStart: randomStart,
		countdown: -1}, nil
}

// EnvConfig implements the Variant interface
func (d *Delayed) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:           d.size,
		Height:          d.size,
		MaxSteps:        d.size * d.size,
		SeeThroughWalls: true,
	}
}

// Generate implements the minigrid.Task interface
func (d *Delayed) Generate(e *minigrid.Env) error {
	e.SetGrid(walledGrid(d.size, d.size))
	if err := placeStart(e, d.randomStart); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if err := placeBalls(e, 1, minigrid.Green, 1); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	e.SetMission("collect the ball for delayed reward")
	d.countdown = -1
	return nil
}

// Resolve implements the minigrid.Task interface
func (d *Delayed) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	if _, ok := collectBall(e, false); ok {
		d.countdown = d.delay
	}

	if d.countdown >= 0 {
		if d.countdown == 0 {
			out.Reward = 1
		}
		d.countdown--
	}
	return nil
}

// RewardRange implements the minigrid.Task interface
func (d *Delayed) RewardRange() r1.Interval {
	return rewardRange(0, 1)
}

func init() {
	for _, v := range []struct {
		id          string
		size, delay int
	}{
		{"MiniGrid-Delayed-D5-7x7-v0", 7, 5},
		{"MiniGrid-Delayed-D0-7x7-v0", 7, 0},
		{"MiniGrid-Delayed-D5-9x9-v0", 9, 5},
	} {
		v := v
		register(v.id, func() (Variant, error) {
			return NewDelayed(v.size, v.delay, true)
		})
	}
}
