package envs

import (
	"fmt"
	"image"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// Rewards of an IMaze
const (
	IMazeSuccess = 10.0
	IMazeFailure = 0.2
	IMazeHallway = 0.01
)

// IMaze is a corridor memory test. The agent starts in a small room
// where it sees a green or blue ball. It then walks down a narrow
// hallway which ends in a split with a green ball at one end and a blue
// ball at the other. Stepping next to the ball matching the first one
// pays IMazeSuccess and stepping next to the other pays IMazeFailure.
// Both end the episode. Each column of the hallway pays IMazeHallway
// the first time the agent enters it.
type IMaze struct {
	size     int
	maxSteps int

	first            minigrid.Color
	success, failure image.Point
	hallway          []bool
}

// NewIMaze returns a new IMaze task on a size x size grid
func NewIMaze(size, maxSteps int) (*IMaze, error) {
	if size < 5 || size%2 == 0 {
		return nil, fmt.Errorf("newIMaze: size must be odd and at least 5, "+
			"have %d", size)
	}
	return &IMaze{size: size, maxSteps: maxSteps}, nil
}

// EnvConfig implements the Variant interface
func (m *IMaze) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:    m.size,
		Height:   m.size,
		MaxSteps: m.maxSteps,
		ViewSize: 3,
	}
}

// Generate implements the minigrid.Task interface
func (m *IMaze) Generate(e *minigrid.Env) error {
	w, h := m.size, m.size
	g := walledGrid(w, h)

	upper, lower := h/2-2, h/2+2
	hallEnd := w - 3

	for i := 1; i < 3; i++ {
		g.Set(i, upper, minigrid.NewWall())
		g.Set(i, lower, minigrid.NewWall())
	}
	g.Set(2, upper+1, minigrid.NewWall())
	g.Set(2, lower-1, minigrid.NewWall())

	for i := 3; i < hallEnd; i++ {
		g.Set(i, upper+1, minigrid.NewWall())
		g.Set(i, lower-1, minigrid.NewWall())
	}
	for j := 0; j < h; j++ {
		if j != h/2 {
			g.Set(hallEnd, j, minigrid.NewWall())
		}
		g.Set(hallEnd+2, j, minigrid.NewWall())
	}
	e.SetGrid(g)
	e.SetAgent(image.Pt(1, h/2+1), minigrid.North)

	m.first = e.RandColor(memoryColors)
	e.PutObj(minigrid.NewBall(m.first), 1, h/2-1)

	top := image.Pt(hallEnd+1, h/2-2)
	bottom := image.Pt(hallEnd+1, h/2+2)
	e.PutObj(minigrid.NewBall(minigrid.Green), top.X, top.Y)
	e.PutObj(minigrid.NewBall(minigrid.Blue), bottom.X, bottom.Y)

	nextToTop, nextToBottom := top.Add(image.Pt(0, 1)), bottom.Sub(image.Pt(0, 1))
	if m.first == minigrid.Green {
		m.success, m.failure = nextToTop, nextToBottom
	} else {
		m.success, m.failure = nextToBottom, nextToTop
	}

	e.SetMission("go to the matching object at the end of the hallway")
	m.hallway = make([]bool, w-2)
	return nil
}

// Resolve implements the minigrid.Task interface
func (m *IMaze) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	p := e.AgentPos()
	if p.Y == m.size/2 && !m.hallway[p.X-1] {
		out.Reward = IMazeHallway
		m.hallway[p.X-1] = true
	}

	switch p {
	case m.success:
		out.Reward, out.Terminated = IMazeSuccess, true
	case m.failure:
		out.Reward, out.Terminated = IMazeFailure, true
	}
	return nil
}

// RewardRange implements the minigrid.Task interface
func (m *IMaze) RewardRange() r1.Interval {
	return rewardRange(0, IMazeHallway, IMazeFailure, IMazeSuccess)
}

func init() {
	for _, v := range []struct {
		size, maxSteps int
	}{
		{5, 7}, {9, 15}, {13, 200}, {21, 300}, {31, 400}, {41, 50},
		{51, 60}, {61, 70}, {71, 80}, {81, 90}, {91, 100},
	} {
		v := v
		register(fmt.Sprintf("MiniGrid-IMazeS%d-v0", v.size), func() (Variant,
			error) {
			return NewIMaze(v.size, v.maxSteps)
		})
	}
}
