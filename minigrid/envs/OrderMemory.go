package envs

import (
	"fmt"
	"image"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// hiddenOrder tracks a hidden visiting order over a set of balls. Each
// ball pays +1 the first time it is collected in order. Collecting a
// ball out of order resets the layout and the progress through the
// order. Collecting all balls in order resets the layout and the
// rewards.
type hiddenOrder struct {
	colors []minigrid.Color // colour of the ball at poses[i]
	poses  []image.Point

	order    []minigrid.Color
	orderPos []image.Point
	next     int
	rewards  []float64
}

// placeBalls puts the balls on the grid
func (h *hiddenOrder) placeBalls(e *minigrid.Env) {
	for i, p := range h.poses {
		e.PutObj(minigrid.NewCollectableBall(h.colors[i], 0), p.X, p.Y)
	}
}

// locate finds the position of every ball in the hidden order
func (h *hiddenOrder) locate() {
	h.orderPos = h.orderPos[:0]
	for _, c := range h.order {
		for i := range h.colors {
			if h.colors[i] == c {
				h.orderPos = append(h.orderPos, h.poses[i])
				break
			}
		}
	}
}

// start draws a new hidden order and resets all progress
func (h *hiddenOrder) start(e *minigrid.Env) {
	h.order = shuffled(e, h.colors)
	h.locate()
	h.next = 0
	h.rewards = make([]float64, len(h.colors))
	for i := range h.rewards {
		h.rewards[i] = 1
	}
}

// resolve pays out the ball under the agent. reset re-lays the grid.
func (h *hiddenOrder) resolve(e *minigrid.Env, out *minigrid.Outcome,
	reset func(*minigrid.Env) error) error {
	if cell := agentCell(e); cell != nil && cell.Type() == minigrid.Ball {
		if e.AgentPos() == h.orderPos[h.next] {
			e.Remove(e.AgentPos())
			out.Reward += h.rewards[h.next]
			h.rewards[h.next] = 0
			h.next++
		} else {
			h.next = 0
			if err := reset(e); err != nil {
				return err
			}
		}
	}

	if h.next >= len(h.colors) {
		h.next = 0
		for i := range h.rewards {
			h.rewards[i] = 1
		}
		if err := reset(e); err != nil {
			return err
		}
	}
	return nil
}

// OrderMemory is a small room with balls at fixed positions that must be
// collected in a hidden order. The colours of the balls are shuffled
// whenever the layout is reset, so the order must be remembered by
// colour.
type OrderMemory struct {
	hiddenOrder
	numObjs     int
	stepPenalty float64
	startPos    image.Point
}

// NewOrderMemory returns a new OrderMemory task with 3 or 4 balls
func NewOrderMemory(numObjs int, stepPenalty float64) (*OrderMemory,
	error) {
	m := &OrderMemory{numObjs: numObjs, stepPenalty: stepPenalty}
	switch numObjs {
	case 3:
		m.colors = []minigrid.Color{minigrid.Green, minigrid.Blue,
			minigrid.Yellow}
		m.poses = []image.Point{{1, 3}, {2, 2}, {3, 3}}
		m.startPos = image.Pt(2, 3)

	case 4:
		m.colors = []minigrid.Color{minigrid.Green, minigrid.Blue,
			minigrid.Yellow, minigrid.Purple}
		m.poses = []image.Point{{2, 1}, {3, 2}, {2, 3}, {1, 2}}
		m.startPos = image.Pt(2, 2)

	default:
		return nil, fmt.Errorf("newOrderMemory: unsupported number of "+
			"objects %d", numObjs)
	}
	return m, nil
}

// EnvConfig implements the Variant interface
func (m *OrderMemory) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:           5,
		Height:          5,
		MaxSteps:        100,
		SeeThroughWalls: true,
	}
}

// layout lays out a fresh grid with reshuffled ball colours
func (m *OrderMemory) layout(e *minigrid.Env) {
	e.SetGrid(walledGrid(5, 5))
	e.SetAgent(m.startPos, minigrid.North)

	m.colors = shuffled(e, m.colors)
	m.placeBalls(e)
}

// Generate implements the minigrid.Task interface
func (m *OrderMemory) Generate(e *minigrid.Env) error {
	m.layout(e)
	m.start(e)
	e.SetMission("collect objects in hidden order as many as possible")
	return nil
}

func (m *OrderMemory) reset(e *minigrid.Env) error {
	m.layout(e)
	m.locate()
	return nil
}

// Resolve implements the minigrid.Task interface
func (m *OrderMemory) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	if err := m.resolve(e, out, m.reset); err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	out.Reward -= m.stepPenalty
	return nil
}

// RewardRange implements the minigrid.Task interface
func (m *OrderMemory) RewardRange() r1.Interval {
	return rewardRange(1-m.stepPenalty, -m.stepPenalty)
}

func init() {
	for _, v := range []struct {
		id      string
		objs    int
		penalty float64
	}{
		{"MiniGrid-OrderMemory-N3-v0", 3, 0},
		{"MiniGrid-OrderMemory-N3-Penalty-v0", 3, 0.05},
		{"MiniGrid-OrderMemory-N4-v0", 4, 0},
		{"MiniGrid-OrderMemory-N4-Penalty-v0", 4, 0.05},
	} {
		v := v
		register(v.id, func() (Variant, error) {
			return NewOrderMemory(v.objs, v.penalty)
		})
	}
}
