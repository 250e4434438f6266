package envs

import (
	"fmt"
	"image"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// OrderMemoryLarge is OrderMemory on a larger room split into square
// areas of areaSize x areaSize cells. Each ball lies somewhere in its
// own area and the agent starts in the centre area, or at the bottom
// centre. If resetPositions is true, ball positions, colours and the
// agent start are resampled whenever the layout is reset.
type OrderMemoryLarge struct {
	hiddenOrder
	size           int
	numObjs        int
	areaSize       int
	numAreas       int
	stepPenalty    float64
	viewSize       int
	resetPositions bool
	bottomStart    bool

	agentArea int
	ballAreas []int
	startPos  image.Point
}

// NewOrderMemoryLarge returns a new OrderMemoryLarge task on a size x
// size grid
func NewOrderMemoryLarge(size, numObjs, areaSize int, stepPenalty float64,
	viewSize int, resetPositions, bottomStart bool) (*OrderMemoryLarge,
	error) {
	if areaSize < 1 || (size-2)%areaSize != 0 {
		return nil, fmt.Errorf("newOrderMemoryLarge: area size %d does "+
			"not divide room of size %d", areaSize, size-2)
	}
	perRow := (size - 2) / areaSize
	numAreas := perRow * perRow
	if numAreas <= numObjs {
		return nil, fmt.Errorf("newOrderMemoryLarge: %d areas cannot hold "+
			"%d objects and the agent", numAreas, numObjs)
	}
	if numObjs > minigrid.NumColors {
		return nil, fmt.Errorf("newOrderMemoryLarge: %d objects exceed "+
			"%d colors", numObjs, minigrid.NumColors)
	}

	m := &OrderMemoryLarge{
		size:           size,
		numObjs:        numObjs,
		areaSize:       areaSize,
		numAreas:       numAreas,
		stepPenalty:    stepPenalty,
		viewSize:       viewSize,
		resetPositions: resetPositions,
		bottomStart:    bottomStart,
	}
	m.colors = append([]minigrid.Color(nil), minigrid.ColorNames[:numObjs]...)

	if bottomStart {
		m.agentArea = numAreas - perRow/2 - 1
	} else {
		m.agentArea = numAreas / 2
	}
	return m, nil
}

// EnvConfig implements the Variant interface
func (m *OrderMemoryLarge) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:           m.size,
		Height:          m.size,
		MaxSteps:        100 * m.areaSize,
		ViewSize:        m.viewSize,
		SeeThroughWalls: true,
	}
}

// areaCells returns the cells of an area
func (m *OrderMemoryLarge) areaCells(area int) []image.Point {
	perRow := (m.size - 2) / m.areaSize
	rowOffset := (area / perRow) * m.areaSize
	colOffset := (area % perRow) * m.areaSize

	cells := make([]image.Point, 0, m.areaSize*m.areaSize)
	for i := 0; i < m.areaSize; i++ {
		for j := 0; j < m.areaSize; j++ {
			cells = append(cells, image.Pt(i+colOffset+1, j+rowOffset+1))
		}
	}
	return cells
}

// chooseBallAreas spreads the balls over the areas other than the agent
// area. The areas are drawn once per task.
func (m *OrderMemoryLarge) chooseBallAreas(e *minigrid.Env) {
	areas := make([]int, 0, m.numAreas-1)
	for a := 0; a < m.numAreas; a++ {
		if a != m.agentArea {
			areas = append(areas, a)
		}
	}
	e.Shuffle(len(areas), func(i, j int) {
		areas[i], areas[j] = areas[j], areas[i]
	})

	stride := (m.numAreas - 1) / m.numObjs
	m.ballAreas = make([]int, m.numObjs)
	for i := range m.ballAreas {
		m.ballAreas[i] = areas[i*stride]
	}
}

func (m *OrderMemoryLarge) agentStart(e *minigrid.Env) image.Point {
	if m.bottomStart {
		return image.Pt((m.size-2)/2, m.size-2)
	}
	return minigrid.RandElem(e, m.areaCells(m.agentArea))
}

func (m *OrderMemoryLarge) samplePoses(e *minigrid.Env) {
	m.poses = make([]image.Point, len(m.ballAreas))
	for i, area := range m.ballAreas {
		m.poses[i] = minigrid.RandElem(e, m.areaCells(area))
	}
}

// Generate implements the minigrid.Task interface
func (m *OrderMemoryLarge) Generate(e *minigrid.Env) error {
	if m.ballAreas == nil {
		m.chooseBallAreas(e)
	}

	e.SetGrid(walledGrid(m.size, m.size))
	m.startPos = m.agentStart(e)
	e.SetAgent(m.startPos, minigrid.North)

	m.samplePoses(e)
	m.colors = shuffled(e, m.colors)
	m.placeBalls(e)
	m.start(e)

	e.SetMission("collect objects in hidden order as many as possible")
	return nil
}

func (m *OrderMemoryLarge) reset(e *minigrid.Env) error {
	e.SetGrid(walledGrid(m.size, m.size))
	if m.resetPositions {
		e.SetAgent(m.agentStart(e), minigrid.North)
		m.samplePoses(e)
		m.colors = shuffled(e, m.colors)
	} else {
		e.SetAgent(m.startPos, minigrid.North)
	}

	m.placeBalls(e)
	m.locate()
	return nil
}

// Resolve implements the minigrid.Task interface
func (m *OrderMemoryLarge) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	if err := m.resolve(e, out, m.reset); err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	out.Reward -= m.stepPenalty
	return nil
}

// RewardRange implements the minigrid.Task interface
func (m *OrderMemoryLarge) RewardRange() r1.Interval {
	return rewardRange(1-m.stepPenalty, -m.stepPenalty)
}

func init() {
	for _, v := range []struct {
		id                  string
		size, objs, area    int
		penalty             float64
		view                int
		resetPos, bottomPos bool
	}{
		{"MiniGrid-OrderMemoryLarge-N3-6x6-Penalty-v0", 8, 3, 2, 0.05, 3,
			false, false},
		{"MiniGrid-OrderMemoryLarge-N3-6x6-Penalty-Reset-v0", 8, 3, 2, 0.05,
			3, true, false},
		{"MiniGrid-OrderMemoryLarge-N3-6x6-Reset-v0", 8, 3, 2, 0, 3, true,
			false},
		{"MiniGrid-OrderMemoryLarge-N4-6x6-Reset-v0", 8, 4, 2, 0, 3, true,
			false},
		{"MiniGrid-OrderMemoryLarge-N5-6x6-Reset-v0", 8, 5, 2, 0, 3, true,
			false},
		{"MiniGrid-OrderMemoryLarge-N3-6x6-Fixed-v0", 8, 3, 2, 0, 7, false,
			true},
		{"MiniGrid-OrderMemoryLarge-N4-6x6-Fixed-v0", 8, 4, 2, 0, 7, false,
			true},
		{"MiniGrid-OrderMemoryLarge-N5-6x6-Fixed-v0", 8, 5, 2, 0, 7, false,
			true},
		{"MiniGrid-OrderMemoryLarge-N3-6x6-Reset-Fixed-v0", 8, 3, 2, 0, 7,
			true, true},
		{"MiniGrid-OrderMemoryLarge-N4-6x6-Reset-Fixed-v0", 8, 4, 2, 0, 7,
			true, true},
		{"MiniGrid-OrderMemoryLarge-N5-6x6-Reset-Fixed-v0", 8, 5, 2, 0, 7,
			true, true},
		{"MiniGrid-OrderMemoryLarge-N4-6x6-Penalty-v0", 8, 4, 2, 0.05, 3,
			false, false},
		{"MiniGrid-OrderMemoryLarge-N5-6x6-Penalty-v0", 8, 5, 2, 0.05, 3,
			false, false},
		{"MiniGrid-OrderMemoryLarge-N6-6x6-Penalty-v0", 8, 6, 2, 0.05, 3,
			false, false},
		{"MiniGrid-OrderMemoryLarge-N7-6x6-Penalty-v0", 8, 7, 2, 0.05, 3,
			false, false},
		{"MiniGrid-OrderMemoryLarge-N8-6x6-Penalty-v0", 8, 8, 2, 0.05, 3,
			false, false},
		{"MiniGrid-OrderMemoryLarge-N3-9x9-Penalty-v0", 11, 3, 3, 0.05, 3,
			false, false},
		{"MiniGrid-OrderMemoryLarge-N4-9x9-Penalty-v0", 11, 4, 3, 0.05, 3,
			false, false},
	} {
		v := v
		register(v.id, func() (Variant, error) {
			return NewOrderMemoryLarge(v.size, v.objs, v.area, v.penalty,
				v.view, v.resetPos, v.bottomPos)
		})
	}
}
