package envs

import (
	"fmt"
	"image"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// Names of the goals in a FourRoomsObjects task
const (
	GoalClue  = "goal_clue"
	TrueGoal  = "true_goal"
	FalseGoal = "false_goal"
)

var goalColors = []minigrid.Color{minigrid.Red, minigrid.Green}

// defaultGoalDist is the distance agent and goals must exceed when the
// grid is large enough to allow it
const defaultGoalDist = 20

// FourRoomsObjects is the classic four rooms layout with randomly placed
// doors. The agent starts facing a clue goal whose colour matches one of
// two further goals. Reaching the matching goal pays +3 and reaching the
// other goal pays -1, and either respawns the agent. The clue pays +1
// and disappears. Yellow balls pay +1 and blue balls pay -1.
//
// With yellowFirst, goals only have an effect once every yellow ball is
// collected. Goals never end the episode.
type FourRoomsObjects struct {
	size        int
	numGood     int
	numBad      int
	yellowFirst bool
	maxSteps    int

	goalDist        int
	yellowCollected int
}

// NewFourRoomsObjects returns a new FourRoomsObjects task on a size x
// size grid
func NewFourRoomsObjects(size, numGood, numBad int, yellowFirst bool,
	maxSteps int) (*FourRoomsObjects, error) {
	if size < 9 {
		return nil, fmt.Errorf("newFourRoomsObjects: size must be at "+
			"least 9, have %d", size)
	}
	if numGood < 0 || numBad < 0 {
		return nil, fmt.Errorf("newFourRoomsObjects: object counts must "+
			"be non-negative, have %d and %d", numGood, numBad)
	}

	// Agent and goals must be further apart than goalDist. Three points
	// whose pairwise distances all exceed goalDist need a total of at
	// least 3*(goalDist+1), while the interior allows at most twice the
	// sum of its spans. Smaller grids fall back to half the span.
	goalDist := defaultGoalDist
	if span := size - 3; 3*(goalDist+1) > 2*(span+span) {
		goalDist = span / 2
	}

	return &FourRoomsObjects{
		size:        size,
		numGood:     numGood,
		numBad:      numBad,
		yellowFirst: yellowFirst,
		maxSteps:    maxSteps,
		goalDist:    goalDist,
	}, nil
}

// EnvConfig implements the Variant interface
func (f *FourRoomsObjects) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:    f.size,
		Height:   f.size,
		MaxSteps: f.maxSteps,
	}
}

// rooms lays out the four rooms with one random door in each inner wall
func (f *FourRoomsObjects) rooms(e *minigrid.Env) *minigrid.Grid {
	g := walledGrid(f.size, f.size)
	roomW, roomH := f.size/2, f.size/2

	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			xL, yT := i*roomW, j*roomH
			xR, yB := xL+roomW, yT+roomH

			if i+1 < 2 {
				g.VertWall(xR, yT, roomH)
				g.Set(xR, e.RandInt(yT+1, yB), nil)
			}
			if j+1 < 2 {
				g.HorzWall(xL, yB, roomW)
				g.Set(e.RandInt(xL+1, xR), yB, nil)
			}
		}
	}
	return g
}

// facing returns the direction the agent faces at p, looking away from
// nearby outer walls
func (f *FourRoomsObjects) facing(e *minigrid.Env,
	p image.Point) minigrid.Direction {
	switch {
	case p.X <= 2:
		return minigrid.East
	case p.X >= f.size-4:
		return minigrid.West
	case p.Y <= 2:
		return minigrid.South
	case p.Y >= f.size-4:
		return minigrid.North
	}
	return minigrid.Direction(e.RandInt(0, minigrid.NumDirections))
}

// Generate implements the minigrid.Task interface
func (f *FourRoomsObjects) Generate(e *minigrid.Env) error {
	g := f.rooms(e)
	e.SetGrid(g)

	// The clue sits two cells in front of the agent and must land on
	// an empty cell that no goal occupies
	var dir minigrid.Direction
	var clue image.Point
	sample, err := sampleSpread(e, g.EmptyCells(zero, f.size, f.size), 3,
		f.goalDist+1, func(s []image.Point) bool {
			dir = f.facing(e, s[0])
			clue = s[0].Add(dir.Vec().Mul(2))
			return g.InBounds(clue.X, clue.Y) && g.At(clue) == nil &&
				clue != s[1] && clue != s[2]
		})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	e.SetAgent(sample[0], dir)

	trueIdx := e.RandInt(0, len(goalColors))
	trueColor, falseColor := goalColors[trueIdx], goalColors[1-trueIdx]
	e.PutObj(minigrid.NewNamedGoal(trueColor, GoalClue), clue.X, clue.Y)
	e.PutObj(minigrid.NewNamedGoal(trueColor, TrueGoal), sample[1].X,
		sample[1].Y)
	e.PutObj(minigrid.NewNamedGoal(falseColor, FalseGoal), sample[2].X,
		sample[2].Y)

	var cells []image.Point
	for _, p := range g.EmptyCells(zero, f.size, f.size) {
		if p != e.AgentPos() {
			cells = append(cells, p)
		}
	}
	objs, err := sampleSpread(e, cells, f.numGood+f.numBad, 3, nil)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	for i, p := range objs {
		c := minigrid.Yellow
		if i >= f.numGood {
			c = minigrid.Blue
		}
		e.PutObj(minigrid.NewCollectableBall(c, 0), p.X, p.Y)
	}

	e.SetMission("Reach the goal")
	f.yellowCollected = 0
	return nil
}

// Resolve implements the minigrid.Task interface
func (f *FourRoomsObjects) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	out.Reward, out.Terminated = 0, false

	cell := agentCell(e)
	if cell == nil {
		return nil
	}

	switch cell.Type() {
	case minigrid.Ball:
		switch cell.Color() {
		case minigrid.Yellow:
			e.Remove(e.AgentPos())
			out.Reward++
			f.yellowCollected++
		case minigrid.Blue:
			e.Remove(e.AgentPos())
			out.Reward--
		}

	case minigrid.Goal:
		if f.yellowFirst && f.yellowCollected < f.numGood {
			return nil
		}
		switch cell.Name() {
		case GoalClue:
			e.Remove(e.AgentPos())
			out.Reward++
		case TrueGoal:
			out.Reward += 3
			if _, err := e.PlaceAgent(zero, zero, true); err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
		case FalseGoal:
			out.Reward--
			if _, err := e.PlaceAgent(zero, zero, true); err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
		}
	}
	return nil
}

// RewardRange implements the minigrid.Task interface
func (f *FourRoomsObjects) RewardRange() r1.Interval {
	return rewardRange(-1, 3)
}

func init() {
	for _, v := range []struct {
		id          string
		size, n     int
		yellowFirst bool
	}{
		{"MiniGrid-FourRooms-Objects-v0", 17, 4, false},
		{"MiniGrid-FourRooms-ObjectsEnvS23N8-v0", 23, 8, false},
		{"MiniGrid-FourRooms-ObjectsEnvS11N4YellowFirst-v0", 11, 4, true},
		{"MiniGrid-FourRooms-ObjectsEnvS11N4-v0", 11, 4, false},
	} {
		v := v
		register(v.id, func() (Variant, error) {
			return NewFourRoomsObjects(v.size, v.n, v.n, v.yellowFirst, 100)
		})
	}
}
