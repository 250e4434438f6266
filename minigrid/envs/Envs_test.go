package envs

import (
	"image"
	"strings"
	"testing"

	"github.com/samuelfneumann/gominigrid/environment/envconfig"
	"github.com/samuelfneumann/gominigrid/minigrid"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"github.com/samuelfneumann/gominigrid/utils/intutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// create builds the environment registered under id
func create(t *testing.T, id string, seed uint64) (*minigrid.Env,
	ts.TimeStep) {
	t.Helper()
	e, step, err := envconfig.Create(id, seed, 0.99)
	require.NoError(t, err, id)
	return e, step
}

// makeEnv builds an environment running v
func makeEnv(t *testing.T, v Variant, seed uint64) (*minigrid.Env,
	ts.TimeStep) {
	t.Helper()
	e, step, err := Make(v, seed, 1)
	require.NoError(t, err)
	return e, step
}

// standOn moves the agent onto p and takes a turn so that the task
// resolves whatever lies at p
func standOn(t *testing.T, e *minigrid.Env, p image.Point) ts.TimeStep {
	t.Helper()
	e.SetAgent(p, e.AgentDir())
	step, _, err := e.StepAction(minigrid.Left)
	require.NoError(t, err)
	return step
}

// turn takes n turns, returning the last TimeStep
func turn(t *testing.T, e *minigrid.Env, n int) ts.TimeStep {
	t.Helper()
	var step ts.TimeStep
	var err error
	for i := 0; i < n; i++ {
		step, _, err = e.StepAction(minigrid.Left)
		require.NoError(t, err)
	}
	return step
}

// countBalls returns the number of balls of colour c on the grid
func countBalls(g *minigrid.Grid, c minigrid.Color) int {
	return g.Count(func(o *minigrid.Object) bool {
		return o.Type() == minigrid.Ball && o.Color() == c
	})
}

// reachable returns the cells reachable from p without crossing walls
func reachable(g *minigrid.Grid, p image.Point) map[image.Point]bool {
	seen := map[image.Point]bool{p: true}
	queue := []image.Point{p}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for d := minigrid.Direction(0); d < minigrid.NumDirections; d++ {
			n := c.Add(d.Vec())
			if !g.InBounds(n.X, n.Y) || seen[n] {
				continue
			}
			if o := g.At(n); o != nil && o.Type() == minigrid.Wall {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return seen
}

// closedLayouts are the variants whose playable area is split by walls
var closedLayouts = []string{"IMaze", "MultiStages", "3Stages"}

func TestRegistry(t *testing.T) {
	ids := envconfig.List()
	assert.Len(t, ids, 73)

	for _, id := range []string{
		"MiniGrid-ObjectReward-Easy-16x16-v0",
		"MiniGrid-ObjectReward-Hard-Random-Penalty-16x16-v0",
		"MiniGrid-GoodObject-Random-Penalty-VisibleBall-9x9-v0",
		"MiniGrid-Delayed-D0-7x7-v0",
		"MiniGrid-OrderMemory-N4-Penalty-v0",
		"MiniGrid-OrderMemoryLarge-N3-9x9-Penalty-v0",
		"MiniGrid-OddOneOutS8N6-v0",
		"MiniGrid-TargetedObject-Penalty-9x9-v0",
		"MiniGrid-LargeRoom-v0",
		"MiniGrid-MultiStagesS3-v0",
		"MiniGrid-3StagesEasy-v0",
		"MiniGrid-NStageEmptyS7-v0",
		"MiniGrid-NStageEmptyEnvNoLoopS7-v0",
		"MiniGrid-NStageEmptyNoLoopPartialS7-v0",
		"MiniGrid-FourRooms-ObjectsEnvS11N4YellowFirst-v0",
		"MiniGrid-IMazeS91-v0",
		"MiniGrid-VisualMatch-v0",
	} {
		assert.True(t, envconfig.Exists(id), id)
	}

	_, _, err := envconfig.Create("MiniGrid-NoSuchEnv-v0", 0, 1)
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	for _, id := range envconfig.List() {
		id := id
		t.Run(id, func(t *testing.T) {
			e, step := create(t, id, 11)
			require.True(t, step.First())

			checkLayout(t, id, e)

			rewards := e.RewardSpec()
			rng := rand.New(rand.NewSource(5))
			for episode := 0; episode < 2; episode++ {
				for !step.Last() {
					a := minigrid.Action(rng.Intn(minigrid.NumActions))
					var err error
					step, _, err = e.StepAction(a)
					require.NoError(t, err)

					assert.LessOrEqual(t, step.Number, e.MaxSteps())
					r := mat.NewVecDense(1, []float64{step.Reward})
					assert.True(t, rewards.Contains(r), "reward %v out of %v",
						step.Reward, e.Task().RewardRange())
					assert.True(t, e.Grid().InBounds(e.AgentPos().X,
						e.AgentPos().Y))
				}
				assert.True(t, step.Terminated() || step.Truncated())
				if step.Number == e.MaxSteps() && !step.Terminated() {
					assert.True(t, step.Truncated())
				}

				var err error
				step, err = e.Reset()
				require.NoError(t, err)
			}
		})
	}
}

// checkLayout checks that the grid is closed by walls and, for open
// layouts, that every cell is reachable from the agent
func checkLayout(t *testing.T, id string, e *minigrid.Env) {
	t.Helper()
	g := e.Grid()
	assert.Equal(t, e.Width(), g.Width())
	assert.Equal(t, e.Height(), g.Height())

	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			if x == 0 || y == 0 || x == g.Width()-1 || y == g.Height()-1 {
				assert.NotNil(t, g.Get(x, y), "border cell (%d, %d)", x, y)
			}
		}
	}

	for _, name := range closedLayouts {
		if strings.Contains(id, name) {
			return
		}
	}
	seen := reachable(g, e.AgentPos())
	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			o := g.Get(x, y)
			if o == nil || o.Type() != minigrid.Wall {
				assert.True(t, seen[image.Pt(x, y)],
					"cell (%d, %d) unreachable", x, y)
			}
		}
	}
}

func TestDeterministicTrajectories(t *testing.T) {
	for _, id := range []string{
		"MiniGrid-ObjectReward-Hard-Random-16x16-v0",
		"MiniGrid-OrderMemoryLarge-N4-6x6-Reset-v0",
		"MiniGrid-FourRooms-Objects-v0",
		"MiniGrid-NStageEmptyNoLoopPartialS7-v0",
		"MiniGrid-VisualMatch-v0",
	} {
		id := id
		t.Run(id, func(t *testing.T) {
			e1, s1 := create(t, id, 99)
			e2, s2 := create(t, id, 99)
			rng := rand.New(rand.NewSource(1))

			for i := 0; i < 40 && !s1.Last(); i++ {
				require.Equal(t, s1.Observation.RawVector().Data,
					s2.Observation.RawVector().Data)
				require.Equal(t, e1.AgentPos(), e2.AgentPos())

				a := minigrid.Action(rng.Intn(minigrid.NumActions))
				s1, _, _ = e1.StepAction(a)
				s2, _, _ = e2.StepAction(a)
				require.Equal(t, s1.Reward, s2.Reward)
				require.Equal(t, s1.StepType, s2.StepType)
			}
		})
	}
}

func TestSampleSpread(t *testing.T) {
	e, _ := makeEnv(t, mustVariant(NewDelayed(9, 0, false)), 1)
	cells := walledGrid(9, 9).EmptyCells(zero, 9, 9)

	sample, err := sampleSpread(e, cells, 4, 3, nil)
	require.NoError(t, err)
	assert.Len(t, sample, 4)
	for i := range sample {
		for j := i + 1; j < len(sample); j++ {
			assert.GreaterOrEqual(t, intutils.Manhattan(sample[i], sample[j]), 3)
		}
	}

	_, err = sampleSpread(e, cells[:2], 3, 0, nil)
	assert.ErrorIs(t, err, minigrid.ErrNoFreeCell)

	_, err = sampleSpread(e, cells, 2, 0, func([]image.Point) bool {
		return false
	})
	assert.ErrorIs(t, err, minigrid.ErrPlacementFailed)
}

func TestPositives(t *testing.T) {
	assert.Equal(t, 25, positives(50))
	assert.Equal(t, 8, positives(15))
	assert.Equal(t, 3, positives(6))
	assert.Equal(t, 1, positives(1))
}

func mustVariant[V Variant](v V, err error) V {
	if err != nil {
		panic(err)
	}
	return v
}
