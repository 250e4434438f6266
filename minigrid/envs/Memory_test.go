package envs

import (
	"image"
	"testing"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderMemory(t *testing.T) {
	v := mustVariant(NewOrderMemory(4, 0))
	e, step := makeEnv(t, v, 21)

	assert.Equal(t, image.Pt(2, 2), e.AgentPos())
	assert.Equal(t, minigrid.North, e.AgentDir())
	assert.Equal(t, "collect objects in hidden order as many as possible",
		step.Mission)
	for _, p := range v.poses {
		require.NotNil(t, e.Grid().At(p))
		assert.Equal(t, minigrid.Ball, e.Grid().At(p).Type())
	}

	step = standOn(t, e, v.orderPos[0])
	assert.Equal(t, 1.0, step.Reward)
	assert.Nil(t, agentCell(e))
	assert.Equal(t, 1, v.next)

	// A ball out of order resets the progress and re-lays the balls
	step = standOn(t, e, v.orderPos[2])
	assert.Equal(t, 0.0, step.Reward)
	assert.Equal(t, 0, v.next)
	assert.Equal(t, image.Pt(2, 2), e.AgentPos())
	assert.Len(t, e.Grid().Objects(), 16+4)

	// The first ball already paid out in this round
	step = standOn(t, e, v.orderPos[0])
	assert.Equal(t, 0.0, step.Reward)
	for i := 1; i < 4; i++ {
		step = standOn(t, e, v.orderPos[i])
		assert.Equal(t, 1.0, step.Reward)
	}

	// A full round restores every reward
	assert.Equal(t, 0, v.next)
	assert.Equal(t, []float64{1, 1, 1, 1}, v.rewards)
	assert.False(t, step.Last())
	for _, p := range v.poses {
		assert.NotNil(t, e.Grid().At(p))
	}
}

func TestOrderMemoryPenalty(t *testing.T) {
	v := mustVariant(NewOrderMemory(3, 0.05))
	e, _ := makeEnv(t, v, 2)

	step := turn(t, e, 1)
	assert.InDelta(t, -0.05, step.Reward, 1e-12)
	step = standOn(t, e, v.orderPos[0])
	assert.InDelta(t, 0.95, step.Reward, 1e-12)

	_, err := NewOrderMemory(5, 0)
	assert.Error(t, err)
}

func TestOrderMemoryLarge(t *testing.T) {
	v := mustVariant(NewOrderMemoryLarge(11, 4, 3, 0, 3, true, false))
	e, _ := makeEnv(t, v, 5)
	assert.Equal(t, 9, v.numAreas)
	assert.Equal(t, 4, v.agentArea)
	assert.Equal(t, 300, e.MaxSteps())

	check := func() {
		areas := map[int]bool{}
		for i, a := range v.ballAreas {
			assert.NotEqual(t, v.agentArea, a)
			assert.False(t, areas[a], "area %d used twice", a)
			areas[a] = true
			assert.Contains(t, v.areaCells(a), v.poses[i])
		}
		assert.Contains(t, v.areaCells(v.agentArea), e.AgentPos())
	}
	check()

	// Resampled positions stay in their areas
	wrong := v.orderPos[len(v.orderPos)-1]
	step := standOn(t, e, wrong)
	assert.Equal(t, 0.0, step.Reward)
	check()
	assert.Len(t, e.Grid().Objects(), 40+4)
}

func TestOrderMemoryLargeFixedStart(t *testing.T) {
	v := mustVariant(NewOrderMemoryLarge(8, 3, 2, 0, 7, false, true))
	e, _ := makeEnv(t, v, 5)
	assert.Equal(t, image.Pt(3, 6), e.AgentPos())
	assert.Equal(t, 7, e.ViewSize())

	poses := append([]image.Point(nil), v.poses...)
	standOn(t, e, v.orderPos[1])
	assert.Equal(t, image.Pt(3, 6), e.AgentPos())
	assert.Equal(t, poses, v.poses)

	_, err := NewOrderMemoryLarge(8, 3, 4, 0, 3, false, false)
	assert.Error(t, err)
	_, err = NewOrderMemoryLarge(8, 9, 2, 0, 3, false, false)
	assert.Error(t, err)
}

func TestMultiStages(t *testing.T) {
	v := mustVariant(NewMultiStages(7, 5, 4))
	e, step := makeEnv(t, v, 9)

	assert.Equal(t, 1, v.Stage())
	assert.Equal(t, image.Pt(3, 4), e.AgentPos())
	assert.Equal(t, minigrid.North, e.AgentDir())
	require.NotNil(t, e.FrontCell())
	assert.Equal(t, v.first, e.FrontCell().Color())
	assert.Equal(t, "memorize the color and select it at the last step",
		step.Mission)

	turn(t, e, 1)
	assert.Equal(t, 2, v.Stage())
	assert.Equal(t, 2, countBalls(e.Grid(), minigrid.Green))
	assert.Equal(t, 2, countBalls(e.Grid(), minigrid.Blue))

	step = standOn(t, e, balls(e, minigrid.Green)[0].Pos())
	assert.Equal(t, 0.01, step.Reward)
	step = standOn(t, e, balls(e, minigrid.Blue)[0].Pos())
	assert.Equal(t, -0.01, step.Reward)

	step = turn(t, e, 1)
	assert.Equal(t, 3, v.Stage())
	assert.Equal(t, image.Pt(3, 4), e.AgentPos())
	assert.False(t, step.Last())

	step, _, err := e.StepAction(minigrid.Forward)
	require.NoError(t, err)
	assert.True(t, step.Last())
	if v.first == v.last {
		assert.Equal(t, 1.0, step.Reward)
	} else {
		assert.Equal(t, -1.0, step.Reward)
	}
}

func TestRecallScore(t *testing.T) {
	same := recall{first: minigrid.Green, last: minigrid.Green, hit: 1,
		miss: -1}
	assert.Equal(t, 1.0, same.score(minigrid.Forward))
	assert.Equal(t, -1.0, same.score(minigrid.Left))

	diff := recall{first: minigrid.Green, last: minigrid.Blue, hit: 1}
	assert.Equal(t, 0.0, diff.score(minigrid.Forward))
	assert.Equal(t, 1.0, diff.score(minigrid.Done))
}

func TestThreeStages(t *testing.T) {
	v := mustVariant(NewThreeStages(7, 4, "easy"))
	e, _ := makeEnv(t, v, 3)
	assert.Equal(t, 3, e.ViewSize())

	step := turn(t, e, 1)
	assert.Equal(t, "explore empty space", step.Mission)
	assert.Empty(t, balls(e, minigrid.Green))
	assert.Empty(t, balls(e, minigrid.Blue))

	step = turn(t, e, 2)
	assert.Equal(t, "memorize the color and select it at the last step",
		step.Mission)
	assert.Equal(t, 0.0, step.Reward)

	step = turn(t, e, 1)
	assert.True(t, step.Last())
	if v.first == v.last {
		assert.Equal(t, 0.0, step.Reward)
	} else {
		assert.Equal(t, 1.0, step.Reward)
	}

	_, err := NewThreeStages(7, 4, "hard")
	assert.Error(t, err)
	_, err = NewThreeStages(8, 4, "easy")
	assert.Error(t, err)
}

func TestIMaze(t *testing.T) {
	v := mustVariant(NewIMaze(9, 15))
	e, _ := makeEnv(t, v, 4)

	assert.Equal(t, image.Pt(1, 5), e.AgentPos())
	assert.Equal(t, minigrid.North, e.AgentDir())
	require.NotNil(t, e.Grid().Get(1, 3))
	assert.Equal(t, v.first, e.Grid().Get(1, 3).Color())

	// The matching ball is next to the success cell
	var near []minigrid.Color
	for _, d := range []image.Point{{0, 1}, {0, -1}} {
		if o := e.Grid().At(v.success.Add(d)); o != nil &&
			o.Type() == minigrid.Ball {
			near = append(near, o.Color())
		}
	}
	assert.Equal(t, []minigrid.Color{v.first}, near)

	// Each hallway column pays once
	e.SetAgent(image.Pt(3, 4), minigrid.East)
	step, _, err := e.StepAction(minigrid.Forward)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4, 4), e.AgentPos())
	assert.Equal(t, IMazeHallway, step.Reward)
	step = turn(t, e, 1)
	assert.Equal(t, 0.0, step.Reward)

	step = standOn(t, e, v.success)
	assert.Equal(t, IMazeSuccess, step.Reward)
	assert.True(t, step.Terminated())

	_, err = e.Reset()
	require.NoError(t, err)
	step = standOn(t, e, v.failure)
	assert.Equal(t, IMazeFailure, step.Reward)
	assert.True(t, step.Terminated())

	_, err = NewIMaze(8, 10)
	assert.Error(t, err)
}

func TestVisualMatch(t *testing.T) {
	v := mustVariant(NewVisualMatch(7))
	e, step := makeEnv(t, v, 13)
	assert.Equal(t, 30, e.MaxSteps())
	assert.Equal(t, PhaseExplore, step.Info["phase"])
	require.NotNil(t, e.Grid().Get(3, 3))
	assert.Equal(t, v.Goal(), e.Grid().Get(3, 3).Color())

	step = turn(t, e, 5)
	assert.Equal(t, PhaseExplore, step.Info["phase"])
	step = turn(t, e, 1)
	assert.Equal(t, PhaseDistractor, v.Phase())
	assert.Equal(t, PhaseDistractor, step.Info["phase"])
	assert.Equal(t, 30, e.Grid().Width())
	assert.Equal(t, 30, countBalls(e.Grid(), minigrid.Yellow))

	fruit := balls(e, minigrid.Yellow)[0]
	step = walkOnto(t, e, fruit.Pos())
	assert.Equal(t, VisualMatchFruit, step.Reward)
	assert.False(t, step.Last())

	step = turn(t, e, 8)
	assert.Equal(t, 15, step.Number)
	assert.Equal(t, PhaseDistractor, step.Info["phase"])
	step = turn(t, e, 1)
	assert.Equal(t, PhaseReward, step.Info["phase"])
	assert.Equal(t, 7, e.Grid().Width())
	for _, c := range visualMatchColors {
		assert.Equal(t, 1, countBalls(e.Grid(), c))
	}

	step = walkOnto(t, e, balls(e, v.Goal())[0].Pos())
	assert.Equal(t, VisualMatchGoal, step.Reward)
	assert.True(t, step.Terminated())
}

func TestVisualMatchWrongBall(t *testing.T) {
	v := mustVariant(NewVisualMatch(7))
	e, _ := makeEnv(t, v, 2)
	turn(t, e, 16)
	require.Equal(t, PhaseReward, v.Phase())

	var wrong minigrid.Color
	for _, c := range visualMatchColors {
		if c != v.Goal() {
			wrong = c
		}
	}
	step := walkOnto(t, e, balls(e, wrong)[0].Pos())
	assert.Equal(t, 0.0, step.Reward)
	assert.True(t, step.Terminated())

	_, err := NewVisualMatch(5)
	assert.Error(t, err)
}
