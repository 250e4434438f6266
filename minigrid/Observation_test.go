package minigrid

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cellAt returns the encoding of view cell (x, y) of a vs x vs view
func cellAt(obs []float64, vs, x, y int) []float64 {
	k := (x*vs + y) * 3
	return obs[k : k+3]
}

func TestObserveFacingEast(t *testing.T) {
	e, step := newTestEnv(t, &testTask{setup: func(e *Env) {
		e.PutObj(NewBall(Green), 2, 1)
	}}, Config{ViewSize: 3})
	obs := step.Observation.RawVector().Data

	// The cell in front of the agent is right above it in the view
	assert.Equal(t, image.Pt(1, 1), e.ViewCoords(2, 1))
	assert.Equal(t, []float64{float64(Ball), float64(Green), 0},
		cellAt(obs, 3, 1, 1))

	// The agent cell shows what it carries, here nothing
	assert.Equal(t, []float64{float64(Empty), 0, 0}, cellAt(obs, 3, 1, 2))

	// North is to the left of an agent facing east
	assert.Equal(t, image.Pt(0, 2), e.ViewCoords(1, 0))
	assert.Equal(t, float64(Wall), cellAt(obs, 3, 0, 2)[0])
}

func TestObserveAllDirections(t *testing.T) {
	// An agent in the middle of an open room facing a ball in each
	// direction always sees the ball right in front of it
	for _, d := range []Direction{East, South, West, North} {
		d := d
		t.Run(d.String(), func(t *testing.T) {
			e, _ := newTestEnv(t, &testTask{setup: func(e *Env) {
				e.SetAgent(image.Pt(3, 3), d)
				front := e.FrontPos()
				e.PutObj(NewKey(Yellow), front.X, front.Y)
			}}, Config{Width: 7, Height: 7, ViewSize: 5})

			obs := e.Observe().RawVector().Data
			assert.Equal(t, []float64{float64(Key), float64(Yellow), 0},
				cellAt(obs, 5, 2, 3))

			front := e.FrontPos()
			v, ok := e.RelativeCoords(front.X, front.Y)
			require.True(t, ok)
			assert.Equal(t, image.Pt(2, 3), v)

			// The cell behind the agent is out of view
			back := e.AgentPos().Sub(d.Vec())
			assert.False(t, e.InView(back.X, back.Y))
		})
	}
}

func TestObserveCarrying(t *testing.T) {
	e, _ := newTestEnv(t, &testTask{setup: func(e *Env) {
		e.PutObj(NewBox(Purple), 2, 1)
	}}, Config{ViewSize: 3})

	step, _, err := e.StepAction(Pickup)
	require.NoError(t, err)
	obs := step.Observation.RawVector().Data
	assert.Equal(t, []float64{float64(Box), float64(Purple), 0},
		cellAt(obs, 3, 1, 2))
	assert.Equal(t, []float64{float64(Empty), 0, 0}, cellAt(obs, 3, 1, 1))
}

func TestVisibility(t *testing.T) {
	setup := func(e *Env) {
		e.SetAgent(image.Pt(1, 3), East)
		e.Grid().VertWall(3, 0, 0)
		e.PutObj(NewBall(Red), 4, 3)
	}

	t.Run("Occluded", func(t *testing.T) {
		e, step := newTestEnv(t, &testTask{setup: setup},
			Config{Width: 7, Height: 7, ViewSize: 5})

		v, ok := e.RelativeCoords(4, 3)
		require.True(t, ok)
		assert.True(t, e.InView(4, 3))
		assert.False(t, e.AgentSees(4, 3))
		assert.True(t, e.AgentSees(2, 3))

		obs := step.Observation.RawVector().Data
		assert.Equal(t, []float64{0, 0, 0}, cellAt(obs, 5, v.X, v.Y))
	})

	t.Run("SeeThroughWalls", func(t *testing.T) {
		e, step := newTestEnv(t, &testTask{setup: setup},
			Config{Width: 7, Height: 7, ViewSize: 5, SeeThroughWalls: true})

		v, _ := e.RelativeCoords(4, 3)
		obs := step.Observation.RawVector().Data
		assert.Equal(t, []float64{float64(Ball), float64(Red), 0},
			cellAt(obs, 5, v.X, v.Y))
	})
}

func TestObservationWithinSpec(t *testing.T) {
	e, step := newTestEnv(t, &testTask{setup: func(e *Env) {
		e.PutObj(NewFruit(Box, Orange, 1, false), 3, 3)
		e.PutObj(NewGoal(Magenta), 2, 3)
	}}, Config{Width: 6, Height: 6})

	spec := e.ObservationSpec()
	assert.True(t, spec.Contains(step.Observation))
	for _, a := range []Action{Right, Forward, Forward, Left, Forward} {
		step, _, _ = e.StepAction(a)
		assert.True(t, spec.Contains(step.Observation))
	}
}
