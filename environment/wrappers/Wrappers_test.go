package wrappers

import (
	"math"
	"testing"

	env "github.com/samuelfneumann/gominigrid/environment"
	"github.com/samuelfneumann/gominigrid/environment/envconfig"
	"github.com/samuelfneumann/gominigrid/minigrid"
	_ "github.com/samuelfneumann/gominigrid/minigrid/envs"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func create(t *testing.T, id string) *minigrid.Env {
	t.Helper()
	e, _, err := envconfig.Create(id, 7, 0.99)
	require.NoError(t, err)
	return e
}

// cell returns the encoding of cell (x, y) in an observation of a grid
// with the given height
func cell(obs *mat.VecDense, x, y, height int) [3]float64 {
	k := (x*height + y) * 3
	return [3]float64{obs.AtVec(k), obs.AtVec(k + 1), obs.AtVec(k + 2)}
}

func TestFullyObs(t *testing.T) {
	e := create(t, "MiniGrid-Delayed-D5-7x7-v0")
	f := NewFullyObs(e)

	check := func(step ts.TimeStep) {
		obs := step.Observation
		require.Equal(t, 7*7*3, obs.Len())
		assert.True(t, f.ObservationSpec().Contains(obs))

		p := f.AgentPos()
		assert.Equal(t, [3]float64{float64(minigrid.AgentCell),
			float64(f.AgentColor()), float64(f.AgentDir())},
			cell(obs, p.X, p.Y, 7))
		assert.Equal(t, float64(minigrid.Wall), cell(obs, 0, 0, 7)[0])
		assert.Equal(t, float64(minigrid.Wall), cell(obs, 6, 6, 7)[0])
	}
	check(f.CurrentTimeStep())

	step, err := f.Reset()
	require.NoError(t, err)
	check(step)

	step, last, err := f.StepAction(minigrid.Left)
	require.NoError(t, err)
	assert.False(t, last)
	check(step)
	assert.Equal(t, step.Observation, f.CurrentTimeStep().Observation)
	assert.Contains(t, f.String(), "FullyObs")
}

func TestFullyObsLargerGrid(t *testing.T) {
	e := create(t, "MiniGrid-VisualMatch-v0")
	f := NewFullyObs(e)
	w, h := f.Width(), f.Height()

	var step ts.TimeStep
	for i := 0; i < 6; i++ {
		var err error
		step, _, err = f.StepAction(minigrid.Left)
		require.NoError(t, err)
	}
	require.Greater(t, f.Grid().Width(), w)

	// The window follows the agent inside the larger grid
	obs := step.Observation
	require.Equal(t, w*h*3, obs.Len())
	top := f.window()
	p := f.AgentPos().Sub(top)
	assert.True(t, p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h)
	assert.Equal(t, float64(minigrid.AgentCell), cell(obs, p.X, p.Y, h)[0])
}

func TestOneHot(t *testing.T) {
	e := create(t, "MiniGrid-Delayed-D5-7x7-v0")
	o, err := NewOneHot(e)
	require.NoError(t, err)

	cells := e.ViewSize() * e.ViewSize()
	require.Equal(t, cells*CellFeatures, o.ObservationSpec().Shape.Len())

	check := func(step ts.TimeStep, base *mat.VecDense) {
		obs := step.Observation
		require.Equal(t, cells*CellFeatures, obs.Len())
		assert.True(t, o.ObservationSpec().Contains(obs))
		assert.Equal(t, float64(cells*3), mat.Sum(obs))

		for i := 0; i < cells; i++ {
			off := i * CellFeatures
			typ := int(base.AtVec(i * 3))
			col := int(base.AtVec(i*3 + 1))
			state := int(base.AtVec(i*3 + 2))
			assert.Equal(t, 1.0, obs.AtVec(off+typ))
			assert.Equal(t, 1.0, obs.AtVec(off+minigrid.NumObjectTypes+col))
			assert.Equal(t, 1.0, obs.AtVec(off+minigrid.NumObjectTypes+
				minigrid.NumColors+state))
		}
	}
	check(o.CurrentTimeStep(), e.CurrentTimeStep().Observation)

	step, _, err := o.Step(mat.NewVecDense(1, []float64{
		float64(minigrid.Forward)}))
	require.NoError(t, err)
	check(step, e.CurrentTimeStep().Observation)

	step, err = o.Reset()
	require.NoError(t, err)
	assert.True(t, step.First())
	check(step, e.CurrentTimeStep().Observation)
}

func TestOneHotFullyObs(t *testing.T) {
	e := create(t, "MiniGrid-IMazeS9-v0")
	o, err := NewOneHot(NewFullyObs(e))
	require.NoError(t, err)

	obs := o.CurrentTimeStep().Observation
	require.Equal(t, e.Width()*e.Height()*CellFeatures, obs.Len())
	assert.Equal(t, float64(e.Width()*e.Height()*3), mat.Sum(obs))
}

// badObs is an environment whose observations are not cell encodings
type badObs struct {
	env.Environment
	n int
}

func (b badObs) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(b.n, nil)
	return env.NewSpec(shape, env.Observation, shape, shape, env.Discrete)
}

func TestOneHotErrors(t *testing.T) {
	_, err := NewOneHot(badObs{n: 4})
	assert.Error(t, err)

	o := &OneHot{cells: 1}
	_, err = o.getObs(mat.NewVecDense(3, []float64{
		float64(minigrid.NumObjectTypes), 0, 0}))
	assert.Error(t, err)
	_, err = o.getObs(mat.NewVecDense(3, []float64{0, -1, 0}))
	assert.Error(t, err)
	_, err = o.getObs(mat.NewVecDense(6, nil))
	assert.Error(t, err)
}

func TestXY(t *testing.T) {
	e := create(t, "MiniGrid-Delayed-D5-7x7-v0")
	x := NewXY(e)

	pose := func() []float64 {
		p := x.AgentPos()
		return []float64{float64(p.X), float64(p.Y), float64(x.AgentDir())}
	}
	assert.Equal(t, pose(), x.CurrentTimeStep().Observation.RawVector().Data)

	step, _, err := x.StepAction(minigrid.Right)
	require.NoError(t, err)
	assert.Equal(t, pose(), step.Observation.RawVector().Data)
	assert.True(t, x.ObservationSpec().Contains(step.Observation))

	step, err = x.Reset()
	require.NoError(t, err)
	assert.Equal(t, pose(), step.Observation.RawVector().Data)
	assert.Equal(t, 6.0, x.ObservationSpec().UpperBound.AtVec(0))
}

// scripted is an environment paying a fixed sequence of rewards
type scripted struct {
	rewards []float64
	n       int
	step    ts.TimeStep
}

func (s *scripted) Reset() (ts.TimeStep, error) {
	s.n = 0
	s.step = ts.New(ts.First, 0, 0.9, mat.NewVecDense(1, nil), 0)
	return s.step, nil
}

func (s *scripted) Step(*mat.VecDense) (ts.TimeStep, bool, error) {
	t := ts.Mid
	if s.n == len(s.rewards)-1 {
		t = ts.Last
	}
	s.step = ts.New(t, s.rewards[s.n], 0.9, mat.NewVecDense(1, nil), s.n+1)
	s.n++
	return s.step, s.step.Last(), nil
}

func (s *scripted) CurrentTimeStep() ts.TimeStep { return s.step }

func (s *scripted) spec(t env.SpecType, low, high float64) env.Spec {
	return env.NewSpec(mat.NewVecDense(1, nil), t,
		mat.NewVecDense(1, []float64{low}),
		mat.NewVecDense(1, []float64{high}), env.Continuous)
}

func (s *scripted) RewardSpec() env.Spec      { return s.spec(env.Reward, 0, 2) }
func (s *scripted) DiscountSpec() env.Spec    { return s.spec(env.Discount, 0.9, 0.9) }
func (s *scripted) ObservationSpec() env.Spec { return s.spec(env.Observation, 0, 0) }
func (s *scripted) ActionSpec() env.Spec      { return s.spec(env.Action, 0, 0) }

func TestAverageReward(t *testing.T) {
	s := &scripted{rewards: []float64{1, 0, 2}}
	_, err := s.Reset()
	require.NoError(t, err)

	a, err := NewAverageReward(s, 0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, a.CurrentTimeStep().Discount)

	action := mat.NewVecDense(1, nil)
	for i, want := range []float64{0.5, -0.25, 0.875} {
		step, last, err := a.Step(action)
		require.NoError(t, err)
		assert.InDelta(t, want, step.Reward, 1e-12)
		assert.Equal(t, 1.0, step.Discount)
		assert.Equal(t, i == 2, last)
	}
	assert.InDelta(t, 1.125, a.AvgReward(), 1e-12)

	// The estimate carries over to the next episode
	step, err := a.Reset()
	require.NoError(t, err)
	assert.Equal(t, 1.0, step.Discount)
	assert.InDelta(t, 1.125, a.AvgReward(), 1e-12)

	r := a.RewardSpec()
	assert.True(t, math.IsInf(r.LowerBound.AtVec(0), -1))
	assert.True(t, math.IsInf(r.UpperBound.AtVec(0), 1))
	d := a.DiscountSpec()
	assert.Equal(t, 1.0, d.LowerBound.AtVec(0))
	assert.Equal(t, 1.0, d.UpperBound.AtVec(0))
}

func TestAverageRewardErrors(t *testing.T) {
	for _, lr := range []float64{0, -0.1, 1.5} {
		_, err := NewAverageReward(&scripted{}, 0, lr)
		assert.Error(t, err, "learning rate %v", lr)
	}
}
