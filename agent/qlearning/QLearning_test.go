package qlearning

import (
	"testing"

	"github.com/samuelfneumann/gominigrid/environment/envconfig"
	"github.com/samuelfneumann/gominigrid/environment/wrappers"
	"github.com/samuelfneumann/gominigrid/minigrid"
	_ "github.com/samuelfneumann/gominigrid/minigrid/envs"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func vec(v ...float64) *mat.VecDense { return mat.NewVecDense(len(v), v) }

func TestQLearnerUpdates(t *testing.T) {
	w := mat.NewDense(2, 2, nil)
	q, err := NewQLearner(w, 0.5)
	require.NoError(t, err)

	// Nothing to learn from before the first transition
	require.NoError(t, q.ObserveFirst(ts.New(ts.First, 0, 0.9, vec(1, 0), 0)))
	require.NoError(t, q.Step())
	assert.Equal(t, 0.0, mat.Sum(w))

	require.NoError(t, q.Observe(vec(1), ts.New(ts.Mid, 1, 0.9, vec(0, 1), 1)))
	require.NoError(t, q.Step())
	assert.Equal(t, []float64{0, 0, 0.5, 0}, w.RawMatrix().Data)

	require.NoError(t, q.Observe(vec(0), ts.New(ts.Mid, 0, 0.9, vec(1, 0), 2)))
	require.NoError(t, q.Step())
	assert.InDeltaSlice(t, []float64{0, 0.225, 0.5, 0}, w.RawMatrix().Data,
		1e-12)

	// Terminal transitions do not bootstrap
	last := ts.New(ts.Last, 2, 0.9, vec(1, 0), 3)
	last.SetEnd(ts.TerminalStateReached)
	require.NoError(t, q.Observe(vec(1), last))
	assert.InDelta(t, 1.5, q.TdError(), 1e-12)
	require.NoError(t, q.Step())
	assert.InDeltaSlice(t, []float64{0, 0.225, 1.25, 0}, w.RawMatrix().Data,
		1e-12)

	q.EndEpisode()
	require.NoError(t, q.Step())
	assert.InDelta(t, 1.25, w.At(1, 0), 1e-12)
}

func TestQLearnerErrors(t *testing.T) {
	_, err := NewQLearner(mat.NewDense(2, 2, nil), 0)
	assert.Error(t, err)

	q, err := NewQLearner(mat.NewDense(2, 2, nil), 0.1)
	require.NoError(t, err)
	assert.Error(t, q.Observe(vec(0, 1), ts.TimeStep{}))
	assert.Error(t, q.Observe(vec(2), ts.TimeStep{}))
}

func TestQLearning(t *testing.T) {
	e, _, err := envconfig.Create("MiniGrid-Delayed-D0-7x7-v0", 4, 0.99)
	require.NoError(t, err)
	env, err := wrappers.NewOneHot(e)
	require.NoError(t, err)

	c := Config{Epsilon: 0.1, LearningRate: 0.01}
	a, err := c.CreateAgent(env, 3)
	require.NoError(t, err)
	assert.True(t, c.ValidAgent(a))
	q := a.(*QLearning)

	rows, cols := q.Weights()["weights"].Dims()
	assert.Equal(t, minigrid.NumActions, rows)
	assert.Equal(t, env.ObservationSpec().Shape.Len(), cols)

	step, err := env.Reset()
	require.NoError(t, err)
	require.NoError(t, q.ObserveFirst(step))
	for i := 0; i < 20 && !step.Last(); i++ {
		action := q.SelectAction(step)
		assert.True(t, env.ActionSpec().Contains(action))

		step, _, err = env.Step(action)
		require.NoError(t, err)
		require.NoError(t, q.Observe(action, step))
		require.NoError(t, q.Step())
	}

	// The target policy shares the learned weights and is greedy
	target := q.TargetPolicy()
	q.Eval()
	assert.True(t, q.IsEval())
	for i := 0; i < 5; i++ {
		greedy := target.SelectAction(step).AtVec(0)
		values := q.ActionValues(step)
		assert.Equal(t, mat.Max(values), values.AtVec(int(greedy)))
	}
	q.Train()
	assert.False(t, q.IsEval())
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Epsilon: -0.1, LearningRate: 0.1}.Validate())
	assert.Error(t, Config{Epsilon: 1.1, LearningRate: 0.1}.Validate())
	assert.Error(t, Config{Epsilon: 0.1}.Validate())
	assert.NoError(t, Config{Epsilon: 0, LearningRate: 1}.Validate())
}
