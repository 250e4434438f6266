package random

import (
	"testing"

	"github.com/samuelfneumann/gominigrid/environment/envconfig"
	"github.com/samuelfneumann/gominigrid/minigrid"
	_ "github.com/samuelfneumann/gominigrid/minigrid/envs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniform(t *testing.T) {
	e, step, err := envconfig.Create("MiniGrid-IMazeS9-v0", 1, 0.99)
	require.NoError(t, err)

	a, err := Config{}.CreateAgent(e, 11)
	require.NoError(t, err)
	assert.True(t, Config{}.ValidAgent(a))
	require.NoError(t, a.ObserveFirst(step))

	counts := make([]int, minigrid.NumActions)
	for i := 0; i < 1000*minigrid.NumActions; i++ {
		action := a.SelectAction(step)
		require.True(t, e.ActionSpec().Contains(action))
		counts[int(action.AtVec(0))]++
	}
	for i, c := range counts {
		assert.InDelta(t, 1000, c, 150, "action %v", minigrid.Action(i))
	}
	assert.NoError(t, a.Step())
}

func TestUniformDeterministic(t *testing.T) {
	e, step, err := envconfig.Create("MiniGrid-IMazeS9-v0", 1, 0.99)
	require.NoError(t, err)

	a1, err := New(e, 5)
	require.NoError(t, err)
	a2, err := New(e, 5)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a1.SelectAction(step), a2.SelectAction(step))
	}

	a1.Eval()
	assert.True(t, a1.IsEval())
	a1.Train()
	assert.False(t, a1.IsEval())
}
