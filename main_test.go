package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/samuelfneumann/gominigrid/environment/envconfig"
	"github.com/samuelfneumann/gominigrid/experiment/tracker"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string,
	error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return ansi.Strip(buf.String()), err
}

func TestList(t *testing.T) {
	out, err := execute(t, newListCmd())
	require.NoError(t, err)
	assert.Equal(t, envconfig.List(),
		strings.Split(strings.TrimSpace(out), "\n"))

	out, err = execute(t, newListCmd(), "--filter", "IMaze")
	require.NoError(t, err)
	for _, id := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.Contains(t, id, "IMaze")
	}

	_, err = execute(t, newListCmd(), "-f", "Missing")
	assert.Error(t, err)
}

func TestShow(t *testing.T) {
	png := filepath.Join(t.TempDir(), "env.png")
	out, err := execute(t, newShowCmd(), "MiniGrid-IMazeS9-v0", "--png", png,
		"--tile", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "#########")
	assert.FileExists(t, png)

	_, err = execute(t, newShowCmd(), "MiniGrid-Missing-v0")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, newRunCmd(), "--env", "MiniGrid-Delayed-D5-7x7-v0",
		"-n", "2", "--seed", "4", "--out", dir, "--frames",
		filepath.Join(dir, "frames"), "--frame-every", "10", "--tile", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "2 episodes")
	assert.Contains(t, out, "return")

	files, err := filepath.Glob(filepath.Join(dir, "*-returns.bin"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := tracker.LoadData(files[0])
	require.NoError(t, err)
	assert.Len(t, data, 2)

	frames, err := filepath.Glob(filepath.Join(dir, "frames", "*.png"))
	require.NoError(t, err)
	assert.NotEmpty(t, frames)
}

func TestRunLearningAgent(t *testing.T) {
	out, err := execute(t, newRunCmd(), "--env", "MiniGrid-IMazeS9-v0",
		"--agent", "qlearning", "--obs", "onehot", "--steps", "60",
		"--episodes", "0", "--avg-reward-rate", "0.1", "--render")
	require.NoError(t, err)
	assert.Contains(t, out, "60 steps")
	assert.Contains(t, out, "reward:")
}

func TestRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_episodes: 1
env:
  environment: MiniGrid-TargetedObject-9x9-v0
  seed: 2
  discount: 0.9
agent:
  type: Random
`), 0o644))

	// Flags override the file
	out, err := execute(t, newRunCmd(), "--config", path, "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "MiniGrid-TargetedObject-9x9-v0 (seed: 2, "+
		"discount: 0.9): 2 episodes")
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, newRunCmd(), "--env", "MiniGrid-Missing-v0")
	assert.Error(t, err)
	_, err = execute(t, newRunCmd(), "--agent", "dqn")
	assert.Error(t, err)
	_, err = execute(t, newRunCmd(), "--obs", "pixels")
	assert.Error(t, err)
	_, err = execute(t, newRunCmd(), "--episodes", "0")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "return     mean 2.000  std 1.000  min 1.000  max 3.000",
		summarize("return", []float64{1, 2, 3}))
	assert.Contains(t, summarize("length", nil), "no finished episodes")
	assert.Contains(t, summarize("length", []float64{4}), "std 0.000")
	assert.Contains(t, summarize("return", []float64{3, -1, 2}),
		"min -1.000  max 3.000")
}
