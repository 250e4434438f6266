// Package wrappers provides wrappers for environments
package wrappers

import (
	"fmt"
	"image"

	env "github.com/samuelfneumann/gominigrid/environment"
	"github.com/samuelfneumann/gominigrid/minigrid"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"github.com/samuelfneumann/gominigrid/utils/intutils"
	"gonum.org/v1/gonum/mat"
)

// FullyObs replaces the egocentric view of a minigrid.Env with the
// encoding of the whole grid. The cell of the agent is encoded as
// (agent, agent colour, agent direction).
//
// Observations always cover the configured width and height of the
// wrapped Env. If a task swaps in a larger grid, the observation is the
// window of configured size that holds the agent.
type FullyObs struct {
	*minigrid.Env

	currentTimeStep ts.TimeStep
}

// NewFullyObs returns a new FullyObs environment wrapper
func NewFullyObs(e *minigrid.Env) *FullyObs {
	f := &FullyObs{Env: e}
	step := e.CurrentTimeStep()
	step.Observation = f.observe()
	f.currentTimeStep = step
	return f
}

// Reset resets the environment to some starting state
func (f *FullyObs) Reset() (ts.TimeStep, error) {
	step, err := f.Env.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	step.Observation = f.observe()
	f.currentTimeStep = step
	return step, nil
}

// Step takes one environmental step given some action
func (f *FullyObs) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	step, _, err := f.Env.Step(action)
	if err != nil {
		return ts.TimeStep{}, true, err
	}

	step.Observation = f.observe()
	f.currentTimeStep = step
	return step, step.Last(), nil
}

// StepAction takes one environmental step with action a
func (f *FullyObs) StepAction(a minigrid.Action) (ts.TimeStep, bool, error) {
	return f.Step(mat.NewVecDense(1, []float64{float64(a)}))
}

// CurrentTimeStep returns the current time step in the environment
func (f *FullyObs) CurrentTimeStep() ts.TimeStep {
	return f.currentTimeStep
}

// window returns the top left corner of the observed part of the grid
func (f *FullyObs) window() image.Point {
	w, h := f.Width(), f.Height()
	g, a := f.Grid(), f.AgentPos()

	x := intutils.Max(0, intutils.Min(a.X-w/2, g.Width()-w))
	y := intutils.Max(0, intutils.Min(a.Y-h/2, g.Height()-h))
	return image.Pt(x, y)
}

// observe encodes the whole grid
func (f *FullyObs) observe() *mat.VecDense {
	w, h := f.Width(), f.Height()
	top := f.window()

	g := f.Grid().Slice(top.X, top.Y, w, h)
	obs := g.Encode(minigrid.NewMask(w, h, true))

	a := f.AgentPos().Sub(top)
	k := (a.X*h + a.Y) * 3
	obs[k] = float64(minigrid.AgentCell)
	obs[k+1] = float64(f.AgentColor())
	obs[k+2] = float64(f.AgentDir())

	return mat.NewVecDense(len(obs), obs)
}

// ObservationSpec returns the observation specification of the
// environment
func (f *FullyObs) ObservationSpec() env.Spec {
	spec := minigrid.EncodingSpec(f.Width() * f.Height())
	return spec
}

// String returns the string representation of the environment
func (f *FullyObs) String() string {
	return fmt.Sprintf("FullyObs: %v", f.Env)
}
