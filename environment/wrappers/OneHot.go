package wrappers

import (
	"fmt"

	env "github.com/samuelfneumann/gominigrid/environment"
	"github.com/samuelfneumann/gominigrid/minigrid"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"gonum.org/v1/gonum/mat"
)

// CellFeatures is the number of one-hot features of a single encoded
// cell
const CellFeatures = minigrid.NumObjectTypes + minigrid.NumColors +
	minigrid.NumDirections

// OneHot converts the (type, colour, state) cell encodings of an
// environment's observations into one-hot vectors. Each cell is
// converted into CellFeatures features: the object type, then the
// colour, then the state.
type OneHot struct {
	env.Environment

	cells           int
	currentTimeStep ts.TimeStep
}

// NewOneHot returns a new OneHot environment wrapper. The wrapped
// environment must produce observations of 3 values per cell.
func NewOneHot(e env.Environment) (*OneHot, error) {
	n := e.ObservationSpec().Shape.Len()
	if n%3 != 0 {
		return nil, fmt.Errorf("newOneHot: observation length %v is not "+
			"a multiple of 3", n)
	}

	o := &OneHot{Environment: e, cells: n / 3}
	step := e.CurrentTimeStep()
	if step.Observation != nil {
		obs, err := o.getObs(step.Observation)
		if err != nil {
			return nil, fmt.Errorf("newOneHot: %v", err)
		}
		step.Observation = obs
	}
	o.currentTimeStep = step

	return o, nil
}

// Reset resets the environment to some starting state
func (o *OneHot) Reset() (ts.TimeStep, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	newObs, err := o.getObs(step.Observation)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not calculate "+
			"observation: %v", err)
	}

	step.Observation = newObs
	o.currentTimeStep = step
	return step, nil
}

// Step takes one environmental step given some action
func (o *OneHot) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	step, _, err := o.Environment.Step(action)
	if err != nil {
		return ts.TimeStep{}, true, err
	}

	newObs, err := o.getObs(step.Observation)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: could not calculate "+
			"observation: %v", err)
	}

	step.Observation = newObs
	o.currentTimeStep = step
	return step, step.Last(), nil
}

// CurrentTimeStep returns the current time step in the environment
func (o *OneHot) CurrentTimeStep() ts.TimeStep {
	return o.currentTimeStep
}

// getObs returns the one-hot version of a cell encoding
func (o *OneHot) getObs(obs *mat.VecDense) (*mat.VecDense, error) {
	if obs.Len() != o.cells*3 {
		return nil, fmt.Errorf("getObs: expected %v values but got %v",
			o.cells*3, obs.Len())
	}

	newObs := mat.NewVecDense(o.cells*CellFeatures, nil)
	for i := 0; i < o.cells; i++ {
		t := int(obs.AtVec(i * 3))
		c := int(obs.AtVec(i*3 + 1))
		s := int(obs.AtVec(i*3 + 2))
		if t < 0 || t >= minigrid.NumObjectTypes ||
			c < 0 || c >= minigrid.NumColors ||
			s < 0 || s >= minigrid.NumDirections {
			return nil, fmt.Errorf("getObs: cell %v (%v, %v, %v) out of "+
				"range", i, t, c, s)
		}

		offset := i * CellFeatures
		newObs.SetVec(offset+t, 1)
		newObs.SetVec(offset+minigrid.NumObjectTypes+c, 1)
		newObs.SetVec(offset+minigrid.NumObjectTypes+minigrid.NumColors+s, 1)
	}

	return newObs, nil
}

// ObservationSpec returns the observation specification of the
// environment
func (o *OneHot) ObservationSpec() env.Spec {
	n := o.cells * CellFeatures
	shape := mat.NewVecDense(n, nil)
	low := mat.NewVecDense(n, nil)
	high := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		high.SetVec(i, 1)
	}

	return env.NewSpec(shape, env.Observation, low, high, env.Discrete)
}

// String returns the string representation of the environment
func (o *OneHot) String() string {
	return fmt.Sprintf("OneHot: %v", o.Environment)
}
