package wrappers

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gominigrid/environment"
	"github.com/samuelfneumann/gominigrid/timestep"
	"gonum.org/v1/gonum/mat"
)

// AverageReward wraps an environment and alters rewards so that the
// differential reward is returned for each action:
//
//	R_{t} <- R_{t} - avgReward_{t}
//
// The average reward of a policy is estimated as an exponential moving
// average of the environmental rewards:
//
//	avgReward <- avgReward + learningRate * (R_{t} - avgReward)
//
// The estimate is carried across episodes. The average reward setting
// does not use discounting, so every TimeStep has a discount of 1.0.
type AverageReward struct {
	environment.Environment
	avgReward    float64
	learningRate float64

	currentTimeStep timestep.TimeStep
}

// NewAverageReward creates and returns a new AverageReward Environment
// wrapper. The init parameter is the initial value for the average
// reward, usually set to 0.
func NewAverageReward(env environment.Environment, init,
	learningRate float64) (*AverageReward, error) {
	if learningRate <= 0 || learningRate > 1 {
		return nil, fmt.Errorf("newAverageReward: learning rate must be "+
			"in (0, 1] but got %v", learningRate)
	}

	step := env.CurrentTimeStep()
	step.Discount = 1.0

	return &AverageReward{
		Environment:     env,
		avgReward:       init,
		learningRate:    learningRate,
		currentTimeStep: step,
	}, nil
}

// Reset resets the environment and returns a starting state. The
// average reward estimate is kept.
func (a *AverageReward) Reset() (timestep.TimeStep, error) {
	step, err := a.Environment.Reset()
	if err != nil {
		return timestep.TimeStep{}, err
	}
	step.Discount = 1.0

	a.currentTimeStep = step
	return step, nil
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended.
func (a *AverageReward) Step(action *mat.VecDense) (timestep.TimeStep,
	bool, error) {
	// step will be the TimeStep with S_{t+1} and R_{t} for action A_{t}
	step, _, err := a.Environment.Step(action)
	if err != nil {
		return timestep.TimeStep{}, true, err
	}

	// Update avgReward_{t-1} -> avgReward_{t}
	a.avgReward += a.learningRate * (step.Reward - a.avgReward)

	step.Reward -= a.avgReward
	step.Discount = 1.0

	a.currentTimeStep = step
	return step, step.Last(), nil
}

// CurrentTimeStep returns the current time step in the environment
func (a *AverageReward) CurrentTimeStep() timestep.TimeStep {
	return a.currentTimeStep
}

// AvgReward returns the current average reward estimate
func (a *AverageReward) AvgReward() float64 {
	return a.avgReward
}

// RewardSpec returns the reward specification for the environment
func (a *AverageReward) RewardSpec() environment.Spec {
	rewardSpec := a.Environment.RewardSpec()

	// Bounds depend on the policy which is constantly changing, so the
	// bounds cannot be calculated
	n := rewardSpec.Shape.Len()
	low := mat.NewVecDense(n, nil)
	high := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		low.SetVec(i, math.Inf(-1))
		high.SetVec(i, math.Inf(1))
	}
	rewardSpec.LowerBound = low
	rewardSpec.UpperBound = high
	rewardSpec.Cardinality = environment.Continuous

	return rewardSpec
}

// DiscountSpec returns the discount specification for the environment
// Average reward setting does not use discounting, so the discount
// value is always set to 1.0.
func (a *AverageReward) DiscountSpec() environment.Spec {
	discountSpec := a.Environment.DiscountSpec()

	bounds := make([]float64, discountSpec.Shape.Len())
	for i := range bounds {
		bounds[i] = 1.0
	}

	vecBounds := mat.NewVecDense(len(bounds), bounds)
	discountSpec.LowerBound = vecBounds
	discountSpec.UpperBound = vecBounds

	return discountSpec
}

// String returns a string representation of the AverageReward
// environment
func (a *AverageReward) String() string {
	return fmt.Sprintf("Average Reward: %v", a.Environment)
}
