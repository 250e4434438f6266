package qlearning

import (
	"fmt"

	"github.com/charmbracelet/log"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"gonum.org/v1/gonum/mat"
)

// QLearner implements the update functionality for the Q-Learning
// algorithm.
type QLearner struct {
	weights      *mat.Dense
	step         ts.TimeStep
	action       int
	nextStep     ts.TimeStep
	learningRate float64
}

// NewQLearner creates a new QLearner struct
//
// weights are the weights of the policy to learn
func NewQLearner(weights *mat.Dense, learningRate float64) (*QLearner,
	error) {
	if learningRate <= 0 {
		return nil, fmt.Errorf("newQLearner: learning rate must be "+
			"positive but got %v", learningRate)
	}

	return &QLearner{weights: weights, learningRate: learningRate}, nil
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearner) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		log.Warn("observeFirst should only be called on the first "+
			"timestep", "step", t.Number)
	}
	q.step = ts.TimeStep{}
	q.nextStep = t
	return nil
}

// Observe observes and records any timestep other than the first timestep
func (q *QLearner) Observe(action mat.Vector, nextStep ts.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: value-based methods cannot have "+
			"multi-dimensional actions (action dim = %d)", action.Len())
	}
	numActions, _ := q.weights.Dims()
	a := int(action.AtVec(0))
	if a < 0 || a >= numActions {
		return fmt.Errorf("observe: action %v out of range [0, %v)", a,
			numActions)
	}

	q.step = q.nextStep
	q.action = a
	q.nextStep = nextStep
	return nil
}

// TdError returns the TD error of the last observed transition
func (q *QLearner) TdError() float64 {
	// Find the maximum action value in the next state
	maxVal := 0.0
	if !q.nextStep.Terminated() {
		numActions, _ := q.weights.Dims()
		actionValues := mat.NewVecDense(numActions, nil)
		actionValues.MulVec(q.weights, q.nextStep.Observation)
		maxVal = mat.Max(actionValues)
	}

	// Create the update target
	target := q.nextStep.Reward + q.nextStep.Discount*maxVal

	// Find the current estimate of the taken action
	currentEstimate := mat.Dot(q.weights.RowView(q.action),
		q.step.Observation)

	return target - currentEstimate
}

// Step updates the weights of the Agent's Learner and Policy. Step does
// nothing until a transition has been observed.
func (q *QLearner) Step() error {
	if q.step.Observation == nil || q.nextStep.Observation == nil {
		return nil
	}

	// Construct the scaling factor of the gradient
	scale := q.learningRate * q.TdError()

	// Perform gradient descent: ∇weights = scale * state
	weights := q.weights.RowView(q.action)
	newWeights := mat.NewVecDense(weights.Len(), nil)
	newWeights.AddScaledVec(weights, scale, q.step.Observation)
	q.weights.SetRow(q.action, newWeights.RawVector().Data)

	return nil
}

// EndEpisode performs cleanup at the end of an episode
func (q *QLearner) EndEpisode() {
	q.step = ts.TimeStep{}
	q.nextStep = ts.TimeStep{}
}

// Weights gets and returns the weights of the learner
func (q *QLearner) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights["weights"] = q.weights

	return weights
}
