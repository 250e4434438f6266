// Package policy implements policies using linear function
// approximation
package policy

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/environment"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"github.com/samuelfneumann/gominigrid/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Keys for weights map: map[string]*mat.Dense
	WeightsKey string = "weights"
)

// EGreedy implements an ε-greedy policy using linear function
// approximation. Ties between greedy actions are broken uniformly at
// random. In evaluation mode the policy is greedy.
type EGreedy struct {
	weights *mat.Dense
	epsilon float64
	eval    bool
	seed    rand.Source // Seed for random number generation
	rng     *rand.Rand
}

// NewEGreedy constructs a new EGreedy policy, where e=epislon is the
// probability with which a random action is selected. The number of
// features is the length of the environment's observations and the
// number of actions is taken from its action spec.
func NewEGreedy(e float64, seed uint64,
	env environment.Environment) (*EGreedy, error) {
	if e < 0 || e > 1 {
		return nil, fmt.Errorf("newEGreedy: epsilon must be in [0, 1] "+
			"but got %v", e)
	}

	// Ensure actions are 1-dimensional
	if env.ActionSpec().Shape.Len() != 1 {
		return nil, fmt.Errorf("newEGreedy: EGreedy can only be used " +
			"with 1-dimensional actions")
	}

	// Ensure actions are discrete
	if env.ActionSpec().Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newEGreedy: EGreedy can only be used " +
			"with discrete actions")
	}

	actions := int(env.ActionSpec().UpperBound.AtVec(0)) + 1
	features := env.ObservationSpec().Shape.Len()

	// Create the weight matrix: rows = actions, cols = features
	weights := mat.NewDense(actions, features, nil)

	source := rand.NewSource(seed)
	return &EGreedy{
		weights: weights,
		epsilon: e,
		seed:    source,
		rng:     rand.New(source),
	}, nil
}

// NewGreedy creates a new greedy policy
func NewGreedy(seed uint64, env environment.Environment) (*EGreedy, error) {
	return NewEGreedy(0.0, seed, env)
}

// Weights gets and returns the weights of the EGreedy policy as a
// string description -> weights
func (p *EGreedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = p.weights

	return weights
}

// SetWeights sets the weight pointers to point to a new set of weights.
// The SetWeights function can take the output of a call to Weights()
// on another EGreedy Policy directly
func (p *EGreedy) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[WeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named \"%v\"", WeightsKey)
	}
	r, c := newWeights.Dims()
	if wr, wc := p.weights.Dims(); r != wr || c != wc {
		return fmt.Errorf("setWeights: expected %vx%v weights but got "+
			"%vx%v", wr, wc, r, c)
	}

	p.weights = newWeights
	return nil
}

// ActionValues returns the value of every action in the state of t
func (p *EGreedy) ActionValues(t ts.TimeStep) *mat.VecDense {
	numActions, _ := p.weights.Dims()
	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(p.weights, t.Observation)
	return actionValues
}

// greedy returns a greedy action, breaking ties uniformly
func (p *EGreedy) greedy(t ts.TimeStep) int {
	_, indices := floatutils.MaxSlice(p.ActionValues(t).RawVector().Data)
	return indices[p.rng.Intn(len(indices))]
}

// SelectAction selects and action from an ε-greedy policy
func (p *EGreedy) SelectAction(t ts.TimeStep) *mat.VecDense {
	greedyAction := p.greedy(t)
	if p.eval || p.epsilon == 0 {
		return mat.NewVecDense(1, []float64{float64(greedyAction)})
	}

	// Calculate the ε probability of choosing any action at random
	numActions, _ := p.weights.Dims()
	prob := p.epsilon / float64(numActions)
	actionProbabilites := make([]float64, numActions)
	for i := 0; i < numActions; i++ {
		actionProbabilites[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilites[greedyAction] += 1.0 - p.epsilon

	// Construct a categorical distribution over actions using action
	// probabilities
	dist := distuv.NewCategorical(actionProbabilites, p.seed)

	// Sample an action given the action probabilites and return
	return mat.NewVecDense(1, []float64{dist.Rand()})
}

// Epsilon returns the probability of a random action
func (p *EGreedy) Epsilon() float64 { return p.epsilon }

// Eval sets the policy to evaluation mode
func (p *EGreedy) Eval() { p.eval = true }

// Train sets the policy to training mode
func (p *EGreedy) Train() { p.eval = false }

// IsEval indicates whether the policy is in evaluation mode
func (p *EGreedy) IsEval() bool { return p.eval }
