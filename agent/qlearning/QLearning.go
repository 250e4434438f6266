// Package qlearning implements the Q-Learning algorithm with linear
// function approximation
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/agent"
	"github.com/samuelfneumann/gominigrid/agent/policy"
	"github.com/samuelfneumann/gominigrid/environment"
	"gonum.org/v1/gonum/mat"
)

// QLearning implements the Q-Learning algorithm. The behaviour policy
// is ε-greedy and the target policy greedy with respect to the same
// weights.
type QLearning struct {
	*QLearner
	*policy.EGreedy
	target *policy.EGreedy
	seed   uint64
}

// New creates a new QLearning agent
func New(env environment.Environment, c Config,
	seed uint64) (*QLearning, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	behaviour, err := policy.NewEGreedy(c.Epsilon, seed, env)
	if err != nil {
		return nil, fmt.Errorf("new: could not create behaviour "+
			"policy: %v", err)
	}

	target, err := policy.NewGreedy(seed, env)
	if err != nil {
		return nil, fmt.Errorf("new: could not create target "+
			"policy: %v", err)
	}

	// Share weights between both policies and the learner
	weights := behaviour.Weights()
	if err := target.SetWeights(weights); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	learner, err := NewQLearner(weights[policy.WeightsKey], c.LearningRate)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &QLearning{learner, behaviour, target, seed}, nil
}

// TargetPolicy returns the greedy target policy
func (q *QLearning) TargetPolicy() agent.Policy {
	return q.target
}

// Weights returns the weights shared by the policies and learner
func (q *QLearning) Weights() map[string]*mat.Dense {
	return q.QLearner.Weights()
}
