// Package random implements an agent which acts uniformly at random
package random

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/agent"
	"github.com/samuelfneumann/gominigrid/environment"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

func init() {
	agent.Register(agent.Random, Config{})
}

// Uniform selects discrete actions uniformly at random and never learns
type Uniform struct {
	dist distuv.Categorical
	eval bool
}

// New returns a new Uniform agent acting in env
func New(env environment.Environment, seed uint64) (*Uniform, error) {
	spec := env.ActionSpec()
	if spec.Shape.Len() != 1 || spec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("new: uniform agent requires 1-dimensional " +
			"discrete actions")
	}

	low := int(spec.LowerBound.AtVec(0))
	high := int(spec.UpperBound.AtVec(0))
	if low != 0 || high < 0 {
		return nil, fmt.Errorf("new: actions must be in [0, n) but got "+
			"[%v, %v]", low, high)
	}

	probs := make([]float64, high+1)
	for i := range probs {
		probs[i] = 1
	}
	return &Uniform{
		dist: distuv.NewCategorical(probs, rand.NewSource(seed)),
	}, nil
}

// SelectAction samples an action uniformly at random
func (u *Uniform) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{u.dist.Rand()})
}

func (u *Uniform) Step() error                           { return nil }
func (u *Uniform) Observe(mat.Vector, ts.TimeStep) error { return nil }
func (u *Uniform) ObserveFirst(ts.TimeStep) error        { return nil }
func (u *Uniform) EndEpisode()                           {}

// Eval sets the policy to evaluation mode
func (u *Uniform) Eval() { u.eval = true }

// Train sets the policy to training mode
func (u *Uniform) Train() { u.eval = false }

// IsEval indicates whether the policy is in evaluation mode
func (u *Uniform) IsEval() bool { return u.eval }

// Config configures a Uniform agent
type Config struct{}

// CreateAgent creates a Uniform agent acting in env
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, seed)
}

// ValidAgent returns whether a is a Uniform agent
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*Uniform)
	return ok
}

// Validate always succeeds
func (c Config) Validate() error { return nil }

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type { return agent.Random }
