package minigrid

import "gonum.org/v1/gonum/spatial/r1"

// Task specialises an Env into a concrete benchmark. A Task lays out the
// grid at the start of each episode and decides how the outcome of each
// step is rewarded.
type Task interface {
	// Generate builds the grid for a new episode. Generate must set the
	// grid with SetGrid, place the agent and set the mission.
	Generate(e *Env) error

	// Resolve is called after the engine has applied action a. The
	// outcome holds the reward and termination computed by the engine
	// and may be rewritten. Resolve may also change the grid and the
	// agent.
	Resolve(e *Env, a Action, o *Outcome) error

	// RewardRange returns the smallest and largest reward the task
	// can produce on a single step
	RewardRange() r1.Interval
}

// Informer is implemented by tasks that report auxiliary data on the
// first TimeStep of each episode
type Informer interface {
	ResetInfo(e *Env) map[string]interface{}
}

// Outcome is the result of a single step before the observation is
// generated
type Outcome struct {
	Reward     float64
	Terminated bool
	Info       map[string]interface{}
}

// SetInfo records auxiliary data on the outcome
func (o *Outcome) SetInfo(key string, value interface{}) {
	if o.Info == nil {
		o.Info = make(map[string]interface{})
	}
	o.Info[key] = value
}
