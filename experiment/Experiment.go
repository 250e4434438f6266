// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/gominigrid/agent"
	"github.com/samuelfneumann/gominigrid/environment"
	"github.com/samuelfneumann/gominigrid/environment/envconfig"
	"github.com/samuelfneumann/gominigrid/environment/wrappers"
	"github.com/samuelfneumann/gominigrid/experiment/checkpointer"
	"github.com/samuelfneumann/gominigrid/experiment/tracker"
	"github.com/samuelfneumann/gominigrid/minigrid"
	"gopkg.in/yaml.v3"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function
// will then take all cached data and save it to disk. This is usually
// performed after an experiment has been run. The Run() method will
// run all episodes util a limit is reached. The RunEpisode() function
// will run a single episode.
//
// Experiments send each TimeStep to Trackers using the Tracker's
// Track() method. The Tracker then determines which data from the
// TimeStep it caches and saves. New Trackers can be registered with an
// Experiment through the consturctor or through an Experiment's
// Register() function.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the experiment finished

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}

// Type is a kind of experiment
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Observation names a way of observing an environment
type Observation string

const (
	// View is the egocentric partial view of the agent
	View Observation = "view"

	// Full is the encoding of the whole grid
	Full Observation = "full"

	// OneHot is the one-hot encoding of the partial view
	OneHot Observation = "onehot"

	// FullOneHot is the one-hot encoding of the whole grid
	FullOneHot Observation = "fullonehot"

	// XY is the pose of the agent
	XY Observation = "xy"
)

// Config represents a configuration of an experiment.
type Config struct {
	Type        Type              `json:"type" yaml:"type"`
	MaxSteps    uint              `json:"max_steps" yaml:"max_steps"`
	MaxEpisodes uint              `json:"max_episodes" yaml:"max_episodes"`
	EnvConf     envconfig.Config  `json:"env" yaml:"env"`
	AgentConf   agent.TypedConfig `json:"agent" yaml:"agent"`

	// Observation selects the observation wrapper, View if empty
	Observation Observation `json:"observation,omitempty" yaml:"observation,omitempty"`

	// AverageRewardRate turns rewards into differential rewards when
	// positive
	AverageRewardRate float64 `json:"average_reward_rate,omitempty" yaml:"average_reward_rate,omitempty"`
}

// LoadConfig reads a YAML experiment Config from path
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v", err)
	}
	if c.Type == "" {
		c.Type = OnlineExp
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v", err)
	}
	return c, nil
}

// Validate returns an error if the Config cannot create an experiment
func (c Config) Validate() error {
	if c.Type != OnlineExp {
		return fmt.Errorf("validate: no such experiment type %q", c.Type)
	}
	if c.MaxSteps == 0 && c.MaxEpisodes == 0 {
		return fmt.Errorf("validate: a step or episode limit is required")
	}
	if err := c.EnvConf.Validate(); err != nil {
		return err
	}
	if c.AgentConf.Config == nil {
		return fmt.Errorf("validate: no agent configured")
	}
	if err := c.AgentConf.Validate(); err != nil {
		return fmt.Errorf("validate: invalid agent: %v", err)
	}
	if c.AverageRewardRate < 0 || c.AverageRewardRate > 1 {
		return fmt.Errorf("validate: average reward rate must be in "+
			"[0, 1] but got %v", c.AverageRewardRate)
	}
	return nil
}

// CreateEnv creates the configured environment. It returns both the
// underlying minigrid.Env and the possibly wrapped environment that the
// agent acts in.
func (c Config) CreateEnv() (*minigrid.Env, environment.Environment,
	error) {
	e, _, err := c.EnvConf.Create()
	if err != nil {
		return nil, nil, fmt.Errorf("createEnv: %v", err)
	}

	wrapped, err := Wrap(e, c.Observation)
	if err != nil {
		return nil, nil, fmt.Errorf("createEnv: %v", err)
	}

	if c.AverageRewardRate > 0 {
		wrapped, err = wrappers.NewAverageReward(wrapped, 0,
			c.AverageRewardRate)
		if err != nil {
			return nil, nil, fmt.Errorf("createEnv: %v", err)
		}
	}
	return e, wrapped, nil
}

// CreateExp creates the experiment the Config describes. The agent is
// seeded with the seed of the environment.
func (c Config) CreateExp(t []tracker.Tracker,
	check []checkpointer.Checkpointer) (Experiment, *minigrid.Env, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, fmt.Errorf("createExp: %v", err)
	}

	e, wrapped, err := c.CreateEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: %v", err)
	}

	a, err := c.AgentConf.CreateAgent(wrapped, c.EnvConf.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: could not create agent: %v",
			err)
	}

	exp, err := NewOnline(wrapped, a, c.MaxSteps, c.MaxEpisodes, t, check)
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: %v", err)
	}
	return exp, e, nil
}

// Wrap wraps e so that it produces observations of kind obs
func Wrap(e *minigrid.Env, obs Observation) (environment.Environment,
	error) {
	switch obs {
	case View, "":
		return e, nil
	case Full:
		return wrappers.NewFullyObs(e), nil
	case OneHot, FullOneHot:
		var base environment.Environment = e
		if obs == FullOneHot {
			base = wrappers.NewFullyObs(e)
		}
		o, err := wrappers.NewOneHot(base)
		if err != nil {
			return nil, err
		}
		return o, nil
	case XY:
		return wrappers.NewXY(e), nil
	}
	return nil, fmt.Errorf("wrap: no such observation %q", obs)
}
