// Package envconfig maps environment ids to constructors and provides
// serializable configurations that name a registered environment.
// Environment configurations in this package are JSON and YAML
// serializable.
//
// Environments register themselves in init() functions, so a program
// must import the package defining an environment, usually for its side
// effects only, before creating it here:
//
//	import _ "github.com/samuelfneumann/gominigrid/minigrid/envs"
package envconfig

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/minigrid"
	ts "github.com/samuelfneumann/gominigrid/timestep"
)

// Config implements a specific configuration of a registered
// environment
type Config struct {
	Environment string  `json:"environment" yaml:"environment"`
	Seed        uint64  `json:"seed" yaml:"seed"`
	Discount    float64 `json:"discount" yaml:"discount"`
}

// NewConfig returns a new environment Config
func NewConfig(id string, seed uint64, discount float64) Config {
	return Config{
		Environment: id,
		Seed:        seed,
		Discount:    discount,
	}
}

// Validate returns an error if the Config does not name a registered
// environment or has an illegal discount
func (c Config) Validate() error {
	if !Exists(c.Environment) {
		return fmt.Errorf("validate: no such environment %q", c.Environment)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], have %v",
			c.Discount)
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment
func (c Config) Create() (*minigrid.Env, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}
	return Create(c.Environment, c.Seed, c.Discount)
}

func (c Config) String() string {
	return fmt.Sprintf("%v (seed: %d, discount: %v)", c.Environment, c.Seed,
		c.Discount)
}
