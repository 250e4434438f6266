package agent

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/samuelfneumann/gominigrid/environment"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(env environment.Environment, seed uint64) (Agent, error)

	// ValidAgent returns whether the argument agent is valid for the
	// Config
	ValidAgent(Agent) bool

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent the Config creates
	Type() Type
}

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
type Type string

const (
	Random                 Type = "Random"
	EGreedyQLearningLinear Type = "EGreedyQLearning-Linear"
)

// Registered types with the package. Once a Type has been registered
// with this map, a TypedConfig with that type can be deserialized.
//
// No Type's are registered wtih this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes = map[Type]reflect.Type{}

// Register registers an agent's Type with a concrete Config type so
// that upon deserialization of a TypedConfig, Configs of type
// agentType are deserialized into the concrete type of config.
func Register(agentType Type, config Config) {
	if _, ok := registeredTypes[agentType]; ok {
		panic(fmt.Sprintf("register: agent type %v registered twice",
			agentType))
	}
	registeredTypes[agentType] = reflect.TypeOf(config)
}

// Types returns the registered agent types in sorted order
func Types() []Type {
	types := make([]Type, 0, len(registeredTypes))
	for t := range registeredTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// newConfig returns a pointer to a new zero Config of type t
func newConfig(t Type) (interface{}, error) {
	ty, ok := registeredTypes[t]
	if !ok {
		return nil, fmt.Errorf("newConfig: no such agent type %q", t)
	}
	return reflect.New(ty).Interface(), nil
}
