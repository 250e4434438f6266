package envconfig

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samuelfneumann/gominigrid/minigrid"
	ts "github.com/samuelfneumann/gominigrid/timestep"
)

// Factory creates a new environment seeded with seed and using discount
// as its discount factor. A zero discount selects the default of 1.
// Factory returns the environment along with its first TimeStep.
type Factory func(seed uint64, discount float64) (*minigrid.Env,
	ts.TimeStep, error)

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds an environment factory to the registry under id.
// Register is typically called from an init() function and panics if
// id is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("register: environment %q already registered", id))
	}
	factories[id] = f
}

// Create instantiates the environment registered under id
func Create(id string, seed uint64, discount float64) (*minigrid.Env,
	ts.TimeStep, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, ts.TimeStep{}, fmt.Errorf("create: unknown "+
			"environment %q", id)
	}

	e, step, err := f(seed, discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: could not create "+
			"%v: %v", id, err)
	}
	return e, step, nil
}

// List returns the ids of all registered environments in sorted order
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	ids := make([]string, 0, len(factories))
	for id := range factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Exists returns whether an environment is registered under id
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
