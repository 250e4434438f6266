// Package checkpointer saves snapshots of objects while an experiment
// runs
package checkpointer

import (
	ts "github.com/samuelfneumann/gominigrid/timestep"
)

// Saver is an object that can save a snapshot of itself to a file
type Saver interface {
	Save(filename string) error
}

// Checkpointer checkpoints/saves objects based on timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
