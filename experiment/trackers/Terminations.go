package trackers

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/experiment/tracker"
	"github.com/samuelfneumann/gominigrid/timestep"
)

// Terminations tracks how episodes end: 1 for an episode that reached
// a terminal state and 0 for one cut off by the step limit.
type Terminations struct {
	ends     []float64
	filename string
}

// NewTerminations returns a new Terminations Tracker which will save
// its data at the specified location filename
func NewTerminations(filename string) *Terminations {
	return &Terminations{filename: filename}
}

// Track records the end of an episode
func (e *Terminations) Track(t timestep.TimeStep) {
	if !t.Last() {
		return
	}
	if t.Terminated() {
		e.ends = append(e.ends, 1)
	} else {
		e.ends = append(e.ends, 0)
	}
}

// Data returns one value per finished episode
func (e *Terminations) Data() []float64 {
	return e.ends
}

// Save saves the data tracked by the Terminations Tracker to disk.
func (e *Terminations) Save() error {
	if err := tracker.SaveData(e.filename, e.ends); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
