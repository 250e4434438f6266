package checkpointer

import (
	"fmt"

	ts "github.com/samuelfneumann/gominigrid/timestep"
)

// nStep implements checkpointing every N steps of an episode
type nStep struct {
	interval int
	object   Saver // Object to save

	// filename returns the filename of the file to save the object
	// in.
	//
	// If each object should be saved in a separate file with each file
	// having an incremented number as a suffix (e.g. frame1.png,
	// frame2.png, ..., frameK.png), then use FilenameEnumerator.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n steps of an
// episode, including its first step.
func NewNStep(n int, object Saver, filename func() string) (Checkpointer,
	error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNStep: interval must be positive but "+
			"got %v", n)
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method
func (n *nStep) Checkpoint(t ts.TimeStep) error {
	if t.Number%n.interval == 0 {
		return n.object.Save(n.filename())
	}
	return nil
}
