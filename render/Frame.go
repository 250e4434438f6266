package render

import "github.com/samuelfneumann/gominigrid/minigrid"

// Frame saves PNG snapshots of an Env. It can be checkpointed during
// an experiment to record the frames of episodes.
type Frame struct {
	Env  *minigrid.Env
	Tile int
}

// Save saves the current state of the Env as a PNG at filename
func (f Frame) Save(filename string) error {
	return SavePNG(f.Env, f.Tile, filename)
}
