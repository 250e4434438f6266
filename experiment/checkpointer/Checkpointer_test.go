package checkpointer

import (
	"errors"
	"testing"

	ts "github.com/samuelfneumann/gominigrid/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	saved []string
	err   error
}

func (r *recorder) Save(filename string) error {
	r.saved = append(r.saved, filename)
	return r.err
}

func TestFilenameEnumerator(t *testing.T) {
	next := FilenameEnumerator(0, "out/frame", ".png")
	assert.Equal(t, "out/frame000001.png", next())
	assert.Equal(t, "out/frame000002.png", next())

	next = FilenameEnumerator(41, "f", "")
	assert.Equal(t, "f000042", next())
}

func TestNStep(t *testing.T) {
	r := &recorder{}
	c, err := NewNStep(3, r, FilenameEnumerator(0, "f", ".png"))
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		require.NoError(t, c.Checkpoint(ts.New(ts.Mid, 0, 1, nil, i)))
	}
	assert.Equal(t, []string{"f000001.png", "f000002.png", "f000003.png"},
		r.saved)

	r.err = errors.New("disk full")
	assert.Error(t, c.Checkpoint(ts.New(ts.First, 0, 1, nil, 0)))

	_, err = NewNStep(0, r, nil)
	assert.Error(t, err)
}
