package minigrid

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceObj(t *testing.T) {
	e, _ := newTestEnv(t, &testTask{}, Config{Width: 8, Height: 8})

	for i := 0; i < 20; i++ {
		ball := NewCollectableBall(Blue, 1)
		pos, err := e.PlaceObj(ball, image.Pt(2, 3), image.Pt(4, 2), nil, 0)
		if err != nil {
			// The region holds 8 cells
			assert.True(t, errors.Is(err, ErrNoFreeCell))
			assert.Equal(t, 8, i)
			break
		}
		assert.True(t, pos.In(image.Rect(2, 3, 6, 5)))
		assert.Same(t, ball, e.Grid().At(pos))
		assert.Equal(t, pos, ball.Pos())
		assert.Equal(t, pos, ball.InitPos())
	}
}

func TestPlaceObjAvoidsAgent(t *testing.T) {
	e, _ := newTestEnv(t, &testTask{}, Config{Width: 4, Height: 3})

	// Cells (1, 1) and (2, 1) are free and the agent stands on (1, 1)
	pos, err := e.PlaceObj(NewBall(Red), image.Point{}, image.Point{}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(2, 1), pos)

	_, err = e.PlaceObj(NewBall(Red), image.Point{}, image.Point{}, nil, 0)
	assert.True(t, errors.Is(err, ErrNoFreeCell))
}

func TestPlaceObjReject(t *testing.T) {
	e, _ := newTestEnv(t, &testTask{}, Config{Width: 8, Height: 8})

	reject := func(_ *Env, p image.Point) bool { return p.X < 5 }
	for i := 0; i < 5; i++ {
		pos, err := e.PlaceObj(NewKey(Green), image.Point{}, image.Point{},
			reject, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pos.X, 5)
	}

	always := func(*Env, image.Point) bool { return true }
	_, err := e.PlaceObj(NewKey(Green), image.Point{}, image.Point{}, always,
		10)
	assert.True(t, errors.Is(err, ErrPlacementFailed))
}

func TestPlaceObjEmptyRegion(t *testing.T) {
	e, _ := newTestEnv(t, &testTask{}, Config{})

	_, err := e.PlaceObj(nil, image.Pt(10, 10), image.Pt(2, 2), nil, 0)
	assert.True(t, errors.Is(err, ErrNoFreeCell))

	// A nil object only samples a position
	pos, err := e.PlaceObj(nil, image.Pt(2, 2), image.Pt(1, 1), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(2, 2), pos)
	assert.Nil(t, e.Grid().Get(2, 2))
}

func TestPlaceAgent(t *testing.T) {
	e, _ := newTestEnv(t, &testTask{}, Config{Width: 9, Height: 9, Seed: 7})

	dirs := make(map[Direction]bool)
	for i := 0; i < 50; i++ {
		pos, err := e.PlaceAgent(image.Pt(4, 4), image.Pt(3, 3), true)
		require.NoError(t, err)
		assert.True(t, pos.In(image.Rect(4, 4, 7, 7)))
		assert.Equal(t, pos, e.AgentPos())
		dirs[e.AgentDir()] = true
	}
	assert.Len(t, dirs, NumDirections)

	e.SetAgentDir(West)
	_, err := e.PlaceAgent(image.Point{}, image.Point{}, false)
	require.NoError(t, err)
	assert.Equal(t, West, e.AgentDir())
}

func TestRemove(t *testing.T) {
	e, _ := newTestEnv(t, &testTask{}, Config{})

	ball := NewBall(Grey)
	e.PutObj(ball, 3, 3)
	assert.Same(t, ball, e.Remove(image.Pt(3, 3)))
	assert.Nil(t, e.Grid().Get(3, 3))
	assert.Equal(t, image.Pt(-1, -1), ball.Pos())
	assert.Equal(t, image.Pt(3, 3), ball.InitPos())
	assert.Nil(t, e.Remove(image.Pt(3, 3)))
}
