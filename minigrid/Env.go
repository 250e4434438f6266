// Package minigrid implements a partially observable 2D gridworld engine.
//
// An Env holds a Grid of coloured objects and an agent with a position,
// a facing direction and an optional carried object. The agent sees a
// square egocentric view of the grid in front of it. A Task specialises
// the Env by generating the grid at the start of each episode and by
// deciding how each step is rewarded.
package minigrid

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/samuelfneumann/gominigrid/environment"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// DefaultViewSize is the side length of the agent view used when a
// Config does not specify one
const DefaultViewSize = 7

// ErrEpisodeOver is returned when stepping an episode that has ended
var ErrEpisodeOver = errors.New("episode is over, call Reset")

// Config configures an Env
type Config struct {
	Width, Height   int
	MaxSteps        int
	ViewSize        int
	SeeThroughWalls bool
	Discount        float64
	Seed            uint64
}

// Validate checks that c describes a legal Env, filling in defaults
// for zero-valued fields
func (c *Config) Validate() error {
	if c.Width < 3 || c.Height < 3 {
		return fmt.Errorf("validate: grid must be at least 3x3, have "+
			"%dx%d", c.Width, c.Height)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("validate: max steps must be positive, have %d",
			c.MaxSteps)
	}
	if c.ViewSize == 0 {
		c.ViewSize = DefaultViewSize
	}
	if c.ViewSize < 3 || c.ViewSize%2 == 0 {
		return fmt.Errorf("validate: view size must be odd and at least "+
			"3, have %d", c.ViewSize)
	}
	if c.Discount == 0 {
		c.Discount = 1.0
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], have %v",
			c.Discount)
	}
	return nil
}

// Env is a gridworld environment specialised by a Task. Env is not safe
// for concurrent use.
type Env struct {
	task   Task
	config Config

	grid       *Grid
	agentPos   image.Point
	agentDir   Direction
	agentColor Color
	carrying   *Object
	mission    string

	stepCount  int
	stepLimit  *environment.StepLimit
	rng        *rand.Rand
	dirStarter *environment.CategoricalStarter

	currentStep ts.TimeStep
}

// New creates a new Env running task t and returns it along with the
// first TimeStep of the first episode
func New(t Task, c Config) (*Env, ts.TimeStep, error) {
	if t == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: task cannot be nil")
	}
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}

	e := &Env{
		task:      t,
		config:    c,
		stepLimit: environment.NewStepLimit(c.MaxSteps),
	}
	e.Seed(c.Seed)

	step, err := e.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}
	return e, step, nil
}

// Seed re-seeds the random number generators of the Env
func (e *Env) Seed(seed uint64) {
	e.rng = rand.New(rand.NewSource(seed))
	e.dirStarter = environment.NewCategoricalStarter([]int{NumDirections},
		seed+1)
}

// Reset starts a new episode and returns its first TimeStep
func (e *Env) Reset() (ts.TimeStep, error) {
	e.stepCount = 0
	e.carrying = nil
	e.grid = nil
	e.agentPos = image.Pt(-1, -1)
	e.agentDir = East
	e.agentColor = Red
	e.mission = ""

	if err := e.task.Generate(e); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not generate "+
			"grid: %w", err)
	}
	if e.grid == nil {
		return ts.TimeStep{}, fmt.Errorf("reset: task did not set a grid")
	}
	if !e.grid.InBounds(e.agentPos.X, e.agentPos.Y) {
		return ts.TimeStep{}, fmt.Errorf("reset: agent position %v outside "+
			"of grid", e.agentPos)
	}
	if cell := e.grid.At(e.agentPos); cell != nil && !cell.CanOverlap() {
		return ts.TimeStep{}, fmt.Errorf("reset: agent placed on %v", cell)
	}

	step := ts.New(ts.First, 0, e.config.Discount, e.Observe(), 0)
	if informer, ok := e.task.(Informer); ok {
		step.Info = informer.ResetInfo(e)
	}
	e.decorate(&step)
	e.currentStep = step
	return step, nil
}

// Step takes a single environmental step. The action must be a
// 1-dimensional vector holding one of the Actions. Step returns the
// resulting TimeStep and whether it is the last of the episode.
func (e *Env) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if action.Len() != 1 {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions should be "+
			"1-dimensional, have %d dimensions", action.Len())
	}
	a := action.AtVec(0)
	if a != math.Trunc(a) {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions should be "+
			"integers, have %v", a)
	}
	return e.StepAction(Action(a))
}

// StepAction takes a single environmental step with action a
func (e *Env) StepAction(a Action) (ts.TimeStep, bool, error) {
	if !a.Valid() {
		return ts.TimeStep{}, false, fmt.Errorf("stepAction: illegal "+
			"action %d, must be in [0, %d)", int(a), NumActions)
	}
	if e.currentStep.Last() {
		return ts.TimeStep{}, true, fmt.Errorf("stepAction: %w",
			ErrEpisodeOver)
	}

	e.stepCount++
	outcome := e.transition(a)
	if err := e.task.Resolve(e, a, &outcome); err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("stepAction: %v", err)
	}

	step := ts.New(ts.Mid, outcome.Reward, e.config.Discount, e.Observe(),
		e.stepCount)
	step.Info = outcome.Info
	if outcome.Terminated {
		step.StepType = ts.Last
		step.SetEnd(ts.TerminalStateReached)
	}
	e.stepLimit.End(&step)
	e.decorate(&step)

	e.currentStep = step
	return step, step.Last(), nil
}

// transition applies the effect of action a to the agent and the grid
func (e *Env) transition(a Action) Outcome {
	var outcome Outcome

	fwd := e.FrontPos()
	var fwdCell *Object
	fwdInBounds := e.grid.InBounds(fwd.X, fwd.Y)
	if fwdInBounds {
		fwdCell = e.grid.At(fwd)
	}

	switch a {
	case Left:
		e.agentDir = e.agentDir.Left()

	case Right:
		e.agentDir = e.agentDir.Right()

	case Forward:
		if !fwdInBounds {
			break
		}
		if fwdCell == nil || fwdCell.CanOverlap() {
			e.agentPos = fwd
		}
		if fwdCell == nil {
			break
		}
		switch {
		case fwdCell.Kind() == Fruit:
			outcome.Reward += fwdCell.Reward()
			fwdCell.pos = image.Pt(-1, -1)
			e.grid.Set(fwd.X, fwd.Y, nil)
			outcome.Terminated = fwdCell.Terminal()

		case fwdCell.Kind() == Plain && fwdCell.Type() == Goal:
			outcome.Terminated = true
			outcome.Reward = e.GoalReward()

		case fwdCell.Kind() == Plain && fwdCell.Type() == Lava:
			outcome.Terminated = true
		}

	case Pickup:
		if fwdCell != nil && fwdCell.CanPickup() && e.carrying == nil {
			e.carrying = fwdCell
			fwdCell.pos = image.Pt(-1, -1)
			e.grid.Set(fwd.X, fwd.Y, nil)
		}

	case Drop:
		if fwdInBounds && fwdCell == nil && e.carrying != nil {
			e.grid.Set(fwd.X, fwd.Y, e.carrying)
			e.carrying.pos = fwd
			e.carrying = nil
		}

	case Toggle, Done:
	}

	return outcome
}

// GoalReward returns the reward for reaching a goal at the current step
func (e *Env) GoalReward() float64 {
	return 1 - 0.9*(float64(e.stepCount)/float64(e.config.MaxSteps))
}

// decorate fills in the parts of a TimeStep's observation that are not
// stored in the observation vector
func (e *Env) decorate(t *ts.TimeStep) {
	t.Direction = int(e.agentDir)
	t.Mission = e.mission
}

// CurrentTimeStep returns the last TimeStep that occurred in the Env
func (e *Env) CurrentTimeStep() ts.TimeStep {
	return e.currentStep
}

// Task returns the task run by the Env
func (e *Env) Task() Task { return e.task }

// Config returns the validated configuration of the Env
func (e *Env) Config() Config { return e.config }

// Width returns the configured width of the Env. The current grid may
// differ in size for tasks that swap grids between phases.
func (e *Env) Width() int { return e.config.Width }

// Height returns the configured height of the Env
func (e *Env) Height() int { return e.config.Height }

// Grid returns the current grid
func (e *Env) Grid() *Grid { return e.grid }

// SetGrid replaces the current grid
func (e *Env) SetGrid(g *Grid) { e.grid = g }

// AgentPos returns the position of the agent
func (e *Env) AgentPos() image.Point { return e.agentPos }

// AgentDir returns the facing direction of the agent
func (e *Env) AgentDir() Direction { return e.agentDir }

// SetAgent moves the agent to pos facing dir
func (e *Env) SetAgent(pos image.Point, dir Direction) {
	e.agentPos = pos
	e.agentDir = dir
}

// SetAgentDir turns the agent to face dir
func (e *Env) SetAgentDir(dir Direction) { e.agentDir = dir }

// AgentColor returns the colour of the agent
func (e *Env) AgentColor() Color { return e.agentColor }

// SetAgentColor sets the colour of the agent
func (e *Env) SetAgentColor(c Color) { e.agentColor = c }

// Carrying returns the object carried by the agent, or nil
func (e *Env) Carrying() *Object { return e.carrying }

// SetCarrying sets the object carried by the agent
func (e *Env) SetCarrying(o *Object) { e.carrying = o }

// Mission returns the mission string of the current episode
func (e *Env) Mission() string { return e.mission }

// SetMission sets the mission string of the current episode
func (e *Env) SetMission(m string) { e.mission = m }

// StepCount returns the number of steps taken in the current episode
func (e *Env) StepCount() int { return e.stepCount }

// MaxSteps returns the number of steps after which episodes are
// truncated
func (e *Env) MaxSteps() int { return e.config.MaxSteps }

// StepsRemaining returns the number of steps left before truncation
func (e *Env) StepsRemaining() int { return e.config.MaxSteps - e.stepCount }

// ViewSize returns the side length of the agent view
func (e *Env) ViewSize() int { return e.config.ViewSize }

// FrontPos returns the position of the cell in front of the agent
func (e *Env) FrontPos() image.Point {
	return e.agentPos.Add(e.agentDir.Vec())
}

// FrontCell returns the object in front of the agent, or nil if the cell
// is empty or outside of the grid
func (e *Env) FrontCell() *Object {
	fwd := e.FrontPos()
	if !e.grid.InBounds(fwd.X, fwd.Y) {
		return nil
	}
	return e.grid.At(fwd)
}

// Remove clears the cell at p and returns what it held
func (e *Env) Remove(p image.Point) *Object {
	o := e.grid.At(p)
	if o != nil {
		o.pos = image.Pt(-1, -1)
	}
	e.grid.Set(p.X, p.Y, nil)
	return o
}

// Rand returns the random number generator of the Env. Tasks must draw
// all randomness from it so that episodes are reproducible.
func (e *Env) Rand() *rand.Rand { return e.rng }

// RandInt returns a uniform random integer in [low, high)
func (e *Env) RandInt(low, high int) int {
	return low + e.rng.Intn(high-low)
}

// RandBool returns a uniform random boolean
func (e *Env) RandBool() bool {
	return e.rng.Intn(2) == 0
}

// RandFloat returns a uniform random float in [0, 1)
func (e *Env) RandFloat() float64 {
	return e.rng.Float64()
}

// RandColor returns a uniform random colour from colors
func (e *Env) RandColor(colors []Color) Color {
	return colors[e.rng.Intn(len(colors))]
}

// RandPos returns a uniform random position with x in [xLow, xHigh) and
// y in [yLow, yHigh)
func (e *Env) RandPos(xLow, xHigh, yLow, yHigh int) image.Point {
	return image.Pt(e.RandInt(xLow, xHigh), e.RandInt(yLow, yHigh))
}

// Shuffle pseudo-randomises the order of n elements using swap
func (e *Env) Shuffle(n int, swap func(i, j int)) {
	e.rng.Shuffle(n, swap)
}

// Sample returns k distinct indices drawn uniformly from [0, n)
func (e *Env) Sample(n, k int) []int {
	if k > n {
		panic(fmt.Sprintf("sample: cannot sample %d of %d", k, n))
	}
	return e.rng.Perm(n)[:k]
}

// RandElem returns a uniform random element of xs
func RandElem[T any](e *Env, xs []T) T {
	return xs[e.rng.Intn(len(xs))]
}

func (e *Env) String() string {
	return fmt.Sprintf("MiniGrid | Agent: %v facing %v  |  Step: %d/%d  "+
		"|  Mission: %q", e.agentPos, e.agentDir, e.stepCount,
		e.config.MaxSteps, e.mission)
}
