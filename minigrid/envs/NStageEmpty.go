package envs

import (
	"fmt"
	"image"

	"github.com/samuelfneumann/gominigrid/minigrid"
	"gonum.org/v1/gonum/spatial/r1"
)

// Target types of NStageEmptyNoLoop. Targets are 1-based indices into
// the order in which balls were presented.
const (
	// TargetFirst asks for the ball shown first
	TargetFirst = "first"

	// TargetFirstTwo asks for the two balls shown first, in order
	TargetFirstTwo = "first_two"

	// TargetQueried asks for one ball whose index is drawn each episode
	// and reported in the info of each TimeStep
	TargetQueried = "queried"
)

// stageRoom is an empty walled room in which balls are shown one stage
// at a time. After the last stage all balls are shown together.
type stageRoom struct {
	size      int
	numStages int

	colors []minigrid.Color
	poses  []image.Point
	stage  int
}

func newStageRoom(size, numStages int) (stageRoom, error) {
	if numStages < 1 || numStages > minigrid.NumColors {
		return stageRoom{}, fmt.Errorf("number of stages must be in "+
			"[1, %d], have %d", minigrid.NumColors, numStages)
	}
	if free := (size - 2) * (size - 2); numStages >= free {
		return stageRoom{}, fmt.Errorf("cannot place %d objects and the "+
			"agent in %d free cells", numStages, free)
	}
	return stageRoom{
		size:      size,
		numStages: numStages,
		colors:    minigrid.ColorNames[:numStages],
	}, nil
}

// interior returns the cells inside the walls of the room
func (s *stageRoom) interior() []image.Point {
	return walledGrid(s.size, s.size).EmptyCells(zero, s.size, s.size)
}

// final returns whether all balls are shown
func (s *stageRoom) final() bool {
	return s.stage >= s.numStages
}

// layStage lays out the grid for the current stage
func (s *stageRoom) layStage(e *minigrid.Env) {
	e.SetGrid(walledGrid(s.size, s.size))
	if !s.final() {
		p := s.poses[s.stage]
		e.PutObj(minigrid.NewCollectableBall(s.colors[s.stage], 0), p.X, p.Y)
		return
	}
	for i, p := range s.poses {
		e.PutObj(minigrid.NewCollectableBall(s.colors[i], 0), p.X, p.Y)
	}
}

// onBall returns whether the agent stands on a ball
func onBall(e *minigrid.Env) bool {
	cell := agentCell(e)
	return cell != nil && cell.Type() == minigrid.Ball
}

// Stage returns the current stage. Stages are numbered from 0 and the
// final stage, showing all balls, equals the number of stages.
func (s *stageRoom) Stage() int {
	return s.stage
}

// NStageEmpty shows balls one at a time, paying +1 for each ball
// reached. Once every ball has been shown, all balls appear together
// and visiting them in the order they were shown pays +3 and starts a
// new loop. Visiting a ball out of order restores all balls and the
// progress through the order.
type NStageEmpty struct {
	stageRoom
	maxSteps  int
	nextVisit int
}

// NewNStageEmpty returns a new NStageEmpty task on a size x size grid
func NewNStageEmpty(size, numStages, maxSteps int) (*NStageEmpty, error) {
	s, err := newStageRoom(size, numStages)
	if err != nil {
		return nil, fmt.Errorf("newNStageEmpty: %v", err)
	}
	return &NStageEmpty{stageRoom: s, maxSteps: maxSteps}, nil
}

// EnvConfig implements the Variant interface
func (n *NStageEmpty) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:           n.size,
		Height:          n.size,
		MaxSteps:        n.maxSteps,
		SeeThroughWalls: true,
	}
}

// Generate implements the minigrid.Task interface
func (n *NStageEmpty) Generate(e *minigrid.Env) error {
	cells := n.interior()
	n.poses = make([]image.Point, n.numStages)
	for i, idx := range e.Sample(len(cells), n.numStages) {
		n.poses[i] = cells[idx]
	}
	n.colors = shuffled(e, n.colors)

	n.stage, n.nextVisit = 0, 0
	n.layStage(e)
	if _, err := e.PlaceAgent(zero, zero, true); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	e.SetMission("visit the balls in the order they were shown")
	return nil
}

// Resolve implements the minigrid.Task interface
func (n *NStageEmpty) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	out.Reward, out.Terminated = 0, false
	if !onBall(e) {
		return nil
	}

	if !n.final() {
		out.Reward++
		n.stage++
		n.layStage(e)
		if n.final() {
			if _, err := e.PlaceAgent(zero, zero, true); err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
		}
		return nil
	}

	if e.AgentPos() != n.poses[n.nextVisit] {
		n.nextVisit = 0
		n.layStage(e)
		return nil
	}

	e.Remove(e.AgentPos())
	n.nextVisit++
	if n.nextVisit == n.numStages {
		out.Reward += 3
		n.stage, n.nextVisit = 0, 0
		n.layStage(e)
		if _, err := e.PlaceAgent(zero, zero, true); err != nil {
			return fmt.Errorf("resolve: %w", err)
		}
	}
	return nil
}

// RewardRange implements the minigrid.Task interface
func (n *NStageEmpty) RewardRange() r1.Interval {
	return rewardRange(0, 3)
}

// NStageEmptyNoLoop shows balls one at a time. Each stage ends when the
// ball is reached, paying +1, or after stagePeriod steps. Once every
// ball has been shown the agent is returned to its start and all balls
// appear together. Visiting the target balls in order pays +2 each and
// a further +1 once all targets are visited, which ends the episode.
// Visiting any other ball pays -1 and ends the episode.
//
// With stageOne false, balls cannot be reached while they are shown one
// at a time and stages only end by timeout.
type NStageEmptyNoLoop struct {
	stageRoom
	maxSteps    int
	stagePeriod int
	stageOne    bool
	targetType  string

	agentInit    image.Point
	agentInitDir minigrid.Direction
	firstFull    bool
	stayTime     int

	// targets holds the 1-based indices of the balls still to visit,
	// preceded by 0 while the balls are being shown
	targets []int
}

// NewNStageEmptyNoLoop returns a new NStageEmptyNoLoop task in which
// every ball is a target, to be visited in the order shown
func NewNStageEmptyNoLoop(size, numStages, stagePeriod,
	maxSteps int) (*NStageEmptyNoLoop, error) {
	n, err := newNStageEmptyNoLoop(size, numStages, stagePeriod, maxSteps,
		true, "")
	if err != nil {
		return nil, fmt.Errorf("newNStageEmptyNoLoop: %v", err)
	}
	return n, nil
}

// NewNStageEmptyNoLoopPartial returns a new NStageEmptyNoLoop task in
// which only the balls selected by targetType are targets. The index of
// the next target is reported under "target_idx" in the info of every
// TimeStep.
func NewNStageEmptyNoLoopPartial(size, numStages, stagePeriod, maxSteps int,
	stageOne bool, targetType string) (*NStageEmptyNoLoop, error) {
	switch targetType {
	case TargetFirst:
	case TargetFirstTwo, TargetQueried:
		if numStages < 2 {
			return nil, fmt.Errorf("newNStageEmptyNoLoopPartial: %s "+
				"targets need at least 2 stages, have %d", targetType,
				numStages)
		}
	default:
		return nil, fmt.Errorf("newNStageEmptyNoLoopPartial: invalid "+
			"target type %q", targetType)
	}

	n, err := newNStageEmptyNoLoop(size, numStages, stagePeriod, maxSteps,
		stageOne, targetType)
	if err != nil {
		return nil, fmt.Errorf("newNStageEmptyNoLoopPartial: %v", err)
	}
	return n, nil
}

func newNStageEmptyNoLoop(size, numStages, stagePeriod, maxSteps int,
	stageOne bool, targetType string) (*NStageEmptyNoLoop, error) {
	if stagePeriod < 1 {
		return nil, fmt.Errorf("stage period must be positive, have %d",
			stagePeriod)
	}
	s, err := newStageRoom(size, numStages)
	if err != nil {
		return nil, err
	}
	return &NStageEmptyNoLoop{
		stageRoom:   s,
		maxSteps:    maxSteps,
		stagePeriod: stagePeriod,
		stageOne:    stageOne,
		targetType:  targetType,
	}, nil
}

// EnvConfig implements the Variant interface
func (n *NStageEmptyNoLoop) EnvConfig() minigrid.Config {
	return minigrid.Config{
		Width:           n.size,
		Height:          n.size,
		MaxSteps:        n.maxSteps,
		SeeThroughWalls: true,
	}
}

// drawTargets draws the target list of a new episode
func (n *NStageEmptyNoLoop) drawTargets(e *minigrid.Env) {
	switch n.targetType {
	case TargetFirst:
		n.targets = []int{0, 1}
	case TargetFirstTwo:
		n.targets = []int{0, 1, 2}
	case TargetQueried:
		n.targets = []int{0, e.RandInt(1, n.numStages)}
	default:
		n.targets = make([]int, n.numStages+1)
		for i := range n.targets {
			n.targets[i] = i
		}
	}
}

// Generate implements the minigrid.Task interface
func (n *NStageEmptyNoLoop) Generate(e *minigrid.Env) error {
	n.drawTargets(e)

	// One extra position for the agent
	sample, err := sampleSpread(e, n.interior(), n.numStages+1, 2, nil)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	n.poses = sample[:n.numStages]
	n.colors = shuffled(e, n.colors)

	n.stage, n.stayTime, n.firstFull = 0, 0, true
	n.layStage(e)

	n.agentInit = sample[n.numStages]
	n.agentInitDir = minigrid.Direction(e.RandInt(0, minigrid.NumDirections))
	e.SetAgent(n.agentInit, n.agentInitDir)

	e.SetMission("visit the balls in the order they were shown")
	return nil
}

// ResetInfo implements the minigrid.Informer interface
func (n *NStageEmptyNoLoop) ResetInfo(*minigrid.Env) map[string]interface{} {
	if n.targetType == "" {
		return nil
	}
	return map[string]interface{}{"target_idx": n.targetIdx()}
}

// targetIdx returns the next target as a list of at most one index
func (n *NStageEmptyNoLoop) targetIdx() []int {
	if len(n.targets) == 0 {
		return []int{}
	}
	return append([]int(nil), n.targets[0])
}

// nextStage moves on to the next stage, returning the agent to its start
// when the final stage is first entered
func (n *NStageEmptyNoLoop) nextStage(e *minigrid.Env) {
	n.stage++
	n.stayTime = 0
	if n.final() {
		n.targets = n.targets[1:]
	}
	n.layStage(e)

	if n.final() && n.firstFull {
		n.firstFull = false
		e.SetAgent(n.agentInit, n.agentInitDir)
	}
}

// Resolve implements the minigrid.Task interface
func (n *NStageEmptyNoLoop) Resolve(e *minigrid.Env, _ minigrid.Action,
	out *minigrid.Outcome) error {
	out.Reward, out.Terminated = 0, false
	n.stayTime++

	switch {
	case onBall(e) && !n.final():
		if n.stageOne {
			out.Reward++
			n.nextStage(e)
		}

	case onBall(e):
		if e.AgentPos() != n.poses[n.targets[0]-1] {
			out.Reward--
			out.Terminated = true
			break
		}
		e.Remove(e.AgentPos())
		out.Reward += 2
		n.targets = n.targets[1:]
		if len(n.targets) == 0 {
			out.Reward++
			out.Terminated = true
		}

	case agentCell(e) == nil && n.stayTime >= n.stagePeriod && !n.final():
		n.nextStage(e)
	}

	if n.targetType != "" {
		out.SetInfo("target_idx", n.targetIdx())
	}
	return nil
}

// RewardRange implements the minigrid.Task interface
func (n *NStageEmptyNoLoop) RewardRange() r1.Interval {
	return rewardRange(-1, 3)
}

func init() {
	register("MiniGrid-NStageEmptyS7-v0", func() (Variant, error) {
		return NewNStageEmpty(7, 4, 100)
	})
	register("MiniGrid-NStageEmptyEnvNoLoopS7-v0", func() (Variant, error) {
		return NewNStageEmptyNoLoop(7, 4, 10, 100)
	})
	register("MiniGrid-NStageEmptyNoLoopPartialS7-v0", func() (Variant,
		error) {
		return NewNStageEmptyNoLoopPartial(7, 4, 10, 100, true, TargetFirst)
	})
}
