package experiment

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/samuelfneumann/gominigrid/agent"
	env "github.com/samuelfneumann/gominigrid/environment"
	"github.com/samuelfneumann/gominigrid/experiment/checkpointer"
	"github.com/samuelfneumann/gominigrid/experiment/tracker"
	ts "github.com/samuelfneumann/gominigrid/timestep"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps      uint
	maxEpisodes   uint
	currentSteps  uint
	episodes      uint
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer

	id     uuid.UUID
	logger *log.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The experiment ends after steps
// environment steps or episodes finished episodes, whichever comes
// first. A zero limit is ignored, but at least one limit must be set.
// The t parameter is a slice of tracker.Tracker which determine what
// data is saved and c a slice of checkpointers run on every step.
func NewOnline(e env.Environment, a agent.Agent, steps, episodes uint,
	t []tracker.Tracker, c []checkpointer.Checkpointer) (*Online, error) {
	if steps == 0 && episodes == 0 {
		return nil, fmt.Errorf("newOnline: a step or episode limit is " +
			"required")
	}

	id := uuid.New()
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "online",
	}).With("run", id.String()[:8])

	return &Online{
		Environment:   e,
		Agent:         a,
		maxSteps:      steps,
		maxEpisodes:   episodes,
		trackers:      t,
		checkpointers: c,
		id:            id,
		logger:        logger,
	}, nil
}

// ID returns the unique id of the experiment run
func (o *Online) ID() uuid.UUID { return o.id }

// SetLogger replaces the logger of the experiment
func (o *Online) SetLogger(l *log.Logger) { o.logger = l }

// Steps returns the number of environment steps taken so far
func (o *Online) Steps() uint { return o.currentSteps }

// Episodes returns the number of episodes finished so far
func (o *Online) Episodes() uint { return o.episodes }

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// done returns whether a limit of the experiment has been reached
func (o *Online) done() bool {
	return (o.maxSteps > 0 && o.currentSteps >= o.maxSteps) ||
		(o.maxEpisodes > 0 && o.episodes >= o.maxEpisodes)
}

// RunEpisode runs a single episode of the experiment and returns
// whether the experiment has finished
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return true, fmt.Errorf("runEpisode: could not reset: %v", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return true, fmt.Errorf("runEpisode: %v", err)
	}
	if err := o.track(step); err != nil {
		return true, err
	}

	episodeReturn := step.Reward
	for !step.Last() && !(o.maxSteps > 0 && o.currentSteps >= o.maxSteps) {
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return true, fmt.Errorf("runEpisode: could not step: %v", err)
		}
		episodeReturn += step.Reward

		if err := o.track(step); err != nil {
			return true, err
		}

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return true, fmt.Errorf("runEpisode: %v", err)
		}
		if err := o.Agent.Step(); err != nil {
			return true, fmt.Errorf("runEpisode: %v", err)
		}
	}

	if step.Last() {
		o.episodes++
		o.Agent.EndEpisode()
		o.logger.Debug("episode finished", "episode", o.episodes,
			"length", step.Number, "return", episodeReturn,
			"end", step.EndType())
	}

	return o.done(), nil
}

// Run runs the entire experiment until a limit is reached
func (o *Online) Run() error {
	o.logger.Info("starting experiment", "env", o.Environment,
		"max_steps", o.maxSteps, "max_episodes", o.maxEpisodes)

	for ended := false; !ended; {
		var err error
		if ended, err = o.RunEpisode(); err != nil {
			return err
		}
	}

	o.logger.Info("experiment finished", "steps", o.currentSteps,
		"episodes", o.episodes)
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// track tracks the current timestep by caching its data in each
// tracker and running each checkpointer
func (o *Online) track(t ts.TimeStep) error {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return fmt.Errorf("track: could not checkpoint: %v", err)
		}
	}
	return nil
}
