package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/gominigrid/agent"
	"github.com/samuelfneumann/gominigrid/agent/qlearning"
	"github.com/samuelfneumann/gominigrid/agent/random"
	"github.com/samuelfneumann/gominigrid/environment/envconfig"
	"github.com/samuelfneumann/gominigrid/experiment"
	"github.com/samuelfneumann/gominigrid/experiment/checkpointer"
	"github.com/samuelfneumann/gominigrid/experiment/tracker"
	"github.com/samuelfneumann/gominigrid/experiment/trackers"
	"github.com/samuelfneumann/gominigrid/minigrid"
	"github.com/samuelfneumann/gominigrid/render"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"github.com/samuelfneumann/gominigrid/utils/progressbar"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type runOptions struct {
	config   string
	env      string
	seed     uint64
	discount float64
	episodes uint
	steps    uint

	agent        string
	epsilon      float64
	learningRate float64
	obs          string
	avgRate      float64

	render     bool
	frames     string
	frameEvery int
	tile       int
	out        string
	progress   bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an agent on an environment",
		Long: "Run an agent on an environment, either configured with " +
			"flags or with a YAML experiment file (--config).",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.experimentConfig(cmd)
			if err != nil {
				return err
			}
			return runExperiment(cmd.OutOrStdout(), c, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.config, "config", "", "YAML experiment configuration")
	f.StringVarP(&opts.env, "env", "e", "MiniGrid-Delayed-D5-7x7-v0",
		"environment id")
	f.Uint64Var(&opts.seed, "seed", 0, "environment and agent seed")
	f.Float64Var(&opts.discount, "discount", 0.99, "discount factor")
	f.UintVarP(&opts.episodes, "episodes", "n", 10, "episodes to run")
	f.UintVar(&opts.steps, "steps", 0, "maximum steps to run (0: no limit)")
	f.StringVar(&opts.agent, "agent", string(agent.Random),
		fmt.Sprintf("agent type, one of %v", agent.Types()))
	f.Float64Var(&opts.epsilon, "epsilon", 0.1, "ε of the ε-greedy agent")
	f.Float64Var(&opts.learningRate, "lr", 0.01,
		"learning rate of the learning agent")
	f.StringVar(&opts.obs, "obs", string(experiment.View),
		"observation: view, full, onehot, fullonehot or xy")
	f.Float64Var(&opts.avgRate, "avg-reward-rate", 0,
		"learn differential rewards at this rate (0: discounted)")
	f.BoolVar(&opts.render, "render", false, "print every step")
	f.StringVar(&opts.frames, "frames", "",
		"directory to save PNG frames in")
	f.IntVar(&opts.frameEvery, "frame-every", 1, "save a frame every n steps")
	f.IntVar(&opts.tile, "tile", render.DefaultTile,
		"pixel size of a cell in frames")
	f.StringVarP(&opts.out, "out", "o", os.Getenv("MINIGRID_OUT"),
		"directory to save tracked data in")
	f.BoolVar(&opts.progress, "progress", false, "display a progress bar")
	return cmd
}

// experimentConfig returns the configuration of the experiment to run.
// Flags set on the command line override a configuration file.
func (o runOptions) experimentConfig(cmd *cobra.Command) (experiment.Config,
	error) {
	var c experiment.Config
	if o.config != "" {
		var err error
		if c, err = experiment.LoadConfig(o.config); err != nil {
			return c, err
		}
	} else {
		c = experiment.Config{
			Type:    experiment.OnlineExp,
			EnvConf: envconfig.NewConfig(o.env, o.seed, o.discount),
		}
	}

	changed := func(name string) bool {
		return o.config == "" || cmd.Flags().Changed(name)
	}
	if changed("env") {
		c.EnvConf.Environment = o.env
	}
	if changed("seed") {
		c.EnvConf.Seed = o.seed
	}
	if changed("discount") {
		c.EnvConf.Discount = o.discount
	}
	if changed("episodes") {
		c.MaxEpisodes = o.episodes
	}
	if changed("steps") {
		c.MaxSteps = o.steps
	}
	if changed("obs") {
		c.Observation = experiment.Observation(o.obs)
	}
	if changed("avg-reward-rate") {
		c.AverageRewardRate = o.avgRate
	}
	if changed("agent") || changed("epsilon") || changed("lr") {
		switch agent.Type(o.agent) {
		case agent.Random:
			c.AgentConf = agent.NewTypedConfig(random.Config{})
		case agent.EGreedyQLearningLinear, "qlearning":
			c.AgentConf = agent.NewTypedConfig(qlearning.Config{
				Epsilon:      o.epsilon,
				LearningRate: o.learningRate,
			})
		default:
			return c, fmt.Errorf("no such agent %q", o.agent)
		}
	}

	return c, c.Validate()
}

func runExperiment(out io.Writer, c experiment.Config, opts runOptions) error {
	e, wrapped, err := c.CreateEnv()
	if err != nil {
		return err
	}
	a, err := c.AgentConf.CreateAgent(wrapped, c.EnvConf.Seed)
	if err != nil {
		return fmt.Errorf("could not create agent: %v", err)
	}

	var checks []checkpointer.Checkpointer
	if opts.frames != "" {
		if err := os.MkdirAll(opts.frames, 0o755); err != nil {
			return err
		}
		frames, err := checkpointer.NewNStep(opts.frameEvery,
			render.Frame{Env: e, Tile: opts.tile},
			checkpointer.FilenameEnumerator(0,
				filepath.Join(opts.frames, "frame"), ".png"))
		if err != nil {
			return err
		}
		checks = append(checks, frames)
	}

	o, err := experiment.NewOnline(wrapped, a, c.MaxSteps, c.MaxEpisodes,
		nil, checks)
	if err != nil {
		return err
	}
	o.SetLogger(logger.With("run", o.ID().String()[:8]))

	filename := func(name string) string {
		if opts.out == "" {
			return ""
		}
		return filepath.Join(opts.out, fmt.Sprintf("%v-%v.bin", o.ID(), name))
	}

	// Returns are those of the environment even when the agent learns
	// from differential rewards
	returns := trackers.NewReturn(filename("returns"))
	lengths := trackers.NewEpisodeLength(filename("lengths"))
	ends := trackers.NewTerminations(filename("terminations"))
	o.Register(tracker.Register(returns, e))
	o.Register(lengths)
	o.Register(ends)

	if opts.render {
		o.Register(&textRenderer{e: e, out: out})
	}
	if opts.progress {
		total := c.MaxEpisodes
		if total == 0 {
			total = c.MaxSteps
		}
		bar := progressbar.NewManualProgressBar(os.Stderr, 40, int(total))
		o.Register(&progress{bar: bar, perEpisode: c.MaxEpisodes > 0})
	}

	if err := o.Run(); err != nil {
		return err
	}

	if opts.out != "" {
		if err := os.MkdirAll(opts.out, 0o755); err != nil {
			return err
		}
		if err := o.Save(); err != nil {
			return err
		}
		logger.Info("saved data", "dir", opts.out)
	}

	fmt.Fprintf(out, "%v: %v episodes, %v steps\n", c.EnvConf, o.Episodes(),
		o.Steps())
	fmt.Fprintln(out, summarize("return", returns.Data()))
	fmt.Fprintln(out, summarize("length", lengths.Data()))
	fmt.Fprintln(out, summarize("terminated", ends.Data()))
	return nil
}

// summarize returns the mean, standard deviation, minimum and maximum
// of data
func summarize(name string, data []float64) string {
	if len(data) == 0 {
		return fmt.Sprintf("%-10v no finished episodes", name)
	}
	mean, std := stat.MeanStdDev(data, nil)
	if len(data) == 1 {
		std = 0
	}
	return fmt.Sprintf("%-10v mean %.3f  std %.3f  min %.3f  max %.3f",
		name, mean, std, floats.Min(data), floats.Max(data))
}

// textRenderer prints the environment on every step
type textRenderer struct {
	e   *minigrid.Env
	out io.Writer
}

func (r *textRenderer) Track(t ts.TimeStep) {
	fmt.Fprintf(r.out, "%v\n%v\nreward: %.3f\n\n", render.Header(r.e),
		render.Text(r.e), t.Reward)
}

func (r *textRenderer) Save() error { return nil }

// progress displays a progress bar over episodes or steps
type progress struct {
	bar        *progressbar.ManualProgressBar
	perEpisode bool
}

func (p *progress) Track(t ts.TimeStep) {
	if (p.perEpisode && t.Last()) || (!p.perEpisode && !t.First()) {
		p.bar.Increment()
		p.bar.Display()
	}
}

func (p *progress) Save() error { return nil }
