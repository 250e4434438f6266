// Command gominigrid lists, shows and runs agents on the minigrid
// benchmark environments
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	_ "github.com/samuelfneumann/gominigrid/agent/qlearning"
	_ "github.com/samuelfneumann/gominigrid/agent/random"
	_ "github.com/samuelfneumann/gominigrid/minigrid/envs"
	"github.com/spf13/cobra"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "gominigrid",
})

func main() {
	// A .env file may set MINIGRID_LOG_LEVEL and MINIGRID_OUT
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env")
	}
	if lvl := os.Getenv("MINIGRID_LOG_LEVEL"); lvl != "" {
		level, err := log.ParseLevel(lvl)
		if err != nil {
			logger.Warn("ignoring log level", "level", lvl, "err", err)
		} else {
			logger.SetLevel(level)
		}
	}

	rootCmd := &cobra.Command{
		Use:          "gominigrid",
		Short:        "Gridworld benchmark environments for reinforcement learning",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newListCmd(), newShowCmd(), newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
