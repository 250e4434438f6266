package main

import (
	"fmt"

	"github.com/samuelfneumann/gominigrid/environment/envconfig"
	"github.com/samuelfneumann/gominigrid/render"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var (
		seed uint64
		png  string
		tile int
	)
	cmd := &cobra.Command{
		Use:   "show <env-id>",
		Short: "Print the first state of an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := envconfig.Create(args[0], seed, 1)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render.Header(e))
			fmt.Fprintln(out, render.Text(e))

			if png != "" {
				if err := render.SavePNG(e, tile, png); err != nil {
					return err
				}
				logger.Info("saved image", "path", png)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "environment seed")
	cmd.Flags().StringVar(&png, "png", "", "also save the state as a PNG")
	cmd.Flags().IntVar(&tile, "tile", render.DefaultTile,
		"pixel size of a cell in the PNG")
	return cmd
}
