package main

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/gominigrid/environment/envconfig"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all registered environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			n := 0
			for _, id := range envconfig.List() {
				if strings.Contains(id, filter) {
					fmt.Fprintln(out, id)
					n++
				}
			}
			if n == 0 {
				return fmt.Errorf("no environment matches %q", filter)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "",
		"only list ids containing this string")
	return cmd
}
