package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmitchellscott/bannermaster/internal/style"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the animated gradient presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, p := range style.Presets() {
			if _, err := fmt.Fprintf(w, "%-4s %-18s %-6s %s\n", p.ID, p.Name, p.DurationCSS(), p.Gradient()); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
