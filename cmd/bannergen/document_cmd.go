package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmitchellscott/bannermaster/internal/document"
)

var documentOutput string

var documentCmd = &cobra.Command{
	Use:   "document <settings.json>",
	Short: "Generate the standalone HTML document of a banner",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocument,
}

func init() {
	rootCmd.AddCommand(documentCmd)
	documentCmd.Flags().StringVarP(&documentOutput, "output", "o", "", "Output file (default banner-WxH.html, - for stdout)")
}

func runDocument(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	out := documentOutput
	if out == "" {
		out = document.Filename(s)
	}
	if err := writeOutput(out, []byte(document.Generate(s)), cmd.OutOrStdout()); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
	}
	return nil
}
