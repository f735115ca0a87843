// Command bannergen renders banner settings files offline: the standalone
// HTML document or a 2x PNG export.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rmitchellscott/bannermaster/internal/config"
	"github.com/rmitchellscott/bannermaster/internal/logging"
	"github.com/rmitchellscott/bannermaster/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "bannergen",
	Short:         "Render banner settings to HTML documents and PNG images",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(os.Stderr, config.Get("LOG_LEVEL", "warn"), config.Get("LOG_FORMAT", "text"))
	},
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		logging.Error("bannergen failed", "error", err)
		os.Exit(1)
	}
}
