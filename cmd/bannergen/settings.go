package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rmitchellscott/bannermaster/internal/banner"
)

// loadSettings reads a settings JSON file ("-" for stdin) and merges it over
// the editor defaults.
func loadSettings(path string, stdin io.Reader) (banner.Settings, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return banner.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	s, err := banner.Merge(banner.Defaults(), data)
	if err != nil {
		return banner.Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
