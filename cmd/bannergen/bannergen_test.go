package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		documentOutput = ""
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadSettingsMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banner.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"width":728,"height":90,"headingText":"Hi"}`), 0644))

	s, err := loadSettings(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 728, s.Width)
	assert.Equal(t, "Hi", s.HeadingText)
	assert.Equal(t, "Poppins", s.HeadingFont)

	_, err = loadSettings(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)

	_, err = loadSettings("-", strings.NewReader(`[]`))
	assert.Error(t, err)
}

func TestDocumentCommandToStdout(t *testing.T) {
	out, err := run(t, `{"headingText":"From stdin"}`, "document", "-", "-o", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, ">From stdin</h1>")
}

func TestDocumentCommandToFile(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "banner.json")
	require.NoError(t, os.WriteFile(settings, []byte(`{"width":160,"height":600}`), 0644))
	target := filepath.Join(dir, "out.html")

	_, err := run(t, "", "document", settings, "-o", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `content="width=160"`)
}

func TestPresetsCommand(t *testing.T) {
	out, err := run(t, "", "presets")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1 "))
	assert.Contains(t, out, "linear-gradient(")
}
