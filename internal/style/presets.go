package style

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is an animated gradient background.
type Preset struct {
	ID       string
	Name     string
	Angle    int
	Stops    []string
	Duration time.Duration
}

// Gradient returns the CSS linear-gradient value for the preset.
func (p Preset) Gradient() string {
	return fmt.Sprintf("linear-gradient(%ddeg, %s)", p.Angle, strings.Join(p.Stops, ", "))
}

// DurationCSS formats the cycle duration as a CSS time ("10s", "7.5s").
func (p Preset) DurationCSS() string {
	return strconv.FormatFloat(p.Duration.Seconds(), 'f', -1, 64) + "s"
}

type presetFile struct {
	Presets []struct {
		ID       string   `yaml:"id"`
		Name     string   `yaml:"name"`
		Angle    int      `yaml:"angle"`
		Stops    []string `yaml:"stops"`
		Duration string   `yaml:"duration"`
	} `yaml:"presets"`
}

// ParsePresets decodes a preset table. Order is preserved; ids must be unique.
func ParsePresets(data []byte) ([]Preset, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse preset table: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("preset table is empty")
	}

	seen := make(map[string]bool, len(file.Presets))
	presets := make([]Preset, 0, len(file.Presets))
	for _, raw := range file.Presets {
		if raw.ID == "" || seen[raw.ID] {
			return nil, fmt.Errorf("preset id %q is empty or duplicated", raw.ID)
		}
		seen[raw.ID] = true
		if len(raw.Stops) < 2 {
			return nil, fmt.Errorf("preset %s needs at least two color stops", raw.ID)
		}
		d, err := time.ParseDuration(raw.Duration)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("preset %s has invalid duration %q", raw.ID, raw.Duration)
		}
		presets = append(presets, Preset{
			ID:       raw.ID,
			Name:     raw.Name,
			Angle:    raw.Angle,
			Stops:    raw.Stops,
			Duration: d,
		})
	}
	return presets, nil
}

var presets = mustParsePresets(presetsYAML)

func mustParsePresets(data []byte) []Preset {
	p, err := ParsePresets(data)
	if err != nil {
		panic(err)
	}
	return p
}

// Presets returns a copy of the gradient preset table in table order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset returns the preset with the given id, falling back to the
// first preset of the table. ok is false when the fallback was used.
func LookupPreset(id string) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return presets[0], false
}
