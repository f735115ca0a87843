package style

import (
	"strings"

	"github.com/rmitchellscott/bannermaster/internal/banner"
)

// KeyframesName is the animation name used by animated gradient backgrounds.
const KeyframesName = "bannerGradient"

// FallbackColor paints color backgrounds whose value is not a hex color.
const FallbackColor = "#202020"

// BackgroundKind is the resolved background fill.
type BackgroundKind string

const (
	FillFlat     BackgroundKind = "flat"
	FillImage    BackgroundKind = "image"
	FillAnimated BackgroundKind = "animated"
)

// Background describes how the banner background is painted.
type Background struct {
	Kind BackgroundKind

	// FillFlat
	Color string

	// FillImage
	ImageURL string
	Fit      string
	Anchor   string

	// FillAnimated
	Preset Preset
	// Fallback is true when the requested preset id was unknown.
	Fallback bool
}

var fitModes = map[string]bool{"cover": true, "contain": true, "auto": true}

var imageAnchors = map[string]string{
	"center":       "center",
	"top":          "top",
	"bottom":       "bottom",
	"left":         "left",
	"right":        "right",
	"top-left":     "top left",
	"top-right":    "top right",
	"bottom-left":  "bottom left",
	"bottom-right": "bottom right",
}

// ResolveBackground maps the background fields of s to a descriptor. It
// never fails: mismatched values degrade to the fallback color or the first
// gradient preset.
func ResolveBackground(s banner.Settings) Background {
	switch s.BackgroundType {
	case banner.BackgroundColor:
		if banner.IsHexColor(s.BackgroundValue) {
			return Background{Kind: FillFlat, Color: s.BackgroundValue}
		}
		return Background{Kind: FillFlat, Color: FallbackColor}

	case banner.BackgroundImage:
		if strings.TrimSpace(s.BackgroundValue) == "" {
			return Background{Kind: FillFlat, Color: FallbackColor}
		}
		fit := s.BackgroundSize
		if !fitModes[fit] {
			fit = "cover"
		}
		anchor, ok := imageAnchors[s.BackgroundPosition]
		if !ok {
			anchor = "center"
		}
		return Background{Kind: FillImage, ImageURL: strings.TrimSpace(s.BackgroundValue), Fit: fit, Anchor: anchor}

	default:
		preset, ok := LookupPreset(s.BackgroundValue)
		return Background{Kind: FillAnimated, Preset: preset, Fallback: !ok || s.BackgroundType != banner.BackgroundAnimation}
	}
}

// Animated reports whether the background needs the gradient keyframes.
func (b Background) Animated() bool {
	return b.Kind == FillAnimated
}

// Declarations returns the CSS for the background.
func (b Background) Declarations() Declarations {
	switch b.Kind {
	case FillFlat:
		return Declarations{{"background-color", b.Color}}
	case FillImage:
		return Declarations{
			{"background-image", cssURL(b.ImageURL)},
			{"background-size", b.Fit},
			{"background-position", b.Anchor},
			{"background-repeat", "no-repeat"},
		}
	default:
		return Declarations{
			{"background-image", b.Preset.Gradient()},
			{"background-size", "400% 400%"},
			{"animation", KeyframesName + " " + b.Preset.DurationCSS() + " ease infinite"},
		}
	}
}

// KeyframesCSS is the position-cycling rule referenced by animated backgrounds.
func KeyframesCSS() string {
	return "@keyframes " + KeyframesName + " {\n" +
		"  0% { background-position: 0% 50%; }\n" +
		"  50% { background-position: 100% 50%; }\n" +
		"  100% { background-position: 0% 50%; }\n" +
		"}\n"
}
