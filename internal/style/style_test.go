package style

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmitchellscott/bannermaster/internal/banner"
)

func TestLogoAnchors(t *testing.T) {
	tests := []struct {
		position       banner.LogoPosition
		x, y           float64
		shiftX, shiftY int
	}{
		{banner.LogoTopLeft, 0, 0, 0, 0},
		{banner.LogoTopCenter, 150, 0, -50, 0},
		{banner.LogoTopRight, 300, 0, -100, 0},
		{banner.LogoCenter, 150, 300, -50, -50},
		{banner.LogoBottomLeft, 0, 600, 0, -100},
		{banner.LogoBottomCenter, 150, 600, -50, -100},
		{banner.LogoBottomRight, 300, 600, -100, -100},
	}

	for _, tt := range tests {
		t.Run(string(tt.position), func(t *testing.T) {
			s := banner.Defaults()
			s.Width, s.Height = 300, 600
			s.LogoPosition = tt.position
			s.LogoOffsetX, s.LogoOffsetY = 0, 0

			p := ResolveLogo(s)
			if p.X != tt.x || p.Y != tt.y {
				t.Errorf("anchor = (%v, %v), want (%v, %v)", p.X, p.Y, tt.x, tt.y)
			}
			if p.ShiftX != tt.shiftX || p.ShiftY != tt.shiftY {
				t.Errorf("shift = (%d, %d), want (%d, %d)", p.ShiftX, p.ShiftY, tt.shiftX, tt.shiftY)
			}
		})
	}
}

func TestLogoBottomRightHasNoCenteringCorrection(t *testing.T) {
	s := banner.Defaults()
	s.LogoPosition = banner.LogoBottomRight

	cx, cy := ResolveLogo(s).Centered()
	assert.False(t, cx)
	assert.False(t, cy)

	s.LogoPosition = banner.LogoCenter
	cx, cy = ResolveLogo(s).Centered()
	assert.True(t, cx)
	assert.True(t, cy)
}

func TestLogoTransformAppendsOffset(t *testing.T) {
	s := banner.Defaults()
	s.LogoPosition = banner.LogoTopCenter
	s.LogoOffsetX, s.LogoOffsetY = 12, -4

	assert.Equal(t, "translate(-50%, 0) translate(12px, -4px)", ResolveLogo(s).Transform())

	s.LogoPosition = banner.LogoTopLeft
	assert.Equal(t, "translate(12px, -4px)", ResolveLogo(s).Transform())
}

func TestLogoUnknownAnchorFallsBackToTopLeft(t *testing.T) {
	s := banner.Defaults()
	s.LogoPosition = "middle-ish"
	s.LogoSize = 0

	p := ResolveLogo(s)
	assert.Equal(t, banner.LogoTopLeft, p.Position)
	assert.Equal(t, 64, p.Size)
}

func TestResolveBackground(t *testing.T) {
	tests := []struct {
		name     string
		typ      banner.BackgroundType
		value    string
		kind     BackgroundKind
		property string
		want     string
	}{
		{"flat", banner.BackgroundColor, "#ED2D26", FillFlat, "background-color", "#ED2D26"},
		{"flat invalid hex", banner.BackgroundColor, "red-ish", FillFlat, "background-color", FallbackColor},
		{"image", banner.BackgroundImage, "/uploads/a.png", FillImage, "background-image", "url('/uploads/a.png')"},
		{"image empty", banner.BackgroundImage, "  ", FillFlat, "background-color", FallbackColor},
		{"preset", banner.BackgroundAnimation, "2", FillAnimated, "background-size", "400% 400%"},
		{"unknown type", "video", "2", FillAnimated, "animation", "bannerGradient 10s ease infinite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := banner.Defaults()
			s.BackgroundType = tt.typ
			s.BackgroundValue = tt.value

			bg := ResolveBackground(s)
			if bg.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", bg.Kind, tt.kind)
			}
			got, ok := bg.Declarations().Get(tt.property)
			if !ok || got != tt.want {
				t.Errorf("%s = %q, want %q", tt.property, got, tt.want)
			}
		})
	}
}

func TestImageBackgroundDefaults(t *testing.T) {
	s := banner.Defaults()
	s.BackgroundType = banner.BackgroundImage
	s.BackgroundValue = "/uploads/bg.jpg"
	s.BackgroundSize = ""
	s.BackgroundPosition = ""

	bg := ResolveBackground(s)
	assert.Equal(t, "cover", bg.Fit)
	assert.Equal(t, "center", bg.Anchor)

	s.BackgroundSize = "contain"
	s.BackgroundPosition = "bottom-right"
	bg = ResolveBackground(s)
	assert.Equal(t, "contain", bg.Fit)
	assert.Equal(t, "bottom right", bg.Anchor)
}

func TestUnknownPresetFallsBackToFirst(t *testing.T) {
	s := banner.Defaults()
	s.BackgroundType = banner.BackgroundAnimation
	s.BackgroundValue = "99"

	bg := ResolveBackground(s)
	assert.True(t, bg.Fallback)
	assert.Equal(t, "1", bg.Preset.ID)

	first := Presets()[0]
	assert.Equal(t, first.Gradient(), bg.Preset.Gradient())
}

func TestResolversArePure(t *testing.T) {
	s := banner.Defaults()
	s.LogoPosition = banner.LogoCenter
	before := s.Clone()

	for i := 0; i < 3; i++ {
		assert.Equal(t, ResolveBackground(before), ResolveBackground(s))
		assert.Equal(t, ResolveLogo(before), ResolveLogo(s))
		assert.Equal(t, FontRequests(before), FontRequests(s))
	}
	assert.True(t, reflect.DeepEqual(before, s), "resolvers must not modify settings")
}

func TestFontWeight(t *testing.T) {
	tests := map[banner.Weight]int{
		banner.WeightNormal:    400,
		banner.WeightMedium:    500,
		banner.WeightSemibold:  600,
		banner.WeightBold:      700,
		banner.WeightExtrabold: 800,
		"":                     400,
		"heavy":                400,
	}
	for w, want := range tests {
		if got := FontWeight(w); got != want {
			t.Errorf("FontWeight(%q) = %d, want %d", w, got, want)
		}
	}
}

func TestFontRequests(t *testing.T) {
	s := banner.Defaults()
	s.HeadingFont = "Open Sans"
	s.HeadingWeight = banner.WeightBold
	s.SubTextFont = "Poppins"
	s.SubTextWeight = banner.WeightNormal
	s.ShowCta = true
	s.FooterTextFont = "Poppins"
	s.FooterTextWeight = banner.WeightSemibold

	got := FontRequests(s)
	want := []FontRequest{
		{Family: "Open Sans", Weights: []int{700}},
		{Family: "Poppins", Weights: []int{400, 500, 600}},
	}
	assert.Equal(t, want, got)
	assert.Equal(t,
		"https://fonts.googleapis.com/css2?family=Open+Sans:wght@700&family=Poppins:wght@400;500;600&display=swap",
		FontsURL(got))

	s.SubText = ""
	s.FooterText = ""
	s.ShowCta = false
	assert.Equal(t, []FontRequest{{Family: "Open Sans", Weights: []int{700}}}, FontRequests(s))
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		utm  UTM
		want string
	}{
		{"scheme and utm", "example.com", UTM{Source: "x", Campaign: "y"}, "https://example.com?utm_source=x&utm_campaign=y"},
		{"empty", "   ", UTM{Source: "x"}, ""},
		{"http kept", "http://example.com/a", UTM{}, "http://example.com/a"},
		{"existing query", "https://example.com/?ref=1", UTM{Medium: "banner"}, "https://example.com/?ref=1&utm_medium=banner"},
		{"fragment kept", "example.com/p#top", UTM{Source: "a b"}, "https://example.com/p?utm_source=a+b#top"},
		{"all three", "example.com", UTM{"s", "m", "c"}, "https://example.com?utm_source=s&utm_medium=m&utm_campaign=c"},
		{"other scheme kept", "ftp://files.example.com/a", UTM{}, "ftp://files.example.com/a"},
		{"mailto kept", "mailto:sales@example.com", UTM{}, "mailto:sales@example.com"},
		{"uppercase scheme kept", "HTTPS://example.com", UTM{}, "HTTPS://example.com"},
		{"host and port", "example.com:8080/p", UTM{}, "https://example.com:8080/p"},
		{"protocol relative", "//cdn.example.com", UTM{}, "https://cdn.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLink(tt.raw, tt.utm); got != tt.want {
				t.Errorf("ResolveLink(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClickTarget(t *testing.T) {
	s := banner.Defaults()
	s.ClickURL = "example.com"
	s.UtmSource = "x"
	s.UtmCampaign = "y"

	s.IsClickable = false
	assert.Empty(t, ClickTarget(s))

	s.IsClickable = true
	assert.Equal(t, "https://example.com?utm_source=x&utm_campaign=y", ClickTarget(s))
}

func TestTextDeclarations(t *testing.T) {
	s := banner.Defaults()
	s.HeadingWeight = banner.WeightBold
	s.HeadingColor = "not-a-color"
	s.HeadingFont = "Poppins;}<script>"

	decls := Heading(s).Declarations()
	weight, _ := decls.Get("font-weight")
	assert.Equal(t, "700", weight)
	color, _ := decls.Get("color")
	assert.Equal(t, "#fff7ea", color)
	family, _ := decls.Get("font-family")
	assert.NotContains(t, family, "<")
	assert.NotContains(t, family, ";")

	s.FooterPosition = banner.FooterTop
	_, pinned := FooterDeclarations(s).Get("position")
	assert.False(t, pinned)
	s.FooterPosition = banner.FooterBottom
	pos, _ := FooterDeclarations(s).Get("position")
	assert.Equal(t, "absolute", pos)
}

func TestDeclarationsSerialize(t *testing.T) {
	d := Declarations{{"width", "300px"}, {"height", "600px"}}
	assert.Equal(t, "width:300px;height:600px;", d.Inline())
	assert.Equal(t, "  .banner {\n    width:300px;\n    height:600px;\n  }\n", d.Rule(".banner", "  "))
}

func TestParsePresets(t *testing.T) {
	valid := []byte(`
presets:
  - id: "a"
    name: A
    angle: 90
    stops: ["#000", "#fff"]
    duration: 7.5s
`)
	p, err := ParsePresets(valid)
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.Equal(t, 7500*time.Millisecond, p[0].Duration)
	assert.Equal(t, "7.5s", p[0].DurationCSS())
	assert.Equal(t, "linear-gradient(90deg, #000, #fff)", p[0].Gradient())

	invalid := map[string]string{
		"empty":     "presets: []",
		"one stop":  "presets:\n  - id: a\n    stops: ['#000']\n    duration: 1s\n",
		"duplicate": "presets:\n  - id: a\n    stops: ['#000', '#fff']\n    duration: 1s\n  - id: a\n    stops: ['#000', '#fff']\n    duration: 1s\n",
		"duration":  "presets:\n  - id: a\n    stops: ['#000', '#fff']\n    duration: forever\n",
		"yaml":      "presets: [",
	}
	for name, data := range invalid {
		if _, err := ParsePresets([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestKeyframesCSS(t *testing.T) {
	css := KeyframesCSS()
	assert.True(t, strings.HasPrefix(css, "@keyframes bannerGradient {"))
	assert.Contains(t, css, "0% { background-position: 0% 50%; }")
	assert.Contains(t, css, "50% { background-position: 100% 50%; }")
}
