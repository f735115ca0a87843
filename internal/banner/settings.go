// Package banner defines the banner configuration value shared by the editor
// and both renderers.
package banner

// BackgroundType selects how the banner background is painted.
type BackgroundType string

const (
	BackgroundColor     BackgroundType = "color"
	BackgroundImage     BackgroundType = "image"
	BackgroundAnimation BackgroundType = "animation"
)

// Weight is a symbolic font weight.
type Weight string

const (
	WeightNormal    Weight = "normal"
	WeightMedium    Weight = "medium"
	WeightSemibold  Weight = "semibold"
	WeightBold      Weight = "bold"
	WeightExtrabold Weight = "extrabold"
)

// Align is a horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// LogoPosition is one of the seven logo anchors.
type LogoPosition string

const (
	LogoTopLeft      LogoPosition = "top-left"
	LogoTopCenter    LogoPosition = "top-center"
	LogoTopRight     LogoPosition = "top-right"
	LogoCenter       LogoPosition = "center"
	LogoBottomLeft   LogoPosition = "bottom-left"
	LogoBottomCenter LogoPosition = "bottom-center"
	LogoBottomRight  LogoPosition = "bottom-right"
)

// FooterPosition selects between the inline and the pinned footer.
type FooterPosition string

const (
	// FooterTop places the footer inline, directly after the content stack.
	FooterTop FooterPosition = "top"
	// FooterBottom pins the footer to the bottom edge of the banner.
	FooterBottom FooterPosition = "bottom"
)

// Settings is the complete configuration of one banner. It is treated as an
// immutable value: edits produce a new Settings through Merge.
type Settings struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	BackgroundType     BackgroundType `json:"backgroundType"`
	BackgroundValue    string         `json:"backgroundValue"`
	BackgroundSize     string         `json:"backgroundSize"`
	BackgroundPosition string         `json:"backgroundPosition"`

	HeadingText           string   `json:"headingText"`
	HeadingFont           string   `json:"headingFont"`
	HeadingSize           int      `json:"headingSize"`
	HeadingColor          string   `json:"headingColor"`
	HeadingAlign          Align    `json:"headingAlign"`
	HeadingWeight         Weight   `json:"headingWeight"`
	HeadingOffsetX        int      `json:"headingOffsetX"`
	HeadingOffsetY        int      `json:"headingOffsetY"`
	HeadingMarginTop      int      `json:"headingMarginTop"`
	HeadingMarginBottom   int      `json:"headingMarginBottom"`
	IsHeadingAnimated     bool     `json:"isHeadingAnimated"`
	HeadingAnimationTexts []string `json:"headingAnimationTexts"`

	SubText               string   `json:"subText"`
	SubTextFont           string   `json:"subTextFont"`
	SubTextSize           int      `json:"subTextSize"`
	SubTextColor          string   `json:"subTextColor"`
	SubTextWeight         Weight   `json:"subTextWeight"`
	SubTextAlign          Align    `json:"subTextAlign"`
	SubOffsetX            int      `json:"subOffsetX"`
	SubOffsetY            int      `json:"subOffsetY"`
	SubtextMarginBottom   int      `json:"subtextMarginBottom"`
	IsSubTextAnimated     bool     `json:"isSubTextAnimated"`
	SubTextAnimationTexts []string `json:"subTextAnimationTexts"`

	ShowCta            bool   `json:"showCta"`
	CtaText            string `json:"ctaText"`
	CtaBackgroundColor string `json:"ctaBackgroundColor"`
	CtaTextColor       string `json:"ctaTextColor"`
	ButtonBorderRadius int    `json:"buttonBorderRadius"`
	CtaURL             string `json:"ctaUrl"`
	CtaOffsetX         int    `json:"ctaOffsetX"`
	CtaOffsetY         int    `json:"ctaOffsetY"`

	LogoPath     string       `json:"logoPath"`
	LogoPosition LogoPosition `json:"logoPosition"`
	LogoSize     int          `json:"logoSize"`
	LogoOffsetX  int          `json:"logoOffsetX"`
	LogoOffsetY  int          `json:"logoOffsetY"`

	FooterText       string         `json:"footerText"`
	FooterTextFont   string         `json:"footerTextFont"`
	FooterTextSize   int            `json:"footerTextSize"`
	FooterTextColor  string         `json:"footerTextColor"`
	FooterTextWeight Weight         `json:"footerTextWeight"`
	FooterTextAlign  Align          `json:"footerTextAlign"`
	FooterPosition   FooterPosition `json:"footerPosition"`
	FooterOffsetX    int            `json:"footerOffsetX"`
	FooterOffsetY    int            `json:"footerOffsetY"`

	IsClickable bool   `json:"isClickable"`
	ClickURL    string `json:"clickUrl"`
	UtmSource   string `json:"utmSource"`
	UtmMedium   string `json:"utmMedium"`
	UtmCampaign string `json:"utmCampaign"`

	BrandColors []string `json:"brandColors"`
}

// PlaceholderHeading is shown when the heading text is empty.
const PlaceholderHeading = "Default Heading"

// Defaults returns the settings a fresh editor starts with.
func Defaults() Settings {
	return Settings{
		Width:  300,
		Height: 600,

		BackgroundType:     BackgroundAnimation,
		BackgroundValue:    "1",
		BackgroundSize:     "cover",
		BackgroundPosition: "center",

		HeadingText:           "Your Brand Message",
		HeadingFont:           "Poppins",
		HeadingSize:           24,
		HeadingColor:          "#fff7ea",
		HeadingAlign:          AlignCenter,
		HeadingWeight:         WeightBold,
		HeadingMarginTop:      50,
		HeadingMarginBottom:   5,
		HeadingAnimationTexts: []string{},

		SubText:               "Discover our amazing products",
		SubTextFont:           "Poppins",
		SubTextSize:           14,
		SubTextColor:          "#fff7ea",
		SubTextWeight:         WeightMedium,
		SubTextAlign:          AlignCenter,
		SubtextMarginBottom:   10,
		SubTextAnimationTexts: []string{},

		CtaText:            "Learn More",
		CtaBackgroundColor: "#fff7ea",
		CtaTextColor:       "#202020",
		ButtonBorderRadius: 4,
		CtaURL:             "https://example.com",

		LogoPosition: LogoTopCenter,
		LogoSize:     64,

		FooterText:       "Terms and conditions apply",
		FooterTextFont:   "Poppins",
		FooterTextSize:   10,
		FooterTextColor:  "#fff7ea",
		FooterTextWeight: WeightNormal,
		FooterTextAlign:  AlignCenter,
		FooterPosition:   FooterBottom,

		ClickURL: "https://example.com",

		BrandColors: []string{"#ED2D26", "#f4817d", "#fff7ea", "#202020"},
	}
}

// Clone returns a deep copy so slices are never shared between values.
func (s Settings) Clone() Settings {
	s.HeadingAnimationTexts = cloneStrings(s.HeadingAnimationTexts)
	s.SubTextAnimationTexts = cloneStrings(s.SubTextAnimationTexts)
	s.BrandColors = cloneStrings(s.BrandColors)
	return s
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// HeadingDisplay is the static heading text, or the placeholder when empty.
func (s Settings) HeadingDisplay() string {
	if s.HeadingText == "" {
		return PlaceholderHeading
	}
	return s.HeadingText
}

// HeadingCycleTexts is the heading list the renderers cycle through.
// Empty entries are skipped.
func (s Settings) HeadingCycleTexts() []string {
	return nonEmpty(s.HeadingAnimationTexts)
}

// SubTextCycleTexts is the subtext list the renderers cycle through.
// Empty entries are skipped.
func (s Settings) SubTextCycleTexts() []string {
	return nonEmpty(s.SubTextAnimationTexts)
}

// HeadingCycles reports whether the heading is in animated mode with a usable list.
func (s Settings) HeadingCycles() bool {
	return s.IsHeadingAnimated && len(s.HeadingCycleTexts()) > 0
}

// SubTextCycles reports whether the subtext is in animated mode with a usable list.
func (s Settings) SubTextCycles() bool {
	return s.IsSubTextAnimated && len(s.SubTextCycleTexts()) > 0
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FooterPinned reports whether the footer is pinned to the bottom edge.
// Anything other than "top" is treated as pinned.
func (s Settings) FooterPinned() bool {
	return s.FooterPosition != FooterTop
}

// SubTextDisplay is the static subtext. An empty value omits the block.
func (s Settings) SubTextDisplay() string {
	return s.SubText
}

// InitialHeading is the heading shown before the first cycling tick.
func (s Settings) InitialHeading() string {
	if s.HeadingCycles() {
		return s.HeadingCycleTexts()[0]
	}
	return s.HeadingDisplay()
}

// InitialSubText is the subtext shown before the first cycling tick.
func (s Settings) InitialSubText() string {
	if s.SubTextCycles() {
		return s.SubTextCycleTexts()[0]
	}
	return s.SubText
}
