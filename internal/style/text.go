package style

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rmitchellscott/bannermaster/internal/banner"
)

// FontWeight maps a symbolic weight to its numeric value. Unknown or empty
// weights resolve to 400.
func FontWeight(w banner.Weight) int {
	switch w {
	case banner.WeightMedium:
		return 500
	case banner.WeightSemibold:
		return 600
	case banner.WeightBold:
		return 700
	case banner.WeightExtrabold:
		return 800
	default:
		return 400
	}
}

// CTAWeight is the fixed numeric weight of the call-to-action label.
const CTAWeight = 500

const defaultTextColor = "#fff7ea"

// TextBlock is the resolved typography of one text element.
type TextBlock struct {
	Font         string
	Size         int
	Color        string
	Weight       int
	Align        string
	OffsetX      int
	OffsetY      int
	MarginTop    int
	MarginBottom int
}

func textColor(c string) string {
	if banner.IsHexColor(c) {
		return c
	}
	return defaultTextColor
}

func textAlign(a banner.Align) string {
	switch a {
	case banner.AlignLeft, banner.AlignRight, banner.AlignCenter:
		return string(a)
	default:
		return string(banner.AlignCenter)
	}
}

func fontFamily(f string) string {
	f = sanitizeValue(f)
	if f == "" {
		return "Poppins"
	}
	return f
}

// Heading resolves the heading typography.
func Heading(s banner.Settings) TextBlock {
	return TextBlock{
		Font:         fontFamily(s.HeadingFont),
		Size:         s.HeadingSize,
		Color:        textColor(s.HeadingColor),
		Weight:       FontWeight(s.HeadingWeight),
		Align:        textAlign(s.HeadingAlign),
		OffsetX:      s.HeadingOffsetX,
		OffsetY:      s.HeadingOffsetY,
		MarginTop:    s.HeadingMarginTop,
		MarginBottom: s.HeadingMarginBottom,
	}
}

// SubText resolves the subtext typography.
func SubText(s banner.Settings) TextBlock {
	return TextBlock{
		Font:         fontFamily(s.SubTextFont),
		Size:         s.SubTextSize,
		Color:        textColor(s.SubTextColor),
		Weight:       FontWeight(s.SubTextWeight),
		Align:        textAlign(s.SubTextAlign),
		OffsetX:      s.SubOffsetX,
		OffsetY:      s.SubOffsetY,
		MarginBottom: s.SubtextMarginBottom,
	}
}

// Footer resolves the footer typography.
func Footer(s banner.Settings) TextBlock {
	return TextBlock{
		Font:    fontFamily(s.FooterTextFont),
		Size:    s.FooterTextSize,
		Color:   textColor(s.FooterTextColor),
		Weight:  FontWeight(s.FooterTextWeight),
		Align:   textAlign(s.FooterTextAlign),
		OffsetX: s.FooterOffsetX,
		OffsetY: s.FooterOffsetY,
	}
}

// Declarations returns the inline CSS of the block.
func (t TextBlock) Declarations() Declarations {
	return Declarations{
		{"font-family", "'" + t.Font + "', sans-serif"},
		{"font-size", px(t.Size)},
		{"font-weight", strconv.Itoa(t.Weight)},
		{"color", t.Color},
		{"text-align", t.Align},
		{"margin", px(t.MarginTop) + " 0 " + px(t.MarginBottom)},
		{"transform", translate(t.OffsetX, t.OffsetY)},
	}
}

// FooterDeclarations adds the pinned or inline placement to the footer block.
func FooterDeclarations(s banner.Settings) Declarations {
	decls := Footer(s).Declarations()
	if s.FooterPinned() {
		decls = append(decls,
			Declaration{"position", "absolute"},
			Declaration{"left", "0"},
			Declaration{"right", "0"},
			Declaration{"bottom", "16px"},
		)
	}
	return decls
}

// CTADeclarations returns the inline CSS of the call-to-action button.
func CTADeclarations(s banner.Settings) Declarations {
	bg := s.CtaBackgroundColor
	if !banner.IsHexColor(bg) {
		bg = "#fff7ea"
	}
	fg := s.CtaTextColor
	if !banner.IsHexColor(fg) {
		fg = "#202020"
	}
	return Declarations{
		{"display", "inline-block"},
		{"align-self", "center"},
		{"margin-top", "16px"},
		{"padding", "6px 16px"},
		{"background-color", bg},
		{"color", fg},
		{"border-radius", px(s.ButtonBorderRadius)},
		{"font-family", "'" + fontFamily(s.SubTextFont) + "', sans-serif"},
		{"font-size", "14px"},
		{"font-weight", strconv.Itoa(CTAWeight)},
		{"text-decoration", "none"},
		{"transform", translate(s.CtaOffsetX, s.CtaOffsetY)},
		{"position", "relative"},
		{"z-index", strconv.Itoa(ZCTA)},
		{"cursor", "pointer"},
	}
}

// FontRequest is one web font family with the weights the banner uses.
type FontRequest struct {
	Family  string
	Weights []int
}

// FontRequests lists the families and numeric weights used by the rendered
// text blocks, sorted by family with ascending weights.
func FontRequests(s banner.Settings) []FontRequest {
	used := map[string]map[int]bool{}
	add := func(family string, weight int) {
		if used[family] == nil {
			used[family] = map[int]bool{}
		}
		used[family][weight] = true
	}

	h := Heading(s)
	add(h.Font, h.Weight)
	if s.SubText != "" || s.SubTextCycles() {
		st := SubText(s)
		add(st.Font, st.Weight)
	}
	if s.ShowCta {
		add(fontFamily(s.SubTextFont), CTAWeight)
	}
	if s.FooterText != "" {
		f := Footer(s)
		add(f.Font, f.Weight)
	}

	families := make([]string, 0, len(used))
	for family := range used {
		families = append(families, family)
	}
	sort.Strings(families)

	requests := make([]FontRequest, 0, len(families))
	for _, family := range families {
		weights := make([]int, 0, len(used[family]))
		for w := range used[family] {
			weights = append(weights, w)
		}
		sort.Ints(weights)
		requests = append(requests, FontRequest{Family: family, Weights: weights})
	}
	return requests
}

// FontsURL builds the Google Fonts css2 URL for the requests, or "" when
// there is nothing to load.
func FontsURL(requests []FontRequest) string {
	if len(requests) == 0 {
		return ""
	}
	parts := make([]string, 0, len(requests))
	for _, r := range requests {
		weights := make([]string, len(r.Weights))
		for i, w := range r.Weights {
			weights[i] = strconv.Itoa(w)
		}
		parts = append(parts, "family="+strings.ReplaceAll(r.Family, " ", "+")+":wght@"+strings.Join(weights, ";"))
	}
	return "https://fonts.googleapis.com/css2?" + strings.Join(parts, "&") + "&display=swap"
}
