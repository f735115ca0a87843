package style

import (
	"strconv"

	"github.com/rmitchellscott/bannermaster/internal/banner"
)

// LogoPlacement is the resolved position of the logo image. (X, Y) is the
// anchor point in banner pixels. ShiftX/ShiftY are percentage translations
// relative to the logo's own size, applied before the user offset: -50 is the
// centering correction of a centered anchor, -100 is edge alignment that keeps
// a far-edge logo inside the banner. Only -50 counts as centering.
type LogoPlacement struct {
	Position banner.LogoPosition
	X, Y     float64
	ShiftX   int
	ShiftY   int
	OffsetX  int
	OffsetY  int
	Size     int
}

type anchorRule struct {
	col, row int // 0 = start, 1 = center, 2 = end
}

var logoAnchors = map[banner.LogoPosition]anchorRule{
	banner.LogoTopLeft:      {0, 0},
	banner.LogoTopCenter:    {1, 0},
	banner.LogoTopRight:     {2, 0},
	banner.LogoCenter:       {1, 1},
	banner.LogoBottomLeft:   {0, 2},
	banner.LogoBottomCenter: {1, 2},
	banner.LogoBottomRight:  {2, 2},
}

// ResolveLogo maps the logo anchor of s to a placement. Unknown anchors
// resolve as top-left.
func ResolveLogo(s banner.Settings) LogoPlacement {
	pos := s.LogoPosition
	rule, ok := logoAnchors[pos]
	if !ok {
		pos = banner.LogoTopLeft
		rule = logoAnchors[pos]
	}

	p := LogoPlacement{
		Position: pos,
		OffsetX:  s.LogoOffsetX,
		OffsetY:  s.LogoOffsetY,
		Size:     s.LogoSize,
	}
	if p.Size <= 0 {
		p.Size = banner.Defaults().LogoSize
	}

	p.X, p.ShiftX = axis(rule.col, s.Width)
	p.Y, p.ShiftY = axis(rule.row, s.Height)
	return p
}

// axis resolves one coordinate. Centered anchors get the -50% centering
// correction; far-edge anchors align the logo's far edge with the banner edge.
func axis(slot, extent int) (float64, int) {
	switch slot {
	case 1:
		return float64(extent) / 2, -50
	case 2:
		return float64(extent), -100
	default:
		return 0, 0
	}
}

// Centered reports whether a -50% centering correction applies on each axis.
func (p LogoPlacement) Centered() (x, y bool) {
	return p.ShiftX == -50, p.ShiftY == -50
}

// Transform composes the anchor correction with the user offset. The offset
// is appended, so it never replaces the correction.
func (p LogoPlacement) Transform() string {
	offset := translate(p.OffsetX, p.OffsetY)
	if p.ShiftX == 0 && p.ShiftY == 0 {
		return offset
	}
	return "translate(" + percent(p.ShiftX) + ", " + percent(p.ShiftY) + ") " + offset
}

func percent(v int) string {
	if v == 0 {
		return "0"
	}
	return strconv.Itoa(v) + "%"
}

// Declarations positions and sizes the logo image.
func (p LogoPlacement) Declarations() Declarations {
	return Declarations{
		{"position", "absolute"},
		{"left", pxf(p.X)},
		{"top", pxf(p.Y)},
		{"width", px(p.Size)},
		{"height", px(p.Size)},
		{"object-fit", "contain"},
		{"transform", p.Transform()},
		{"z-index", strconv.Itoa(ZLogo)},
	}
}
