package style

import (
	"strconv"

	"github.com/rmitchellscott/bannermaster/internal/banner"
)

// Z-order of the banner layers. The click layer covers the content and the
// CTA sits above the click layer so both stay clickable.
const (
	ZLogo       = 10
	ZClickLayer = 20
	ZCTA        = 30
)

// ContainerDeclarations sizes the banner box exactly and paints its background.
func ContainerDeclarations(s banner.Settings) Declarations {
	decls := Declarations{
		{"position", "relative"},
		{"overflow", "hidden"},
		{"width", px(s.Width)},
		{"height", px(s.Height)},
		{"box-sizing", "border-box"},
	}
	return append(decls, ResolveBackground(s).Declarations()...)
}

// ContentDeclarations lays out the centered content stack.
func ContentDeclarations() Declarations {
	return Declarations{
		{"position", "relative"},
		{"display", "flex"},
		{"flex-direction", "column"},
		{"align-items", "stretch"},
		{"height", "100%"},
		{"padding", "16px"},
		{"box-sizing", "border-box"},
	}
}

// ClickLayerDeclarations covers the whole banner with an invisible link.
func ClickLayerDeclarations() Declarations {
	return Declarations{
		{"position", "absolute"},
		{"top", "0"},
		{"left", "0"},
		{"width", "100%"},
		{"height", "100%"},
		{"z-index", strconv.Itoa(ZClickLayer)},
		{"display", "block"},
		{"background", "transparent"},
	}
}
