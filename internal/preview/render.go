// Package preview builds the live preview tree of a banner and keeps it
// current while heading and subtext cycle.
package preview

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/style"
)

// ContainerID is the id of the preview root element.
const ContainerID = "banner-preview"

// Render builds the preview tree for s with the given displayed heading and
// subtext. An empty heading shows the placeholder; an empty subtext omits
// the block.
func Render(s banner.Settings, heading, subtext string) *html.Node {
	if heading == "" {
		heading = banner.PlaceholderHeading
	}

	root := element(atom.Div,
		attr("id", ContainerID),
		attr("class", "banner-preview"),
		attr("data-width", itoa(s.Width)),
		attr("data-height", itoa(s.Height)),
		attr("style", style.ContainerDeclarations(s).Inline()),
	)

	if style.ResolveBackground(s).Animated() {
		keyframes := element(atom.Style)
		keyframes.AppendChild(&html.Node{Type: html.TextNode, Data: style.KeyframesCSS()})
		root.AppendChild(keyframes)
	}

	if logo := strings.TrimSpace(s.LogoPath); logo != "" {
		root.AppendChild(element(atom.Img,
			attr("class", "banner-logo"),
			attr("src", logo),
			attr("alt", "Logo"),
			attr("style", style.ResolveLogo(s).Declarations().Inline()),
		))
	}

	content := element(atom.Div,
		attr("class", "banner-content"),
		attr("style", style.ContentDeclarations().Inline()),
	)
	root.AppendChild(content)

	content.AppendChild(textElement(atom.H1, heading,
		attr("class", "banner-heading"),
		attr("data-cycling", boolAttr(s.HeadingCycles())),
		attr("style", style.Heading(s).Declarations().Inline()),
	))

	if subtext != "" {
		content.AppendChild(textElement(atom.P, subtext,
			attr("class", "banner-subtext"),
			attr("data-cycling", boolAttr(s.SubTextCycles())),
			attr("style", style.SubText(s).Declarations().Inline()),
		))
	}

	if s.ShowCta {
		href := style.CTATarget(s)
		if href == "" {
			href = "#"
		}
		content.AppendChild(textElement(atom.A, s.CtaText,
			attr("class", "banner-cta"),
			attr("href", href),
			attr("data-preview", "suppress"),
			attr("onclick", "event.preventDefault()"),
			attr("style", style.CTADeclarations(s).Inline()),
		))
	}

	if s.FooterText != "" {
		footer := textElement(atom.P, s.FooterText,
			attr("class", "banner-footer"),
			attr("data-pinned", boolAttr(s.FooterPinned())),
			attr("style", style.FooterDeclarations(s).Inline()),
		)
		if s.FooterPinned() {
			root.AppendChild(footer)
		} else {
			content.AppendChild(footer)
		}
	}

	if target := style.ClickTarget(s); target != "" {
		root.AppendChild(element(atom.A,
			attr("class", "banner-click-layer"),
			attr("href", target),
			attr("target", "_blank"),
			attr("rel", "noopener noreferrer"),
			attr("aria-label", "Open banner link"),
			attr("style", style.ClickLayerDeclarations().Inline()),
		))
	}

	return root
}

// RenderString serializes the preview tree for s.
func RenderString(s banner.Settings, heading, subtext string) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, Render(s, heading, subtext)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textElement(a atom.Atom, text string, attrs ...html.Attribute) *html.Node {
	n := element(a, attrs...)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
