// Package document generates the standalone HTML export of a banner. The
// output depends only on the settings value: identical input yields
// byte-identical output.
package document

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/style"
)

// Cycling script timings, matching the live preview.
const (
	CycleIntervalMS = 1200
	FadeMS          = 400
)

// Element ids used by the embedded cycling script.
const (
	HeadingID = "banner-heading"
	SubTextID = "banner-subtext"
)

// Filename is the download name of the exported document.
func Filename(s banner.Settings) string {
	return fmt.Sprintf("banner-%dx%d.html", s.Width, s.Height)
}

// PNGFilename is the download name of the raster export.
func PNGFilename(s banner.Settings) string {
	return fmt.Sprintf("banner-%dx%d.png", s.Width, s.Height)
}

// Generate renders s as a complete <!DOCTYPE html> document.
func Generate(s banner.Settings) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=%d">
    <title>%s</title>
%s    <style>
%s    </style>
</head>
<body>
    <div class="container">
%s    </div>
%s</body>
</html>
`,
		s.Width,
		esc(fmt.Sprintf("Banner %dx%d", s.Width, s.Height)),
		fontLinks(s),
		styleBlock(s),
		bannerMarkup(s),
		cyclingScript(s),
	)
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

func fontLinks(s banner.Settings) string {
	href := style.FontsURL(style.FontRequests(s))
	if href == "" {
		return ""
	}
	return `    <link rel="preconnect" href="https://fonts.googleapis.com">
    <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
    <link rel="stylesheet" href="` + esc(href) + `">
`
}

// styleBlock holds layout-only class rules plus the keyframes of an
// animated background. Visual rules stay inline on each element.
func styleBlock(s banner.Settings) string {
	var b strings.Builder
	indent := "        "
	b.WriteString(style.Declarations{
		{Property: "margin", Value: "0"},
		{Property: "padding", Value: "0"},
	}.Rule("html, body", indent))
	b.WriteString(style.Declarations{
		{Property: "display", Value: "inline-block"},
		{Property: "line-height", Value: "1.2"},
	}.Rule(".container", indent))
	b.WriteString(style.Declarations{{Property: "margin", Value: "0"}}.Rule(".banner h1, .banner p", indent))
	b.WriteString(style.Declarations{{Property: "opacity", Value: "1"}}.Rule("#"+HeadingID+", #"+SubTextID, indent))
	if style.ResolveBackground(s).Animated() {
		for _, line := range strings.SplitAfter(style.KeyframesCSS(), "\n") {
			if line == "" {
				continue
			}
			b.WriteString(indent)
			b.WriteString(line)
		}
	}
	return b.String()
}

func bannerMarkup(s banner.Settings) string {
	var b strings.Builder
	const (
		l1 = "        "
		l2 = "            "
		l3 = "                "
	)

	fmt.Fprintf(&b, "%s<div class=\"banner\" style=\"%s\">\n", l1, esc(style.ContainerDeclarations(s).Inline()))

	if logo := strings.TrimSpace(s.LogoPath); logo != "" {
		fmt.Fprintf(&b, "%s<img class=\"banner-logo\" src=\"%s\" alt=\"Logo\" style=\"%s\">\n",
			l2, esc(logo), esc(style.ResolveLogo(s).Declarations().Inline()))
	}

	fmt.Fprintf(&b, "%s<div class=\"banner-content\" style=\"%s\">\n", l2, esc(style.ContentDeclarations().Inline()))

	heading := s.InitialHeading()
	fmt.Fprintf(&b, "%s<h1 id=\"%s\" class=\"banner-heading\" style=\"%s\">%s</h1>\n",
		l3, HeadingID, esc(style.Heading(s).Declarations().Inline()), esc(heading))

	if subtext := s.InitialSubText(); subtext != "" {
		fmt.Fprintf(&b, "%s<p id=\"%s\" class=\"banner-subtext\" style=\"%s\">%s</p>\n",
			l3, SubTextID, esc(style.SubText(s).Declarations().Inline()), esc(subtext))
	}

	if s.ShowCta {
		href := style.CTATarget(s)
		if href == "" {
			href = "#"
		}
		fmt.Fprintf(&b, "%s<a class=\"banner-cta\" href=\"%s\" target=\"_blank\" rel=\"noopener noreferrer\" style=\"%s\">%s</a>\n",
			l3, esc(href), esc(style.CTADeclarations(s).Inline()), esc(s.CtaText))
	}

	footer := ""
	if s.FooterText != "" {
		footer = fmt.Sprintf("<p class=\"banner-footer\" style=\"%s\">%s</p>\n",
			esc(style.FooterDeclarations(s).Inline()), esc(s.FooterText))
	}
	if footer != "" && !s.FooterPinned() {
		b.WriteString(l3 + footer)
	}

	fmt.Fprintf(&b, "%s</div>\n", l2)

	if footer != "" && s.FooterPinned() {
		b.WriteString(l2 + footer)
	}

	if target := style.ClickTarget(s); target != "" {
		fmt.Fprintf(&b, "%s<a class=\"banner-click-layer\" href=\"%s\" target=\"_blank\" rel=\"noopener noreferrer\" aria-label=\"Open banner link\" style=\"%s\"></a>\n",
			l2, esc(target), esc(style.ClickLayerDeclarations().Inline()))
	}

	fmt.Fprintf(&b, "%s</div>\n", l1)
	return b.String()
}

type cyclingBlock struct {
	ID    string   `json:"id"`
	Texts []string `json:"texts"`
}

// cyclingScript emits the fade-and-advance loop for every animated block
// with a non-empty list, or nothing when no block cycles.
func cyclingScript(s banner.Settings) string {
	var blocks []cyclingBlock
	if s.HeadingCycles() {
		blocks = append(blocks, cyclingBlock{ID: HeadingID, Texts: s.HeadingCycleTexts()})
	}
	if s.SubTextCycles() {
		blocks = append(blocks, cyclingBlock{ID: SubTextID, Texts: s.SubTextCycleTexts()})
	}
	if len(blocks) == 0 {
		return ""
	}

	// json.Marshal escapes <, > and &, so the lists cannot close the script element.
	data, err := json.Marshal(blocks)
	if err != nil {
		data = []byte("[]")
	}

	return fmt.Sprintf(`    <script>
        (function () {
            var blocks = %s;
            blocks.forEach(function (block) {
                var el = document.getElementById(block.id);
                if (!el || block.texts.length === 0) {
                    return;
                }
                var index = 0;
                el.style.transition = "opacity %dms ease-in-out";
                setInterval(function () {
                    el.style.opacity = "0";
                    setTimeout(function () {
                        index = (index + 1) %% block.texts.length;
                        el.textContent = block.texts[index];
                        el.style.opacity = "1";
                    }, %d);
                }, %d);
            });
        })();
    </script>
`, data, FadeMS, FadeMS, CycleIntervalMS)
}
