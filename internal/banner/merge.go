package banner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidPatch is returned when a patch is not a JSON object.
	ErrInvalidPatch = errors.New("settings patch must be a JSON object")
	// ErrInvalidColor is returned for brand colors that are not hex colors.
	ErrInvalidColor = errors.New("brand color must be a hex color such as #ED2D26")
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// IsHexColor reports whether v is a CSS hex color.
func IsHexColor(v string) bool {
	return hexColorPattern.MatchString(v)
}

const (
	maxDimension = 4096
	maxFontSize  = 400
	maxOffset    = 4096
)

// Merge applies a partial JSON object on top of base and returns the new value.
// Keys present in the patch replace the corresponding fields; absent keys keep
// the base value. base itself is never modified.
func Merge(base Settings, patch []byte) (Settings, error) {
	trimmed := bytes.TrimSpace(patch)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return base, ErrInvalidPatch
	}

	next := base.Clone()
	if err := json.Unmarshal(trimmed, &next); err != nil {
		return base, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return next.Clamp(), nil
}

// Clamp forces numeric fields into their valid ranges and replaces nil lists
// with empty ones. It is the only validation applied to settings values.
func (s Settings) Clamp() Settings {
	s.Width = clamp(s.Width, 1, maxDimension)
	s.Height = clamp(s.Height, 1, maxDimension)

	s.HeadingSize = clamp(s.HeadingSize, 1, maxFontSize)
	s.SubTextSize = clamp(s.SubTextSize, 1, maxFontSize)
	s.FooterTextSize = clamp(s.FooterTextSize, 1, maxFontSize)
	s.LogoSize = clamp(s.LogoSize, 1, maxDimension)

	s.ButtonBorderRadius = clamp(s.ButtonBorderRadius, 0, maxDimension)
	s.HeadingMarginTop = clamp(s.HeadingMarginTop, 0, maxDimension)
	s.HeadingMarginBottom = clamp(s.HeadingMarginBottom, 0, maxDimension)
	s.SubtextMarginBottom = clamp(s.SubtextMarginBottom, 0, maxDimension)

	for _, off := range []*int{
		&s.HeadingOffsetX, &s.HeadingOffsetY,
		&s.SubOffsetX, &s.SubOffsetY,
		&s.CtaOffsetX, &s.CtaOffsetY,
		&s.LogoOffsetX, &s.LogoOffsetY,
		&s.FooterOffsetX, &s.FooterOffsetY,
	} {
		*off = clamp(*off, -maxOffset, maxOffset)
	}

	if s.HeadingAnimationTexts == nil {
		s.HeadingAnimationTexts = []string{}
	}
	if s.SubTextAnimationTexts == nil {
		s.SubTextAnimationTexts = []string{}
	}
	if s.BrandColors == nil {
		s.BrandColors = []string{}
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AddBrandColor appends color to the swatch list. Colors already present
// (case-insensitive) are not duplicated.
func (s Settings) AddBrandColor(color string) (Settings, error) {
	color = strings.TrimSpace(color)
	if !IsHexColor(color) {
		return s, ErrInvalidColor
	}
	next := s.Clone()
	for _, existing := range next.BrandColors {
		if strings.EqualFold(existing, color) {
			return next, nil
		}
	}
	next.BrandColors = append(next.BrandColors, color)
	return next, nil
}

// RemoveBrandColor drops every swatch equal to color (case-insensitive).
func (s Settings) RemoveBrandColor(color string) Settings {
	next := s.Clone()
	kept := make([]string, 0, len(next.BrandColors))
	for _, existing := range next.BrandColors {
		if !strings.EqualFold(existing, color) {
			kept = append(kept, existing)
		}
	}
	next.BrandColors = kept
	return next
}
