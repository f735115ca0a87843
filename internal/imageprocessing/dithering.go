package imageprocessing

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/makeworld-the-better-one/dither/v2"
)

// ErrPaletteTooSmall is returned when fewer than two usable colors are given.
var ErrPaletteTooSmall = errors.New("palette needs at least two colors")

// ParseHexColor parses #rgb, #rgba, #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 || len(hex) == 4 {
		var expanded strings.Builder
		for _, r := range hex {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		hex = expanded.String()
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// BrandPalette converts hex colors to an opaque palette, skipping invalid
// entries and duplicates.
func BrandPalette(colors []string) (color.Palette, error) {
	seen := map[color.RGBA]bool{}
	var palette color.Palette
	for _, c := range colors {
		rgba, err := ParseHexColor(c)
		if err != nil {
			continue
		}
		rgba.A = 255
		if seen[rgba] {
			continue
		}
		seen[rgba] = true
		palette = append(palette, rgba)
	}
	if len(palette) < 2 {
		return nil, ErrPaletteTooSmall
	}
	return palette, nil
}

// DitherToPalette applies Floyd-Steinberg dithering to the given palette
func DitherToPalette(img image.Image, palette color.Palette) image.Image {
	if img == nil {
		return nil
	}

	ditherer := dither.NewDitherer(palette)
	ditherer.Matrix = dither.FloydSteinberg

	return ditherer.Dither(img)
}
