package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// ExportOptions describes the expected raster export.
type ExportOptions struct {
	Width  int
	Height int
	// Scale is the pixel density of the export; the banner exports at 2.
	Scale int
	// Palette, when set, dithers the export to these colors.
	Palette []string
}

// ExportScale is the pixel density of PNG exports.
const ExportScale = 2

// ProcessExport normalizes a captured screenshot: it guarantees the export
// size, optionally dithers to the brand palette and encodes PNG.
func ProcessExport(data []byte, opts ExportOptions) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode capture: %w", err)
	}

	if opts.Scale == 0 {
		opts.Scale = ExportScale
	}
	out := EnsureScale(img, opts.Width, opts.Height, opts.Scale)

	if len(opts.Palette) > 0 {
		palette, err := BrandPalette(opts.Palette)
		if err != nil {
			return nil, err
		}
		out = DitherToPalette(out, palette)
	}

	return EncodePNG(out)
}

// EncodePNG encodes img with best compression.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
