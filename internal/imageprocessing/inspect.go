package imageprocessing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"strings"
)

// ErrUnsupportedImage is returned when data is neither a decodable raster
// image nor an SVG document.
var ErrUnsupportedImage = errors.New("unsupported image data")

// Info describes an uploaded image.
type Info struct {
	Format      string // "jpeg", "png", "gif" or "svg"
	ContentType string
	Width       int
	Height      int
}

// Inspect identifies data as one of the accepted image formats. Raster
// formats report their pixel size; SVG documents report zero size.
func Inspect(data []byte) (Info, error) {
	if IsSVG(data) {
		return Info{Format: "svg", ContentType: "image/svg+xml"}, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}

	return Info{
		Format:      format,
		ContentType: http.DetectContentType(data),
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// IsSVG reports whether data looks like an SVG document.
func IsSVG(data []byte) bool {
	sniff := data
	if len(sniff) > 1024 {
		sniff = sniff[:1024]
	}
	ct := http.DetectContentType(sniff)
	if !strings.HasPrefix(ct, "text/") {
		return false
	}
	return bytes.Contains(bytes.ToLower(sniff), []byte("<svg"))
}
