package rendering

import (
	"context"
	"errors"
	"time"
)

// ErrRasterizerUnavailable is returned when no raster backend is configured
// or the configured one cannot be reached.
var ErrRasterizerUnavailable = errors.New("rasterizer unavailable")

// RasterOptions contains options for rasterizing a banner document
type RasterOptions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// Scale is the device pixel ratio of the capture.
	Scale int `json:"scale"`
	// WaitTime bounds page load, including web fonts.
	WaitTime time.Duration `json:"wait_time"`
}

// DefaultRasterOptions returns the export defaults for a banner of the given size
func DefaultRasterOptions(width, height int) RasterOptions {
	return RasterOptions{
		Width:    width,
		Height:   height,
		Scale:    2,
		WaitTime: 30 * time.Second,
	}
}

// Rasterizer captures a standalone HTML document as a PNG
type Rasterizer interface {
	// Rasterize renders html at Width x Height CSS pixels and Scale density
	Rasterize(ctx context.Context, html string, options RasterOptions) ([]byte, error)

	// Name identifies the backend in logs and the client config
	Name() string

	// Close cleans up any resources used by the rasterizer
	Close() error
}

// unavailable is the rasterizer used when RASTER_BACKEND is "none".
type unavailable struct{}

func (unavailable) Rasterize(ctx context.Context, html string, options RasterOptions) ([]byte, error) {
	return nil, ErrRasterizerUnavailable
}

func (unavailable) Name() string { return "none" }

func (unavailable) Close() error { return nil }

// Unavailable returns a rasterizer that always fails with ErrRasterizerUnavailable.
func Unavailable() Rasterizer {
	return unavailable{}
}
