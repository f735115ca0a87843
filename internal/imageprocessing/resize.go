package imageprocessing

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// EnsureScale returns img sized to exactly (width*scale) x (height*scale).
// An image that already has that size is returned unchanged; anything else
// is resampled with Catmull-Rom.
func EnsureScale(img image.Image, width, height, scale int) image.Image {
	if img == nil {
		return nil
	}
	if scale < 1 {
		scale = 1
	}

	targetWidth, targetHeight := width*scale, height*scale
	bounds := img.Bounds()
	if bounds.Dx() == targetWidth && bounds.Dy() == targetHeight {
		return img
	}

	resized := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, xdraw.Src, nil)
	return resized
}
