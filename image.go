package gpudev

import (
	"errors"
	"image"

	xdraw "golang.org/x/image/draw"
)

// ErrNilImage is returned by TextureDataFromImage for a nil source.
var ErrNilImage = errors.New("gpudev: nil source image")

// TextureDataFromImage converts src into tightly packed RGBA8 texel
// data of the given dimensions, matching the layout of an
// RGBA8-format texture with Extent3D{Width: width, Height: height}.
// The source is scaled with bilinear filtering when its bounds differ
// from the requested size.
//
// Upload itself is a recording-layer concern; this helper only
// produces the bytes.
func TextureDataFromImage(src image.Image, width, height int) ([]byte, error) {
	if src == nil {
		return nil, ErrNilImage
	}
	if width <= 0 || height <= 0 {
		return nil, ErrZeroExtent
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	}

	// NewRGBA at the origin has stride 4*width, so Pix is already
	// tightly packed.
	return dst.Pix, nil
}
