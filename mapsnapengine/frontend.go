package mapsnapengine

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/mapsnap/mapsnap"
)

// Frontend is an offscreen rendering surface. It is exclusively owned by one
// map instance and is never attached to a window.
type Frontend struct {
	img        *image.RGBA
	size       mapsnap.Size
	pixelRatio float64
}

// NewFrontend allocates an offscreen surface of size scaled by pixelRatio.
// Zero sizes and non-positive ratios are rejected here, not at the options
// layer.
func NewFrontend(size mapsnap.Size, pixelRatio float64) (*Frontend, errorsx.Error) {
	if size.Width == 0 || size.Height == 0 {
		return nil, errorsx.Wrap(ErrAllocation, "width", size.Width, "height", size.Height)
	}
	if pixelRatio <= 0 || math.IsNaN(pixelRatio) || math.IsInf(pixelRatio, 0) {
		return nil, errorsx.Wrap(ErrAllocation, "pixelRatio", pixelRatio)
	}

	pixelWidth := int(math.Round(float64(size.Width) * pixelRatio))
	pixelHeight := int(math.Round(float64(size.Height) * pixelRatio))
	if pixelWidth <= 0 || pixelHeight <= 0 {
		return nil, errorsx.Wrap(ErrAllocation, "pixelWidth", pixelWidth, "pixelHeight", pixelHeight)
	}

	return &Frontend{
		img:        image.NewRGBA(image.Rect(0, 0, pixelWidth, pixelHeight)),
		size:       size,
		pixelRatio: pixelRatio,
	}, nil
}

func (f *Frontend) Size() mapsnap.Size {
	return f.size
}

func (f *Frontend) PixelRatio() float64 {
	return f.pixelRatio
}

// PixelSize returns the surface size in physical pixels.
func (f *Frontend) PixelSize() (width, height int) {
	bounds := f.img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// Image exposes the raster the map draws into.
func (f *Frontend) Image() *image.RGBA {
	return f.img
}

// Fill paints the whole surface with one color.
func (f *Frontend) Fill(c color.Color) {
	draw.Draw(f.img, f.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// EncodePNG encodes the current surface contents as a complete PNG stream.
func (f *Frontend) EncodePNG() ([]byte, errorsx.Error) {
	buf := bytes.NewBuffer(nil)
	err := png.Encode(buf, f.img)
	if err != nil {
		return nil, errorsx.Wrap(ErrRender, "encodeError", err.Error())
	}

	return buf.Bytes(), nil
}

// Close releases the surface. The owning instance calls it before tearing
// down the run loop.
func (f *Frontend) Close() {
	f.img = nil
}
