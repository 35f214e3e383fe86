// Package metrics implements the pixel-domain comparison metrics on decoded
// rasters: structural similarity, mean squared error, PSNR and the
// frequency-domain RMSE.
package metrics

import (
	"errors"
	"fmt"
	"math"
)

// NotComparable is returned by size-sensitive metrics when the two images
// differ in dimensions.
const NotComparable = -1.0

// ErrEmptyRaster is returned for rasters without pixels
var ErrEmptyRaster = errors.New("raster has no pixels")

// Raster is an 8-bit interleaved image. Three and four channel rasters are
// in OpenCV order (BGR, BGRA).
type Raster struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewRaster allocates a zeroed raster
func NewRaster(width, height, channels int) *Raster {
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Validate checks that Pix matches the declared geometry
func (r *Raster) Validate() error {
	if r == nil || r.Width <= 0 || r.Height <= 0 || r.Channels <= 0 {
		return ErrEmptyRaster
	}
	if len(r.Pix) != r.Width*r.Height*r.Channels {
		return fmt.Errorf("raster buffer has %d bytes, want %dx%dx%d", len(r.Pix), r.Width, r.Height, r.Channels)
	}
	return nil
}

// SameShape reports whether both rasters have identical width, height and
// channel count.
func (r *Raster) SameShape(o *Raster) bool {
	return r.Width == o.Width && r.Height == o.Height && r.Channels == o.Channels
}

// Set writes one channel value
func (r *Raster) Set(x, y, c int, v uint8) {
	r.Pix[(y*r.Width+x)*r.Channels+c] = v
}

// Channel extracts one channel as float64 samples in row-major order
func (r *Raster) Channel(c int) []float64 {
	out := make([]float64, r.Width*r.Height)
	for i := range out {
		out[i] = float64(r.Pix[i*r.Channels+c])
	}
	return out
}

// Floats returns every sample of every channel as float64
func (r *Raster) Floats() []float64 {
	out := make([]float64, len(r.Pix))
	for i, v := range r.Pix {
		out[i] = float64(v)
	}
	return out
}

// Luminance converts to a single channel using the BT.601 weights OpenCV
// applies for BGR to gray, rounded to the 8-bit grid.
func (r *Raster) Luminance() []float64 {
	n := r.Width * r.Height
	out := make([]float64, n)
	switch {
	case r.Channels == 1:
		for i := 0; i < n; i++ {
			out[i] = float64(r.Pix[i])
		}
	case r.Channels >= 3:
		for i := 0; i < n; i++ {
			p := r.Pix[i*r.Channels:]
			y := 0.114*float64(p[0]) + 0.587*float64(p[1]) + 0.299*float64(p[2])
			out[i] = math.Round(y)
		}
	default:
		// gray + alpha
		for i := 0; i < n; i++ {
			out[i] = float64(r.Pix[i*r.Channels])
		}
	}
	return out
}
