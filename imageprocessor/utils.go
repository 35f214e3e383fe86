package imageprocessor

import (
	"fmt"
	"image"

	"imagecompare/metrics"

	"gocv.io/x/gocv"
)

// gocvMatFromGoImage converts a decoded Go image to an 8-bit BGR Mat
func gocvMatFromGoImage(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return gocv.NewMat(), ErrEmptyImage
	}

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// Convert from 0-65535 to 0-255
			mat.SetUCharAt3(y, x, 0, uint8(b>>8))
			mat.SetUCharAt3(y, x, 1, uint8(g>>8))
			mat.SetUCharAt3(y, x, 2, uint8(r>>8))
		}
	}
	return mat, nil
}

// MatToRaster copies an 8-bit Mat into a Raster
func MatToRaster(m gocv.Mat) (*metrics.Raster, error) {
	if m.Empty() {
		return nil, ErrEmptyImage
	}

	switch m.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	default:
		return nil, fmt.Errorf("unsupported Mat type %v", m.Type())
	}

	r := &metrics.Raster{
		Width:    m.Cols(),
		Height:   m.Rows(),
		Channels: m.Channels(),
		Pix:      m.ToBytes(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// toGray returns a single channel copy of img
func toGray(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	switch img.Channels() {
	case 1:
		img.CopyTo(&gray)
	case 4:
		gocv.CvtColor(img, &gray, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}
	return gray
}

// RasterToMat copies r into a new 8-bit Mat. The caller owns the Mat.
func RasterToMat(r *metrics.Raster) (gocv.Mat, error) {
	if err := r.Validate(); err != nil {
		return gocv.NewMat(), err
	}

	var mt gocv.MatType
	switch r.Channels {
	case 1:
		mt = gocv.MatTypeCV8UC1
	case 3:
		mt = gocv.MatTypeCV8UC3
	case 4:
		mt = gocv.MatTypeCV8UC4
	default:
		return gocv.NewMat(), fmt.Errorf("unsupported channel count %d", r.Channels)
	}

	view, err := gocv.NewMatFromBytes(r.Height, r.Width, mt, r.Pix)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer view.Close()
	// the view borrows Go memory; the clone owns its pixels
	return view.Clone(), nil
}
