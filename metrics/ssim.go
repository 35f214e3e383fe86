package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// SSIM window and stabilising constants. The window is uniform and the
// variances use the sample (N-1) normalisation.
const (
	ssimWindow = 7
	ssimK1     = 0.01
	ssimK2     = 0.03
)

// SSIM computes the mean structural similarity over all channels. Images
// of different shape are NotComparable.
func SSIM(a, b *Raster) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if !a.SameShape(b) {
		return NotComparable, nil
	}
	if a.Width < ssimWindow || a.Height < ssimWindow {
		return 0, fmt.Errorf("image %dx%d smaller than the %dx%d SSIM window", a.Width, a.Height, ssimWindow, ssimWindow)
	}

	perChannel := make([]float64, a.Channels)
	for c := 0; c < a.Channels; c++ {
		perChannel[c] = ssimPlane(a.Channel(c), b.Channel(c), a.Width, a.Height)
	}
	return stat.Mean(perChannel, nil), nil
}

// ssimPlane evaluates the SSIM map on every full window of one plane and
// returns its mean.
func ssimPlane(x, y []float64, w, h int) float64 {
	sx := newIntegral(x, x, w, h, first)
	sy := newIntegral(y, y, w, h, first)
	sxx := newIntegralPair(x, x, w, h)
	syy := newIntegralPair(y, y, w, h)
	sxy := newIntegralPair(x, y, w, h)

	const np = float64(ssimWindow * ssimWindow)
	covNorm := np / (np - 1)
	c1 := (ssimK1 * maxPixelValue) * (ssimK1 * maxPixelValue)
	c2 := (ssimK2 * maxPixelValue) * (ssimK2 * maxPixelValue)

	values := make([]float64, 0, (w-ssimWindow+1)*(h-ssimWindow+1))
	for top := 0; top+ssimWindow <= h; top++ {
		for left := 0; left+ssimWindow <= w; left++ {
			ux := sx.sum(left, top, ssimWindow) / np
			uy := sy.sum(left, top, ssimWindow) / np
			uxx := sxx.sum(left, top, ssimWindow) / np
			uyy := syy.sum(left, top, ssimWindow) / np
			uxy := sxy.sum(left, top, ssimWindow) / np

			vx := covNorm * (uxx - ux*ux)
			vy := covNorm * (uyy - uy*uy)
			vxy := covNorm * (uxy - ux*uy)

			a1 := 2*ux*uy + c1
			a2 := 2*vxy + c2
			b1 := ux*ux + uy*uy + c1
			b2 := vx + vy + c2
			values = append(values, (a1*a2)/(b1*b2))
		}
	}
	return stat.Mean(values, nil)
}

// integral is a summed-area table with a zero first row and column
type integral struct {
	stride int
	table  []float64
}

func first(a, _ float64) float64 { return a }

func product(a, b float64) float64 { return a * b }

func newIntegralPair(x, y []float64, w, h int) integral {
	return newIntegral(x, y, w, h, product)
}

// newIntegral accumulates f(x[i], y[i]) over the plane
func newIntegral(x, y []float64, w, h int, f func(a, b float64) float64) integral {
	stride := w + 1
	table := make([]float64, stride*(h+1))
	for row := 0; row < h; row++ {
		var rowSum float64
		for col := 0; col < w; col++ {
			i := row*w + col
			rowSum += f(x[i], y[i])
			table[(row+1)*stride+col+1] = table[row*stride+col+1] + rowSum
		}
	}
	return integral{stride: stride, table: table}
}

// sum returns the total over the size x size square at (left, top)
func (s integral) sum(left, top, size int) float64 {
	r0, r1 := top*s.stride, (top+size)*s.stride
	c0, c1 := left, left+size
	return s.table[r1+c1] - s.table[r0+c1] - s.table[r1+c0] + s.table[r0+c0]
}
