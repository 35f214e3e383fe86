package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const maxPixelValue = 255.0

// MSE is the mean squared difference over every pixel and channel.
// It returns NotComparable when the shapes differ.
func MSE(a, b *Raster) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if !a.SameShape(b) {
		return NotComparable, nil
	}

	d := floats.Distance(a.Floats(), b.Floats(), 2)
	return d * d / float64(len(a.Pix)), nil
}

// PSNR is 10*log10(255^2/MSE). Identical images give +Inf.
func PSNR(a, b *Raster) (float64, error) {
	mse, err := MSE(a, b)
	if err != nil {
		return 0, err
	}
	if mse == NotComparable {
		return NotComparable, nil
	}
	return PSNRFromMSE(mse), nil
}

// PSNRFromMSE converts a mean squared error to decibels
func PSNRFromMSE(mse float64) float64 {
	if mse <= 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(maxPixelValue*maxPixelValue/mse)
}

// DiffSamples counts the channel samples that differ between a and b.
// It returns NotComparable when the shapes differ.
func DiffSamples(a, b *Raster) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if !a.SameShape(b) {
		return NotComparable, nil
	}

	n := 0
	for i, v := range a.Pix {
		if v != b.Pix[i] {
			n++
		}
	}
	return float64(n), nil
}
