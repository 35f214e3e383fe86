package metrics

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// FFTRMSE compares the normalised log-magnitude spectra of the two
// luminance planes and returns the RMS of their difference.
func FFTRMSE(a, b *Raster) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if a.Width != b.Width || a.Height != b.Height {
		return NotComparable, nil
	}

	ma := LogMagnitudeSpectrum(a.Luminance(), a.Width, a.Height)
	mb := LogMagnitudeSpectrum(b.Luminance(), b.Width, b.Height)
	normaliseByMax(ma)
	normaliseByMax(mb)

	return floats.Distance(ma, mb, 2) / math.Sqrt(float64(len(ma))), nil
}

// LogMagnitudeSpectrum returns log(1+|F|) of the 2-D DFT of plane with
// the zero frequency shifted to the centre.
func LogMagnitudeSpectrum(plane []float64, w, h int) []float64 {
	spectrum := FFT2(plane, w, h)

	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		sy := (y + h/2) % h
		for x := 0; x < w; x++ {
			sx := (x + w/2) % w
			out[sy*w+sx] = math.Log1p(cmplx.Abs(spectrum[y*w+x]))
		}
	}
	return out
}

// FFT2 computes the unnormalised 2-D DFT of a real row-major plane
func FFT2(plane []float64, w, h int) []complex128 {
	data := make([]complex128, w*h)
	for i, v := range plane {
		data[i] = complex(v, 0)
	}

	rows := fourier.NewCmplxFFT(w)
	buf := make([]complex128, w)
	for y := 0; y < h; y++ {
		row := data[y*w : (y+1)*w]
		rows.Coefficients(buf, row)
		copy(row, buf)
	}

	cols := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	out := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = data[y*w+x]
		}
		cols.Coefficients(out, col)
		for y := 0; y < h; y++ {
			data[y*w+x] = out[y]
		}
	}
	return data
}

// normaliseByMax scales v into [0, 1]; a non-positive maximum leaves it as is
func normaliseByMax(v []float64) {
	peak := floats.Max(v)
	if peak <= 0 {
		peak = 1
	}
	floats.Scale(1/peak, v)
}
