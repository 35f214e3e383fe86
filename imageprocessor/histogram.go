package imageprocessor

import (
	"fmt"

	"gocv.io/x/gocv"
)

const histogramBins = 256

// ColorHistogram computes the joint 3-channel histogram of a BGR image
// with 256 bins per channel, min-max normalised to [0, 1]. The caller owns
// the returned Mat.
func ColorHistogram(img gocv.Mat) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.NewMat(), ErrEmptyImage
	}
	if img.Channels() != 3 {
		return gocv.NewMat(), fmt.Errorf("colour histogram needs 3 channels, got %d", img.Channels())
	}

	mask := gocv.NewMat()
	defer mask.Close()

	hist := gocv.NewMat()
	gocv.CalcHist(
		[]gocv.Mat{img},
		[]int{0, 1, 2},
		mask,
		&hist,
		[]int{histogramBins, histogramBins, histogramBins},
		[]float64{0, 256, 0, 256, 0, 256},
		false,
	)
	if hist.Empty() {
		hist.Close()
		return gocv.NewMat(), fmt.Errorf("histogram computation produced no data")
	}

	gocv.Normalize(hist, &hist, 0, 1, gocv.NormMinMax)
	return hist, nil
}

// HistogramCorrelation returns the correlation coefficient of the two
// normalised colour histograms, in [-1, 1].
func HistogramCorrelation(a, b gocv.Mat) (float64, error) {
	ha, err := ColorHistogram(a)
	if err != nil {
		return 0, err
	}
	defer ha.Close()

	hb, err := ColorHistogram(b)
	if err != nil {
		return 0, err
	}
	defer hb.Close()

	return float64(gocv.CompareHist(ha, hb, gocv.HistCmpCorrel)), nil
}
