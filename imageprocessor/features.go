package imageprocessor

import (
	"gocv.io/x/gocv"
)

// LoweRatio is the distance ratio a best match must beat against the
// second best to be kept.
const LoweRatio = 0.75

// FeatureMatchSimilarity detects SIFT keypoints on both grayscale images,
// matches descriptors with FLANN (k=2) and returns the share of matches
// passing the ratio test relative to the larger keypoint count. Images
// without usable descriptors score 0.
func FeatureMatchSimilarity(a, b gocv.Mat) (float64, error) {
	if a.Empty() || b.Empty() {
		return 0, ErrEmptyImage
	}

	grayA := toGray(a)
	defer grayA.Close()
	grayB := toGray(b)
	defer grayB.Close()

	sift := gocv.NewSIFT()
	defer sift.Close()

	maskA := gocv.NewMat()
	defer maskA.Close()
	maskB := gocv.NewMat()
	defer maskB.Close()

	kpA, desA := sift.DetectAndCompute(grayA, maskA)
	defer desA.Close()
	kpB, desB := sift.DetectAndCompute(grayB, maskB)
	defer desB.Close()

	// FLANN needs at least k train descriptors for a 2-NN query
	if desA.Empty() || desB.Empty() || desB.Rows() < 2 {
		return 0, nil
	}

	matcher := gocv.NewFlannBasedMatcher()
	defer matcher.Close()

	good := 0
	for _, pair := range matcher.KnnMatch(desA, desB, 2) {
		if len(pair) < 2 {
			continue
		}
		if pair[0].Distance < LoweRatio*pair[1].Distance {
			good++
		}
	}

	keypoints := max(len(kpA), len(kpB))
	if keypoints == 0 {
		return 0, nil
	}
	return float64(good) / float64(keypoints), nil
}
