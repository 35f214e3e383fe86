// Package imageprocessor loads rendered images through OpenCV and provides
// the OpenCV-backed comparison metrics: colour histogram correlation and
// SIFT feature-match similarity.
package imageprocessor

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrEmptyImage is returned when a decoder produced no pixels
var ErrEmptyImage = errors.New("decoded image is empty")

// ImageLoader is the interface that all image loaders must implement
type ImageLoader interface {
	// CanLoad checks if the loader can handle the given file
	CanLoad(path string) bool

	// LoadImage loads and returns the image as an 8-bit BGR Mat
	LoadImage(path string) (gocv.Mat, error)
}
