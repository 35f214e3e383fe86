package imageprocessor

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"imagecompare/logging"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// TiffImageLoader handles TIFF renderings. OpenCV is tried first; files it
// rejects are decoded with the Go image packages.
type TiffImageLoader struct {
	BaseImageLoader
}

// NewTiffImageLoader creates a new loader for TIFF files
func NewTiffImageLoader() *TiffImageLoader {
	return &TiffImageLoader{
		BaseImageLoader: BaseImageLoader{SupportedFormats: []FormatType{FormatTIFF}},
	}
}

// LoadImage loads a TIFF image
func (l *TiffImageLoader) LoadImage(path string) (gocv.Mat, error) {
	img, err := l.DefaultLoadImage(path)
	if err == nil {
		return img, nil
	}
	img.Close()

	logging.DebugLog("OpenCV could not read %s, trying Go decoders", path)
	return NewGoImageLoader().LoadImage(path)
}

// GoImageLoader decodes with image.Decode (PNG, TIFF, BMP registered) and
// converts the result to a BGR Mat.
type GoImageLoader struct {
	BaseImageLoader
}

// NewGoImageLoader creates the pure Go fallback loader
func NewGoImageLoader() *GoImageLoader {
	return &GoImageLoader{
		BaseImageLoader: BaseImageLoader{SupportedFormats: []FormatType{FormatPNG, FormatTIFF, FormatBMP}},
	}
}

// LoadImage decodes path with the Go image packages
func (l *GoImageLoader) LoadImage(path string) (gocv.Mat, error) {
	goImg, err := tryGoImagePackages(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return gocvMatFromGoImage(goImg)
}

// tryGoImagePackages loads an image using the registered Go decoders
func tryGoImagePackages(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}
