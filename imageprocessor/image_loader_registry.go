package imageprocessor

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"imagecompare/logging"
	"imagecompare/metrics"

	"gocv.io/x/gocv"
)

// ImageLoaderRegistry maintains a registry of image loaders
type ImageLoaderRegistry struct {
	loaders        map[string]ImageLoader
	defaultLoader  ImageLoader
	fallbackLoader ImageLoader
	mutex          sync.RWMutex
}

// NewImageLoaderRegistry creates a new image loader registry
func NewImageLoaderRegistry() *ImageLoaderRegistry {
	registry := &ImageLoaderRegistry{
		loaders: make(map[string]ImageLoader),
	}

	standardLoader := NewStandardImageLoader()
	registry.RegisterLoader(".png", standardLoader)
	registry.RegisterLoader(".bmp", standardLoader)
	registry.RegisterLoader(".webp", standardLoader)
	registry.RegisterLoader(".jpg", standardLoader)
	registry.RegisterLoader(".jpeg", standardLoader)
	registry.defaultLoader = standardLoader

	tiffLoader := NewTiffImageLoader()
	registry.RegisterLoader(".tif", tiffLoader)
	registry.RegisterLoader(".tiff", tiffLoader)

	registry.fallbackLoader = NewGoImageLoader()
	return registry
}

// RegisterLoader registers a new loader for a specific file extension
func (r *ImageLoaderRegistry) RegisterLoader(ext string, loader ImageLoader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.loaders[strings.ToLower(ext)] = loader
}

// GetLoader returns the appropriate loader for the given path
func (r *ImageLoaderRegistry) GetLoader(path string) ImageLoader {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	if loader, ok := r.loaders[ext]; ok {
		return loader
	}
	return r.defaultLoader
}

// CanLoadFile checks if any registered loader can handle the given file
func (r *ImageLoaderRegistry) CanLoadFile(path string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, ok := r.loaders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadImage loads an image using the registered loader, falling back to
// the Go decoders when OpenCV fails. The caller owns the returned Mat.
func (r *ImageLoaderRegistry) LoadImage(path string) (gocv.Mat, error) {
	loader := r.GetLoader(path)
	if loader == nil {
		return gocv.NewMat(), fmt.Errorf("no suitable loader found for: %s", path)
	}

	img, err := loader.LoadImage(path)
	if err == nil {
		return img, nil
	}
	img.Close()

	if r.fallbackLoader != nil && r.fallbackLoader != loader && r.fallbackLoader.CanLoad(path) {
		logging.DebugLog("Primary loader failed for %s (%v), using fallback", path, err)
		return r.fallbackLoader.LoadImage(path)
	}
	return gocv.NewMat(), err
}

// LoadRaster decodes path and copies its pixels out of OpenCV memory
func (r *ImageLoaderRegistry) LoadRaster(path string) (*metrics.Raster, error) {
	img, err := r.LoadImage(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	raster, err := MatToRaster(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raster, nil
}
