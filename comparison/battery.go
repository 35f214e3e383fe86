// Package comparison evaluates the metric battery for every candidate
// datatype of a parameter group against the group's baseline rendering and
// assembles report rows.
package comparison

import (
	"errors"
	"fmt"

	"imagecompare/config"
	"imagecompare/imageprocessor"
	"imagecompare/metrics"

	"gocv.io/x/gocv"
)

// ErrMetricPanic wraps a panic recovered from a metric implementation
var ErrMetricPanic = errors.New("metric panicked")

// MetricFunc compares the candidate image against the baseline image
type MetricFunc func(candidatePath, baselinePath string) (float64, error)

// Metric is one named entry of the battery
type Metric struct {
	Name      string
	Precision int
	Compute   MetricFunc
}

// Evaluate runs the metric, turning a panic into an error
func (m Metric) Evaluate(candidatePath, baselinePath string) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrMetricPanic, m.Name, r)
		}
	}()
	return m.Compute(candidatePath, baselinePath)
}

// Battery is the ordered set of metrics evaluated for every pair
type Battery struct {
	metrics []Metric
	cache   *decodeCache
}

// NewBattery binds each configured metric name to its implementation.
// Images are decoded through registry, once per file and group.
func NewBattery(specs []config.MetricSpec, registry *imageprocessor.ImageLoaderRegistry) (*Battery, error) {
	b := &Battery{cache: newDecodeCache(registry)}
	for _, spec := range specs {
		fn, err := builtinMetric(spec.Name, b.cache)
		if err != nil {
			return nil, err
		}
		b.metrics = append(b.metrics, Metric{Name: spec.Name, Precision: spec.Precision, Compute: fn})
	}
	return b, nil
}

// NewBatteryFromMetrics builds a battery from explicit metrics
func NewBatteryFromMetrics(ms ...Metric) *Battery {
	return &Battery{metrics: append([]Metric(nil), ms...)}
}

// Metrics returns the metrics in column order
func (b *Battery) Metrics() []Metric {
	return b.metrics
}

// Len returns the number of metrics
func (b *Battery) Len() int {
	return len(b.metrics)
}

// releaseDecoded drops the images decoded for the current group
func (b *Battery) releaseDecoded() {
	if b.cache != nil {
		b.cache.reset()
	}
}

// decodeCache remembers decode results by path. A failed decode is
// remembered too, so every metric of the pair reports the same error.
type decodeCache struct {
	registry *imageprocessor.ImageLoaderRegistry
	entries  map[string]decoded
	decodes  int
}

type decoded struct {
	raster *metrics.Raster
	err    error
}

func newDecodeCache(registry *imageprocessor.ImageLoaderRegistry) *decodeCache {
	return &decodeCache{registry: registry, entries: make(map[string]decoded)}
}

// raster returns the decoded pixels of path; callers must not modify them
func (c *decodeCache) raster(path string) (*metrics.Raster, error) {
	if d, ok := c.entries[path]; ok {
		return d.raster, d.err
	}
	r, err := c.registry.LoadRaster(path)
	c.decodes++
	c.entries[path] = decoded{raster: r, err: err}
	return r, err
}

// mat returns a fresh Mat built from the cached raster of path
func (c *decodeCache) mat(path string) (gocv.Mat, error) {
	r, err := c.raster(path)
	if err != nil {
		return gocv.NewMat(), err
	}
	return imageprocessor.RasterToMat(r)
}

func (c *decodeCache) reset() {
	c.entries = make(map[string]decoded)
}

func builtinMetric(name string, cache *decodeCache) (MetricFunc, error) {
	switch name {
	case config.MetricSSIM:
		return rasterMetric(cache, metrics.SSIM), nil
	case config.MetricHistCorr:
		return matMetric(cache, imageprocessor.HistogramCorrelation), nil
	case config.MetricFeatureSim:
		return matMetric(cache, imageprocessor.FeatureMatchSimilarity), nil
	case config.MetricFFTRMSE:
		return rasterMetric(cache, metrics.FFTRMSE), nil
	case config.MetricPSNR:
		return rasterMetric(cache, metrics.PSNR), nil
	case config.MetricMSE:
		return rasterMetric(cache, metrics.MSE), nil
	case config.MetricDiffPixels:
		return rasterMetric(cache, metrics.DiffSamples), nil
	}
	return nil, fmt.Errorf("unknown metric %q", name)
}

// rasterMetric hands both decoded rasters to fn
func rasterMetric(cache *decodeCache, fn func(a, b *metrics.Raster) (float64, error)) MetricFunc {
	return func(candidatePath, baselinePath string) (float64, error) {
		a, err := cache.raster(candidatePath)
		if err != nil {
			return 0, err
		}
		b, err := cache.raster(baselinePath)
		if err != nil {
			return 0, err
		}
		return fn(a, b)
	}
}

// matMetric hands both images to fn as Mats and releases them afterwards
func matMetric(cache *decodeCache, fn func(a, b gocv.Mat) (float64, error)) MetricFunc {
	return func(candidatePath, baselinePath string) (float64, error) {
		a, err := cache.mat(candidatePath)
		if err != nil {
			a.Close()
			return 0, err
		}
		defer a.Close()

		b, err := cache.mat(baselinePath)
		if err != nil {
			b.Close()
			return 0, err
		}
		defer b.Close()

		return fn(a, b)
	}
}
