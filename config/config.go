// Package config holds the comparison profile: which filename families are
// recognised, the ordered datatype enumeration, the baseline datatype and the
// metric battery with per-metric precision.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"imagecompare/types"

	"gopkg.in/yaml.v3"
)

// Metric names understood by the comparison battery
const (
	MetricSSIM       = "ssim"
	MetricHistCorr   = "hist_corr"
	MetricFeatureSim = "feature_sim"
	MetricFFTRMSE    = "fft_rmse"
	MetricPSNR       = "psnr"
	MetricMSE        = "mse"
	MetricDiffPixels = "diff_pixels"
)

// ParametersColumn is the first header cell of every report
const ParametersColumn = "parameters"

const maxPrecision = 17

var (
	ErrNoTags          = errors.New("profile declares no datatypes")
	ErrUnknownBaseline = errors.New("baseline is not one of the declared datatypes")
)

// KnownMetrics lists every metric name with its default precision. The
// first defaultMetricCount entries form the default battery, in report order.
var KnownMetrics = []MetricSpec{
	{Name: MetricSSIM, Precision: 4},
	{Name: MetricHistCorr, Precision: 4},
	{Name: MetricFeatureSim, Precision: 4},
	{Name: MetricFFTRMSE, Precision: 6},
	{Name: MetricPSNR, Precision: 4},
	{Name: MetricMSE, Precision: 4},
	{Name: MetricDiffPixels, Precision: 0},
}

const defaultMetricCount = 6

// MetricSpec names one metric column group and its decimal precision
type MetricSpec struct {
	Name      string `yaml:"name"`
	Precision int    `yaml:"precision"`
}

// UnmarshalYAML accepts either a bare metric name or a mapping. A missing
// precision takes the metric's default rather than zero.
func (m *MetricSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		m.Name = node.Value
		m.Precision = defaultPrecision(m.Name)
		return nil
	}

	var raw struct {
		Name      string `yaml:"name"`
		Precision *int   `yaml:"precision"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	m.Name = raw.Name
	if raw.Precision != nil {
		m.Precision = *raw.Precision
	} else {
		m.Precision = defaultPrecision(raw.Name)
	}
	return nil
}

// defaultPrecision is zero for unknown names, which Validate rejects anyway
func defaultPrecision(name string) int {
	spec, _ := defaultMetricSpec(name)
	return spec.Precision
}

// Profile is the versionable configuration supplied at startup
type Profile struct {
	Families  []types.Family      `yaml:"families"`
	Extension string              `yaml:"extension"`
	Datatypes []types.DatatypeTag `yaml:"datatypes"`
	Baseline  types.DatatypeTag   `yaml:"baseline"`
	Metrics   []MetricSpec        `yaml:"metrics"`
	Output    string              `yaml:"output"`
	Database  string              `yaml:"database"`
}

// Default returns the built-in profile matching the fractal renderer output
func Default() *Profile {
	metrics := make([]MetricSpec, defaultMetricCount)
	copy(metrics, KnownMetrics[:defaultMetricCount])

	return &Profile{
		Families: []types.Family{
			{
				Name:   "mandelbrot",
				Prefix: "mandelbrot",
				Fields: []types.FieldKind{types.FieldFixed6, types.FieldFixed6, types.FieldLoose},
			},
			{
				Name:   "julia_set",
				Prefix: "julia_set",
				Fields: []types.FieldKind{types.FieldFixed6, types.FieldFixed6, types.FieldLoose, types.FieldFixed6, types.FieldFixed6},
			},
		},
		Extension: "png",
		Datatypes: []types.DatatypeTag{
			"float", "double", "posit32_2", "posit16_2", "bfloat16", "half", "cpp_dec_float_1000",
		},
		Baseline: "double",
		Metrics:  metrics,
		Output:   "comparison_results.csv",
	}
}

// Load reads a YAML profile on top of the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Profile, error) {
	profile := Default()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return profile, nil
}

// Validate checks the profile for internal consistency
func (p *Profile) Validate() error {
	if len(p.Datatypes) == 0 {
		return ErrNoTags
	}

	seen := make(map[types.DatatypeTag]bool, len(p.Datatypes))
	for _, tag := range p.Datatypes {
		if strings.TrimSpace(string(tag)) == "" {
			return fmt.Errorf("empty datatype tag in profile")
		}
		if seen[tag] {
			return fmt.Errorf("duplicate datatype tag %q", tag)
		}
		seen[tag] = true
	}
	if !seen[p.Baseline] {
		return fmt.Errorf("%w: %q", ErrUnknownBaseline, p.Baseline)
	}

	if len(p.Families) == 0 {
		return fmt.Errorf("profile declares no filename families")
	}
	prefixes := make(map[string]bool, len(p.Families))
	for _, f := range p.Families {
		if f.Prefix == "" {
			return fmt.Errorf("family %q has no prefix", f.Name)
		}
		if prefixes[f.Prefix] {
			return fmt.Errorf("duplicate family prefix %q", f.Prefix)
		}
		prefixes[f.Prefix] = true
		if len(f.Fields) == 0 {
			return fmt.Errorf("family %q declares no numeric fields", f.Name)
		}
		for _, kind := range f.Fields {
			if kind != types.FieldFixed6 && kind != types.FieldLoose {
				return fmt.Errorf("family %q: unknown field kind %q", f.Name, kind)
			}
		}
	}

	if strings.TrimPrefix(p.Extension, ".") == "" {
		return fmt.Errorf("profile declares no image extension")
	}

	if len(p.Metrics) == 0 {
		return fmt.Errorf("profile declares no metrics")
	}
	names := make(map[string]bool, len(p.Metrics))
	for _, m := range p.Metrics {
		if !IsKnownMetric(m.Name) {
			return fmt.Errorf("unknown metric %q", m.Name)
		}
		if names[m.Name] {
			return fmt.Errorf("duplicate metric %q", m.Name)
		}
		names[m.Name] = true
		if m.Precision < 0 || m.Precision > maxPrecision {
			return fmt.Errorf("metric %q: precision %d out of range [0, %d]", m.Name, m.Precision, maxPrecision)
		}
	}

	if p.Output == "" {
		return fmt.Errorf("profile declares no output path")
	}
	return nil
}

// IsKnownMetric reports whether name is part of the metric battery
func IsKnownMetric(name string) bool {
	for _, m := range KnownMetrics {
		if m.Name == name {
			return true
		}
	}
	return false
}

// SelectMetrics replaces the metric list with the named metrics, keeping
// the configured precision where the metric was already listed.
func (p *Profile) SelectMetrics(names []string) error {
	selected := make([]MetricSpec, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		spec, ok := p.metricSpec(name)
		if !ok {
			spec, ok = defaultMetricSpec(name)
		}
		if !ok {
			return fmt.Errorf("unknown metric %q", name)
		}
		selected = append(selected, spec)
	}
	p.Metrics = selected
	return nil
}

func (p *Profile) metricSpec(name string) (MetricSpec, bool) {
	for _, m := range p.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricSpec{}, false
}

func defaultMetricSpec(name string) (MetricSpec, bool) {
	for _, m := range KnownMetrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricSpec{}, false
}

// Candidates returns the datatypes compared against the baseline, in
// enumeration order.
func (p *Profile) Candidates() []types.DatatypeTag {
	out := make([]types.DatatypeTag, 0, len(p.Datatypes))
	for _, tag := range p.Datatypes {
		if tag != p.Baseline {
			out = append(out, tag)
		}
	}
	return out
}

// Header returns the report header: the parameters column followed by one
// column per metric and candidate datatype, metric-major.
func (p *Profile) Header() []string {
	candidates := p.Candidates()
	header := make([]string, 0, 1+len(p.Metrics)*len(candidates))
	header = append(header, ParametersColumn)
	for _, m := range p.Metrics {
		for _, tag := range candidates {
			header = append(header, ColumnName(m.Name, tag))
		}
	}
	return header
}

// ColumnName is the header cell for one metric and datatype
func ColumnName(metric string, tag types.DatatypeTag) string {
	return metric + "_" + string(tag)
}
