package types

// ParameterKey identifies one rendered scene across datatypes. It is the
// matched numeric fields of a filename joined with KeySeparator.
type ParameterKey string

// DatatypeTag names the numeric representation an image was rendered with
type DatatypeTag string

// KeySeparator joins numeric fields into a ParameterKey
const KeySeparator = "_"

// Literal tokens used for non-finite metric values
const (
	InfToken    = "inf"
	NegInfToken = "-inf"
	NaNToken    = "nan"
)

// FieldKind describes the shape of one numeric field in a filename
type FieldKind string

const (
	// FieldFixed6 is a signed decimal with exactly six fractional digits
	FieldFixed6 FieldKind = "fixed6"
	// FieldLoose is an integer, decimal or exponential token
	FieldLoose FieldKind = "loose"
)

// Family is one filename grammar: prefix, ordered numeric fields, tag, extension
type Family struct {
	Name   string      `yaml:"name" json:"name"`
	Prefix string      `yaml:"prefix" json:"prefix"`
	Fields []FieldKind `yaml:"fields" json:"fields"`
}

// ParsedName is the result of matching a filename against a Family
type ParsedName struct {
	Filename string
	Key      ParameterKey
	Tag      DatatypeTag
	Family   string
}

// ImageGroup maps datatype tags to files for one ParameterKey
type ImageGroup struct {
	Key    ParameterKey
	Family string
	Files  map[DatatypeTag]string
}

// Path returns the file for tag and whether it is present
func (g *ImageGroup) Path(tag DatatypeTag) (string, bool) {
	p, ok := g.Files[tag]
	return p, ok
}

// CellState distinguishes the three kinds of report cells
type CellState int

const (
	// CellAbsent means the datatype was not in the group; nothing was attempted
	CellAbsent CellState = iota
	// CellValue holds a computed number (possibly non-finite)
	CellValue
	// CellFailed means the metric faulted; rendered as nan
	CellFailed
)

// MetricResult is one report cell
type MetricResult struct {
	Tag    DatatypeTag
	Metric string
	State  CellState
	Value  float64
	Text   string
	Err    error
}

// ReportRow is one output line: the key followed by cells in header order
type ReportRow struct {
	Key    ParameterKey
	Family string
	Cells  []MetricResult
}

// Record flattens the row into CSV fields
func (r ReportRow) Record() []string {
	record := make([]string, 0, len(r.Cells)+1)
	record = append(record, string(r.Key))
	for _, c := range r.Cells {
		record = append(record, c.Text)
	}
	return record
}

// RunStats summarises one comparison run
type RunStats struct {
	FilesListed     int
	FilesMatched    int
	Groups          int
	SkippedNoBase   int
	RowsWritten     int
	CellsComputed   int
	CellsFailed     int
	CellsNotPresent int
}
