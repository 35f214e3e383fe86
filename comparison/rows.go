package comparison

import (
	"imagecompare/logging"
	"imagecompare/metrics"
	"imagecompare/types"
)

// RowBuilder turns one ImageGroup into one ReportRow
type RowBuilder struct {
	battery    *Battery
	baseline   types.DatatypeTag
	candidates []types.DatatypeTag
}

// NewRowBuilder creates a builder for the given baseline and candidate
// datatypes. Candidates keep their order; the baseline is never a candidate.
func NewRowBuilder(battery *Battery, baseline types.DatatypeTag, candidates []types.DatatypeTag) *RowBuilder {
	filtered := make([]types.DatatypeTag, 0, len(candidates))
	for _, tag := range candidates {
		if tag != baseline {
			filtered = append(filtered, tag)
		}
	}
	return &RowBuilder{battery: battery, baseline: baseline, candidates: filtered}
}

// Width is the number of metric cells per row
func (rb *RowBuilder) Width() int {
	return rb.battery.Len() * len(rb.candidates)
}

// Build evaluates the battery for every candidate present in group. The
// second return value is false when the group has no baseline image, in
// which case no row is produced.
func (rb *RowBuilder) Build(group *types.ImageGroup) (types.ReportRow, bool) {
	baselinePath, ok := group.Path(rb.baseline)
	if !ok {
		return types.ReportRow{}, false
	}
	defer rb.battery.releaseDecoded()

	ms := rb.battery.Metrics()
	n := len(rb.candidates)
	row := types.ReportRow{
		Key:    group.Key,
		Family: group.Family,
		Cells:  make([]types.MetricResult, len(ms)*n),
	}

	for ti, tag := range rb.candidates {
		candidatePath, present := group.Path(tag)
		for mi, m := range ms {
			cell := &row.Cells[mi*n+ti]
			cell.Tag = tag
			cell.Metric = m.Name
			if !present {
				cell.State = types.CellAbsent
				continue
			}

			value, err := m.Evaluate(candidatePath, baselinePath)
			logging.LogComparison(string(group.Key), string(tag), m.Name, value, err)
			if err != nil {
				cell.State = types.CellFailed
				cell.Err = err
				cell.Text = types.NaNToken
				continue
			}
			cell.State = types.CellValue
			cell.Value = value
			cell.Text = metrics.FormatValue(value, m.Precision)
		}
	}
	return row, true
}
