package comparison

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"imagecompare/types"
)

// nameLength is a stand-in metric that never touches the files
func nameLength(candidatePath, baselinePath string) (float64, error) {
	return float64(len(filepath.Base(candidatePath))) / 10, nil
}

func failing(candidatePath, baselinePath string) (float64, error) {
	return 0, errors.New("cannot decode")
}

func panicking(candidatePath, baselinePath string) (float64, error) {
	var m map[string]int
	m["boom"]++
	return 0, nil
}

func infinite(candidatePath, baselinePath string) (float64, error) {
	return math.Inf(1), nil
}

func group(key string, tags ...string) *types.ImageGroup {
	g := &types.ImageGroup{Key: types.ParameterKey(key), Family: "mandelbrot", Files: map[types.DatatypeTag]string{}}
	for _, tag := range tags {
		g.Files[types.DatatypeTag(tag)] = "/renders/mandelbrot_" + key + "_" + tag + ".png"
	}
	return g
}

func texts(row types.ReportRow) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Text
	}
	return out
}

func TestBuildSkipsGroupWithoutBaseline(t *testing.T) {
	battery := NewBatteryFromMetrics(Metric{Name: "len", Precision: 1, Compute: nameLength})
	rb := NewRowBuilder(battery, "double", []types.DatatypeTag{"float", "half"})

	if _, ok := rb.Build(group("1_2_3", "float", "half")); ok {
		t.Error("expected no row for a group without baseline")
	}
}

func TestBuildMetricMajorOrderAndAbsentCells(t *testing.T) {
	battery := NewBatteryFromMetrics(
		Metric{Name: "len", Precision: 1, Compute: nameLength},
		Metric{Name: "inf", Precision: 2, Compute: infinite},
	)
	rb := NewRowBuilder(battery, "double", []types.DatatypeTag{"float", "double", "half"})
	if rb.Width() != 4 {
		t.Fatalf("Width = %d, want 4", rb.Width())
	}

	row, ok := rb.Build(group("1_2_3", "double", "half"))
	if !ok {
		t.Fatal("expected a row")
	}

	// len("mandelbrot_1_2_3_half.png") = 25
	want := []string{"", "2.5", "", "inf"}
	got := texts(row)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cells = %q, want %q", got, want)
		}
	}
	if row.Cells[0].State != types.CellAbsent || row.Cells[1].State != types.CellValue {
		t.Errorf("unexpected states %v %v", row.Cells[0].State, row.Cells[1].State)
	}
	if row.Cells[3].Metric != "inf" || row.Cells[3].Tag != "half" {
		t.Errorf("cell 3 is %s/%s, want inf/half", row.Cells[3].Metric, row.Cells[3].Tag)
	}
}

func TestBuildFaultsBecomeNaN(t *testing.T) {
	battery := NewBatteryFromMetrics(
		Metric{Name: "err", Precision: 4, Compute: failing},
		Metric{Name: "panic", Precision: 4, Compute: panicking},
		Metric{Name: "len", Precision: 0, Compute: nameLength},
	)
	rb := NewRowBuilder(battery, "double", []types.DatatypeTag{"float"})

	row, ok := rb.Build(group("k", "double", "float"))
	if !ok {
		t.Fatal("expected a row")
	}

	got := texts(row)
	want := []string{"nan", "nan", "2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cells = %q, want %q", got, want)
		}
	}
	if row.Cells[0].State != types.CellFailed || row.Cells[1].State != types.CellFailed {
		t.Error("faulted cells should be marked failed")
	}
	if !errors.Is(row.Cells[1].Err, ErrMetricPanic) {
		t.Errorf("panic error = %v, want ErrMetricPanic", row.Cells[1].Err)
	}
}

func TestNewBatteryRejectsUnknownMetric(t *testing.T) {
	if _, err := builtinMetric("nope", nil); err == nil {
		t.Error("expected error for unknown metric")
	}
	if _, err := builtinMetric("ssim", nil); err != nil {
		t.Errorf("ssim: %v", err)
	}
}
