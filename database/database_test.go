package database

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"imagecompare/types"
)

func sampleRow() types.ReportRow {
	return types.ReportRow{
		Key:    "0.1_0.2_3",
		Family: "mandelbrot",
		Cells: []types.MetricResult{
			{Tag: "float", Metric: "psnr", State: types.CellValue, Value: math.Inf(1), Text: "inf"},
			{Tag: "half", Metric: "psnr", State: types.CellAbsent},
			{Tag: "bfloat16", Metric: "psnr", State: types.CellFailed, Text: "nan", Err: errors.New("decode failed")},
		},
	}
}

func TestExporterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	db, err := InitDatabase(path)
	if err != nil {
		t.Fatalf("InitDatabase: %v", err)
	}
	defer db.Close()

	info := RunInfo{Folder: "renders", Baseline: "double", Datatypes: []types.DatatypeTag{"float", "double"}, Metrics: []string{"psnr"}}
	for run := 0; run < 2; run++ {
		exp, err := NewExporter(db, info)
		if err != nil {
			t.Fatalf("NewExporter: %v", err)
		}
		if err := exp.WriteRow(sampleRow()); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
		if err := exp.Commit(types.RunStats{Groups: 3, SkippedNoBase: 2, RowsWritten: 1, CellsFailed: 1}); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}

	// second run replaced the first; absent cells are not stored
	count, err := CellCount(db, "")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("cells = %d, want 2", count)
	}

	var failed int
	var value interface{}
	if err := db.QueryRow(`SELECT failed, value FROM comparisons WHERE datatype = 'bfloat16'`).Scan(&failed, &value); err != nil {
		t.Fatal(err)
	}
	if failed != 1 || value != nil {
		t.Errorf("failed=%d value=%v, want 1 and NULL", failed, value)
	}

	stats, err := GetRunStats(db)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Folder != "renders" || stats.GroupsSeen != 3 || stats.GroupsSkipped != 2 || stats.RowsWritten != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestExporterAbort(t *testing.T) {
	db, err := InitDatabase(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	exp, err := NewExporter(db, RunInfo{Folder: "x", Baseline: "double"})
	if err != nil {
		t.Fatal(err)
	}
	if err := exp.WriteRow(sampleRow()); err != nil {
		t.Fatal(err)
	}
	exp.Abort()

	count, err := CellCount(db, "0.1_0.2_3")
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("cells after abort = %d, want 0", count)
	}
	if err := exp.Commit(types.RunStats{}); err == nil {
		t.Error("expected error committing an aborted export")
	}
}
