package comparison

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imagecompare/config"
	"imagecompare/database"
	"imagecompare/types"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func testProfile(output string) *config.Profile {
	profile := config.Default()
	profile.Datatypes = []types.DatatypeTag{"float", "double", "half"}
	profile.Output = output
	return profile
}

func lengthBattery() *Battery {
	return NewBatteryFromMetrics(Metric{Name: "len", Precision: 1, Compute: nameLength})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRunWritesOneRowPerBaselineGroup(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"mandelbrot_-0.500000_0.000000_1e-06_float.png",
		"mandelbrot_-0.500000_0.000000_1e-06_double.png",
		"mandelbrot_0.100000_0.200000_5_float.png",
		"mandelbrot_-0.500000_0.000000_1e-06_quad.png",
		"notes.txt",
	)
	out := filepath.Join(t.TempDir(), "results.csv")

	var summary bytes.Buffer
	stats, err := Run(context.Background(), Options{
		Profile:    testProfile(out),
		FolderPath: dir,
		Battery:    lengthBattery(),
		Stdout:     &summary,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(summary.String(), "Wrote 1 rows to "+out) {
		t.Errorf("summary does not name the report:\n%s", summary.String())
	}

	want := "parameters,len_float,len_half\n" +
		"-0.500000_0.000000_1e-06,4.5,\n"
	if got := readFile(t, out); got != want {
		t.Errorf("report =\n%s\nwant\n%s", got, want)
	}

	if stats.FilesListed != 5 || stats.FilesMatched != 3 {
		t.Errorf("listed=%d matched=%d, want 5 and 3", stats.FilesListed, stats.FilesMatched)
	}
	if stats.Groups != 2 || stats.SkippedNoBase != 1 || stats.RowsWritten != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.CellsComputed != 1 || stats.CellsNotPresent != 1 || stats.CellsFailed != 0 {
		t.Errorf("unexpected cell counts %+v", stats)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"julia_set_-0.800000_0.156000_100_0.000000_0.000000_double.png",
		"julia_set_-0.800000_0.156000_100_0.000000_0.000000_half.png",
		"mandelbrot_0.250000_0.000000_2.5_double.png",
		"mandelbrot_0.250000_0.000000_2.5_float.png",
		"mandelbrot_0.250000_0.000000_2.5_half.png",
	)
	out := filepath.Join(t.TempDir(), "results.csv")
	opts := Options{Profile: testProfile(out), FolderPath: dir, Battery: lengthBattery()}

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	first := readFile(t, out)
	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if second := readFile(t, out); second != first {
		t.Errorf("second run differs:\n%s\nvs\n%s", first, second)
	}

	lines := strings.Split(strings.TrimSpace(first), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", lines)
	}
	if !strings.HasPrefix(lines[1], "-0.800000_0.156000_100_0.000000_0.000000,,") {
		t.Errorf("julia row = %q", lines[1])
	}
}

func TestRunCancelledKeepsPreviousReport(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "mandelbrot_0.000000_0.000000_1_double.png", "mandelbrot_0.000000_0.000000_1_float.png")
	outDir := t.TempDir()
	out := filepath.Join(outDir, "results.csv")
	if err := os.WriteFile(out, []byte("previous\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Profile: testProfile(out), FolderPath: dir, Battery: lengthBattery()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := readFile(t, out); got != "previous\n" {
		t.Errorf("report changed: %q", got)
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestRunInvalidInputs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.csv")

	if _, err := Run(context.Background(), Options{Profile: testProfile(out), FolderPath: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected error for missing folder")
	}

	profile := testProfile(out)
	profile.Baseline = "quad"
	if _, err := Run(context.Background(), Options{Profile: profile, FolderPath: t.TempDir()}); !errors.Is(err, config.ErrUnknownBaseline) {
		t.Errorf("err = %v, want ErrUnknownBaseline", err)
	}
}

func TestRunExportsToDatabase(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"mandelbrot_0.000000_0.000000_1_double.png",
		"mandelbrot_0.000000_0.000000_1_float.png",
		"mandelbrot_0.000000_0.000000_1_half.png",
	)
	outDir := t.TempDir()
	profile := testProfile(filepath.Join(outDir, "results.csv"))
	profile.Database = filepath.Join(outDir, "results.db")

	if _, err := Run(context.Background(), Options{Profile: profile, FolderPath: dir, Battery: lengthBattery()}); err != nil {
		t.Fatal(err)
	}

	db, err := database.InitDatabase(profile.Database)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	count, err := database.CellCount(db, "0.000000_0.000000_1")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("stored cells = %d, want 2", count)
	}
	stats, err := database.GetRunStats(db)
	if err != nil {
		t.Fatal(err)
	}
	if stats.RowsWritten != 1 || stats.Baseline != "double" {
		t.Errorf("unexpected run stats %+v", stats)
	}
}

func gradient(w, h int, shift uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x*4) + shift, G: uint8(y * 4), B: 128, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRunComputesImageMetrics(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "mandelbrot_-0.500000_0.000000_1e-06_double.png"), gradient(32, 32, 0))
	writePNG(t, filepath.Join(dir, "mandelbrot_-0.500000_0.000000_1e-06_float.png"), gradient(32, 32, 0))
	writePNG(t, filepath.Join(dir, "mandelbrot_-0.500000_0.000000_1e-06_half.png"), gradient(16, 16, 0))

	out := filepath.Join(t.TempDir(), "results.csv")
	profile := testProfile(out)
	if err := profile.SelectMetrics([]string{config.MetricSSIM, config.MetricPSNR, config.MetricMSE}); err != nil {
		t.Fatal(err)
	}

	stats, err := Run(context.Background(), Options{Profile: profile, FolderPath: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.CellsFailed != 0 {
		t.Errorf("unexpected failed cells: %+v", stats)
	}

	// half has different dimensions: every metric reports -1
	want := "parameters,ssim_float,ssim_half,psnr_float,psnr_half,mse_float,mse_half\n" +
		"-0.500000_0.000000_1e-06,1.0000,-1.0000,inf,-1.0000,0.0000,-1.0000\n"
	if got := readFile(t, out); got != want {
		t.Errorf("report =\n%s\nwant\n%s", got, want)
	}
}

func TestRunInterruptedMidwayKeepsPreviousOutputs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"mandelbrot_0.000000_0.000000_1_double.png",
		"mandelbrot_0.000000_0.000000_1_float.png",
		"mandelbrot_0.000000_0.000000_2_double.png",
		"mandelbrot_0.000000_0.000000_2_float.png",
	)
	outDir := t.TempDir()
	profile := testProfile(filepath.Join(outDir, "results.csv"))
	profile.Database = filepath.Join(outDir, "results.db")

	if _, err := Run(context.Background(), Options{Profile: profile, FolderPath: dir, Battery: lengthBattery()}); err != nil {
		t.Fatal(err)
	}
	previous := readFile(t, profile.Output)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cancelling := NewBatteryFromMetrics(Metric{Name: "len", Precision: 1, Compute: func(c, b string) (float64, error) {
		cancel()
		return 0, nil
	}})
	_, err := Run(ctx, Options{Profile: profile, FolderPath: dir, Battery: cancelling})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	if got := readFile(t, profile.Output); got != previous {
		t.Errorf("report changed after interruption:\n%s", got)
	}
	db, err := database.InitDatabase(profile.Database)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	count, err := database.CellCount(db, "")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("stored cells = %d, want the 2 from the first run", count)
	}
}
