package comparison

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"imagecompare/config"
	"imagecompare/database"
	"imagecompare/imageprocessor"
	"imagecompare/logging"
	"imagecompare/report"
	"imagecompare/scanner"
	"imagecompare/types"
)

// Options defines the inputs of one comparison run
type Options struct {
	Profile    *config.Profile
	FolderPath string
	// Battery overrides the metrics built from Profile.Metrics
	Battery      *Battery
	ShowProgress bool
	DebugMode    bool
	// Stdout receives the startup and completion summary; nil silences it
	Stdout io.Writer
}

// Run scans the folder, evaluates every group that has a baseline and
// writes the report (and optional database export). An error or
// cancellation during evaluation leaves the previous report and database
// untouched. The database commits first and the report is renamed into
// place last, so a failed rename can leave a new database next to the old
// report.
func Run(ctx context.Context, opts Options) (types.RunStats, error) {
	var stats types.RunStats
	profile := opts.Profile
	if err := profile.Validate(); err != nil {
		return stats, fmt.Errorf("invalid profile: %w", err)
	}

	parser, err := scanner.NewParser(profile.Families, profile.Datatypes, profile.Extension)
	if err != nil {
		return stats, err
	}

	scan, err := scanner.ScanFolder(ctx, parser, scanner.ScanOptions{
		FolderPath: opts.FolderPath,
		Extension:  profile.Extension,
		DebugMode:  opts.DebugMode,
	})
	if err != nil {
		return stats, err
	}
	stats.FilesListed = scan.FilesListed
	stats.FilesMatched = scan.FilesMatched
	stats.Groups = scan.Index.Len()

	battery := opts.Battery
	if battery == nil {
		registry := imageprocessor.NewImageLoaderRegistry()
		if !registry.CanLoadFile("render." + strings.TrimPrefix(profile.Extension, ".")) {
			logging.LogWarning("No dedicated loader for .%s files (known: %s), using OpenCV defaults",
				strings.TrimPrefix(profile.Extension, "."), strings.Join(imageprocessor.GetSupportedExtensions(), " "))
		}
		battery, err = NewBattery(profile.Metrics, registry)
		if err != nil {
			return stats, err
		}
	}
	builder := NewRowBuilder(battery, profile.Baseline, profile.Candidates())

	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	PrintStartupInfo(stdout, scan, profile)

	out, err := report.Create(profile.Output, headerFor(battery, builder))
	if err != nil {
		return stats, err
	}
	defer out.Abort()

	var exporter *database.Exporter
	if profile.Database != "" {
		db, err := database.InitDatabase(profile.Database)
		if err != nil {
			return stats, fmt.Errorf("cannot open database: %w", err)
		}
		defer db.Close()

		exporter, err = database.NewExporter(db, database.RunInfo{
			Folder:    opts.FolderPath,
			Baseline:  profile.Baseline,
			Datatypes: profile.Datatypes,
			Metrics:   metricNames(battery),
		})
		if err != nil {
			return stats, err
		}
		defer exporter.Abort()
	}

	startTime := time.Now()
	progress := NewProgressTracker(scan.Index.Len(), opts.ShowProgress)

	for _, group := range scan.Groups() {
		if err := ctx.Err(); err != nil {
			progress.Stop()
			return stats, fmt.Errorf("comparison interrupted: %w", err)
		}

		row, ok := builder.Build(group)
		progress.GroupDone(group.Key)
		if !ok {
			stats.SkippedNoBase++
			logging.DebugLog("Skipping %s: no %s rendering", group.Key, profile.Baseline)
			continue
		}
		countCells(&stats, row)

		if err := out.WriteRow(row); err != nil {
			progress.Stop()
			return stats, err
		}
		if exporter != nil {
			if err := exporter.WriteRow(row); err != nil {
				progress.Stop()
				return stats, err
			}
		}
	}
	progress.Stop()
	stats.RowsWritten = out.Rows()

	if exporter != nil {
		if err := exporter.Commit(stats); err != nil {
			return stats, fmt.Errorf("database export failed: %w", err)
		}
		logging.LogInfo("Exported %d rows to %s", stats.RowsWritten, profile.Database)
	}
	if err := out.Commit(); err != nil {
		if exporter != nil {
			logging.LogError("Database %s was updated but report %s could not be written", profile.Database, out.Path())
		}
		return stats, err
	}

	PrintCompletionStats(stdout, stats, time.Since(startTime), out.Path())
	return stats, nil
}

// headerFor derives the header from the battery actually in use so that
// an injected battery still yields rows matching their header.
func headerFor(battery *Battery, builder *RowBuilder) []string {
	header := []string{config.ParametersColumn}
	for _, m := range battery.Metrics() {
		for _, tag := range builder.candidates {
			header = append(header, config.ColumnName(m.Name, tag))
		}
	}
	return header
}

func metricNames(battery *Battery) []string {
	names := make([]string, 0, battery.Len())
	for _, m := range battery.Metrics() {
		names = append(names, m.Name)
	}
	return names
}

func countCells(stats *types.RunStats, row types.ReportRow) {
	for _, c := range row.Cells {
		switch c.State {
		case types.CellValue:
			stats.CellsComputed++
		case types.CellFailed:
			stats.CellsFailed++
		default:
			stats.CellsNotPresent++
		}
	}
}
