package comparison

import (
	"fmt"
	"io"
	"os"
	"time"

	"imagecompare/config"
	"imagecompare/logging"
	"imagecompare/scanner"
	"imagecompare/types"

	"github.com/schollz/progressbar/v3"
)

// ProgressTracker shows per-group progress on stderr
type ProgressTracker struct {
	bar *progressbar.ProgressBar
}

// NewProgressTracker creates a tracker for total groups. A disabled tracker
// draws nothing.
func NewProgressTracker(total int, enabled bool) *ProgressTracker {
	if !enabled || total == 0 {
		return &ProgressTracker{}
	}

	bar := progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription(" Comparing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &ProgressTracker{bar: bar}
}

// GroupDone advances the bar by one group
func (p *ProgressTracker) GroupDone(key types.ParameterKey) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(" " + string(key))
	p.bar.Add(1)
}

// Stop finishes the bar
func (p *ProgressTracker) Stop() {
	if p.bar == nil {
		return
	}
	p.bar.Finish()
}

// PrintStartupInfo displays information about the run before starting
func PrintStartupInfo(w io.Writer, scan *scanner.ScanResult, profile *config.Profile) {
	fmt.Fprintf(w, "Starting comparison...\n")
	fmt.Fprintf(w, "Files listed: %d, recognised: %d, parameter groups: %d\n",
		scan.FilesListed, scan.FilesMatched, scan.Index.Len())
	fmt.Fprintf(w, "Baseline: %s, candidates: %d, metrics: %d\n",
		profile.Baseline, len(profile.Candidates()), len(profile.Metrics))

	if len(scan.Ignored) > 0 {
		logging.DebugLog("%d image files did not match any family", len(scan.Ignored))
	}
}

// PrintCompletionStats displays statistics after the run
func PrintCompletionStats(w io.Writer, stats types.RunStats, elapsed time.Duration, output string) {
	fmt.Fprintln(w, "\nComparison complete.")
	fmt.Fprintf(w, "Wrote %d rows to %s in %v.\n", stats.RowsWritten, output, elapsed.Round(time.Millisecond))

	if stats.SkippedNoBase > 0 {
		fmt.Fprintf(w, "Skipped %d groups without a baseline rendering.\n", stats.SkippedNoBase)
	}
	fmt.Fprintf(w, "Cells computed: %d, failed: %d, not present: %d\n",
		stats.CellsComputed, stats.CellsFailed, stats.CellsNotPresent)

	if stats.CellsFailed > 0 {
		fmt.Fprintln(w, "Some metrics failed; check the log for details.")
	}
}
