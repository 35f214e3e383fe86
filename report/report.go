// Package report writes comparison rows as CSV. The file is built next to
// its destination and renamed into place on Commit, so an aborted run never
// leaves a truncated report behind.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"imagecompare/types"
)

// Writer streams rows into a temporary file beside the target path
type Writer struct {
	path   string
	tmp    *os.File
	csv    *csv.Writer
	width  int
	rows   int
	closed bool
}

// Create opens a temporary file and writes the header
func Create(path string, header []string) (*Writer, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("cannot create report in %s: %w", dir, err)
	}

	w := &Writer{
		path:  path,
		tmp:   tmp,
		csv:   csv.NewWriter(tmp),
		width: len(header),
	}
	if err := w.csv.Write(header); err != nil {
		w.Abort()
		return nil, fmt.Errorf("cannot write report header: %w", err)
	}
	return w, nil
}

// WriteRow appends one row; its width must match the header
func (w *Writer) WriteRow(row types.ReportRow) error {
	if w.closed {
		return fmt.Errorf("report %s already closed", w.path)
	}
	record := row.Record()
	if len(record) != w.width {
		return fmt.Errorf("row %s has %d fields, header has %d", row.Key, len(record), w.width)
	}
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("cannot write row %s: %w", row.Key, err)
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written so far
func (w *Writer) Rows() int {
	return w.rows
}

// Path returns the destination path
func (w *Writer) Path() string {
	return w.path
}

// Commit flushes the rows and replaces any existing file at the target path
func (w *Writer) Commit() error {
	if w.closed {
		return fmt.Errorf("report %s already closed", w.path)
	}
	w.closed = true

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.discard()
		return fmt.Errorf("cannot flush report: %w", err)
	}
	if err := w.tmp.Chmod(0o644); err != nil {
		w.discard()
		return fmt.Errorf("cannot set report permissions: %w", err)
	}
	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("cannot close report: %w", err)
	}
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("cannot move report into place: %w", err)
	}
	return nil
}

// Abort discards the temporary file; the target path is left untouched.
// Calling Abort after Commit is a no-op.
func (w *Writer) Abort() {
	if w.closed {
		return
	}
	w.closed = true
	w.discard()
}

func (w *Writer) discard() {
	w.tmp.Close()
	os.Remove(w.tmp.Name())
}
