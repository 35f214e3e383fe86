package database

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"imagecompare/logging"
	"imagecompare/types"

	_ "github.com/mattn/go-sqlite3"
)

// InitDatabase opens dbPath and creates the result tables if needed
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		folder TEXT NOT NULL,
		baseline TEXT NOT NULL,
		datatypes TEXT NOT NULL,
		metrics TEXT NOT NULL,
		started_at TEXT,
		finished_at TEXT,
		groups_seen INTEGER,
		groups_skipped INTEGER,
		rows_written INTEGER,
		cells_failed INTEGER
	);
	CREATE TABLE IF NOT EXISTS comparisons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		parameters TEXT NOT NULL,
		family TEXT,
		datatype TEXT NOT NULL,
		metric TEXT NOT NULL,
		value REAL,
		text TEXT NOT NULL,
		failed INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		UNIQUE(run_id, parameters, datatype, metric)
	);
	CREATE INDEX IF NOT EXISTS idx_parameters ON comparisons(parameters);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create schema in %s: %w", dbPath, err)
	}
	return db, nil
}

// RunInfo describes the run being exported
type RunInfo struct {
	Folder    string
	Baseline  types.DatatypeTag
	Datatypes []types.DatatypeTag
	Metrics   []string
}

// Exporter writes one run's cells inside a single transaction. Previous
// runs are removed when the exporter starts, so the database mirrors the
// latest report only.
type Exporter struct {
	tx    *sql.Tx
	stmt  *sql.Stmt
	runID int64
	done  bool
}

// NewExporter clears earlier results and registers a new run
func NewExporter(db *sql.DB, info RunInfo) (*Exporter, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM comparisons; DELETE FROM runs;"); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("cannot clear previous results: %w", err)
	}

	tags := make([]string, len(info.Datatypes))
	for i, t := range info.Datatypes {
		tags[i] = string(t)
	}
	res, err := tx.Exec(
		`INSERT INTO runs (folder, baseline, datatypes, metrics, started_at) VALUES (?, ?, ?, ?, ?)`,
		info.Folder, string(info.Baseline), strings.Join(tags, ","), strings.Join(info.Metrics, ","),
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("cannot register run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("cannot read run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO comparisons (
			run_id, parameters, family, datatype, metric, value, text, failed, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("cannot prepare insert: %w", err)
	}

	logging.DebugLog("Exporting run %d to database", runID)
	return &Exporter{tx: tx, stmt: stmt, runID: runID}, nil
}

// WriteRow stores every attempted cell of row. Absent datatypes are not stored.
func (e *Exporter) WriteRow(row types.ReportRow) error {
	for _, cell := range row.Cells {
		if cell.State == types.CellAbsent {
			continue
		}

		var value interface{}
		if cell.State == types.CellValue && !math.IsNaN(cell.Value) {
			value = cell.Value
		}
		var errText interface{}
		if cell.Err != nil {
			errText = cell.Err.Error()
		}

		_, err := e.stmt.Exec(
			e.runID,
			string(row.Key),
			row.Family,
			string(cell.Tag),
			cell.Metric,
			value,
			cell.Text,
			cell.State == types.CellFailed,
			errText,
		)
		if err != nil {
			return fmt.Errorf("cannot insert %s/%s/%s: %w", row.Key, cell.Tag, cell.Metric, err)
		}
	}
	return nil
}

// Commit records the run totals and commits the transaction
func (e *Exporter) Commit(stats types.RunStats) error {
	if e.done {
		return fmt.Errorf("export already finished")
	}
	e.done = true
	defer e.stmt.Close()

	_, err := e.tx.Exec(
		`UPDATE runs SET finished_at = ?, groups_seen = ?, groups_skipped = ?, rows_written = ?, cells_failed = ? WHERE id = ?`,
		time.Now().Format(time.RFC3339), stats.Groups, stats.SkippedNoBase, stats.RowsWritten, stats.CellsFailed, e.runID,
	)
	if err != nil {
		e.tx.Rollback()
		return fmt.Errorf("cannot update run totals: %w", err)
	}
	return e.tx.Commit()
}

// Abort rolls the export back
func (e *Exporter) Abort() {
	if e.done {
		return
	}
	e.done = true
	e.stmt.Close()
	e.tx.Rollback()
}

// CellCount returns the number of stored cells, optionally for one
// parameter key only.
func CellCount(db *sql.DB, parameters string) (int, error) {
	var count int
	var err error
	if parameters != "" {
		err = db.QueryRow("SELECT COUNT(*) FROM comparisons WHERE parameters = ?", parameters).Scan(&count)
	} else {
		err = db.QueryRow("SELECT COUNT(*) FROM comparisons").Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("cannot count cells: %w", err)
	}
	return count, nil
}

// RunStats holds the totals of the stored run
type RunStats struct {
	Folder        string
	Baseline      string
	GroupsSeen    int
	GroupsSkipped int
	RowsWritten   int
	CellsFailed   int
}

// GetRunStats reads the totals of the stored run
func GetRunStats(db *sql.DB) (*RunStats, error) {
	var stats RunStats
	err := db.QueryRow(
		`SELECT folder, baseline, groups_seen, groups_skipped, rows_written, cells_failed FROM runs ORDER BY id DESC LIMIT 1`,
	).Scan(&stats.Folder, &stats.Baseline, &stats.GroupsSeen, &stats.GroupsSkipped, &stats.RowsWritten, &stats.CellsFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to get run stats: %w", err)
	}
	return &stats, nil
}
