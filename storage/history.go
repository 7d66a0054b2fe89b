package storage

import (
	"database/sql"
	"time"

	"bulk_bench/models"
	_ "github.com/mattn/go-sqlite3"
)

// HistoryStore keeps one row per benchmark run in a local SQLite file.
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &HistoryStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func (s *HistoryStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bench_runs (
		id TEXT PRIMARY KEY,
		db TEXT,
		mode TEXT,
		variant TEXT,
		language TEXT,
		table_name TEXT,
		status TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		total_rows INTEGER DEFAULT 0,
		total_time_sec REAL DEFAULT 0,
		rows_per_sec REAL DEFAULT 0,
		peak_memory_mb REAL,
		peak_cpu_percent REAL,
		result_path TEXT DEFAULT '',
		error TEXT DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_bench_runs_started ON bench_runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *HistoryStore) CreateRun(run *models.BenchRun) error {
	_, err := s.db.Exec(`
		INSERT INTO bench_runs (id, db, mode, variant, language, table_name, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.DB, run.Mode, run.Variant, run.Language, run.TableName, run.Status, run.StartedAt)
	return err
}

// CompleteRun stores the numbers of a finished run.
func (s *HistoryStore) CompleteRun(id string, result *models.RunResult, resultPath string) error {
	_, err := s.db.Exec(`
		UPDATE bench_runs SET status = ?, finished_at = ?, db = ?, total_rows = ?, total_time_sec = ?,
			rows_per_sec = ?, peak_memory_mb = ?, peak_cpu_percent = ?, result_path = ?
		WHERE id = ?`,
		models.RunStatusCompleted, time.Now(), result.DB, result.TotalRows, result.TotalTimeSec,
		result.RowsPerSec, models.NullableFloat(result.PeakMemoryMB), models.NullableFloat(result.PeakCPU),
		resultPath, id)
	return err
}

func (s *HistoryStore) FailRun(id string, runErr error) error {
	_, err := s.db.Exec(`
		UPDATE bench_runs SET status = ?, finished_at = ?, error = ? WHERE id = ?`,
		models.RunStatusFailed, time.Now(), runErr.Error(), id)
	return err
}

func (s *HistoryStore) GetRun(id string) (*models.BenchRun, error) {
	row := s.db.QueryRow(`
		SELECT id, db, mode, variant, language, table_name, status, started_at, finished_at,
			total_rows, total_time_sec, rows_per_sec, peak_memory_mb, peak_cpu_percent, result_path, error
		FROM bench_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// RecentRuns returns up to limit runs, newest first.
func (s *HistoryStore) RecentRuns(limit int) ([]models.BenchRun, error) {
	rows, err := s.db.Query(`
		SELECT id, db, mode, variant, language, table_name, status, started_at, finished_at,
			total_rows, total_time_sec, rows_per_sec, peak_memory_mb, peak_cpu_percent, result_path, error
		FROM bench_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.BenchRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.BenchRun, error) {
	var r models.BenchRun
	var finished sql.NullTime
	var peakMem, peakCPU sql.NullFloat64
	err := row.Scan(&r.ID, &r.DB, &r.Mode, &r.Variant, &r.Language, &r.TableName, &r.Status,
		&r.StartedAt, &finished, &r.TotalRows, &r.TotalTimeSec, &r.RowsPerSec,
		&peakMem, &peakCPU, &r.ResultPath, &r.Error)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	if peakMem.Valid {
		r.PeakMemoryMB = &peakMem.Float64
	}
	if peakCPU.Valid {
		r.PeakCPU = &peakCPU.Float64
	}
	return &r, nil
}
