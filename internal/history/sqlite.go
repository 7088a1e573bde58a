package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/diff"
	"github.com/alsdiag/alsdiag/internal/rules"
)

const schema = `
CREATE TABLE IF NOT EXISTS versions (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	project      TEXT NOT NULL,
	scan_id      TEXT NOT NULL UNIQUE,
	recorded_at  TEXT NOT NULL,
	score        REAL NOT NULL,
	grade        TEXT NOT NULL,
	report_json  TEXT NOT NULL,
	project_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_versions_project ON versions(project, recorded_at);

CREATE TABLE IF NOT EXISTS changes (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	project      TEXT NOT NULL,
	scan_id      TEXT NOT NULL,
	change_type  TEXT NOT NULL,
	category     TEXT NOT NULL,
	track_name   TEXT NOT NULL,
	device_name  TEXT NOT NULL,
	before_value TEXT NOT NULL,
	after_value  TEXT NOT NULL,
	health_delta REAL NOT NULL,
	recorded_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_scan ON changes(scan_id);
`

// SQLiteStore keeps version history in a single SQLite file. Reports and
// project snapshots are stored as JSON payloads next to the columns queries
// actually filter on.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the history database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	// The driver is in-process; a single connection avoids writer races.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Append(ctx context.Context, rec VersionRecord) error {
	latest, found, err := s.Latest(ctx, rec.Project)
	if err != nil {
		return err
	}
	if found && rec.Timestamp.Before(latest.Timestamp) {
		return &ConcurrencyConflictError{Project: rec.Project}
	}

	reportJSON, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	projectJSON, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("encoding project snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO versions (project, scan_id, recorded_at, score, grade, report_json, project_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Project, rec.ScanID, rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.Report.Score, string(rec.Report.Grade), string(reportJSON), string(projectJSON))
	if err != nil {
		return fmt.Errorf("inserting version: %w", err)
	}
	return nil
}

func (s *SQLiteStore) History(ctx context.Context, project string) ([]VersionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project, scan_id, recorded_at, report_json, project_json
		 FROM versions WHERE project = ? ORDER BY recorded_at ASC, id ASC`, project)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var recs []VersionRecord
	for rows.Next() {
		rec, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) Latest(ctx context.Context, project string) (VersionRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT project, scan_id, recorded_at, report_json, project_json
		 FROM versions WHERE project = ? ORDER BY recorded_at DESC, id DESC LIMIT 1`, project)

	rec, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return VersionRecord{}, false, nil
	}
	if err != nil {
		return VersionRecord{}, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) Projects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT project FROM versions`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, rows.Err()
}

func (s *SQLiteStore) RecordChanges(ctx context.Context, project, scanID string, changes []diff.Change) error {
	if len(changes) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting change transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, c := range changes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO changes (project, scan_id, change_type, category, track_name, device_name, before_value, after_value, health_delta, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			project, scanID, string(c.Type), string(c.Category), c.TrackName,
			c.DeviceName, c.Before, c.After, c.HealthDelta, now)
		if err != nil {
			return fmt.Errorf("inserting change: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) AllChanges(ctx context.Context) ([]diff.Change, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT change_type, category, track_name, device_name, before_value, after_value, health_delta
		 FROM changes ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying changes: %w", err)
	}
	defer rows.Close()

	var changes []diff.Change
	for rows.Next() {
		var c diff.Change
		var ct, cat string
		if err := rows.Scan(&ct, &cat, &c.TrackName, &c.DeviceName, &c.Before, &c.After, &c.HealthDelta); err != nil {
			return nil, err
		}
		c.Type = diff.ChangeType(ct)
		c.Category = als.DeviceCategory(cat)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (VersionRecord, error) {
	var rec VersionRecord
	var recordedAt, reportJSON, projectJSON string
	if err := row.Scan(&rec.Project, &rec.ScanID, &recordedAt, &reportJSON, &projectJSON); err != nil {
		return VersionRecord{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("parsing version timestamp: %w", err)
	}
	rec.Timestamp = ts

	rec.Report = &rules.HealthReport{}
	if err := json.Unmarshal([]byte(reportJSON), rec.Report); err != nil {
		return VersionRecord{}, fmt.Errorf("decoding report: %w", err)
	}
	rec.Snapshot = &als.Project{}
	if err := json.Unmarshal([]byte(projectJSON), rec.Snapshot); err != nil {
		return VersionRecord{}, fmt.Errorf("decoding project snapshot: %w", err)
	}
	return rec, nil
}
