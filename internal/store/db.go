package store

import (
	"butterfly-survey/internal/model"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the run store and creates tables if they do not exist.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS stage_progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			status TEXT,
			started_at DATETIME,
			ended_at DATETIME,
			records INTEGER,
			errors INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS run_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			level TEXT,
			message TEXT,
			fields TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS observations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			row INTEGER,
			scientific_name TEXT,
			english_name TEXT,
			family TEXT,
			date DATETIME,
			year INTEGER,
			month INTEGER,
			season TEXT,
			latitude REAL,
			longitude REAL,
			elevation REAL
		);`,
	}
	for _, s := range schemas {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// CloseDB closes the store. Only used by tests and shutdown paths.
func CloseDB() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SaveRun stores a new survey run.
func SaveRun(runID string, spec model.SurveyJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, specJSON, "pending", now, now)
	return err
}

// UpdateRunStatus updates the status of a run.
func UpdateRunStatus(runID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// GetRun fetches the full run spec and status.
func GetRun(runID string) (map[string]interface{}, error) {
	var specJSON, status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.SurveyJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        runID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// ListRuns returns all runs with basic info, newest first.
func ListRuns() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return runs, rows.Err()
}

// SaveRunError records an error for a run.
func SaveRunError(runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// GetRunErrors returns all recorded errors of a run.
func GetRunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []map[string]interface{}
	for rows.Next() {
		var msg string
		var createdAt time.Time
		if err := rows.Scan(&msg, &createdAt); err != nil {
			return nil, err
		}
		errs = append(errs, map[string]interface{}{
			"message":   msg,
			"createdAt": createdAt,
		})
	}
	return errs, rows.Err()
}

// SaveStageProgress records the start or completion of a pipeline stage.
func SaveStageProgress(runID, stage, status string, startedAt, endedAt *time.Time, records, errCount int) error {
	var start, end interface{}
	if startedAt != nil {
		start = startedAt.UTC()
	}
	if endedAt != nil {
		end = endedAt.UTC()
	}
	_, err := db.Exec(`INSERT INTO stage_progress (run_id, stage, status, started_at, ended_at, records, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, stage, status, start, end, records, errCount)
	return err
}

// GetStageProgress returns the stage progress rows of a run in order.
func GetStageProgress(runID string) ([]model.StageProgress, error) {
	rows, err := db.Query(`SELECT stage, status, started_at, ended_at, records, errors
		FROM stage_progress WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []model.StageProgress
	for rows.Next() {
		var p model.StageProgress
		var started sql.NullTime
		var ended sql.NullTime
		if err := rows.Scan(&p.Stage, &p.Status, &started, &ended, &p.Records, &p.Errors); err != nil {
			return nil, err
		}
		if started.Valid {
			p.StartedAt = started.Time
		}
		if ended.Valid {
			t := ended.Time
			p.EndedAt = &t
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

// SaveRunLog persists one structured log line for a run.
func SaveRunLog(runID, stage, level, message string, fields map[string]interface{}) error {
	var fieldsJSON []byte
	if fields != nil {
		var err error
		fieldsJSON, err = json.Marshal(fields)
		if err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_logs (run_id, stage, level, message, fields, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, level, message, string(fieldsJSON), now)
	return err
}

// GetRunLogs returns up to limit log lines of a run, oldest first.
func GetRunLogs(runID string, limit int) ([]model.RunLogEntry, error) {
	rows, err := db.Query(`SELECT stage, level, message, fields, created_at
		FROM run_logs WHERE run_id = ? ORDER BY id LIMIT ?`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.RunLogEntry
	for rows.Next() {
		var entry model.RunLogEntry
		var fieldsJSON string
		if err := rows.Scan(&entry.Stage, &entry.Level, &entry.Message, &fieldsJSON, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if fieldsJSON != "" {
			if err := json.Unmarshal([]byte(fieldsJSON), &entry.Fields); err != nil {
				return nil, fmt.Errorf("corrupt log fields for run %s: %w", runID, err)
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// ReplaceObservations replaces the cleaned table of a run. The cleaned
// table is recomputed from the raw input on every run, so a full replace
// is the only write path.
func ReplaceObservations(runID string, obs []model.Observation) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM observations WHERE run_id = ?`, runID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO observations
		(run_id, row, scientific_name, english_name, family, date, year, month, season, latitude, longitude, elevation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range obs {
		if _, err := stmt.Exec(runID, o.Row, o.ScientificName, o.EnglishName, o.Family,
			o.Date.UTC(), o.Year, o.Month, o.Season, o.Latitude, o.Longitude, o.Elevation); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadObservations reads the cleaned table of a run back in input order.
func LoadObservations(runID string) ([]model.Observation, error) {
	rows, err := db.Query(`SELECT row, scientific_name, english_name, family, date, year, month, season, latitude, longitude, elevation
		FROM observations WHERE run_id = ? ORDER BY row`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obs []model.Observation
	for rows.Next() {
		var o model.Observation
		if err := rows.Scan(&o.Row, &o.ScientificName, &o.EnglishName, &o.Family, &o.Date,
			&o.Year, &o.Month, &o.Season, &o.Latitude, &o.Longitude, &o.Elevation); err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}
