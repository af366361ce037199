// Package state persists generation run history in SQLite, so past runs
// (project, seed, sample size, configuration) can be listed and reproduced.
package state

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/latentlab/semgen/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// RunStatus is the lifecycle state of a recorded run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded generation.
type Run struct {
	ID          string
	Project     string
	Seed        int64
	Respondents int
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
	ConfigJSON  string
}

// Store is a SQLite-backed run history.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore creates an unopened store. A nil logger discards output.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// Open opens the database at path; ":memory:" gives an in-memory store.
func (s *Store) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping state database: %w", err)
	}
	s.db = db
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the schema if missing.
func (s *Store) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("state database not opened")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("initialize state schema: %w", err)
	}
	return nil
}

// CreateRun records the start of a generation run, capturing the full model
// configuration as JSON.
func (s *Store) CreateRun(model *config.ModelConfig) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("state database not opened")
	}

	cfgJSON, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("encode run config: %w", err)
	}

	run := &Run{
		ID:          uuid.New().String(),
		Project:     model.Project,
		Seed:        model.Sample.Seed,
		Respondents: model.Sample.Respondents,
		Status:      RunStatusRunning,
		StartedAt:   time.Now().UTC(),
		ConfigJSON:  string(cfgJSON),
	}
	s.logger.Debug("creating run", slog.String("id", run.ID), slog.String("project", run.Project))

	_, err = s.db.Exec(
		`INSERT INTO runs (id, project, seed, respondents, status, started_at, config_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Project, run.Seed, run.Respondents, string(run.Status), run.StartedAt, run.ConfigJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return run, nil
}

// CompleteRun marks a run finished with the given status.
func (s *Store) CompleteRun(id string, status RunStatus, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("state database not opened")
	}
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE runs SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		string(status), now, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("complete run %s: %w", id, err)
	}
	return nil
}

// GetRun retrieves one run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("state database not opened")
	}
	row := s.db.QueryRow(
		`SELECT id, project, seed, respondents, status, started_at, completed_at, error, config_json
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("state database not opened")
	}
	rows, err := s.db.Query(
		`SELECT id, project, seed, respondents, status, started_at, completed_at, error, config_json
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run         Run
		status      string
		completedAt sql.NullTime
		errMsg      sql.NullString
	)
	err := sc.Scan(&run.ID, &run.Project, &run.Seed, &run.Respondents, &status,
		&run.StartedAt, &completedAt, &errMsg, &run.ConfigJSON)
	if err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	run.Error = errMsg.String
	return &run, nil
}
