// Package history handles SQLite persistence of finished runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/ports"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the run log.
type Store struct {
	db *sql.DB
}

var _ ports.RunHistory = (*Store)(nil)

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			overall_success INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_results (
			run_id INTEGER NOT NULL,
			game TEXT NOT NULL,
			account TEXT NOT NULL,
			status TEXT NOT NULL,
			retcode INTEGER,
			message TEXT NOT NULL,
			signed_in_days INTEGER,
			reward_name TEXT,
			reward_count INTEGER,
			attempt_count INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, game, account)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate history schema: %w", err)
		}
	}
	return nil
}

// Append stores a finished run and its per-game results.
func (s *Store) Append(ctx context.Context, summary domain.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, overall_success) VALUES (?, ?, ?)`,
		summary.StartedAt.UTC().Format(time.RFC3339Nano),
		summary.FinishedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(summary.OverallSuccess),
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if len(summary.Results) > 0 {
		// The rollback defer watches the function-level err.
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO run_results (run_id, game, account, status, retcode, message, signed_in_days, reward_name, reward_count, attempt_count, elapsed_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for _, result := range summary.Results {
			var rewardName any
			var rewardCount any
			if result.Reward != nil {
				rewardName = result.Reward.Name
				rewardCount = result.Reward.Count
			}
			if _, err = stmt.ExecContext(ctx,
				runID,
				string(result.Game),
				result.Account,
				string(result.Status),
				nullableInt(result.Retcode),
				result.Message,
				nullableInt(result.SignedInDays),
				rewardName,
				rewardCount,
				result.AttemptCount,
				result.Elapsed.Milliseconds(),
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Recent returns up to limit finished runs, newest first, with their
// per-game results attached.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, overall_success
		 FROM runs
		 ORDER BY finished_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runIDs []int64
	var summaries []domain.RunSummary
	for rows.Next() {
		var id int64
		var startedAt, finishedAt string
		var overall int
		if err := rows.Scan(&id, &startedAt, &finishedAt, &overall); err != nil {
			return nil, err
		}
		summary := domain.RunSummary{OverallSuccess: overall != 0}
		if summary.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse run started_at: %w", err)
		}
		if summary.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("parse run finished_at: %w", err)
		}
		runIDs = append(runIDs, id)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range runIDs {
		results, err := s.resultsForRun(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries[i].Results = results
	}

	return summaries, nil
}

func (s *Store) resultsForRun(ctx context.Context, runID int64) ([]domain.AttemptResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game, account, status, retcode, message, signed_in_days, reward_name, reward_count, attempt_count, elapsed_ms
		 FROM run_results
		 WHERE run_id = ?
		 ORDER BY game, account`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.AttemptResult
	for rows.Next() {
		var result domain.AttemptResult
		var game, status string
		var retcode, signedInDays, rewardCount sql.NullInt64
		var rewardName sql.NullString
		var elapsedMs int64
		if err := rows.Scan(&game, &result.Account, &status, &retcode, &result.Message, &signedInDays, &rewardName, &rewardCount, &result.AttemptCount, &elapsedMs); err != nil {
			return nil, err
		}
		result.Game = domain.GameID(game)
		result.Status = domain.AttemptStatus(status)
		result.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		if retcode.Valid {
			code := int(retcode.Int64)
			result.Retcode = &code
		}
		if signedInDays.Valid {
			days := int(signedInDays.Int64)
			result.SignedInDays = &days
		}
		if rewardName.Valid {
			result.Reward = &domain.Reward{Name: rewardName.String, Count: int(rewardCount.Int64)}
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
