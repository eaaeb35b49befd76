package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/pledge/internal/ports/secondary"
)

// LedgerRepository implements secondary.LedgerRepository with SQLite.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new SQLite ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const logColumns = "promise_id, date, user_id, completed, daily_log_id, updated_at"

// PromiseOwner resolves the sprint and user owning a promise.
func (r *LedgerRepository) PromiseOwner(ctx context.Context, promiseID string) (*secondary.PromiseOwnerRecord, error) {
	owner := &secondary.PromiseOwnerRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT p.id, p.sprint_id, s.user_id FROM promises p JOIN sprints s ON s.id = p.sprint_id WHERE p.id = ?",
		promiseID,
	).Scan(&owner.PromiseID, &owner.SprintID, &owner.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve promise owner: %w", err)
	}
	return owner, nil
}

// UpsertLog writes a log keyed on (promise_id, date) in one statement.
func (r *LedgerRepository) UpsertLog(ctx context.Context, log *secondary.PromiseLogRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO promise_logs (promise_id, date, user_id, completed, daily_log_id, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (promise_id, date) DO UPDATE SET
			completed = excluded.completed,
			daily_log_id = excluded.daily_log_id,
			updated_at = CURRENT_TIMESTAMP`,
		log.PromiseID, log.Date, log.UserID, log.Completed, nullString(log.DailyLogID),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert promise log: %w", err)
	}
	return nil
}

// ListLogsForPromiseRange lists one promise's logs in [start, end].
func (r *LedgerRepository) ListLogsForPromiseRange(ctx context.Context, promiseID, userID, start, end string) ([]*secondary.PromiseLogRecord, error) {
	return queryLogs(ctx, r.db,
		"SELECT "+logColumns+" FROM promise_logs WHERE promise_id = ? AND user_id = ? AND date BETWEEN ? AND ? ORDER BY date",
		promiseID, userID, start, end,
	)
}

// ListPromiseIDsForSprint lists the ids of every promise in a sprint.
func (r *LedgerRepository) ListPromiseIDsForSprint(ctx context.Context, sprintID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM promises WHERE sprint_id = ? ORDER BY sort_order, id", sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprint promises: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan promise id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListLogsForPromises lists the logs of many promises with one IN query per
// batch of ids.
func (r *LedgerRepository) ListLogsForPromises(ctx context.Context, promiseIDs []string, userID string) ([]*secondary.PromiseLogRecord, error) {
	var logs []*secondary.PromiseLogRecord
	for _, batch := range chunks(promiseIDs) {
		query := "SELECT " + logColumns + " FROM promise_logs WHERE user_id = ? AND promise_id IN (" +
			placeholders(len(batch)) + ") ORDER BY date, promise_id"
		got, err := queryLogs(ctx, r.db, query, toArgs([]any{userID}, batch)...)
		if err != nil {
			return nil, err
		}
		logs = append(logs, got...)
	}
	return logs, nil
}

// ListLogsForUserRange lists a user's logs in [start, end] across sprints.
func (r *LedgerRepository) ListLogsForUserRange(ctx context.Context, userID, start, end string) ([]*secondary.PromiseLogRecord, error) {
	return queryLogs(ctx, r.db,
		"SELECT "+logColumns+" FROM promise_logs WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date, promise_id",
		userID, start, end,
	)
}

// DeleteLogForDate deletes one log and reports whether a row was removed.
func (r *LedgerRepository) DeleteLogForDate(ctx context.Context, promiseID, userID, date string) (bool, error) {
	return deleteLogForDate(ctx, r.db, promiseID, userID, date)
}

func deleteLogForDate(ctx context.Context, q querier, promiseID, userID, date string) (bool, error) {
	result, err := q.ExecContext(ctx,
		"DELETE FROM promise_logs WHERE promise_id = ? AND user_id = ? AND date = ?",
		promiseID, userID, date,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete promise log: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func queryLogs(ctx context.Context, q querier, query string, args ...any) ([]*secondary.PromiseLogRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query promise logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.PromiseLogRecord
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func scanLog(s scanner) (*secondary.PromiseLogRecord, error) {
	var (
		dailyLogID sql.NullString
		updatedAt  time.Time
	)
	log := &secondary.PromiseLogRecord{}
	if err := s.Scan(&log.PromiseID, &log.Date, &log.UserID, &log.Completed, &dailyLogID, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan promise log: %w", err)
	}
	log.DailyLogID = dailyLogID.String
	log.UpdatedAt = updatedAt.Format(time.RFC3339)
	return log, nil
}

// Ensure LedgerRepository implements the interface
var _ secondary.LedgerRepository = (*LedgerRepository)(nil)
