package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/ports/secondary"
)

// DailyLogRepository implements secondary.DailyLogRepository with SQLite.
type DailyLogRepository struct {
	db *sql.DB
}

// NewDailyLogRepository creates a new SQLite daily log repository.
func NewDailyLogRepository(db *sql.DB) *DailyLogRepository {
	return &DailyLogRepository{db: db}
}

const dailyLogColumns = "id, user_id, date, energy, motion_units, action_units, note"

// Upsert inserts or replaces the user's entry for the date. On conflict the
// existing row keeps its id, which is returned.
func (r *DailyLogRepository) Upsert(ctx context.Context, day *secondary.DailyLogRecord) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO daily_logs (id, user_id, date, energy, motion_units, action_units, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			energy = excluded.energy,
			motion_units = excluded.motion_units,
			action_units = excluded.action_units,
			note = excluded.note
		RETURNING id`,
		day.ID, day.UserID, day.Date, nullInt(day.Energy), day.MotionUnits, day.ActionUnits, nullString(day.Note),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert daily log: %w", err)
	}
	return id, nil
}

// GetByID retrieves an entry by id.
func (r *DailyLogRepository) GetByID(ctx context.Context, id string) (*secondary.DailyLogRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+dailyLogColumns+" FROM daily_logs WHERE id = ?", id)
	record, err := scanDailyLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("daily log", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}
	return record, nil
}

// ListForUserRange lists a user's entries in [start, end] by date.
func (r *DailyLogRepository) ListForUserRange(ctx context.Context, userID, start, end string) ([]*secondary.DailyLogRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+dailyLogColumns+" FROM daily_logs WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date",
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}
	defer rows.Close()

	var days []*secondary.DailyLogRecord
	for rows.Next() {
		record, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		days = append(days, record)
	}
	return days, rows.Err()
}

func scanDailyLog(s scanner) (*secondary.DailyLogRecord, error) {
	var (
		energy sql.NullInt64
		note   sql.NullString
	)
	record := &secondary.DailyLogRecord{}
	if err := s.Scan(&record.ID, &record.UserID, &record.Date, &energy, &record.MotionUnits, &record.ActionUnits, &note); err != nil {
		return nil, err
	}
	record.Energy = int(energy.Int64)
	record.Note = note.String
	return record, nil
}

// Ensure DailyLogRepository implements the interface
var _ secondary.DailyLogRepository = (*DailyLogRepository)(nil)
