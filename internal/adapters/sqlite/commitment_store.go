package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/pledge/internal/ports/secondary"
)

// CommitmentStore implements secondary.CommitmentStore with SQLite.
// The connection is opened with _txlock=immediate, so BeginTx takes the
// write lock and concurrent reconciliations serialize.
type CommitmentStore struct {
	db *sql.DB
}

// NewCommitmentStore creates a new SQLite commitment store.
func NewCommitmentStore(db *sql.DB) *CommitmentStore {
	return &CommitmentStore{db: db}
}

// WithinTx runs fn in a transaction, committing only if fn succeeds.
func (s *CommitmentStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx secondary.CommitmentTx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(ctx, &commitmentTx{tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type commitmentTx struct {
	tx *sql.Tx
}

func (t *commitmentTx) SprintOwnedBy(ctx context.Context, sprintID, userID string) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx, "SELECT 1 FROM sprints WHERE id = ? AND user_id = ?", sprintID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check sprint owner: %w", err)
	}
	return true, nil
}

func (t *commitmentTx) ListGoalsWithPromises(ctx context.Context, sprintID string) ([]*secondary.GoalWithPromises, error) {
	return listGoalsWithPromises(ctx, t.tx, sprintID)
}

func (t *commitmentTx) DeleteGoals(ctx context.Context, sprintID string, ids []string) error {
	for _, batch := range chunks(ids) {
		query := "DELETE FROM sprint_goals WHERE sprint_id = ? AND id IN (" + placeholders(len(batch)) + ")"
		if _, err := t.tx.ExecContext(ctx, query, toArgs([]any{sprintID}, batch)...); err != nil {
			return fmt.Errorf("failed to delete goals: %w", err)
		}
	}
	return nil
}

func (t *commitmentTx) InsertGoal(ctx context.Context, goal *secondary.GoalRecord) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO sprint_goals (id, sprint_id, goal_id, goal_text, sort_order) VALUES (?, ?, ?, ?, ?)",
		goal.ID, goal.SprintID, nullString(goal.GoalID), goal.GoalText, goal.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func (t *commitmentTx) UpdateGoal(ctx context.Context, goal *secondary.GoalRecord) error {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE sprint_goals SET goal_id = ?, goal_text = ?, sort_order = ? WHERE id = ? AND sprint_id = ?",
		nullString(goal.GoalID), goal.GoalText, goal.SortOrder, goal.ID, goal.SprintID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return expectOneRow(result, "goal", goal.ID)
}

func (t *commitmentTx) InsertPromises(ctx context.Context, promises []*secondary.PromiseRecord) error {
	const cols = 8
	for start := 0; start < len(promises); start += batchSize / cols {
		end := min(start+batchSize/cols, len(promises))
		batch := promises[start:end]

		values := make([]string, 0, len(batch))
		args := make([]any, 0, len(batch)*cols)
		for _, p := range batch {
			days, err := encodeDays(p.ScheduleDays)
			if err != nil {
				return err
			}
			values = append(values, "("+placeholders(cols)+")")
			args = append(args, p.ID, p.SprintGoalID, p.SprintID, p.Text, p.Type, days, nullInt(p.WeeklyTarget), p.SortOrder)
		}
		query := "INSERT INTO promises (id, sprint_goal_id, sprint_id, text, type, schedule_days, weekly_target, sort_order) VALUES " +
			strings.Join(values, ", ")
		if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert promises: %w", err)
		}
	}
	return nil
}

func (t *commitmentTx) UpdatePromise(ctx context.Context, p *secondary.PromiseRecord) error {
	days, err := encodeDays(p.ScheduleDays)
	if err != nil {
		return err
	}
	result, err := t.tx.ExecContext(ctx,
		"UPDATE promises SET text = ?, type = ?, schedule_days = ?, weekly_target = ?, sort_order = ? WHERE id = ? AND sprint_goal_id = ?",
		p.Text, p.Type, days, nullInt(p.WeeklyTarget), p.SortOrder, p.ID, p.SprintGoalID,
	)
	if err != nil {
		return fmt.Errorf("failed to update promise: %w", err)
	}
	return expectOneRow(result, "promise", p.ID)
}

func (t *commitmentTx) DeletePromises(ctx context.Context, goalID string, ids []string) error {
	for _, batch := range chunks(ids) {
		query := "DELETE FROM promises WHERE sprint_goal_id = ? AND id IN (" + placeholders(len(batch)) + ")"
		if _, err := t.tx.ExecContext(ctx, query, toArgs([]any{goalID}, batch)...); err != nil {
			return fmt.Errorf("failed to delete promises: %w", err)
		}
	}
	return nil
}

func (t *commitmentTx) DeleteLogForDate(ctx context.Context, promiseID, userID, date string) (bool, error) {
	return deleteLogForDate(ctx, t.tx, promiseID, userID, date)
}

func expectOneRow(result sql.Result, resource, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("%s %s: expected 1 row, updated %d", resource, id, n)
	}
	return nil
}

// Ensure CommitmentStore implements the interface
var _ secondary.CommitmentStore = (*CommitmentStore)(nil)
var _ secondary.CommitmentTx = (*commitmentTx)(nil)
