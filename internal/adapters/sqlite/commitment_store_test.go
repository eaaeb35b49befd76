package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pledge/internal/adapters/sqlite"
	"github.com/example/pledge/internal/ports/secondary"
)

func TestCommitmentStore_SprintOwnedBy(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewCommitmentStore(db)
	seedSprint(t, db, "s1", "u1")

	tests := []struct {
		sprint, user string
		want         bool
	}{
		{"s1", "u1", true},
		{"s1", "u2", false},
		{"missing", "u1", false},
	}
	for _, tt := range tests {
		err := store.WithinTx(context.Background(), func(ctx context.Context, tx secondary.CommitmentTx) error {
			got, err := tx.SprintOwnedBy(ctx, tt.sprint, tt.user)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "SprintOwnedBy(%s, %s)", tt.sprint, tt.user)
			return nil
		})
		require.NoError(t, err)
	}
}

func TestCommitmentStore_WritesCommit(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewCommitmentStore(db)
	seedSprint(t, db, "s1", "u1")
	seedGoal(t, db, "old", "s1", "Old goal", 0)
	seedDailyPromise(t, db, "old-p", "old", "s1", "Old promise")

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx secondary.CommitmentTx) error {
		if err := tx.DeleteGoals(ctx, "s1", []string{"old"}); err != nil {
			return err
		}
		if err := tx.InsertGoal(ctx, &secondary.GoalRecord{ID: "g1", SprintID: "s1", GoalText: "Writing"}); err != nil {
			return err
		}
		return tx.InsertPromises(ctx, []*secondary.PromiseRecord{
			{ID: "p1", SprintGoalID: "g1", SprintID: "s1", Text: "Write", Type: "daily", ScheduleDays: []int{1, 3}},
			{ID: "p2", SprintGoalID: "g1", SprintID: "s1", Text: "Edit", Type: "weekly", WeeklyTarget: 2, SortOrder: 1},
		})
	})
	require.NoError(t, err)

	trees, err := sqlite.NewSprintRepository(db).ListGoalsWithPromises(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, trees, 1)
	assert.Equal(t, "g1", trees[0].Goal.ID)
	require.Len(t, trees[0].Promises, 2)
	assert.Equal(t, []int{1, 3}, trees[0].Promises[0].ScheduleDays)
	assert.Equal(t, 2, trees[0].Promises[1].WeeklyTarget)
	assert.Equal(t, 0, countRows(t, db, "promises", "id = ?", "old-p"), "goal delete cascades to promises")
}

func TestCommitmentStore_ErrorRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewCommitmentStore(db)
	seedSprint(t, db, "s1", "u1")
	seedGoal(t, db, "g1", "s1", "Writing", 0)

	boom := errors.New("boom")
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx secondary.CommitmentTx) error {
		if err := tx.UpdateGoal(ctx, &secondary.GoalRecord{ID: "g1", SprintID: "s1", GoalText: "Changed"}); err != nil {
			return err
		}
		if err := tx.InsertGoal(ctx, &secondary.GoalRecord{ID: "g2", SprintID: "s1", GoalText: "New"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 1, countRows(t, db, "sprint_goals", "id = ? AND goal_text = ?", "g1", "Writing"))
	assert.Equal(t, 0, countRows(t, db, "sprint_goals", "id = ?", "g2"))
}

func TestCommitmentStore_ConstraintViolationRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewCommitmentStore(db)
	seedSprint(t, db, "s1", "u1")

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx secondary.CommitmentTx) error {
		if err := tx.InsertGoal(ctx, &secondary.GoalRecord{ID: "g1", SprintID: "s1", GoalText: "Writing"}); err != nil {
			return err
		}
		return tx.InsertPromises(ctx, []*secondary.PromiseRecord{
			{ID: "p1", SprintGoalID: "g1", SprintID: "s1", Text: "Bad", Type: "weekly"},
		})
	})
	require.Error(t, err)
	assert.Equal(t, 0, countRows(t, db, "sprint_goals", "sprint_id = ?", "s1"))
}

func TestCommitmentStore_UpdateAndDeletePromises(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewCommitmentStore(db)
	seedSprint(t, db, "s1", "u1")
	seedGoal(t, db, "g1", "s1", "Writing", 0)
	seedDailyPromise(t, db, "p1", "g1", "s1", "Write")
	seedDailyPromise(t, db, "p2", "g1", "s1", "Read")
	seedLog(t, db, "p2", "2024-01-01", "u1", true)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx secondary.CommitmentTx) error {
		if err := tx.UpdatePromise(ctx, &secondary.PromiseRecord{ID: "p1", SprintGoalID: "g1", Text: "Write more", Type: "weekly", WeeklyTarget: 4}); err != nil {
			return err
		}
		return tx.DeletePromises(ctx, "g1", []string{"p2"})
	})
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, db, "promises", "id = 'p1' AND type = 'weekly' AND weekly_target = 4 AND schedule_days IS NULL"))
	assert.Equal(t, 0, countRows(t, db, "promises", "id = 'p2'"))
	assert.Equal(t, 0, countRows(t, db, "promise_logs", "promise_id = 'p2'"), "promise delete cascades to logs")
}

func TestCommitmentStore_UpdateMissingPromiseFails(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewCommitmentStore(db)
	seedSprint(t, db, "s1", "u1")
	seedGoal(t, db, "g1", "s1", "Writing", 0)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx secondary.CommitmentTx) error {
		return tx.UpdatePromise(ctx, &secondary.PromiseRecord{ID: "nope", SprintGoalID: "g1", Text: "x", Type: "weekly", WeeklyTarget: 1})
	})
	assert.Error(t, err)
}

func TestCommitmentStore_DeleteLogForDate(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewCommitmentStore(db)
	seedSprint(t, db, "s1", "u1")
	seedGoal(t, db, "g1", "s1", "Writing", 0)
	seedDailyPromise(t, db, "p1", "g1", "s1", "Write")
	seedLog(t, db, "p1", "2024-01-01", "u1", true)
	seedLog(t, db, "p1", "2024-01-02", "u1", true)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx secondary.CommitmentTx) error {
		removed, err := tx.DeleteLogForDate(ctx, "p1", "u1", "2024-01-02")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = tx.DeleteLogForDate(ctx, "p1", "u2", "2024-01-01")
		require.NoError(t, err)
		assert.False(t, removed, "another user's delete must not match")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, db, "promise_logs", "promise_id = 'p1' AND date = '2024-01-01'"))
	assert.Equal(t, 0, countRows(t, db, "promise_logs", "promise_id = 'p1' AND date = '2024-01-02'"))
}
