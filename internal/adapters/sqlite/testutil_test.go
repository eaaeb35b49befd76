// Package sqlite_test contains integration tests for SQLite repositories.
//
// Every test database is created through db.Open so tests run against the
// embedded migrations, never a hand-written schema.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/pledge/internal/db"
)

// setupTestDB creates a migrated in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(":memory:")
	require.NoError(t, err, "failed to open test db")

	t.Cleanup(func() {
		testDB.Close()
	})
	return testDB
}

// seedSprint inserts a sprint owned by userID.
func seedSprint(t *testing.T, db *sql.DB, id, userID string) string {
	t.Helper()
	_, err := db.Exec("INSERT INTO sprints (id, user_id, name, start_date, end_date) VALUES (?, ?, 'Sprint', '2024-01-01', '2024-01-14')", id, userID)
	require.NoError(t, err, "failed to seed sprint")
	return id
}

// seedGoal inserts a goal under a sprint.
func seedGoal(t *testing.T, db *sql.DB, id, sprintID, text string, sortOrder int) string {
	t.Helper()
	_, err := db.Exec("INSERT INTO sprint_goals (id, sprint_id, goal_text, sort_order) VALUES (?, ?, ?, ?)", id, sprintID, text, sortOrder)
	require.NoError(t, err, "failed to seed goal")
	return id
}

// seedDailyPromise inserts a Monday..Friday daily promise.
func seedDailyPromise(t *testing.T, db *sql.DB, id, goalID, sprintID, text string) string {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO promises (id, sprint_goal_id, sprint_id, text, type, schedule_days) VALUES (?, ?, ?, ?, 'daily', '[1,2,3,4,5]')",
		id, goalID, sprintID, text,
	)
	require.NoError(t, err, "failed to seed promise")
	return id
}

// seedLog inserts a promise log.
func seedLog(t *testing.T, db *sql.DB, promiseID, date, userID string, completed bool) {
	t.Helper()
	_, err := db.Exec("INSERT INTO promise_logs (promise_id, date, user_id, completed) VALUES (?, ?, ?, ?)", promiseID, date, userID, completed)
	require.NoError(t, err, "failed to seed log")
}

// countRows counts rows matching a WHERE clause.
func countRows(t *testing.T, db *sql.DB, table, where string, args ...any) int {
	t.Helper()
	var n int
	err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table+" WHERE "+where, args...).Scan(&n)
	require.NoError(t, err)
	return n
}
