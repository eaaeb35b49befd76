package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MemoryAppliesMigrations(t *testing.T) {
	conn, err := Open(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	for _, table := range []string{"sprints", "sprint_goals", "promises", "promise_logs", "daily_logs"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}

	var fk int
	require.NoError(t, conn.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_FileIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pledge.db")

	conn, err := Open(path)
	require.NoError(t, err)
	_, err = conn.Exec("INSERT INTO sprints (id, user_id, name, start_date, end_date) VALUES ('s1', 'u1', 'Q1', '2024-01-01', '2024-01-14')")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	// migrations already applied; reopening must not fail
	conn, err = Open(path)
	require.NoError(t, err)
	defer conn.Close()

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM sprints").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSchema_RejectsInvalidPromise(t *testing.T) {
	conn, err := Open(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(`INSERT INTO sprints (id, user_id, name, start_date, end_date) VALUES ('s1', 'u1', 'Q1', '2024-01-01', '2024-01-14');
		INSERT INTO sprint_goals (id, sprint_id, goal_text) VALUES ('g1', 's1', 'Writing')`)
	require.NoError(t, err)

	_, err = conn.Exec("INSERT INTO promises (id, sprint_goal_id, sprint_id, text, type, schedule_days) VALUES ('p1', 'g1', 's1', 'Write', 'daily', '[]')")
	assert.Error(t, err, "daily promise without days must violate the CHECK constraint")
}
