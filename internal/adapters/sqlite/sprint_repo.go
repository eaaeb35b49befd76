package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/ports/secondary"
)

// SprintRepository implements secondary.SprintRepository with SQLite.
type SprintRepository struct {
	db *sql.DB
}

// NewSprintRepository creates a new SQLite sprint repository.
func NewSprintRepository(db *sql.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

const sprintColumns = "id, user_id, name, start_date, end_date, created_at"

// Create persists a new sprint.
func (r *SprintRepository) Create(ctx context.Context, sprint *secondary.SprintRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sprints (id, user_id, name, start_date, end_date) VALUES (?, ?, ?, ?, ?)",
		sprint.ID, sprint.UserID, sprint.Name, sprint.StartDate, sprint.EndDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create sprint: %w", err)
	}
	return nil
}

// GetByID retrieves a sprint by its ID.
func (r *SprintRepository) GetByID(ctx context.Context, id string) (*secondary.SprintRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sprintColumns+" FROM sprints WHERE id = ?", id)
	record, err := scanSprint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("sprint", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sprint: %w", err)
	}
	return record, nil
}

// List retrieves a user's sprints, most recent start first.
func (r *SprintRepository) List(ctx context.Context, userID string) ([]*secondary.SprintRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sprintColumns+" FROM sprints WHERE user_id = ? ORDER BY start_date DESC, created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	defer rows.Close()

	var sprints []*secondary.SprintRecord
	for rows.Next() {
		record, err := scanSprint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sprint: %w", err)
		}
		sprints = append(sprints, record)
	}
	return sprints, rows.Err()
}

// Delete removes a sprint; goals, promises and logs cascade.
func (r *SprintRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sprints WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete sprint: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("sprint", id)
	}
	return nil
}

// ListGoalsWithPromises loads a sprint's goal tree in display order.
func (r *SprintRepository) ListGoalsWithPromises(ctx context.Context, sprintID string) ([]*secondary.GoalWithPromises, error) {
	return listGoalsWithPromises(ctx, r.db, sprintID)
}

// ListGoalsForUserRange loads the goal trees of every sprint of the user
// overlapping [start, end], ordered by sprint start.
func (r *SprintRepository) ListGoalsForUserRange(ctx context.Context, userID, start, end string) ([]*secondary.GoalWithPromises, error) {
	const overlap = "s.user_id = ? AND s.start_date <= ? AND s.end_date >= ?"
	goalQuery := `SELECT g.id, g.sprint_id, g.goal_id, g.goal_text, g.sort_order
		FROM sprint_goals g JOIN sprints s ON s.id = g.sprint_id
		WHERE ` + overlap + `
		ORDER BY s.start_date, s.id, g.sort_order, g.id`
	promiseQuery := `SELECT ` + promiseColumns("p") + `
		FROM promises p JOIN sprints s ON s.id = p.sprint_id
		WHERE ` + overlap + `
		ORDER BY p.sort_order, p.id`
	return loadGoalTrees(ctx, r.db, goalQuery, promiseQuery, userID, end, start)
}

func listGoalsWithPromises(ctx context.Context, q querier, sprintID string) ([]*secondary.GoalWithPromises, error) {
	goalQuery := `SELECT id, sprint_id, goal_id, goal_text, sort_order
		FROM sprint_goals WHERE sprint_id = ? ORDER BY sort_order, id`
	promiseQuery := `SELECT ` + promiseColumns("promises") + `
		FROM promises WHERE sprint_id = ? ORDER BY sort_order, id`
	return loadGoalTrees(ctx, q, goalQuery, promiseQuery, sprintID)
}

// loadGoalTrees runs one goal query and one promise query with the same
// arguments and groups promises under their goals.
func loadGoalTrees(ctx context.Context, q querier, goalQuery, promiseQuery string, args ...any) ([]*secondary.GoalWithPromises, error) {
	rows, err := q.QueryContext(ctx, goalQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	var trees []*secondary.GoalWithPromises
	byID := make(map[string]*secondary.GoalWithPromises)
	for rows.Next() {
		var goalID sql.NullString
		g := &secondary.GoalRecord{}
		if err := rows.Scan(&g.ID, &g.SprintID, &goalID, &g.GoalText, &g.SortOrder); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		g.GoalID = goalID.String
		tree := &secondary.GoalWithPromises{Goal: g}
		trees = append(trees, tree)
		byID[g.ID] = tree
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	rows.Close()

	rows, err = q.QueryContext(ctx, promiseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list promises: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPromise(rows)
		if err != nil {
			return nil, err
		}
		if tree, ok := byID[p.SprintGoalID]; ok {
			tree.Promises = append(tree.Promises, p)
		}
	}
	return trees, rows.Err()
}

func promiseColumns(table string) string {
	cols := []string{"id", "sprint_goal_id", "sprint_id", "text", "type", "schedule_days", "weekly_target", "sort_order"}
	for i, c := range cols {
		cols[i] = table + "." + c
	}
	return strings.Join(cols, ", ")
}

func scanPromise(s scanner) (*secondary.PromiseRecord, error) {
	var (
		days   sql.NullString
		target sql.NullInt64
	)
	p := &secondary.PromiseRecord{}
	if err := s.Scan(&p.ID, &p.SprintGoalID, &p.SprintID, &p.Text, &p.Type, &days, &target, &p.SortOrder); err != nil {
		return nil, fmt.Errorf("failed to scan promise: %w", err)
	}
	var err error
	if p.ScheduleDays, err = decodeDays(days); err != nil {
		return nil, err
	}
	p.WeeklyTarget = int(target.Int64)
	return p, nil
}

func scanSprint(s scanner) (*secondary.SprintRecord, error) {
	var createdAt time.Time
	record := &secondary.SprintRecord{}
	if err := s.Scan(&record.ID, &record.UserID, &record.Name, &record.StartDate, &record.EndDate, &createdAt); err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// Ensure SprintRepository implements the interface
var _ secondary.SprintRepository = (*SprintRepository)(nil)
