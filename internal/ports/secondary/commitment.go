// Package secondary defines the secondary ports (driven adapters) of pledge.
// These are the interfaces through which the application drives storage,
// caching and time.
package secondary

import "context"

// SprintRepository defines the secondary port for sprint persistence.
type SprintRepository interface {
	// Create persists a new sprint.
	Create(ctx context.Context, sprint *SprintRecord) error

	// GetByID retrieves a sprint by its ID.
	GetByID(ctx context.Context, id string) (*SprintRecord, error)

	// List retrieves a user's sprints, most recent start first.
	List(ctx context.Context, userID string) ([]*SprintRecord, error)

	// Delete removes a sprint; goals, promises and logs cascade.
	Delete(ctx context.Context, id string) error

	// ListGoalsWithPromises loads a sprint's goal tree in display order.
	ListGoalsWithPromises(ctx context.Context, sprintID string) ([]*GoalWithPromises, error)

	// ListGoalsForUserRange loads the goal trees of every sprint of the
	// user overlapping [start, end].
	ListGoalsForUserRange(ctx context.Context, userID, start, end string) ([]*GoalWithPromises, error)
}

// CommitmentStore runs reconciliations. WithinTx commits when fn returns
// nil and rolls back otherwise.
type CommitmentStore interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx CommitmentTx) error) error
}

// CommitmentTx is the set of writes a reconciliation may perform. All of
// them run inside one transaction.
type CommitmentTx interface {
	// SprintOwnedBy reports whether the sprint exists and belongs to userID.
	SprintOwnedBy(ctx context.Context, sprintID, userID string) (bool, error)

	// ListGoalsWithPromises loads the sprint's current goal tree.
	ListGoalsWithPromises(ctx context.Context, sprintID string) ([]*GoalWithPromises, error)

	// DeleteGoals deletes goals of the sprint in one statement.
	DeleteGoals(ctx context.Context, sprintID string, ids []string) error

	InsertGoal(ctx context.Context, goal *GoalRecord) error
	UpdateGoal(ctx context.Context, goal *GoalRecord) error

	// InsertPromises inserts a goal's new promises in one statement.
	InsertPromises(ctx context.Context, promises []*PromiseRecord) error
	UpdatePromise(ctx context.Context, promise *PromiseRecord) error

	// DeletePromises deletes promises of a goal in one statement.
	DeletePromises(ctx context.Context, goalID string, ids []string) error

	// DeleteLogForDate deletes one promise log and reports whether a row
	// was removed.
	DeleteLogForDate(ctx context.Context, promiseID, userID, date string) (bool, error)
}

// SprintRecord represents a sprint as stored in persistence.
type SprintRecord struct {
	ID        string
	UserID    string
	Name      string
	StartDate string
	EndDate   string
	CreatedAt string
}

// GoalRecord represents a sprint goal as stored in persistence.
type GoalRecord struct {
	ID        string
	SprintID  string
	GoalID    string // long-term objective, empty when unset
	GoalText  string
	SortOrder int
}

// PromiseRecord represents a promise as stored in persistence.
type PromiseRecord struct {
	ID           string
	SprintGoalID string
	SprintID     string
	Text         string
	Type         string
	ScheduleDays []int // daily only
	WeeklyTarget int   // weekly only
	SortOrder    int
}

// GoalWithPromises is a goal row with its promise rows.
type GoalWithPromises struct {
	Goal     *GoalRecord
	Promises []*PromiseRecord
}
