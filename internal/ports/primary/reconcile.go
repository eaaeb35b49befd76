package primary

import "context"

// ReconcileService defines the primary port for editing a sprint's goals.
type ReconcileService interface {
	// Reconcile makes the persisted goals and promises of a sprint match
	// the desired set in one transaction. Existing rows are identified by
	// ID; rows without an ID are created and persisted rows missing from
	// the set are deleted with their logs.
	Reconcile(ctx context.Context, req ReconcileRequest) (*ReconcileResult, error)
}

// ReconcileRequest contains the desired goal set of a sprint.
type ReconcileRequest struct {
	SprintID string
	UserID   string
	Goals    []DesiredGoal
}

// DesiredGoal is a goal as submitted by the user. It doubles as the plan
// file format.
type DesiredGoal struct {
	ID       string           `yaml:"id,omitempty"`
	GoalID   string           `yaml:"goalId,omitempty"`
	GoalText string           `yaml:"goal"`
	Promises []DesiredPromise `yaml:"promises"`
}

// DesiredPromise is a promise as submitted by the user.
type DesiredPromise struct {
	ID           string `yaml:"id,omitempty"`
	Text         string `yaml:"text"`
	Type         string `yaml:"type"`
	ScheduleDays []int  `yaml:"scheduleDays,omitempty,flow"`
	WeeklyTarget int    `yaml:"weeklyTarget,omitempty"`
}

// ReconcileResult reports what a reconciliation changed.
type ReconcileResult struct {
	GoalsCreated    int
	GoalsUpdated    int
	GoalsDeleted    int
	PromisesCreated int
	PromisesUpdated int
	PromisesDeleted int
	LogsInvalidated int
}
