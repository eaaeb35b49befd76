// Package primary defines the primary ports (driving adapters) of pledge:
// the service interfaces the CLI and other callers use.
package primary

import "context"

// SprintService defines the primary port for sprint operations.
// Goals and promises are only changed through ReconcileService.
type SprintService interface {
	// CreateSprint creates an empty sprint for a user.
	CreateSprint(ctx context.Context, req CreateSprintRequest) (*Sprint, error)

	// GetSprint retrieves a sprint with its goal tree. Sprints owned by
	// another user fail with an AuthorizationError.
	GetSprint(ctx context.Context, sprintID, userID string) (*Sprint, error)

	// ListSprints lists a user's sprints, most recent first.
	ListSprints(ctx context.Context, userID string) ([]*Sprint, error)

	// DeleteSprint deletes a sprint with its goals, promises and logs.
	DeleteSprint(ctx context.Context, sprintID, userID string) error
}

// CreateSprintRequest contains parameters for creating a sprint.
type CreateSprintRequest struct {
	UserID    string `validate:"required"`
	Name      string `validate:"required,max=100"`
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"required,datetime=2006-01-02"`
}

// Sprint is a user's time box with its goal tree.
type Sprint struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	CreatedAt string `json:"createdAt"`
	Goals     []Goal `json:"goals"`
}

// Goal is a focus area within a sprint.
type Goal struct {
	ID        string    `json:"id"`
	SprintID  string    `json:"sprintId"`
	GoalID    string    `json:"goalId,omitempty"`
	GoalText  string    `json:"goalText"`
	SortOrder int       `json:"sortOrder"`
	Promises  []Promise `json:"promises"`
}

// Promise is a recurring binary commitment under a goal.
type Promise struct {
	ID           string `json:"id"`
	SprintGoalID string `json:"sprintGoalId"`
	SprintID     string `json:"sprintId"`
	Text         string `json:"text"`
	Type         string `json:"type"` // daily, weekly
	ScheduleDays []int  `json:"scheduleDays,omitempty"`
	WeeklyTarget int    `json:"weeklyTarget,omitempty"`
	SortOrder    int    `json:"sortOrder"`
}
