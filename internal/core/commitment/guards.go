// Package commitment contains the pure business logic for editing a sprint's
// goals and promises. Guards are pure functions that evaluate preconditions
// without side effects; the planner turns a desired goal set into a diff.
package commitment

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/core/schedule"
)

// Limits on the shape of a sprint.
const (
	MaxGoals            = 3
	MaxPromisesPerGoal  = 4
	MaxWeeklyTarget     = 7
	MaxPromiseTextRunes = 200
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Field   string
	Reason  string
}

// Err converts a refused guard result to a ValidationError naming promise.
// It returns nil when the guard allowed the operation.
func (r GuardResult) Err(promise string) error {
	if r.Allowed {
		return nil
	}
	return apperror.Invalid(promise, r.Field, r.Reason)
}

// Promise is a promise as submitted for saving. ID is empty for new promises.
type Promise struct {
	ID           string
	Text         string        `validate:"required,max=200"`
	Type         schedule.Type `validate:"required,oneof=daily weekly"`
	ScheduleDays []int         `validate:"omitempty,dive,min=0,max=6"`
	WeeklyTarget int           `validate:"min=0,max=7"`
	SortOrder    int
}

// Rule returns the recurrence part of the promise.
func (p Promise) Rule() schedule.Rule {
	return schedule.Rule{Type: p.Type, ScheduleDays: p.ScheduleDays, WeeklyTarget: p.WeeklyTarget}
}

// Goal is a goal as submitted for saving. ID is empty for new goals.
type Goal struct {
	ID        string
	GoalID    string // long-term objective reference, optional
	GoalText  string
	SortOrder int
	Promises  []Promise
}

// NormalizeText trims surrounding space and applies Unicode NFC so that
// visually identical text compares equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Normalize returns the canonical stored form of a promise: normalized text,
// sorted distinct days for daily promises and only the field that applies to
// the type.
func Normalize(p Promise) Promise {
	p.Text = NormalizeText(p.Text)
	switch p.Type {
	case schedule.TypeDaily:
		p.ScheduleDays = schedule.NormalizeDays(p.ScheduleDays)
		p.WeeklyTarget = 0
	case schedule.TypeWeekly:
		p.ScheduleDays = nil
	}
	return p
}

// CanSavePromise evaluates the type-specific rules of a promise.
// Rules:
// - daily promises need at least one scheduled weekday
// - weekly promises need a target of at least 1
func CanSavePromise(p Promise) GuardResult {
	switch p.Type {
	case schedule.TypeDaily:
		if len(p.ScheduleDays) == 0 {
			return GuardResult{Field: "scheduleDays", Reason: "must name at least one weekday for a daily promise"}
		}
	case schedule.TypeWeekly:
		if p.WeeklyTarget < 1 {
			return GuardResult{Field: "weeklyTarget", Reason: "must be at least 1 for a weekly promise"}
		}
	default:
		return GuardResult{Field: "type", Reason: fmt.Sprintf("must be daily or weekly (got %q)", p.Type)}
	}
	return GuardResult{Allowed: true}
}

// CanSaveGoal evaluates the shape rules of a goal.
// Rules:
// - goal text is required
// - a goal holds 1..MaxPromisesPerGoal promises
func CanSaveGoal(g Goal) GuardResult {
	if NormalizeText(g.GoalText) == "" {
		return GuardResult{Field: "goalText", Reason: "is required"}
	}
	if len(g.Promises) == 0 {
		return GuardResult{Field: "promises", Reason: fmt.Sprintf("goal %q needs at least one promise", g.GoalText)}
	}
	if len(g.Promises) > MaxPromisesPerGoal {
		return GuardResult{Field: "promises", Reason: fmt.Sprintf("goal %q has %d promises (max %d)", g.GoalText, len(g.Promises), MaxPromisesPerGoal)}
	}
	return GuardResult{Allowed: true}
}

// CanSaveSprintGoals evaluates the goal count of a sprint.
// Rules:
// - a sprint holds 1..MaxGoals goals
func CanSaveSprintGoals(goals []Goal) GuardResult {
	if len(goals) == 0 {
		return GuardResult{Field: "goals", Reason: "a sprint needs at least one goal"}
	}
	if len(goals) > MaxGoals {
		return GuardResult{Field: "goals", Reason: fmt.Sprintf("%d goals submitted (max %d)", len(goals), MaxGoals)}
	}
	return GuardResult{Allowed: true}
}
