package commitment

import (
	"fmt"

	"github.com/example/pledge/internal/apperror"
	"github.com/example/pledge/internal/core/schedule"
)

var validate = apperror.NewValidator()

// PromiseUpdate is an existing promise whose stored row must be rewritten.
// ScheduleChanged is set when text or recurrence differ; only then is
// today's completion log invalidated.
type PromiseUpdate struct {
	Promise         Promise
	ScheduleChanged bool
}

// GoalPlan is the diff for one goal of the desired set.
type GoalPlan struct {
	Goal             Goal // normalized, ID assigned; Promises is left empty
	Create           bool
	GoalChanged      bool
	CreatePromises   []Promise
	UpdatePromises   []PromiseUpdate
	DeletePromiseIDs []string
}

// ReconcilePlan is the full three-way diff of a sprint, computed before any write.
// Goal deletes are listed separately because they are applied first.
type ReconcilePlan struct {
	DeleteGoalIDs []string
	Goals         []GoalPlan
}

// Counts summarizes the plan for logging.
type Counts struct {
	GoalsCreated     int
	GoalsUpdated     int
	GoalsDeleted     int
	PromisesCreated  int
	PromisesUpdated  int
	PromisesDeleted  int
	SchedulesChanged int
}

// Counts tallies the operations in the plan.
func (p *ReconcilePlan) Counts() Counts {
	c := Counts{GoalsDeleted: len(p.DeleteGoalIDs)}
	for _, g := range p.Goals {
		switch {
		case g.Create:
			c.GoalsCreated++
		case g.GoalChanged:
			c.GoalsUpdated++
		}
		c.PromisesCreated += len(g.CreatePromises)
		c.PromisesUpdated += len(g.UpdatePromises)
		c.PromisesDeleted += len(g.DeletePromiseIDs)
		for _, u := range g.UpdatePromises {
			if u.ScheduleChanged {
				c.SchedulesChanged++
			}
		}
	}
	return c
}

// Empty reports whether applying the plan would change nothing.
func (p *ReconcilePlan) Empty() bool {
	c := p.Counts()
	return c == Counts{}
}

// Plan diffs the desired goals of a sprint against the persisted ones.
// Every desired goal and promise is validated before the diff is computed,
// so an invalid payload never yields a partial plan. Sort orders follow the
// submitted positions. newID supplies identifiers for created rows.
func Plan(current, desired []Goal, newID func() string) (*ReconcilePlan, error) {
	if err := ValidateGoals(desired); err != nil {
		return nil, err
	}

	currentByID := make(map[string]Goal, len(current))
	for _, g := range current {
		currentByID[g.ID] = g
	}

	plan := &ReconcilePlan{}
	kept := make(map[string]bool, len(desired))
	for _, g := range desired {
		if g.ID == "" {
			continue
		}
		if _, ok := currentByID[g.ID]; !ok {
			return nil, apperror.NotFound("goal", g.ID)
		}
		kept[g.ID] = true
	}
	for _, g := range current {
		if !kept[g.ID] {
			plan.DeleteGoalIDs = append(plan.DeleteGoalIDs, g.ID)
		}
	}

	for i, g := range desired {
		gp, err := planGoal(currentByID, g, i, newID)
		if err != nil {
			return nil, err
		}
		plan.Goals = append(plan.Goals, gp)
	}
	return plan, nil
}

func planGoal(currentByID map[string]Goal, g Goal, pos int, newID func() string) (GoalPlan, error) {
	want := Goal{
		ID:        g.ID,
		GoalID:    NormalizeText(g.GoalID),
		GoalText:  NormalizeText(g.GoalText),
		SortOrder: pos,
	}

	cur, exists := currentByID[g.ID]
	gp := GoalPlan{Create: !exists}
	if !exists {
		want.ID = newID()
	} else {
		gp.GoalChanged = cur.GoalID != want.GoalID ||
			NormalizeText(cur.GoalText) != want.GoalText ||
			cur.SortOrder != want.SortOrder
	}
	gp.Goal = want

	curPromises := make(map[string]Promise, len(cur.Promises))
	for _, p := range cur.Promises {
		curPromises[p.ID] = p
	}

	kept := make(map[string]bool, len(g.Promises))
	for i, p := range g.Promises {
		p = Normalize(p)
		p.SortOrder = i
		if p.ID == "" {
			p.ID = newID()
			gp.CreatePromises = append(gp.CreatePromises, p)
			continue
		}
		old, ok := curPromises[p.ID]
		if !ok {
			return GoalPlan{}, apperror.NotFound("promise", p.ID)
		}
		kept[p.ID] = true
		changed := ScheduleChanged(old, p)
		if changed || old.SortOrder != p.SortOrder {
			gp.UpdatePromises = append(gp.UpdatePromises, PromiseUpdate{Promise: p, ScheduleChanged: changed})
		}
	}
	for _, p := range cur.Promises {
		if !kept[p.ID] {
			gp.DeletePromiseIDs = append(gp.DeletePromiseIDs, p.ID)
		}
	}
	return gp, nil
}

// ScheduleChanged compares the fields whose change invalidates today's log:
// text, type, schedule days and weekly target.
func ScheduleChanged(old, next Promise) bool {
	if NormalizeText(old.Text) != NormalizeText(next.Text) {
		return true
	}
	return !schedule.SameRule(old.Rule(), next.Rule())
}

// ValidateGoals checks the shape of a desired goal set: counts, goal text,
// duplicate identifiers and every promise's fields.
func ValidateGoals(goals []Goal) error {
	if err := CanSaveSprintGoals(goals).Err(""); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, g := range goals {
		if err := CanSaveGoal(g).Err(""); err != nil {
			return err
		}
		if g.ID != "" {
			if seen[g.ID] {
				return apperror.Invalid("", "goal id", fmt.Sprintf("%s appears more than once", g.ID))
			}
			seen[g.ID] = true
		}
		for i, p := range g.Promises {
			name := promiseName(g, p, i)
			if p.ID != "" {
				if seen[p.ID] {
					return apperror.Invalid(name, "id", "appears more than once")
				}
				seen[p.ID] = true
			}
			if err := ValidatePromise(name, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidatePromise checks a single promise after normalization. name is used
// to identify the promise in the returned ValidationError.
func ValidatePromise(name string, p Promise) error {
	p = Normalize(p)
	if err := validate.Struct(p); err != nil {
		return apperror.FromValidator(name, err)
	}
	return CanSavePromise(p).Err(name)
}

func promiseName(g Goal, p Promise, pos int) string {
	if text := NormalizeText(p.Text); text != "" {
		return text
	}
	return fmt.Sprintf("#%d in goal %q", pos+1, NormalizeText(g.GoalText))
}
